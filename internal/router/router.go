package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/fahyen/ticket-exchange/internal/config"
	"github.com/fahyen/ticket-exchange/internal/handler"
	appmw "github.com/fahyen/ticket-exchange/internal/middleware"
)

// Deps bundles everything RegisterRoutes needs to wire the handler
// tree: the domain handlers plus the config/clients that parametrize
// the admission-layer middleware.
type Deps struct {
	Ticket       *handler.TicketHandler
	Reservation  *handler.ReservationHandler
	Verification *handler.VerificationHandler
	Admin        *handler.AdminHandler
	Webhook      *handler.WebhookHandler

	JWTSecret   string
	AdminAPIKey string
	BotAPIKey   string

	RateLimit      config.RateLimitConfig
	BotConcurrency int

	Cache    config.CacheConfig
	RedisCli *redis.Client
}

func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	buyerOrSeller := appmw.JWTAuth(d.JWTSecret)
	jwtOrAdmin := appmw.JWTOrAdmin(d.JWTSecret, d.AdminAPIKey)
	adminAuth := appmw.RequireSharedSecret("Authorization", d.AdminAPIKey, "admin")
	botAuth := appmw.RequireSharedSecret("Authorization", d.BotAPIKey, "bot")
	botLimiter := appmw.BotConcurrencyLimiter(d.BotConcurrency)
	reserveLimiter := appmw.NewReserveRateLimiter(d.RateLimit)
	listingCache := appmw.NewRedisCache(d.Cache, d.RedisCli)

	api := e.Group("/api")

	tickets := api.Group("/tickets")
	tickets.GET("", d.Ticket.List, listingCache)
	tickets.GET("/my-listings", d.Ticket.MyListings, buyerOrSeller)
	tickets.GET("/:id", d.Ticket.Get)
	tickets.POST("", d.Ticket.Create, buyerOrSeller)
	tickets.POST("/claim", d.Verification.Claim, botAuth, botLimiter)
	tickets.PATCH("/:id/verify", d.Verification.Verify, botAuth, botLimiter)
	tickets.DELETE("/:id/unclaim", d.Verification.Unclaim, botAuth, botLimiter)
	tickets.PATCH("/:id", d.Ticket.Update, jwtOrAdmin, appmw.RequireRole("seller", "buyer", "admin"))
	tickets.POST("/:id/reserve", d.Reservation.Reserve, buyerOrSeller, reserveLimiter)
	tickets.POST("/:id/sold", d.Admin.MarkSold, buyerOrSeller)

	admin := api.Group("/admin", adminAuth)
	admin.POST("/tickets/:id/refund/start", d.Admin.StartRefund)
	admin.POST("/tickets/:id/refund/complete", d.Admin.CompleteRefund)

	api.POST("/webhooks/stripe", d.Webhook.Handle)
}
