package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fahyen/ticket-exchange/internal/apperr"
	"github.com/fahyen/ticket-exchange/internal/model"
	"github.com/fahyen/ticket-exchange/internal/service"
	"github.com/fahyen/ticket-exchange/internal/utils"
)

// TicketHandler exposes the public listing surface: creating a
// listing, browsing verified tickets for a game, a seller's own
// listings, reading a single ticket, and the mixed JWT-or-admin update
// endpoint.
type TicketHandler struct {
	Lifecycle *service.Lifecycle
}

func NewTicketHandler(l *service.Lifecycle) *TicketHandler {
	if l == nil {
		panic("handler: nil lifecycle service")
	}
	return &TicketHandler{Lifecycle: l}
}

type createTicketReq struct {
	GameID     string `json:"game_id" validate:"required,uuid"`
	Level      string `json:"level" validate:"required"`
	Section    string `json:"seat_section" validate:"required"`
	Row        string `json:"seat_row" validate:"required"`
	SeatNumber string `json:"seat_number" validate:"required"`
	Price      int64  `json:"price" validate:"gte=0"`
}

// Create lists a new ticket for sale (T1). Caller must be an
// authenticated buyer or seller.
func (h *TicketHandler) Create(c echo.Context) error {
	var req createTicketReq
	if err := utils.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err)
	}

	sellerID, err := callerIDFromContext(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	gameID, err := uuid.Parse(req.GameID)
	if err != nil {
		return apperr.Respond(c, apperr.InvalidInput("invalid game_id"))
	}

	t, err := h.Lifecycle.CreateTicket(c.Request().Context(), sellerID, gameID, req.Level, req.Section, req.Row, req.SeatNumber, req.Price)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// List returns verified tickets available for a game.
func (h *TicketHandler) List(c echo.Context) error {
	gameID, err := uuid.Parse(c.QueryParam("game_id"))
	if err != nil {
		return apperr.Respond(c, apperr.InvalidInput("invalid or missing game_id query param"))
	}
	ts, err := h.Lifecycle.ListVerified(c.Request().Context(), gameID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": ts})
}

// MyListings returns every ticket the caller has listed, optionally
// filtered by the ?status= query parameter.
func (h *TicketHandler) MyListings(c echo.Context) error {
	sellerID, err := callerIDFromContext(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	var status *model.TicketStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := model.TicketStatus(raw)
		if !validTicketStatus(s) {
			return apperr.Respond(c, apperr.InvalidInput("invalid status"))
		}
		status = &s
	}

	ts, err := h.Lifecycle.ListMyListings(c.Request().Context(), sellerID, status)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": ts})
}

// Get returns a single ticket by id.
func (h *TicketHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Respond(c, apperr.InvalidInput("invalid ticket id"))
	}
	t, err := h.Lifecycle.GetTicket(c.Request().Context(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

type updateTicketReq struct {
	Status *string `json:"status"`
	Price  *int64  `json:"price"`
}

// Update is the mixed JWT-or-admin ticket edit surface: a seller
// cancelling their own listing (T9) or editing its asking price. Admin
// callers bypass the ownership check; seller callers must own the
// ticket or receive Forbidden.
func (h *TicketHandler) Update(c echo.Context) error {
	var req updateTicketReq
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.InvalidInput("malformed request body"))
	}
	if req.Status == nil && req.Price == nil {
		return apperr.Respond(c, apperr.InvalidInput("status or price required"))
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Respond(c, apperr.InvalidInput("invalid ticket id"))
	}

	isAdmin := c.Get("role") == "admin"
	var sellerID uuid.UUID
	if !isAdmin {
		sellerID, err = callerIDFromContext(c)
		if err != nil {
			return apperr.Respond(c, err)
		}
		t, err := h.Lifecycle.GetTicket(c.Request().Context(), ticketID)
		if err != nil {
			return apperr.Respond(c, err)
		}
		if t.SellerID != sellerID {
			return apperr.Respond(c, apperr.Forbidden("not the owner of this ticket"))
		}
	}

	var t *model.Ticket
	switch {
	case req.Status != nil:
		if model.TicketStatus(*req.Status) != model.StatusCancelled {
			return apperr.Respond(c, apperr.InvalidInput("status must be cancelled"))
		}
		if isAdmin {
			sellerID, err = adminTargetSeller(c, h, ticketID)
			if err != nil {
				return apperr.Respond(c, err)
			}
		}
		t, err = h.Lifecycle.CancelTicket(c.Request().Context(), ticketID, sellerID)
	default:
		if isAdmin {
			sellerID, err = adminTargetSeller(c, h, ticketID)
			if err != nil {
				return apperr.Respond(c, err)
			}
		}
		t, err = h.Lifecycle.UpdatePrice(c.Request().Context(), ticketID, sellerID, *req.Price)
	}
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// adminTargetSeller resolves the owning seller id of a ticket an admin
// is editing, since the admin caller carries no seller identity of
// their own and the guarded UPDATE still requires one.
func adminTargetSeller(c echo.Context, h *TicketHandler, ticketID uuid.UUID) (uuid.UUID, error) {
	t, err := h.Lifecycle.GetTicket(c.Request().Context(), ticketID)
	if err != nil {
		return uuid.UUID{}, err
	}
	return t.SellerID, nil
}

func validTicketStatus(s model.TicketStatus) bool {
	switch s {
	case model.StatusUnverified, model.StatusVerifying, model.StatusVerified,
		model.StatusReserved, model.StatusPaid, model.StatusSold,
		model.StatusRefunding, model.StatusCancelled:
		return true
	default:
		return false
	}
}

// callerIDFromContext reads the 'sub' claim middleware.JWTAuth stored
// in context and parses it as the caller's user id.
func callerIDFromContext(c echo.Context) (uuid.UUID, error) {
	v, _ := c.Get("user_id").(string)
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.UUID{}, apperr.Unauthorized("missing or invalid caller identity")
	}
	return id, nil
}
