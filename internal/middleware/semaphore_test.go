package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotConcurrencyLimiterRejectsBeyondLimit(t *testing.T) {
	e := echo.New()
	release := make(chan struct{})
	var entered sync.WaitGroup
	entered.Add(2)

	mw := BotConcurrencyLimiter(2)
	handler := mw(func(c echo.Context) error {
		entered.Done()
		<-release
		return c.NoContent(http.StatusOK)
	})

	results := make(chan int, 3)
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/verify/claim", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			require.NoError(t, handler(c))
			results <- rec.Code
		}()
	}

	entered.Wait()
	close(release)
	wg.Wait()
	close(results)

	var ok, limited int
	for code := range results {
		switch code {
		case http.StatusOK:
			ok++
		case http.StatusTooManyRequests:
			limited++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 2, ok)
	assert.Equal(t, 1, limited)
}
