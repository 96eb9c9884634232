package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahyen/ticket-exchange/internal/apperr"
)

// CreateTicket's price guard is checked before any repository is
// touched, so it is safe to exercise against a zero-value Lifecycle
// without a database connection.
func TestCreateTicketRejectsNegativePriceBeforeTouchingRepositories(t *testing.T) {
	l := &Lifecycle{}
	_, err := l.CreateTicket(context.Background(), uuid.New(), uuid.New(), "Upper", "A", "1", "12", -100)
	require.Error(t, err)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindInvalidInput, ae.Kind)
}
