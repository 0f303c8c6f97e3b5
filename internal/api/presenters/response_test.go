package presenters

import (
	"ahaar-backend/domain"
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrDonationNotAvailable, fiber.StatusConflict},
		{domain.ErrSelfClaim, fiber.StatusForbidden},
		{domain.ErrDonationNotFound, fiber.StatusNotFound},
		{domain.ErrInvalidRating, fiber.StatusBadRequest},
		{fmt.Errorf("claim: %w", domain.ErrFeedbackExists), fiber.StatusConflict},
		{domain.ErrTokenExpired, fiber.StatusUnauthorized},
		{domain.DependencyError("notify", errors.New("down")), fiber.StatusInternalServerError},
		{errors.New("connection reset"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFromError(tt.err), tt.err.Error())
	}
}

func TestPublicMessageHidesInternalErrors(t *testing.T) {
	assert.Equal(t, "donation not found", publicMessage(domain.ErrDonationNotFound))
	assert.Equal(t, domain.MessageFailedProcessRequest, publicMessage(errors.New("pq: relation does not exist")))
}
