package handlers

import (
	"ahaar-backend/domain"
	"ahaar-backend/internal/api/presenters"
	"ahaar-backend/pkg/donation"
	"ahaar-backend/pkg/ledger"
	"ahaar-backend/pkg/rating"

	"github.com/gofiber/fiber/v2"
)

type (
	// AdminHandler exposes the repair jobs. Routes are gated to the admin role.
	AdminHandler interface {
		RecalculateRatings(c *fiber.Ctx) error
		RecountLikes(c *fiber.Ctx) error
		SweepExpired(c *fiber.Ctx) error
		ReconcileLedger(c *fiber.Ctx) error
	}

	adminHandler struct {
		donationService donation.DonationService
		ratingService   rating.RatingService
		ledgerService   ledger.LedgerService
	}
)

func NewAdminHandler(donationService donation.DonationService, ratingService rating.RatingService, ledgerService ledger.LedgerService) AdminHandler {
	return &adminHandler{
		donationService: donationService,
		ratingService:   ratingService,
		ledgerService:   ledgerService,
	}
}

func (h *adminHandler) RecalculateRatings(c *fiber.Ctx) error {
	res, err := h.ratingService.RecalculateAll(c.Context())
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedRecalculateRatings, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRecalculateRatings)
}

func (h *adminHandler) RecountLikes(c *fiber.Ctx) error {
	corrected, err := h.donationService.RecountLikes(c.Context())
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedRecountLikes, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"corrected": corrected}, fiber.StatusOK, domain.MessageSuccessRecountLikes)
}

func (h *adminHandler) SweepExpired(c *fiber.Ctx) error {
	expired, err := h.donationService.SweepExpired(c.Context())
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedSweepDonations, err)
	}

	return presenters.SuccessResponse(c, domain.SweepResult{Expired: expired}, fiber.StatusOK, domain.MessageSuccessSweepDonations)
}

func (h *adminHandler) ReconcileLedger(c *fiber.Ctx) error {
	res, err := h.ledgerService.Reconcile(c.Context())
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedReconcileLedger, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessReconcileLedger)
}
