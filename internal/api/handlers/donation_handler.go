package handlers

import (
	"ahaar-backend/domain"
	"ahaar-backend/internal/api/presenters"
	"ahaar-backend/pkg/donation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	DonationHandler interface {
		ListAvailable(c *fiber.Ctx) error
		CreateDonation(c *fiber.Ctx) error
		GetMyDonations(c *fiber.Ctx) error
		GetClaimedDonations(c *fiber.Ctx) error
		GetDonationByID(c *fiber.Ctx) error
		GetDonorProfile(c *fiber.Ctx) error
		UpdateDonation(c *fiber.Ctx) error
		DeleteDonation(c *fiber.Ctx) error
		ClaimDonation(c *fiber.Ctx) error
		CompleteDonation(c *fiber.Ctx) error
		ToggleLike(c *fiber.Ctx) error
		SubmitFeedback(c *fiber.Ctx) error
	}

	donationHandler struct {
		donationService donation.DonationService
		validator       *validator.Validate
	}
)

func NewDonationHandler(donationService donation.DonationService, validator *validator.Validate) DonationHandler {
	return &donationHandler{
		donationService: donationService,
		validator:       validator,
	}
}

func (h *donationHandler) ListAvailable(c *fiber.Ctx) error {
	page, limit := paginationQuery(c)

	donations, count, err := h.donationService.ListAvailable(c.Context(), page, limit)
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetDonations, err)
	}

	return presenters.PaginatedResponse(c, donations, page, limit, count, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) CreateDonation(c *fiber.Ctx) error {
	userID := sessionUserID(c)

	req := new(domain.CreateDonationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	// optional, only present on multipart requests
	req.Image, _ = c.FormFile("image")

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDonation, err)
	}

	res, err := h.donationService.CreateDonation(c.Context(), *req, userID)
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedCreateDonation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateDonation)
}

func (h *donationHandler) GetMyDonations(c *fiber.Ctx) error {
	page, limit := paginationQuery(c)

	donations, count, err := h.donationService.GetMyDonations(c.Context(), sessionUserID(c), page, limit)
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetDonations, err)
	}

	return presenters.PaginatedResponse(c, donations, page, limit, count, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) GetClaimedDonations(c *fiber.Ctx) error {
	page, limit := paginationQuery(c)

	donations, count, err := h.donationService.GetClaimedDonations(c.Context(), sessionUserID(c), page, limit)
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetDonations, err)
	}

	return presenters.PaginatedResponse(c, donations, page, limit, count, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) GetDonationByID(c *fiber.Ctx) error {
	res, err := h.donationService.GetDonationByID(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) GetDonorProfile(c *fiber.Ctx) error {
	res, err := h.donationService.GetDonorProfile(c.Context(), c.Params("donorId"))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetDonorProfile, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDonorProfile)
}

func (h *donationHandler) UpdateDonation(c *fiber.Ctx) error {
	req := new(domain.UpdateDonationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateDonation, err)
	}

	res, err := h.donationService.UpdateDonation(c.Context(), c.Params("id"), *req, sessionUserID(c))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedUpdateDonation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateDonation)
}

func (h *donationHandler) DeleteDonation(c *fiber.Ctx) error {
	if err := h.donationService.DeleteDonation(c.Context(), c.Params("id"), sessionUserID(c)); err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedDeleteDonation, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteDonation)
}

func (h *donationHandler) ClaimDonation(c *fiber.Ctx) error {
	userID := sessionUserID(c)

	req := new(domain.ClaimDonationRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedClaimDonation, err)
	}

	if req.ClaimerID != "" && req.ClaimerID != userID {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedClaimDonation, domain.ErrClaimerMismatch)
	}

	res, err := h.donationService.ClaimDonation(c.Context(), c.Params("id"), userID, req.ClaimerName)
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedClaimDonation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessClaimDonation)
}

func (h *donationHandler) CompleteDonation(c *fiber.Ctx) error {
	res, err := h.donationService.CompleteDonation(c.Context(), c.Params("id"), sessionUserID(c))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedCompleteDonation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessCompleteDonation)
}

func (h *donationHandler) ToggleLike(c *fiber.Ctx) error {
	res, err := h.donationService.ToggleLike(c.Context(), c.Params("id"), sessionUserID(c))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedToggleLike, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessToggleLike)
}

func (h *donationHandler) SubmitFeedback(c *fiber.Ctx) error {
	req := new(domain.SubmitFeedbackRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSubmitFeedback, err)
	}

	res, err := h.donationService.SubmitFeedback(c.Context(), c.Params("id"), sessionUserID(c), *req)
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedSubmitFeedback, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSubmitFeedback)
}
