package handlers

import (
	"ahaar-backend/domain"
	"ahaar-backend/internal/api/presenters"
	"ahaar-backend/pkg/ledger"
	"ahaar-backend/pkg/ngoprofile"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	NGOProfileHandler interface {
		CreateProfile(c *fiber.Ctx) error
		ListProfiles(c *fiber.Ctx) error
		GetProfile(c *fiber.Ctx) error
		GetProfileByNGO(c *fiber.Ctx) error
		AddNeed(c *fiber.Ctx) error
		RemoveNeed(c *fiber.Ctx) error
		DonateToNeed(c *fiber.Ctx) error
		GetProfileDonations(c *fiber.Ctx) error
		GetMyMoneyDonations(c *fiber.Ctx) error
	}

	ngoProfileHandler struct {
		profileService ngoprofile.NGOProfileService
		ledgerService  ledger.LedgerService
		validator      *validator.Validate
	}
)

func NewNGOProfileHandler(profileService ngoprofile.NGOProfileService, ledgerService ledger.LedgerService, validator *validator.Validate) NGOProfileHandler {
	return &ngoProfileHandler{
		profileService: profileService,
		ledgerService:  ledgerService,
		validator:      validator,
	}
}

func (h *ngoProfileHandler) CreateProfile(c *fiber.Ctx) error {
	req := new(domain.CreateProfileRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateProfile, err)
	}

	res, err := h.profileService.CreateProfile(c.Context(), *req, sessionUserID(c))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedCreateProfile, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateProfile)
}

func (h *ngoProfileHandler) ListProfiles(c *fiber.Ctx) error {
	page, limit := paginationQuery(c)

	profiles, count, err := h.profileService.ListProfiles(c.Context(), page, limit)
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetProfiles, err)
	}

	return presenters.PaginatedResponse(c, profiles, page, limit, count, domain.MessageSuccessGetProfiles)
}

func (h *ngoProfileHandler) GetProfile(c *fiber.Ctx) error {
	res, err := h.profileService.GetProfile(c.Context(), c.Params("profileId"))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetProfiles, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetProfiles)
}

func (h *ngoProfileHandler) GetProfileByNGO(c *fiber.Ctx) error {
	res, err := h.profileService.GetProfileByNGO(c.Context(), c.Params("ngoId"))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetProfiles, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetProfiles)
}

func (h *ngoProfileHandler) AddNeed(c *fiber.Ctx) error {
	req := new(domain.AddNeedRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddNeed, err)
	}

	res, err := h.profileService.AddNeed(c.Context(), c.Params("profileId"), *req, sessionUserID(c))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedAddNeed, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddNeed)
}

func (h *ngoProfileHandler) RemoveNeed(c *fiber.Ctx) error {
	res, err := h.profileService.RemoveNeed(c.Context(), c.Params("profileId"), c.Params("needId"), sessionUserID(c))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedRemoveNeed, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRemoveNeed)
}

func (h *ngoProfileHandler) DonateToNeed(c *fiber.Ctx) error {
	req := new(domain.DonateMoneyRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDonateMoney, err)
	}

	res, err := h.ledgerService.Donate(c.Context(), c.Params("profileId"), c.Params("needId"), *req, sessionUserID(c))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedDonateMoney, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessDonateMoney)
}

func (h *ngoProfileHandler) GetProfileDonations(c *fiber.Ctx) error {
	page, limit := paginationQuery(c)

	donations, count, err := h.ledgerService.GetProfileHistory(c.Context(), c.Params("profileId"), page, limit)
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetMoneyHistory, err)
	}

	return presenters.PaginatedResponse(c, donations, page, limit, count, domain.MessageSuccessGetMoneyHistory)
}

func (h *ngoProfileHandler) GetMyMoneyDonations(c *fiber.Ctx) error {
	page, limit := paginationQuery(c)

	donations, count, err := h.ledgerService.GetDonorHistory(c.Context(), sessionUserID(c), page, limit)
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetMoneyHistory, err)
	}

	return presenters.PaginatedResponse(c, donations, page, limit, count, domain.MessageSuccessGetMoneyHistory)
}
