package presenters

import (
	"ahaar-backend/domain"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	Response struct {
		Status  bool        `json:"status"`
		Message string      `json:"message"`
		Data    interface{} `json:"data,omitempty"`
		Error   string      `json:"error,omitempty"`
		Errors  []string    `json:"errors,omitempty"`
	}

	PaginatedData struct {
		Items      interface{}       `json:"items"`
		Pagination domain.Pagination `json:"pagination"`
	}
)

func SuccessResponse(c *fiber.Ctx, data interface{}, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func PaginatedResponse(c *fiber.Ctx, items interface{}, page, limit int, total int64, message string) error {
	return SuccessResponse(c, PaginatedData{
		Items:      items,
		Pagination: domain.NewPagination(page, limit, total),
	}, fiber.StatusOK, message)
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		res.Error = domain.ErrValidation.Error()
		for _, fe := range validationErrors {
			res.Errors = append(res.Errors, fe.Field()+": failed on "+fe.Tag())
		}
	} else if err != nil {
		res.Error = publicMessage(err)
	}

	return c.Status(statusCode).JSON(res)
}

// ServiceErrorResponse derives the status code from the error kind.
func ServiceErrorResponse(c *fiber.Ctx, message string, err error) error {
	return ErrorResponse(c, StatusFromError(err), message, err)
}

func StatusFromError(err error) int {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, domain.ErrValidation), errors.As(err, &validationErrors):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenNotFound):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// publicMessage hides store and driver errors from clients.
func publicMessage(err error) string {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) && !errors.Is(err, domain.ErrDependency) {
		return domainErr.Message
	}
	if StatusFromError(err) == fiber.StatusUnauthorized {
		return err.Error()
	}
	return domain.MessageFailedProcessRequest
}
