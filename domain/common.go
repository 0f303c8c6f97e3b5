package domain

import (
	"errors"
)

const (
	RoleIndividual = "individual"
	RoleRestaurant = "restaurant"
	RoleNGO        = "ngo"
	RoleAdmin      = "admin"
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrParseUUID      = NewValidationError("failed to parse UUID")
	ErrUserNotAllowed = NewForbiddenError("user not allowed")
	ErrUserNotFound   = NewNotFoundError("user not found")
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
)

// IsDonorType reports whether users of this type are donors by account and
// always carry rating statistics.
func IsDonorType(userType string) bool {
	return userType == RoleIndividual || userType == RoleRestaurant
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	var pages int64
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}
