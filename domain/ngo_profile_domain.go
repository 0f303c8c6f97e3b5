package domain

import (
	"time"
)

const (
	NeedTypeFood     = "food"
	NeedTypeMedical  = "medical"
	NeedTypeClothing = "clothing"
	NeedTypeMoney    = "money"
	NeedTypeOther    = "other"
)

var (
	MessageSuccessCreateProfile = "NGO profile created successfully"
	MessageSuccessGetProfiles   = "NGO profiles retrieved successfully"
	MessageSuccessAddNeed       = "need added successfully"
	MessageSuccessRemoveNeed    = "need removed successfully"

	MessageFailedCreateProfile = "failed to create NGO profile"
	MessageFailedGetProfiles   = "failed to retrieve NGO profiles"
	MessageFailedAddNeed       = "failed to add need"
	MessageFailedRemoveNeed    = "failed to remove need"

	ErrProfileNotFound     = NewNotFoundError("NGO profile not found")
	ErrProfileExists       = NewConflictError("this NGO already has a profile")
	ErrNeedNotFound        = NewNotFoundError("need not found")
	ErrNotNGO              = NewForbiddenError("only NGO accounts can manage NGO profiles")
	ErrNotProfileOwner     = NewForbiddenError("only the owning NGO can change this profile")
	ErrInvalidTargetAmount = NewValidationError("money needs require a target amount greater than zero")
)

type (
	CreateProfileRequest struct {
		OrganizationName string `json:"organization_name" validate:"required,max=200"`
		Description      string `json:"description" validate:"omitempty,max=2000"`
		Address          string `json:"address" validate:"omitempty,max=300"`
		Phone            string `json:"phone" validate:"omitempty,max=20"`
	}

	AddNeedRequest struct {
		Type          string  `json:"type" validate:"required,oneof=food medical clothing money other"`
		Description   string  `json:"description" validate:"required,max=1000"`
		TargetAmount  float64 `json:"target_amount" validate:"omitempty,gte=0"`
		CurrentAmount float64 `json:"current_amount" validate:"omitempty,gte=0"`
	}

	Need struct {
		ID            string  `json:"id"`
		Type          string  `json:"type"`
		Description   string  `json:"description"`
		TargetAmount  float64 `json:"target_amount,omitempty"`
		CurrentAmount float64 `json:"current_amount,omitempty"`
		GoalReached   bool    `json:"goal_reached,omitempty"`
	}

	NGOProfile struct {
		ID                     string    `json:"id"`
		NGOID                  string    `json:"ngo_id"`
		OrganizationName       string    `json:"organization_name"`
		Description            string    `json:"description"`
		Address                string    `json:"address"`
		Phone                  string    `json:"phone"`
		TotalDonationsReceived float64   `json:"total_donations_received"`
		Needs                  []Need    `json:"needs"`
		CreatedAt              time.Time `json:"created_at"`
	}
)
