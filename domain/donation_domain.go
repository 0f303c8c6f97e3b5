package domain

import (
	"mime/multipart"
	"time"
)

const (
	DonationStatusAvailable = "available"
	DonationStatusClaimed   = "claimed"
	DonationStatusCompleted = "completed"
	DonationStatusExpired   = "expired"

	CategoryFood     = "food"
	CategoryClothing = "clothing"
	CategoryMedical  = "medical"
	CategoryOther    = "other"

	MinRating = 1
	MaxRating = 5
)

var DonationCategories = []string{CategoryFood, CategoryClothing, CategoryMedical, CategoryOther}

var (
	MessageSuccessCreateDonation   = "donation created successfully"
	MessageSuccessGetDonations     = "donations retrieved successfully"
	MessageSuccessUpdateDonation   = "donation updated successfully"
	MessageSuccessDeleteDonation   = "donation deleted successfully"
	MessageSuccessClaimDonation    = "donation claimed successfully"
	MessageSuccessCompleteDonation = "donation marked as completed"
	MessageSuccessToggleLike       = "donation like toggled"
	MessageSuccessSubmitFeedback   = "feedback submitted successfully"
	MessageSuccessGetDonorProfile  = "donor profile retrieved successfully"
	MessageSuccessSweepDonations   = "expired donations swept"
	MessageSuccessRecountLikes     = "donation likes recounted"

	MessageFailedCreateDonation   = "failed to create donation"
	MessageFailedGetDonations     = "failed to retrieve donations"
	MessageFailedUpdateDonation   = "failed to update donation"
	MessageFailedDeleteDonation   = "failed to delete donation"
	MessageFailedClaimDonation    = "failed to claim donation"
	MessageFailedCompleteDonation = "failed to complete donation"
	MessageFailedToggleLike       = "failed to toggle like"
	MessageFailedSubmitFeedback   = "failed to submit feedback"
	MessageFailedGetDonorProfile  = "failed to retrieve donor profile"
	MessageFailedSweepDonations   = "failed to sweep expired donations"
	MessageFailedRecountLikes     = "failed to recount donation likes"

	ErrDonationNotFound           = NewNotFoundError("donation not found")
	ErrDonationNotAvailable       = NewConflictError("donation is no longer available")
	ErrDonationNotClaimed         = NewConflictError("donation has not been claimed")
	ErrDonationNotEditable        = NewConflictError("only available donations can be changed")
	ErrSelfClaim                  = NewForbiddenError("donors cannot claim their own donation")
	ErrUnauthorizedDonationAccess = NewForbiddenError("unauthorized access to donation")
	ErrNotDonationClaimer         = NewForbiddenError("only the NGO that claimed this donation can leave feedback")
	ErrClaimerMismatch            = NewForbiddenError("claimer id must match the signed-in user")
	ErrFeedbackNotAllowed         = NewConflictError("feedback can only be given on claimed or completed donations")
	ErrFeedbackExists             = NewConflictError("feedback has already been submitted for this donation")
	ErrInvalidCategory            = NewValidationError("invalid donation category")
	ErrInvalidExpiryDate          = NewValidationError("expiry date must be a valid future date")
	ErrInvalidRating              = NewValidationError("rating must be an integer between 1 and 5")
	ErrMissingDonationField       = NewValidationError("title, description, category, quantity and location are required")
	ErrDonorCannotDonate          = NewForbiddenError("this account type cannot create donations")
)

type (
	CreateDonationRequest struct {
		Title              string                `json:"title" form:"title" validate:"required,max=150"`
		Description        string                `json:"description" form:"description" validate:"required"`
		Category           string                `json:"category" form:"category" validate:"required,oneof=food clothing medical other"`
		Quantity           string                `json:"quantity" form:"quantity" validate:"required,max=100"`
		Location           string                `json:"location" form:"location" validate:"required"`
		ExpiryDate         string                `json:"expiry_date" form:"expiry_date" validate:"omitempty"`
		PickupInstructions string                `json:"pickup_instructions" form:"pickup_instructions" validate:"omitempty,max=500"`
		ContactPhone       string                `json:"contact_phone" form:"contact_phone" validate:"omitempty,max=20"`
		Image              *multipart.FileHeader `json:"-" form:"image"`
	}

	UpdateDonationRequest struct {
		Title              *string `json:"title" validate:"omitempty,min=1,max=150"`
		Description        *string `json:"description" validate:"omitempty,min=1"`
		Category           *string `json:"category" validate:"omitempty,oneof=food clothing medical other"`
		Quantity           *string `json:"quantity" validate:"omitempty,min=1,max=100"`
		Location           *string `json:"location" validate:"omitempty,min=1"`
		ExpiryDate         *string `json:"expiry_date"`
		PickupInstructions *string `json:"pickup_instructions" validate:"omitempty,max=500"`
		ContactPhone       *string `json:"contact_phone" validate:"omitempty,max=20"`
	}

	ClaimDonationRequest struct {
		ClaimerID   string `json:"claimer_id" validate:"omitempty,uuid"`
		ClaimerName string `json:"claimer_name" validate:"omitempty,max=150"`
	}

	SubmitFeedbackRequest struct {
		Rating  int    `json:"rating" validate:"required,min=1,max=5"`
		Comment string `json:"comment" validate:"omitempty,max=1000"`
	}

	DonationFeedback struct {
		NGORating    int        `json:"ngo_rating"`
		NGOComment   string     `json:"ngo_comment,omitempty"`
		FeedbackDate *time.Time `json:"feedback_date,omitempty"`
	}

	Donation struct {
		ID                 string            `json:"id"`
		Title              string            `json:"title"`
		Description        string            `json:"description"`
		Category           string            `json:"category"`
		Quantity           string            `json:"quantity"`
		Location           string            `json:"location"`
		ExpiryDate         *time.Time        `json:"expiry_date,omitempty"`
		PickupInstructions string            `json:"pickup_instructions,omitempty"`
		ContactPhone       string            `json:"contact_phone,omitempty"`
		ImageURL           string            `json:"image_url,omitempty"`
		DonorID            string            `json:"donor_id"`
		DonorName          string            `json:"donor_name"`
		DonorType          string            `json:"donor_type"`
		Status             string            `json:"status"`
		ClaimerID          string            `json:"claimer_id,omitempty"`
		ClaimerName        string            `json:"claimer_name,omitempty"`
		ClaimedAt          *time.Time        `json:"claimed_at,omitempty"`
		CompletedAt        *time.Time        `json:"completed_at,omitempty"`
		Likes              int               `json:"likes"`
		LikedBy            []string          `json:"liked_by"`
		Feedback           *DonationFeedback `json:"feedback,omitempty"`
		CreatedAt          time.Time         `json:"created_at"`
		UpdatedAt          time.Time         `json:"updated_at"`
	}

	LikeResult struct {
		DonationID string `json:"donation_id"`
		Liked      bool   `json:"liked"`
		Likes      int    `json:"likes"`
	}

	FeedbackEntry struct {
		DonationID    string     `json:"donation_id"`
		DonationTitle string     `json:"donation_title"`
		ClaimerID     string     `json:"claimer_id"`
		ClaimerName   string     `json:"claimer_name"`
		Rating        int        `json:"rating"`
		Comment       string     `json:"comment,omitempty"`
		FeedbackDate  *time.Time `json:"feedback_date,omitempty"`
	}

	DonorProfile struct {
		Donor           UserSummary     `json:"donor"`
		FeedbackHistory []FeedbackEntry `json:"feedback_history"`
	}

	SweepResult struct {
		Expired int64 `json:"expired"`
	}
)

func IsValidCategory(category string) bool {
	for _, c := range DonationCategories {
		if c == category {
			return true
		}
	}
	return false
}
