package entities

import (
	"time"

	"github.com/google/uuid"
)

type Donation struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DonorID            uuid.UUID  `gorm:"type:uuid;index;not null" json:"donor_id"`
	DonorName          string     `json:"donor_name"`
	DonorType          string     `json:"donor_type"`
	Title              string     `gorm:"not null" json:"title"`
	Description        string     `gorm:"type:text;not null" json:"description"`
	Category           string     `gorm:"index;not null" json:"category"` // food, clothing, medical, other
	Quantity           string     `gorm:"not null" json:"quantity"`
	Location           string     `gorm:"not null" json:"location"`
	ExpiryDate         *time.Time `gorm:"index" json:"expiry_date,omitempty"`
	PickupInstructions string     `json:"pickup_instructions,omitempty"`
	ContactPhone       string     `json:"contact_phone,omitempty"`
	ImageURL           string     `json:"image_url,omitempty"`
	Status             string     `gorm:"index;not null;default:'available'" json:"status"` // available, claimed, completed, expired
	ClaimerID          *uuid.UUID `gorm:"type:uuid;index" json:"claimer_id,omitempty"`
	ClaimerName        string     `json:"claimer_name,omitempty"`
	ClaimedAt          *time.Time `json:"claimed_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	Likes              int        `gorm:"not null;default:0" json:"likes"`

	Feedback DonationFeedback `gorm:"embedded;embeddedPrefix:feedback_" json:"feedback"`

	LikedBy []*DonationLike `gorm:"foreignKey:DonationID" json:"-"`
	Timestamp
}

type DonationFeedback struct {
	NGORating    *int       `gorm:"column:ngo_rating" json:"ngo_rating,omitempty"`
	NGOComment   string     `gorm:"column:ngo_comment;type:text" json:"ngo_comment,omitempty"`
	FeedbackDate *time.Time `gorm:"column:date" json:"feedback_date,omitempty"`
}

// DonationLike is one row of a donation's likedBy set. The composite unique
// index is what makes a like toggle a membership-conditional write.
type DonationLike struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DonationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_donation_like_user" json:"donation_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_donation_like_user" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}
