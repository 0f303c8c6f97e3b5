package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Notification struct {
	ID      uuid.UUID                            `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID  uuid.UUID                            `gorm:"type:uuid;index;not null" json:"user_id"`
	Type    string                               `gorm:"not null" json:"type"`
	Title   string                               `gorm:"not null" json:"title"`
	Message string                               `gorm:"type:text" json:"message"`
	Data    datatypes.JSONType[NotificationData] `json:"data"`
	Read    bool                                 `gorm:"index;not null;default:false" json:"read"`
	ReadAt  *time.Time                           `json:"read_at,omitempty"`
	Timestamp
}

type NotificationData struct {
	DonationID    string  `json:"donation_id,omitempty"`
	ClaimerID     string  `json:"claimer_id,omitempty"`
	ClaimerName   string  `json:"claimer_name,omitempty"`
	Rating        int     `json:"rating,omitempty"`
	Feedback      string  `json:"feedback,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	TransactionID string  `json:"transaction_id,omitempty"`
}
