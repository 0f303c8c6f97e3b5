package entities

import (
	"time"

	"github.com/google/uuid"
)

// MoneyDonation rows are append-only; nothing in the backend updates or
// deletes them.
type MoneyDonation struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DonorID       uuid.UUID `gorm:"type:uuid;index;not null" json:"donor_id"`
	NGOID         uuid.UUID `gorm:"column:ngo_id;type:uuid;index;not null" json:"ngo_id"`
	NGOProfileID  uuid.UUID `gorm:"column:ngo_profile_id;type:uuid;index;not null" json:"ngo_profile_id"`
	NeedID        uuid.UUID `gorm:"type:uuid;index;not null" json:"need_id"`
	Amount        float64   `gorm:"not null;check:amount >= 1" json:"amount"`
	PaymentMethod string    `gorm:"not null" json:"payment_method"` // card, upi, netbanking, wallet
	TransactionID string    `gorm:"uniqueIndex;not null" json:"transaction_id"`
	Status        string    `gorm:"not null;default:'completed'" json:"status"`
	Message       string    `gorm:"type:text" json:"message,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}
