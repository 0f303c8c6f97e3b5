package entities

import (
	"github.com/google/uuid"
)

type NGOProfile struct {
	ID                     uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	NGOID                  uuid.UUID  `gorm:"column:ngo_id;type:uuid;uniqueIndex;not null" json:"ngo_id"`
	OrganizationName       string     `gorm:"not null" json:"organization_name"`
	Description            string     `gorm:"type:text" json:"description"`
	Address                string     `json:"address"`
	Phone                  string     `json:"phone"`
	TotalDonationsReceived float64    `gorm:"not null;default:0" json:"total_donations_received"`
	Needs                  []*NGONeed `gorm:"foreignKey:ProfileID" json:"needs"`
	Timestamp
}

// NGONeed is addressed by its own id; Position keeps the order the NGO added
// needs in.
type NGONeed struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ProfileID     uuid.UUID `gorm:"type:uuid;index;not null" json:"profile_id"`
	Position      int       `gorm:"not null" json:"position"`
	Type          string    `gorm:"not null" json:"type"` // food, medical, clothing, money, other
	Description   string    `gorm:"type:text" json:"description"`
	TargetAmount  float64   `gorm:"not null;default:0" json:"target_amount"`
	CurrentAmount float64   `gorm:"not null;default:0" json:"current_amount"`
	Timestamp
}
