package entities

import (
	"github.com/google/uuid"
)

// User is the donor-relevant subset of an account. Accounts themselves are
// created by the identity service; this backend only maintains the counters.
type User struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name              string    `json:"name"`
	Email             string    `gorm:"uniqueIndex" json:"email"`
	UserType          string    `gorm:"index" json:"user_type"` // individual, restaurant, ngo, admin
	DonationsCount    int       `gorm:"not null;default:0" json:"donations_count"`
	TotalMoneyDonated float64   `gorm:"not null;default:0" json:"total_money_donated"`
	RatingSum         int       `gorm:"not null;default:0" json:"rating_sum"`
	TotalRatings      int       `gorm:"not null;default:0" json:"total_ratings"`
	AverageRating     float64   `gorm:"not null;default:0" json:"average_rating"`

	Timestamp
}
