package domain

type (
	UserSummary struct {
		ID                string  `json:"id"`
		Name              string  `json:"name"`
		UserType          string  `json:"user_type"`
		DonationsCount    int     `json:"donations_count"`
		TotalMoneyDonated float64 `json:"total_money_donated"`
		RatingSum         int     `json:"rating_sum"`
		TotalRatings      int     `json:"total_ratings"`
		AverageRating     float64 `json:"average_rating"`
	}
)

var (
	MessageSuccessRecalculateRatings = "donor ratings recalculated"
	MessageFailedRecalculateRatings  = "failed to recalculate donor ratings"
)

// RatingTotals is the raw material of a donor's rating; the average is always
// derived, never stored independently of sum and count.
type RatingTotals struct {
	Sum   int `json:"sum"`
	Count int `json:"count"`
}

func (t RatingTotals) Average() float64 {
	if t.Count == 0 {
		return 0
	}
	return float64(t.Sum) / float64(t.Count)
}
