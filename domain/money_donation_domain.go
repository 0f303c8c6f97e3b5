package domain

import (
	"time"
)

const (
	PaymentMethodCard       = "card"
	PaymentMethodUPI        = "upi"
	PaymentMethodNetBanking = "netbanking"
	PaymentMethodWallet     = "wallet"

	MoneyDonationStatusCompleted = "completed"

	MinMoneyDonation = 1
)

var PaymentMethods = []string{PaymentMethodCard, PaymentMethodUPI, PaymentMethodNetBanking, PaymentMethodWallet}

var (
	MessageSuccessDonateMoney     = "money donation recorded successfully"
	MessageSuccessGetMoneyHistory = "money donations retrieved successfully"
	MessageSuccessReconcileLedger = "ledger totals reconciled"

	MessageFailedDonateMoney     = "failed to record money donation"
	MessageFailedGetMoneyHistory = "failed to retrieve money donations"
	MessageFailedReconcileLedger = "failed to reconcile ledger totals"

	ErrInvalidAmount        = NewValidationError("amount must be at least 1")
	ErrInvalidPaymentMethod = NewValidationError("invalid payment method")
	ErrNeedNotMonetary      = NewValidationError("money can only be donated to a money need")
	ErrSelfDonation         = NewForbiddenError("an NGO cannot donate to its own profile")
)

type (
	DonateMoneyRequest struct {
		Amount        float64 `json:"amount" validate:"required,gte=1"`
		PaymentMethod string  `json:"payment_method" validate:"required,oneof=card upi netbanking wallet"`
		Message       string  `json:"message" validate:"omitempty,max=500"`
	}

	MoneyDonation struct {
		ID            string    `json:"id"`
		DonorID       string    `json:"donor_id"`
		NGOID         string    `json:"ngo_id"`
		NGOProfileID  string    `json:"ngo_profile_id"`
		NeedID        string    `json:"need_id"`
		Amount        float64   `json:"amount"`
		PaymentMethod string    `json:"payment_method"`
		TransactionID string    `json:"transaction_id"`
		Status        string    `json:"status"`
		Message       string    `json:"message,omitempty"`
		CreatedAt     time.Time `json:"created_at"`
	}

	DonateMoneyResponse struct {
		Donation      MoneyDonation `json:"donation"`
		TransactionID string        `json:"transaction_id"`
	}

	ReconcileResult struct {
		Profiles int `json:"profiles"`
		Donors   int `json:"donors"`
	}

	RecalculateResult struct {
		Donors int `json:"donors"`
	}
)

func IsValidPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}
