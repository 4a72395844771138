package recurring

import "time"

// recurringSubscription is the platform's subscription record. It never leaves this package.
type recurringSubscription struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Plan   struct {
		ID string `json:"id"`
	} `json:"plan"`
	Customer struct {
		Email      string `json:"email"`
		ExternalID string `json:"external_id"`
	} `json:"customer"`
	// NextChargeDate is either RFC 3339 or a bare YYYY-MM-DD in the business timezone.
	NextChargeDate   string     `json:"next_charge_date"`
	CurrentPeriodEnd *time.Time `json:"current_period_end"`
}

type listSubscriptionsResponse struct {
	Data []recurringSubscription `json:"data"`
}

// recurringWebhook is the envelope of every webhook the platform sends.
type recurringWebhook struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Customer struct {
			Email      string `json:"email"`
			ExternalID string `json:"external_id"`
		} `json:"customer"`
	} `json:"data"`
}

const (
	statusActive   = "active"
	statusTrialing = "trialing"
	statusPastDue  = "past_due"
	statusCanceled = "canceled"
	statusUnpaid   = "unpaid"
	statusExpired  = "expired"
)
