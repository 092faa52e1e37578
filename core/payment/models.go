package payment

import (
	"math"
	"time"
)

// Payment statuses
const (
	StatusCompleted         = "completed"
	StatusPending           = "pending"
	StatusFailed            = "failed"
	StatusRefunded          = "refunded"
	StatusPartiallyRefunded = "partially_refunded"
)

var AllStatuses = []string{StatusCompleted, StatusPending, StatusFailed, StatusRefunded, StatusPartiallyRefunded}

// fee rates applied at purchase time
const (
	processingRate = 0.029 // card processing: 2.9% + $0.30
	processingFlat = 0.30
	gatewayFlat    = 0.25
	platformRate   = 0.10
)

// Fees is the breakdown of a payment's amount.
type Fees struct {
	Processing float64 `json:"processing_fee"`
	Gateway    float64 `json:"gateway_fee"`
	Platform   float64 `json:"platform_fee"`
	Net        float64 `json:"net_amount"`
}

// ComputeFees breaks amount down into processing, gateway and platform fees
// plus the net remainder, each rounded to the cent.
func ComputeFees(amount float64) Fees {
	processing := roundCents(amount*processingRate + processingFlat)
	platform := roundCents(amount * platformRate)
	return Fees{
		Processing: processing,
		Gateway:    gatewayFlat,
		Platform:   platform,
		Net:        roundCents(amount - processing - gatewayFlat - platform),
	}
}

func roundCents(x float64) float64 {
	return math.Round(x*100) / 100
}

type Payment struct {
	ID            string  `json:"id"`
	StudentID     string  `json:"student_id"`
	CourseID      string  `json:"course_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Method        string  `json:"method"`
	TransactionID string  `json:"transaction_id"`
	Status        string  `json:"status"`
	Fees          Fees    `json:"fees"`

	// set only after a refund
	RefundAmount float64    `json:"refund_amount,omitempty"`
	RefundReason string     `json:"refund_reason,omitempty"`
	RefundedAt   *time.Time `json:"refunded_at,omitempty"` // UTC

	CreatedAt   time.Time  `json:"created_at"`             // UTC
	CompletedAt *time.Time `json:"completed_at,omitempty"` // UTC
}
