package mesh

import "time"

// PaymentRecord is a settled micropayment for one client device. The amount
// is carried both as a satoshi integer and as the USD balance it was derived
// from. Immutable after creation except for the status.
type PaymentRecord struct {
	Invoice       string       `json:"invoice"`
	AmountSatoshi uint64       `json:"amount_satoshi"`
	AmountUSD     float64      `json:"amount_usd"`
	PaymentHash   string       `json:"payment_hash"`
	CreatedAt     time.Time    `json:"created_at"`
	Expiry        time.Time    `json:"expiry"`
	Status        PaymentState `json:"status"`
}
