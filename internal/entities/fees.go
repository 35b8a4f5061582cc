package entities

// FeeBreakdown is the price decomposition for a booking request, in integer
// cents of the listing's native currency. The engine performs no currency
// conversion and no presentation rounding.
type FeeBreakdown struct {
	SubtotalCents   int `json:"subtotal_cents"`
	ServiceFeeCents int `json:"service_fee_cents"`
	CautionFeeCents int `json:"caution_fee_cents"`
	TotalCents      int `json:"total_cents"`
}
