package appointment

import "context"

// TaxCalculator adjusts the service subtotal into the grand total.
// Injected so installs can plug tax rules without touching the engine.
type TaxCalculator interface {
	GrandTotal(ctx context.Context, subtotal float64, services ServiceSelection) float64
}

// NoTax is the default: grand total equals the subtotal.
type NoTax struct{}

func (NoTax) GrandTotal(_ context.Context, subtotal float64, _ ServiceSelection) float64 {
	return subtotal
}

type SummaryItem struct {
	DoctorServiceID uint    `json:"doctor_service_id"`
	Name            string  `json:"name"`
	DurationMin     int     `json:"duration_min"`
	Charge          float64 `json:"charge"`
}

type PriceSummary struct {
	Items       []SummaryItem `json:"items"`
	Subtotal    float64       `json:"subtotal"`
	Tax         float64       `json:"tax"`
	Total       float64       `json:"total"`
	Currency    string        `json:"currency"`
	DurationMin int           `json:"duration_min"`
}

// SummaryAdjuster mutates the price preview before it is returned.
type SummaryAdjuster interface {
	Adjust(ctx context.Context, s *PriceSummary)
}

type NoopAdjuster struct{}

func (NoopAdjuster) Adjust(context.Context, *PriceSummary) {}
