package payment

import "context"

// OfflineGateway records the intent to pay at the clinic; nothing is
// charged online.
type OfflineGateway struct {
	currency string
}

func NewOffline(currency string) *OfflineGateway {
	return &OfflineGateway{currency: currency}
}

func (g *OfflineGateway) Name() string { return "offline" }

func (g *OfflineGateway) Settings() Settings {
	return Settings{Name: g.Name(), Enabled: true, Currency: g.currency}
}

func (g *OfflineGateway) ProcessPayment(_ context.Context, req Request) (*Result, error) {
	return &Result{Status: StatusPending, Reference: req.Reference}, nil
}

func (g *OfflineGateway) HandleCallback(context.Context, map[string]string) (*Result, error) {
	return &Result{Status: StatusPending}, nil
}

var _ Gateway = (*OfflineGateway)(nil)
