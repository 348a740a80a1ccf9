package payment

import (
	"context"
	"fmt"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

// MercadoPagoGateway creates a checkout preference per booking and
// resolves callbacks through the payments API.
type MercadoPagoGateway struct {
	preferences preference.Client
	payments    mppayment.Client
	currency    string
	enabled     bool
}

func NewMercadoPago(accessToken, currency string) (*MercadoPagoGateway, error) {
	if accessToken == "" {
		return &MercadoPagoGateway{enabled: false, currency: currency}, nil
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPagoGateway{
		preferences: preference.NewClient(cfg),
		payments:    mppayment.NewClient(cfg),
		currency:    currency,
		enabled:     true,
	}, nil
}

func (g *MercadoPagoGateway) Name() string { return "mercadopago" }

func (g *MercadoPagoGateway) Settings() Settings {
	return Settings{Name: g.Name(), Enabled: g.enabled, Currency: g.currency}
}

func (g *MercadoPagoGateway) ProcessPayment(ctx context.Context, req Request) (*Result, error) {
	pref, err := g.preferences.Create(ctx, preference.Request{
		ExternalReference: req.Reference,
		Items: []preference.ItemRequest{
			{
				Title:      req.Description,
				Quantity:   1,
				UnitPrice:  req.Amount,
				CurrencyID: req.Currency,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mercadopago preference: %w", err)
	}

	return &Result{
		Status:        StatusPending,
		TransactionID: pref.ID,
		RedirectURL:   pref.InitPoint,
		Reference:     req.Reference,
	}, nil
}

// HandleCallback resolves the payment referenced by the gateway's
// redirect/webhook params into a final status.
func (g *MercadoPagoGateway) HandleCallback(ctx context.Context, params map[string]string) (*Result, error) {
	idStr := params["payment_id"]
	if idStr == "" {
		idStr = params["collection_id"]
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return nil, fmt.Errorf("mercadopago callback: bad payment id %q", idStr)
	}

	p, err := g.payments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mercadopago payment lookup: %w", err)
	}

	status := StatusPending
	switch p.Status {
	case "approved":
		status = StatusPaid
	case "rejected", "cancelled":
		status = StatusFailed
	}

	return &Result{
		Status:    status,
		PaymentID: strconv.Itoa(p.ID),
		Reference: p.ExternalReference,
	}, nil
}

var _ Gateway = (*MercadoPagoGateway)(nil)
