package payment

import "context"

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusFailed  = "failed"
)

type Request struct {
	AppointmentID uint
	Amount        float64
	Currency      string
	Description   string
	PayerEmail    string

	// Reference ties gateway callbacks back to the appointment.
	Reference string
}

type Result struct {
	Status        string
	TransactionID string
	PaymentID     string
	RedirectURL   string
	Reference     string
}

type Settings struct {
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
	Currency string `json:"currency"`
}

type Gateway interface {
	Name() string
	ProcessPayment(ctx context.Context, req Request) (*Result, error)
	HandleCallback(ctx context.Context, params map[string]string) (*Result, error)
	Settings() Settings
}

// Registry resolves a gateway by its request name.
type Registry map[string]Gateway

func (r Registry) Get(name string) (Gateway, bool) {
	g, ok := r[name]
	if !ok || !g.Settings().Enabled {
		return nil, false
	}
	return g, true
}
