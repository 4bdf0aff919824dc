package payment

import (
	"context"
	"errors"
)

var ErrNotConfigured = errors.New("payment gateway not configured")

type CheckoutRequest struct {
	Reference   string
	PlanID      string
	Title       string
	Description string
	Amount      float64
	PayerEmail  string
	PayerName   string
}

type Checkout struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirect_url"`
}

type Payment struct {
	ID        string
	Status    string
	Reference string
	Amount    float64
}

// StatusApproved é o status do MercadoPago para pagamento confirmado.
const StatusApproved = "approved"

type Gateway interface {
	CreateCheckout(ctx context.Context, in CheckoutRequest) (*Checkout, error)
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
}
