package payment

import (
	"context"
	"fmt"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

type MercadoPagoOptions struct {
	AccessToken     string
	NotificationURL string
	SuccessURL      string
	FailureURL      string
	PendingURL      string
	Sandbox         bool
}

type MercadoPago struct {
	opts        MercadoPagoOptions
	preferences preference.Client
	payments    payment.Client
}

func NewMercadoPago(opts MercadoPagoOptions) (*MercadoPago, error) {
	if opts.AccessToken == "" {
		return nil, ErrNotConfigured
	}

	cfg, err := mpconfig.New(opts.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPago{
		opts:        opts,
		preferences: preference.NewClient(cfg),
		payments:    payment.NewClient(cfg),
	}, nil
}

func (m *MercadoPago) CreateCheckout(ctx context.Context, in CheckoutRequest) (*Checkout, error) {
	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:          in.PlanID,
				Title:       in.Title,
				Description: in.Description,
				Quantity:    1,
				UnitPrice:   in.Amount,
				CurrencyID:  "BRL",
			},
		},
		BackURLs: &preference.BackURLsRequest{
			Success: m.opts.SuccessURL,
			Failure: m.opts.FailureURL,
			Pending: m.opts.PendingURL,
		},
		AutoReturn:        "approved",
		ExternalReference: in.Reference,
		NotificationURL:   m.opts.NotificationURL,
		Payer: &preference.PayerRequest{
			Email: in.PayerEmail,
			Name:  in.PayerName,
		},
		Metadata: map[string]any{
			"plan_id": in.PlanID,
		},
	}

	res, err := m.preferences.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create preference: %w", err)
	}

	redirect := res.InitPoint
	if m.opts.Sandbox && res.SandboxInitPoint != "" {
		redirect = res.SandboxInitPoint
	}

	return &Checkout{ID: res.ID, RedirectURL: redirect}, nil
}

func (m *MercadoPago) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment id %q: %w", paymentID, err)
	}

	res, err := m.payments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment %d: %w", id, err)
	}

	return &Payment{
		ID:        strconv.Itoa(res.ID),
		Status:    res.Status,
		Reference: res.ExternalReference,
		Amount:    res.TransactionAmount,
	}, nil
}

var _ Gateway = (*MercadoPago)(nil)
