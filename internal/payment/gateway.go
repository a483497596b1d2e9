package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	appconfig "github.com/RomanCsn/workshop-DFS/internal/config"
	"github.com/RomanCsn/workshop-DFS/internal/models"
)

var (
	ErrDisabled       = errors.New("payments not configured")
	ErrNothingToPay   = errors.New("billing has no billable service")
	ErrAlreadyPaid    = errors.New("billing is already paid")
	ErrInvalidPayment = errors.New("invalid payment id")
)

const statusApproved = "approved"

type Checkout struct {
	PreferenceID string `json:"preferenceId"`
	InitPoint    string `json:"initPoint"`
}

// Resolution is what a payment notification tells about a billing.
type Resolution struct {
	BillingID string
	PaymentID int
	Status    string
	Approved  bool
}

type preferenceAPI interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type paymentAPI interface {
	Get(ctx context.Context, id int) (*mppayment.Response, error)
}

type Gateway struct {
	preferences     preferenceAPI
	payments        paymentAPI
	currency        string
	notificationURL string
}

// NewGateway returns (nil, nil) without an access token.
func NewGateway(cfg appconfig.PaymentsConfig) (*Gateway, error) {
	if cfg.AccessToken == "" {
		return nil, nil
	}

	mpCfg, err := config.New(cfg.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &Gateway{
		preferences:     preference.NewClient(mpCfg),
		payments:        mppayment.NewClient(mpCfg),
		currency:        cfg.Currency,
		notificationURL: cfg.NotificationURL,
	}, nil
}

// Checkout creates a payment preference with one item per service.
func (g *Gateway) Checkout(ctx context.Context, b *models.Billing) (*Checkout, error) {
	if g == nil {
		return nil, ErrDisabled
	}
	if b.Situation == "PAYED" {
		return nil, ErrAlreadyPaid
	}

	items := make([]preference.ItemRequest, 0, len(b.Services))
	for _, s := range b.Services {
		if s.Amount <= 0 {
			continue
		}
		items = append(items, preference.ItemRequest{
			ID:         s.ID,
			Title:      itemTitle(s),
			Quantity:   1,
			UnitPrice:  s.Amount,
			CurrencyID: g.currency,
		})
	}
	if len(items) == 0 {
		return nil, ErrNothingToPay
	}

	req := preference.Request{
		Items:             items,
		ExternalReference: b.ID,
	}
	if g.notificationURL != "" {
		req.NotificationURL = g.notificationURL
	}

	res, err := g.preferences.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create preference: %w", err)
	}

	return &Checkout{PreferenceID: res.ID, InitPoint: res.InitPoint}, nil
}

// Resolve fetches a payment and maps it back to its billing.
func (g *Gateway) Resolve(ctx context.Context, paymentID string) (*Resolution, error) {
	if g == nil {
		return nil, ErrDisabled
	}

	id, err := strconv.Atoi(strings.TrimSpace(paymentID))
	if err != nil || id <= 0 {
		return nil, ErrInvalidPayment
	}

	p, err := g.payments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment %d: %w", id, err)
	}

	return &Resolution{
		BillingID: p.ExternalReference,
		PaymentID: id,
		Status:    p.Status,
		Approved:  p.Status == statusApproved,
	}, nil
}

func itemTitle(s models.PerformedService) string {
	if s.ServiceType == "CARE" {
		return "Horse care"
	}
	if s.Lesson != nil && s.Lesson.Desc != "" {
		return "Lesson: " + s.Lesson.Desc
	}
	return "Riding lesson"
}
