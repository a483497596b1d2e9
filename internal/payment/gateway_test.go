package payment

import (
	"context"
	"errors"
	"testing"

	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RomanCsn/workshop-DFS/internal/models"
)

type fakePreferences struct {
	got preference.Request
	err error
}

func (f *fakePreferences) Create(_ context.Context, req preference.Request) (*preference.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &preference.Response{ID: "pref-1", InitPoint: "https://pay.example/pref-1"}, nil
}

type fakePayments struct {
	res *mppayment.Response
	err error
}

func (f *fakePayments) Get(_ context.Context, _ int) (*mppayment.Response, error) {
	return f.res, f.err
}

func TestCheckoutBuildsOneItemPerService(t *testing.T) {
	prefs := &fakePreferences{}
	g := &Gateway{preferences: prefs, currency: "EUR"}

	b := &models.Billing{
		ID:        "b-1",
		Situation: "UNPAYED",
		Services: []models.PerformedService{
			{ID: "s-1", Amount: 45, ServiceType: "LESSON", Lesson: &models.Lesson{Desc: "Jumping"}},
			{ID: "s-2", Amount: 20, ServiceType: "CARE"},
			{ID: "s-3", Amount: 0, ServiceType: "CARE"},
		},
	}

	out, err := g.Checkout(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, "pref-1", out.PreferenceID)
	assert.Equal(t, "b-1", prefs.got.ExternalReference)
	require.Len(t, prefs.got.Items, 2)
	assert.Equal(t, "Lesson: Jumping", prefs.got.Items[0].Title)
	assert.Equal(t, "Horse care", prefs.got.Items[1].Title)
	assert.Equal(t, "EUR", prefs.got.Items[1].CurrencyID)
}

func TestCheckoutRejections(t *testing.T) {
	var disabled *Gateway
	_, err := disabled.Checkout(context.Background(), &models.Billing{})
	assert.ErrorIs(t, err, ErrDisabled)

	g := &Gateway{preferences: &fakePreferences{}}
	_, err = g.Checkout(context.Background(), &models.Billing{Situation: "PAYED"})
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	_, err = g.Checkout(context.Background(), &models.Billing{Situation: "UNPAYED"})
	assert.ErrorIs(t, err, ErrNothingToPay)
}

func TestResolve(t *testing.T) {
	g := &Gateway{payments: &fakePayments{res: &mppayment.Response{
		Status:            "approved",
		ExternalReference: "b-9",
	}}}

	res, err := g.Resolve(context.Background(), "12345")
	require.NoError(t, err)
	assert.True(t, res.Approved)
	assert.Equal(t, "b-9", res.BillingID)

	_, err = g.Resolve(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrInvalidPayment)

	g.payments = &fakePayments{err: errors.New("upstream")}
	_, err = g.Resolve(context.Background(), "1")
	assert.Error(t, err)
}
