package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/vehicle-gateway/internal/models"
)

func newPaymentFixture() (*PaymentService, *fakeBackend, *memJournal) {
	fake := newFakeBackend()
	journal := &memJournal{}
	return NewPaymentService(fake, journal, NewActionGuard()), fake, journal
}

func TestBackendQRImageIsPassedThrough(t *testing.T) {
	svc, fake, _ := newPaymentFixture()
	fake.qr = &models.PaymentQR{PaymentURL: "https://vnpay.example/pay?id=1", QRCode: "data:image/png;base64,AAAA"}

	view, err := svc.RemainingQR(context.Background(), buyerViewer, "listing-1", "dep-1")
	require.NoError(t, err)

	assert.Equal(t, "data:image/png;base64,AAAA", view.QRImage)
	assert.False(t, view.Synthesized)
	assert.Equal(t, []string{"listing-1", "dep-1"}, fake.lastQRRequest)
}

func TestQRIsSynthesizedFromPaymentURL(t *testing.T) {
	svc, fake, journal := newPaymentFixture()
	fake.qr = &models.PaymentQR{PaymentURL: "https://vnpay.example/pay?id=2"}

	view, err := svc.FullQR(context.Background(), buyerViewer, "listing-1")
	require.NoError(t, err)

	assert.True(t, view.Synthesized)
	require.True(t, strings.HasPrefix(view.QRImage, "data:image/png;base64,"))
	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(view.QRImage, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
	assert.Equal(t, models.ActionOutcomeSuccess, journal.last().Outcome)
}

func TestMissingPaymentURLIsAnError(t *testing.T) {
	svc, fake, journal := newPaymentFixture()
	fake.qr = &models.PaymentQR{}

	_, err := svc.PayRemaining(context.Background(), buyerViewer, "appt-1")
	assert.ErrorIs(t, err, ErrPaymentURLMissing)
	assert.Equal(t, models.ActionOutcomeFailure, journal.last().Outcome)
}

func TestCreateDepositNeedsPositiveAmount(t *testing.T) {
	svc, fake, _ := newPaymentFixture()

	_, err := svc.CreateDeposit(context.Background(), buyerViewer, CreateDepositRequest{ListingID: "listing-1"})
	assert.ErrorIs(t, err, ErrInvalidDepositAmount)
	assert.Equal(t, 0, fake.mutationCount())

	deposit, err := svc.CreateDeposit(context.Background(), buyerViewer, CreateDepositRequest{
		ListingID:     "listing-1",
		DepositAmount: decimal.NewFromInt(20000000),
	})
	require.NoError(t, err)
	assert.Equal(t, "dep-1", deposit.ID)
}
