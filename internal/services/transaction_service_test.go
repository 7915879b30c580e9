package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/vehicle-gateway/internal/config"
	"github.com/javajoker/vehicle-gateway/internal/models"
)

func recordWithDeposit(id string, total, deposit int64, status models.TransactionStatus) models.TransactionRecord {
	return models.TransactionRecord{
		ID:     id,
		Status: status,
		Listing: &models.Listing{
			ID:     "listing-" + id,
			Price:  decimal.NewFromInt(total),
			Seller: models.PartyRef{ID: sellerViewer.ID, Name: "Người bán"},
		},
		DepositRequest: &models.DepositRequest{
			ID:            "dep-" + id,
			Buyer:         models.PartyRef{ID: buyerViewer.ID, Name: "Người mua"},
			Seller:        models.PartyRef{ID: sellerViewer.ID, Name: "Người bán"},
			DepositAmount: decimal.NewFromInt(deposit),
		},
	}
}

func TestTransactionViewClassifiesPayment(t *testing.T) {
	full := recordWithDeposit("t1", 1000000, 100000, models.TransactionStatusCompleted)
	view := BuildTransactionView(buyerViewer.ID, &full)

	assert.Equal(t, models.PaymentKindFull, view.PaymentKind)
	assert.Equal(t, "900000", view.Remaining.String())
	assert.True(t, view.IsBuyer)
	assert.False(t, view.IsSeller)
	assert.Equal(t, "Người bán", view.Counterpart.Name)

	partial := recordWithDeposit("t2", 1000000, 300000, models.TransactionStatusCompleted)
	view = BuildTransactionView(sellerViewer.ID, &partial)

	assert.Equal(t, models.PaymentKindDeposit, view.PaymentKind)
	assert.Equal(t, "700000", view.Remaining.String())
	assert.True(t, view.IsSeller)
	assert.Equal(t, buyerViewer.ID, view.Counterpart.ID)
}

func TestTransactionWithoutDepositRequestIsFull(t *testing.T) {
	record := models.TransactionRecord{
		ID:     "t3",
		Status: models.TransactionStatusPending,
		Amount: decimal.NewFromInt(250000000),
	}
	view := BuildTransactionView(buyerViewer.ID, &record)

	assert.Equal(t, models.PaymentKindFull, view.PaymentKind)
	assert.False(t, view.IsBuyer)
	assert.False(t, view.IsSeller)
}

func TestFindScansHistoryPages(t *testing.T) {
	fake := newFakeBackend()
	for i := 0; i < 7; i++ {
		fake.history = append(fake.history, recordWithDeposit(fmt.Sprintf("t%d", i), 1000000, 300000, models.TransactionStatusPending))
	}
	svc := NewTransactionService(fake, config.BackendConfig{HistoryPageSize: 3, HistoryMaxPages: 5})

	view, err := svc.Find(context.Background(), buyerViewer, "t6")
	require.NoError(t, err)
	assert.Equal(t, "t6", view.ID)
	assert.Equal(t, 3, fake.historyCalls)

	fake.historyCalls = 0
	_, err = svc.Find(context.Background(), buyerViewer, "missing")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.Equal(t, 3, fake.historyCalls)
}

func TestFindStopsAtPageLimit(t *testing.T) {
	fake := newFakeBackend()
	for i := 0; i < 10; i++ {
		fake.history = append(fake.history, recordWithDeposit(fmt.Sprintf("t%d", i), 1000000, 300000, models.TransactionStatusPending))
	}
	svc := NewTransactionService(fake, config.BackendConfig{HistoryPageSize: 2, HistoryMaxPages: 2})

	_, err := svc.Find(context.Background(), buyerViewer, "t9")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.Equal(t, 2, fake.historyCalls)
}

func TestFindFollowsBackendPaginationWhenLimitIsCapped(t *testing.T) {
	fake := newFakeBackend()
	fake.historyCap = 20
	for i := 0; i < 30; i++ {
		fake.history = append(fake.history, recordWithDeposit(fmt.Sprintf("t%d", i), 1000000, 300000, models.TransactionStatusPending))
	}
	svc := NewTransactionService(fake, config.BackendConfig{HistoryPageSize: 50, HistoryMaxPages: 5})

	view, err := svc.Find(context.Background(), buyerViewer, "t25")
	require.NoError(t, err)
	assert.Equal(t, "t25", view.ID)
	assert.Equal(t, 2, fake.historyCalls)

	fake.historyCalls = 0
	_, err = svc.Find(context.Background(), buyerViewer, "missing")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.Equal(t, 2, fake.historyCalls)
}
