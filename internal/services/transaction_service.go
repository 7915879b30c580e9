// internal/services/transaction_service.go
package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/javajoker/vehicle-gateway/internal/backend"
	"github.com/javajoker/vehicle-gateway/internal/config"
	"github.com/javajoker/vehicle-gateway/internal/lifecycle"
	"github.com/javajoker/vehicle-gateway/internal/models"
)

var ErrTransactionNotFound = errors.New("transaction not found in history")

// TransactionService builds read-only transaction views from the viewer's
// history. Nothing here mutates backend state.
type TransactionService struct {
	backend  TransactionBackend
	pageSize int
	maxPages int
}

func NewTransactionService(backend TransactionBackend, cfg config.BackendConfig) *TransactionService {
	pageSize := cfg.HistoryPageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	maxPages := cfg.HistoryMaxPages
	if maxPages <= 0 {
		maxPages = 20
	}
	return &TransactionService{backend: backend, pageSize: pageSize, maxPages: maxPages}
}

func (s *TransactionService) History(ctx context.Context, viewer Viewer, page, limit int) ([]models.TransactionView, *backend.Pagination, error) {
	records, pagination, err := s.backend.TransactionHistory(ctx, viewer.Token, page, limit)
	if err != nil {
		return nil, nil, err
	}

	views := make([]models.TransactionView, 0, len(records))
	for i := range records {
		views = append(views, BuildTransactionView(viewer.ID, &records[i]))
	}
	return views, pagination, nil
}

// Find locates one entry by id. The backend has no detail endpoint, so the
// history is scanned page by page up to a fixed number of pages.
func (s *TransactionService) Find(ctx context.Context, viewer Viewer, id string) (*models.TransactionView, error) {
	for page := 1; page <= s.maxPages; page++ {
		records, pagination, err := s.backend.TransactionHistory(ctx, viewer.Token, page, s.pageSize)
		if err != nil {
			return nil, err
		}

		for i := range records {
			if records[i].ID == id {
				view := BuildTransactionView(viewer.ID, &records[i])
				return &view, nil
			}
		}

		if len(records) == 0 {
			break
		}
		// The backend may cap limit below pageSize, so a short page only
		// ends the scan when there is no pagination to go by.
		if pagination != nil && pagination.TotalPages > 0 {
			if page >= pagination.TotalPages {
				break
			}
		} else if len(records) < s.pageSize {
			break
		}
	}
	return nil, ErrTransactionNotFound
}

// BuildTransactionView derives the viewer's role, counterpart and amount
// breakdown. Parties and amounts come from the contract when there is one,
// then the appointment, the deposit request and the listing.
func BuildTransactionView(viewerID string, record *models.TransactionRecord) models.TransactionView {
	buyer, seller := transactionParties(record)
	role := lifecycle.ResolveRole(viewerID, buyer, seller)

	total, deposit := transactionAmounts(record)
	remaining := total.Sub(deposit)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	hasDepositRequest := record.DepositRequest != nil ||
		(record.Appointment != nil && record.Appointment.DepositRequestID != "")

	return models.TransactionView{
		ID:          record.ID,
		Status:      record.Status,
		IsBuyer:     role.IsBuyer,
		IsSeller:    role.IsSeller,
		Counterpart: role.Counterpart(buyer, seller),
		Listing:     record.Listing,
		Appointment: record.Appointment,
		Contract:    record.Contract,
		DepositPaid: deposit,
		Total:       total,
		Remaining:   remaining,
		PaymentKind: lifecycle.ClassifyPayment(lifecycle.PaymentAmounts{
			Total:             total,
			Deposit:           deposit,
			Remaining:         remaining,
			HasDepositRequest: hasDepositRequest,
			Status:            record.Status,
		}),
		CreatedAt: record.CreatedAt,
	}
}

func transactionParties(record *models.TransactionRecord) (models.PartyRef, models.PartyRef) {
	switch {
	case record.Contract != nil && !record.Contract.Buyer.IsZero():
		return record.Contract.Buyer, record.Contract.Seller
	case record.Appointment != nil && !record.Appointment.Buyer.IsZero():
		return record.Appointment.Buyer, record.Appointment.Seller
	case record.DepositRequest != nil:
		return record.DepositRequest.Buyer, record.DepositRequest.Seller
	case record.Listing != nil:
		return models.PartyRef{}, record.Listing.Seller
	}
	return models.PartyRef{}, models.PartyRef{}
}

func transactionAmounts(record *models.TransactionRecord) (total, deposit decimal.Decimal) {
	switch {
	case record.Contract != nil && record.Contract.PurchasePrice.IsPositive():
		total = record.Contract.PurchasePrice
	case record.Listing != nil && record.Listing.Price.IsPositive():
		total = record.Listing.Price
	default:
		total = record.Amount
	}

	switch {
	case record.Contract != nil && record.Contract.DepositAmount.IsPositive():
		deposit = record.Contract.DepositAmount
	case record.DepositRequest != nil:
		deposit = record.DepositRequest.DepositAmount
	}
	return total, deposit
}
