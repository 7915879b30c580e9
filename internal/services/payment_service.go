// internal/services/payment_service.go
package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/javajoker/vehicle-gateway/internal/backend"
	"github.com/javajoker/vehicle-gateway/internal/models"
)

const (
	entityListing = "listing"
	qrImageSize   = 256

	actionCreateDeposit = "create_deposit"
	actionRemainingQR   = "remaining_qr"
	actionFullQR        = "full_qr"
	actionPayRemaining  = "pay_remaining"
)

var (
	ErrPaymentURLMissing    = errors.New("backend returned neither a QR image nor a payment url")
	ErrInvalidDepositAmount = errors.New("deposit amount must be positive")
)

// PaymentService requests payment QR codes from the backend. It does not
// poll for completion; the transaction history reflects paid state on the
// next read.
type PaymentService struct {
	backend PaymentBackend
	journal Journal
	guard   *ActionGuard
}

type PaymentQRView struct {
	PaymentURL  string `json:"paymentUrl"`
	QRImage     string `json:"qrImage"`
	Synthesized bool   `json:"synthesized"`
	OrderID     string `json:"orderId,omitempty"`
}

type CreateDepositRequest struct {
	ListingID     string          `json:"listingId" validate:"required,notblank"`
	DepositAmount decimal.Decimal `json:"depositAmount"`
}

func NewPaymentService(backend PaymentBackend, journal Journal, guard *ActionGuard) *PaymentService {
	return &PaymentService{
		backend: backend,
		journal: journal,
		guard:   guard,
	}
}

func (s *PaymentService) CreateDeposit(ctx context.Context, viewer Viewer, req CreateDepositRequest) (*models.DepositRequest, error) {
	if !req.DepositAmount.IsPositive() {
		return nil, ErrInvalidDepositAmount
	}

	release, err := s.guard.Acquire(viewer.ID, actionCreateDeposit, req.ListingID)
	if err != nil {
		return nil, err
	}
	defer release()

	deposit, err := s.backend.CreateDeposit(ctx, viewer.Token, backend.CreateDepositRequest{
		ListingID:     req.ListingID,
		DepositAmount: req.DepositAmount,
	})
	entry := newActionLog(viewer, actionCreateDeposit, entityListing, req.ListingID, err)
	entry.Details = map[string]interface{}{"depositAmount": req.DepositAmount.String()}
	s.journal.Record(ctx, entry)
	if err != nil {
		return nil, err
	}
	return deposit, nil
}

func (s *PaymentService) RemainingQR(ctx context.Context, viewer Viewer, listingID, depositRequestID string) (*PaymentQRView, error) {
	return s.request(ctx, viewer, actionRemainingQR, entityListing, listingID, func() (*models.PaymentQR, error) {
		return s.backend.GenerateRemainingQR(ctx, viewer.Token, listingID, depositRequestID)
	})
}

func (s *PaymentService) FullQR(ctx context.Context, viewer Viewer, listingID string) (*PaymentQRView, error) {
	return s.request(ctx, viewer, actionFullQR, entityListing, listingID, func() (*models.PaymentQR, error) {
		return s.backend.GenerateFullQR(ctx, viewer.Token, listingID)
	})
}

func (s *PaymentService) PayRemaining(ctx context.Context, viewer Viewer, appointmentID string) (*PaymentQRView, error) {
	return s.request(ctx, viewer, actionPayRemaining, entityAppointment, appointmentID, func() (*models.PaymentQR, error) {
		return s.backend.PayRemaining(ctx, viewer.Token, appointmentID)
	})
}

func (s *PaymentService) request(ctx context.Context, viewer Viewer, action, entityType, entityID string, call func() (*models.PaymentQR, error)) (*PaymentQRView, error) {
	release, err := s.guard.Acquire(viewer.ID, action, entityID)
	if err != nil {
		return nil, err
	}
	defer release()

	qr, err := call()
	if err == nil {
		var view *PaymentQRView
		view, err = RenderPaymentQR(qr)
		if err == nil {
			s.journal.Record(ctx, newActionLog(viewer, action, entityType, entityID, nil))
			return view, nil
		}
	}
	s.journal.Record(ctx, newActionLog(viewer, action, entityType, entityID, err))
	return nil, err
}

// RenderPaymentQR passes a backend-provided image through unchanged and
// otherwise encodes the payment url into a PNG data url.
func RenderPaymentQR(qr *models.PaymentQR) (*PaymentQRView, error) {
	if qr == nil {
		return nil, ErrPaymentURLMissing
	}

	view := &PaymentQRView{PaymentURL: qr.PaymentURL, OrderID: qr.OrderID}
	if qr.QRCode != "" {
		view.QRImage = qr.QRCode
		return view, nil
	}
	if strings.TrimSpace(qr.PaymentURL) == "" {
		return nil, ErrPaymentURLMissing
	}

	png, err := qrcode.Encode(qr.PaymentURL, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment QR: %w", err)
	}
	view.QRImage = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	view.Synthesized = true
	return view, nil
}
