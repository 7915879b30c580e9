package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/javajoker/vehicle-gateway/internal/models"
)

type CreateDepositRequest struct {
	ListingID     string          `json:"listingId"`
	DepositAmount decimal.Decimal `json:"depositAmount"`
}

type remainingQRPayload struct {
	ListingID        string `json:"listingId"`
	DepositRequestID string `json:"depositRequestId"`
}

type fullQRPayload struct {
	ListingID string `json:"listingId"`
}

func (c *Client) CreateDeposit(ctx context.Context, token string, req CreateDepositRequest) (*models.DepositRequest, error) {
	var deposit models.DepositRequest
	if _, err := c.doJSON(ctx, token, http.MethodPost, "/deposits", nil, req, &deposit); err != nil {
		return nil, err
	}
	return &deposit, nil
}

func (c *Client) GenerateRemainingQR(ctx context.Context, token, listingID, depositRequestID string) (*models.PaymentQR, error) {
	var qr models.PaymentQR
	payload := remainingQRPayload{ListingID: listingID, DepositRequestID: depositRequestID}
	if _, err := c.doJSON(ctx, token, http.MethodPost, "/payments/remaining-qr", nil, payload, &qr); err != nil {
		return nil, err
	}
	return &qr, nil
}

func (c *Client) GenerateFullQR(ctx context.Context, token, listingID string) (*models.PaymentQR, error) {
	var qr models.PaymentQR
	if _, err := c.doJSON(ctx, token, http.MethodPost, "/payments/full-qr", nil, fullQRPayload{ListingID: listingID}, &qr); err != nil {
		return nil, err
	}
	return &qr, nil
}

func (c *Client) PayRemaining(ctx context.Context, token, appointmentID string) (*models.PaymentQR, error) {
	var qr models.PaymentQR
	path := "/appointments/" + url.PathEscape(appointmentID) + "/pay-remaining"
	if _, err := c.doJSON(ctx, token, http.MethodPost, path, nil, struct{}{}, &qr); err != nil {
		return nil, err
	}
	return &qr, nil
}
