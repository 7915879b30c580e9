// internal/models/transaction.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Listing struct {
	ID     string          `json:"_id"`
	Title  string          `json:"title"`
	Brand  string          `json:"brand,omitempty"`
	Model  string          `json:"model,omitempty"`
	Year   int             `json:"year,omitempty"`
	Price  decimal.Decimal `json:"price"`
	Seller PartyRef        `json:"sellerId"`
}

type DepositRequest struct {
	ID            string          `json:"_id"`
	ListingID     string          `json:"listingId"`
	Buyer         PartyRef        `json:"buyerId"`
	Seller        PartyRef        `json:"sellerId"`
	DepositAmount decimal.Decimal `json:"depositAmount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// TransactionRecord is one entry of the backend's user history.
type TransactionRecord struct {
	ID             string            `json:"_id"`
	Type           string            `json:"type"`
	Status         TransactionStatus `json:"status"`
	Amount         decimal.Decimal   `json:"amount"`
	Appointment    *Appointment      `json:"appointment,omitempty"`
	Contract       *Contract         `json:"contract,omitempty"`
	Listing        *Listing          `json:"listing,omitempty"`
	DepositRequest *DepositRequest   `json:"depositRequest,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
}

type PaymentKind string

const (
	PaymentKindFull    PaymentKind = "full"
	PaymentKindDeposit PaymentKind = "deposit"
)

// TransactionView is the read-only aggregate presented to one viewer.
type TransactionView struct {
	ID          string            `json:"id"`
	Status      TransactionStatus `json:"status"`
	IsBuyer     bool              `json:"isBuyer"`
	IsSeller    bool              `json:"isSeller"`
	Counterpart PartyRef          `json:"counterpart"`
	Listing     *Listing          `json:"listing,omitempty"`
	Appointment *Appointment      `json:"appointment,omitempty"`
	Contract    *Contract         `json:"contract,omitempty"`
	DepositPaid decimal.Decimal   `json:"depositPaid"`
	Total       decimal.Decimal   `json:"total"`
	Remaining   decimal.Decimal   `json:"remaining"`
	PaymentKind PaymentKind       `json:"paymentKind"`
	KindLabel   string            `json:"paymentKindLabel,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// PaymentQR is what the backend answers for QR generation requests.
type PaymentQR struct {
	PaymentURL string `json:"paymentUrl"`
	QRCode     string `json:"qrCode,omitempty"`
	OrderID    string `json:"orderId,omitempty"`
}
