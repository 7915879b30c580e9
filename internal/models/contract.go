// internal/models/contract.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PhotosPerParty is the number of evidence photos each side must supply.
const PhotosPerParty = 3

type VehicleSnapshot struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Color string `json:"color"`
}

type Contract struct {
	ID             string          `json:"_id"`
	ContractNumber string          `json:"contractNumber"`
	AppointmentID  string          `json:"appointmentId"`
	Buyer          PartyRef        `json:"buyerId"`
	Seller         PartyRef        `json:"sellerId"`
	BuyerName      string          `json:"buyerName"`
	BuyerIDNumber  string          `json:"buyerIdNumber"`
	BuyerAddress   string          `json:"buyerAddress"`
	SellerName     string          `json:"sellerName"`
	SellerIDNumber string          `json:"sellerIdNumber"`
	SellerAddress  string          `json:"sellerAddress"`
	Vehicle        VehicleSnapshot `json:"vehicle"`
	PurchasePrice  decimal.Decimal `json:"purchasePrice"`
	DepositAmount  decimal.Decimal `json:"depositAmount"`
	Status         ContractStatus  `json:"status"`
	Photos         []string        `json:"photos"`
	StaffID        string          `json:"staffId,omitempty"`
	CancelReason   string          `json:"cancelReason,omitempty"`
	SignedAt       *time.Time      `json:"signedAt,omitempty"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty"`
	CancelledAt    *time.Time      `json:"cancelledAt,omitempty"`
}

// Remaining is max(0, purchasePrice - depositAmount).
func (c *Contract) Remaining() decimal.Decimal {
	remaining := c.PurchasePrice.Sub(c.DepositAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// SellerPhotos returns the first PhotosPerParty photos.
func (c *Contract) SellerPhotos() []string {
	return photoSlice(c.Photos, 0)
}

// BuyerPhotos returns the photos following the seller's.
func (c *Contract) BuyerPhotos() []string {
	return photoSlice(c.Photos, PhotosPerParty)
}

func photoSlice(photos []string, from int) []string {
	if len(photos) <= from {
		return []string{}
	}
	to := from + PhotosPerParty
	if to > len(photos) {
		to = len(photos)
	}
	return photos[from:to]
}

type ContractFilter struct {
	Page   int
	Limit  int
	Status ContractStatus
}
