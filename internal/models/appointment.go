// internal/models/appointment.go
package models

import "time"

type Appointment struct {
	ID               string            `json:"_id"`
	Buyer            PartyRef          `json:"buyerId"`
	Seller           PartyRef          `json:"sellerId"`
	Type             AppointmentType   `json:"type"`
	Status           AppointmentStatus `json:"status"`
	ScheduledDate    *time.Time        `json:"scheduledDate,omitempty"`
	Location         string            `json:"location,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	BuyerConfirmed   bool              `json:"buyerConfirmed"`
	SellerConfirmed  bool              `json:"sellerConfirmed"`
	AuctionID        string            `json:"auctionId,omitempty"`
	AuctionEndTime   *time.Time        `json:"auctionEndTime,omitempty"`
	ListingID        string            `json:"listingId,omitempty"`
	DepositRequestID string            `json:"depositRequestId,omitempty"`
	RescheduledCount int               `json:"rescheduledCount,omitempty"`
	CancelReason     string            `json:"cancelReason,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// BothConfirmed reports whether buyer and seller have each confirmed.
func (a *Appointment) BothConfirmed() bool {
	return a.BuyerConfirmed && a.SellerConfirmed
}

// AppointmentFilter mirrors the list filters the backend accepts.
type AppointmentFilter struct {
	Page   int
	Limit  int
	Role   string
	Type   AppointmentType
	Status AppointmentStatus
}

// CreateFromAuction is the payload sent upstream when a winner books the
// hand-over appointment. Unset fields are omitted so the backend applies its
// own defaults.
type CreateFromAuction struct {
	AuctionID     string     `json:"auctionId"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
	Location      string     `json:"location,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}
