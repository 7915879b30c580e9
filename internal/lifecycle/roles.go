package lifecycle

import "github.com/javajoker/vehicle-gateway/internal/models"

// Role says how the viewer relates to an appointment or contract. Both flags
// false means staff or an unrelated viewer.
type Role struct {
	IsBuyer  bool `json:"isBuyer"`
	IsSeller bool `json:"isSeller"`
}

// ResolveRole compares the viewer against normalized party references.
// Missing identities resolve to neither party rather than failing.
func ResolveRole(viewerID string, buyer, seller models.PartyRef) Role {
	if viewerID == "" {
		return Role{}
	}
	return Role{
		IsBuyer:  !buyer.IsZero() && buyer.ID == viewerID,
		IsSeller: !seller.IsZero() && seller.ID == viewerID,
	}
}

func ResolveAppointmentRole(viewerID string, appt *models.Appointment) Role {
	if appt == nil {
		return Role{}
	}
	return ResolveRole(viewerID, appt.Buyer, appt.Seller)
}

func ResolveContractRole(viewerID string, contract *models.Contract) Role {
	if contract == nil {
		return Role{}
	}
	return ResolveRole(viewerID, contract.Buyer, contract.Seller)
}

func (r Role) IsParty() bool {
	return r.IsBuyer || r.IsSeller
}

// Confirmed reports whether the viewer's own confirmation flag is set.
func (r Role) Confirmed(appt *models.Appointment) bool {
	switch {
	case r.IsBuyer:
		return appt.BuyerConfirmed
	case r.IsSeller:
		return appt.SellerConfirmed
	}
	return false
}

// Counterpart returns the other party from the viewer's point of view.
func (r Role) Counterpart(buyer, seller models.PartyRef) models.PartyRef {
	switch {
	case r.IsBuyer:
		return seller
	case r.IsSeller:
		return buyer
	}
	return models.PartyRef{}
}
