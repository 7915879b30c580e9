package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/javajoker/vehicle-gateway/internal/models"
)

func TestTerminalStatusesExposeNoActions(t *testing.T) {
	for _, status := range []models.AppointmentStatus{models.AppointmentStatusCompleted, models.AppointmentStatusCancelled} {
		d := DescribeAppointment(status)
		assert.True(t, d.Terminal, status)
		assert.Empty(t, d.Actions, status)

		appt := &models.Appointment{Status: status, Buyer: models.PartyRef{ID: "b"}, Seller: models.PartyRef{ID: "s"}}
		assert.Empty(t, AppointmentActions(appt, Role{IsBuyer: true}), status)
		for _, action := range []Action{ActionConfirm, ActionReject, ActionCancel} {
			assert.ErrorIs(t, CanAppointment(appt, Role{IsBuyer: true}, action), ErrTerminalStatus)
		}
	}

	for _, status := range []models.ContractStatus{models.ContractStatusCompleted, models.ContractStatusCancelled} {
		d := DescribeContract(status)
		assert.True(t, d.Terminal, status)
		assert.Empty(t, d.Actions, status)

		contract := &models.Contract{Status: status}
		assert.Empty(t, ContractActions(contract, models.UserRoleStaff))
		for _, action := range []Action{ActionComplete, ActionCancel, ActionUploadEvidence} {
			assert.ErrorIs(t, CanContract(contract, models.UserRoleStaff, action), ErrTerminalStatus)
		}
	}
}

func TestAppointmentActionsByRole(t *testing.T) {
	appt := &models.Appointment{Status: models.AppointmentStatusPending}

	assert.Equal(t, []Action{ActionConfirm, ActionReject, ActionCancel}, AppointmentActions(appt, Role{IsBuyer: true}))
	assert.Empty(t, AppointmentActions(appt, Role{}), "staff or unrelated viewers act on contracts only")

	appt.BuyerConfirmed = true
	assert.Equal(t, []Action{ActionReject, ActionCancel}, AppointmentActions(appt, Role{IsBuyer: true}))
	assert.Equal(t, []Action{ActionConfirm, ActionReject, ActionCancel}, AppointmentActions(appt, Role{IsSeller: true}))
	assert.ErrorIs(t, CanAppointment(appt, Role{IsBuyer: true}, ActionConfirm), ErrAlreadyConfirmed)
	assert.NoError(t, CanAppointment(appt, Role{IsSeller: true}, ActionConfirm))
}

func TestConfirmedAppointmentAllowsRejectAndCancel(t *testing.T) {
	appt := &models.Appointment{Status: models.AppointmentStatusConfirmed, BuyerConfirmed: true, SellerConfirmed: true}

	assert.Equal(t, []Action{ActionReject, ActionCancel}, AppointmentActions(appt, Role{IsSeller: true}))
	assert.NoError(t, CanAppointment(appt, Role{IsSeller: true}, ActionReject))
	assert.ErrorIs(t, CanAppointment(appt, Role{}, ActionCancel), ErrNotParty)
}

func TestContractActionsAreStaffOnly(t *testing.T) {
	contract := &models.Contract{Status: models.ContractStatusSigned}

	assert.Equal(t, []Action{ActionUploadEvidence, ActionComplete, ActionCancel}, ContractActions(contract, models.UserRoleAdmin))
	assert.Empty(t, ContractActions(contract, models.UserRoleUser))
	assert.ErrorIs(t, CanContract(contract, models.UserRoleUser, ActionComplete), ErrStaffOnly)
	assert.NoError(t, CanContract(contract, models.UserRoleStaff, ActionComplete))
	assert.ErrorIs(t, CanContract(contract, models.UserRoleStaff, ActionConfirm), ErrActionNotAllowed)
}

func TestDescribeUnknownStatus(t *testing.T) {
	d := DescribeAppointment("ARCHIVED")
	assert.Equal(t, "ARCHIVED", d.Status)
	assert.Equal(t, "status.unknown", d.LabelKey)
	assert.Empty(t, d.Actions)
}

func TestDescribeReturnsCopies(t *testing.T) {
	d := DescribeAppointment(models.AppointmentStatusPending)
	d.Actions[0] = ActionComplete

	assert.Equal(t, ActionConfirm, DescribeAppointment(models.AppointmentStatusPending).Actions[0])
}
