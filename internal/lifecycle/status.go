package lifecycle

import (
	"fmt"
	"strings"

	"github.com/javajoker/vehicle-gateway/internal/models"
)

type Action string

const (
	ActionConfirm        Action = "confirm"
	ActionReject         Action = "reject"
	ActionCancel         Action = "cancel"
	ActionComplete       Action = "complete"
	ActionUploadEvidence Action = "upload_evidence"
)

// StatusDescriptor is the display mapping of one status value. Actions lists
// every action legal in that status before any role filtering.
type StatusDescriptor struct {
	Status   string   `json:"status"`
	LabelKey string   `json:"labelKey"`
	Color    string   `json:"color"`
	Terminal bool     `json:"terminal"`
	Actions  []Action `json:"actions"`
}

var appointmentStatuses = map[models.AppointmentStatus]StatusDescriptor{
	models.AppointmentStatusPending: {
		LabelKey: "appointment.status.pending",
		Color:    "bg-yellow-100 text-yellow-800",
		Actions:  []Action{ActionConfirm, ActionReject, ActionCancel},
	},
	models.AppointmentStatusRescheduled: {
		LabelKey: "appointment.status.rescheduled",
		Color:    "bg-blue-100 text-blue-800",
		Actions:  []Action{ActionConfirm, ActionReject, ActionCancel},
	},
	models.AppointmentStatusConfirmed: {
		LabelKey: "appointment.status.confirmed",
		Color:    "bg-green-100 text-green-800",
		Actions:  []Action{ActionReject, ActionCancel},
	},
	models.AppointmentStatusCompleted: {
		LabelKey: "appointment.status.completed",
		Color:    "bg-emerald-100 text-emerald-800",
		Terminal: true,
	},
	models.AppointmentStatusCancelled: {
		LabelKey: "appointment.status.cancelled",
		Color:    "bg-red-100 text-red-800",
		Terminal: true,
	},
}

var contractStatuses = map[models.ContractStatus]StatusDescriptor{
	models.ContractStatusSigned: {
		LabelKey: "contract.status.signed",
		Color:    "bg-blue-100 text-blue-800",
		Actions:  []Action{ActionUploadEvidence, ActionComplete, ActionCancel},
	},
	models.ContractStatusCompleted: {
		LabelKey: "contract.status.completed",
		Color:    "bg-green-100 text-green-800",
		Terminal: true,
	},
	models.ContractStatusCancelled: {
		LabelKey: "contract.status.cancelled",
		Color:    "bg-red-100 text-red-800",
		Terminal: true,
	},
}

var unknownStatus = StatusDescriptor{
	LabelKey: "status.unknown",
	Color:    "bg-gray-100 text-gray-800",
}

func DescribeAppointment(status models.AppointmentStatus) StatusDescriptor {
	d, ok := appointmentStatuses[status]
	if !ok {
		d = unknownStatus
	}
	d.Status = string(status)
	d.Actions = append([]Action{}, d.Actions...)
	return d
}

func DescribeContract(status models.ContractStatus) StatusDescriptor {
	d, ok := contractStatuses[status]
	if !ok {
		d = unknownStatus
	}
	d.Status = string(status)
	d.Actions = append([]Action{}, d.Actions...)
	return d
}

// AppointmentActions returns the actions this viewer may take right now.
// Only the two parties act on appointments, and each confirms at most once.
func AppointmentActions(appt *models.Appointment, role Role) []Action {
	actions := []Action{}
	if appt == nil || !role.IsParty() {
		return actions
	}

	for _, action := range DescribeAppointment(appt.Status).Actions {
		if action == ActionConfirm && role.Confirmed(appt) {
			continue
		}
		actions = append(actions, action)
	}
	return actions
}

// ContractActions returns the staff actions available on a contract.
func ContractActions(contract *models.Contract, viewerRole models.UserRole) []Action {
	if contract == nil || !viewerRole.IsStaff() {
		return []Action{}
	}
	return DescribeContract(contract.Status).Actions
}

// CanAppointment is the client-side gate in front of an appointment action.
func CanAppointment(appt *models.Appointment, role Role, action Action) error {
	if appt.Status.IsTerminal() {
		return fmt.Errorf("%s on %s appointment: %w", action, strings.ToLower(string(appt.Status)), ErrTerminalStatus)
	}
	if !role.IsParty() {
		return ErrNotParty
	}
	if action == ActionConfirm && role.Confirmed(appt) {
		return ErrAlreadyConfirmed
	}
	if !containsAction(DescribeAppointment(appt.Status).Actions, action) {
		return fmt.Errorf("%s on %s appointment: %w", action, strings.ToLower(string(appt.Status)), ErrActionNotAllowed)
	}
	return nil
}

// CanContract is the client-side gate in front of a staff contract action.
func CanContract(contract *models.Contract, viewerRole models.UserRole, action Action) error {
	if contract.Status.IsTerminal() {
		return fmt.Errorf("%s on %s contract: %w", action, strings.ToLower(string(contract.Status)), ErrTerminalStatus)
	}
	if !viewerRole.IsStaff() {
		return ErrStaffOnly
	}
	if !containsAction(DescribeContract(contract.Status).Actions, action) {
		return fmt.Errorf("%s on %s contract: %w", action, strings.ToLower(string(contract.Status)), ErrActionNotAllowed)
	}
	return nil
}

func containsAction(actions []Action, action Action) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}
