// internal/services/appointment_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/javajoker/vehicle-gateway/internal/backend"
	"github.com/javajoker/vehicle-gateway/internal/lifecycle"
	"github.com/javajoker/vehicle-gateway/internal/models"
)

const (
	entityAppointment = "appointment"
	actionCreate      = "create_from_auction"
)

type AppointmentService struct {
	backend     AppointmentBackend
	journal     Journal
	guard       *ActionGuard
	frontendURL string
	now         func() time.Time
}

// AppointmentView is an appointment plus everything derived for one viewer.
type AppointmentView struct {
	Appointment *models.Appointment        `json:"appointment"`
	Role        lifecycle.Role             `json:"role"`
	Status      lifecycle.StatusDescriptor `json:"status"`
	Actions     []lifecycle.Action         `json:"actions"`
	Deadline    *lifecycle.Deadline        `json:"deadline,omitempty"`
}

type CreatedAppointment struct {
	ID          string              `json:"id"`
	DetailURL   string              `json:"detailUrl"`
	Appointment *models.Appointment `json:"appointment"`
}

func NewAppointmentService(backend AppointmentBackend, journal Journal, guard *ActionGuard, frontendURL string) *AppointmentService {
	return &AppointmentService{
		backend:     backend,
		journal:     journal,
		guard:       guard,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

func (s *AppointmentService) List(ctx context.Context, viewer Viewer, filter models.AppointmentFilter) ([]AppointmentView, *backend.Pagination, error) {
	appointments, page, err := s.backend.ListAppointments(ctx, viewer.Token, filter)
	if err != nil {
		return nil, nil, err
	}

	views := make([]AppointmentView, 0, len(appointments))
	for i := range appointments {
		views = append(views, s.view(viewer, &appointments[i]))
	}
	return views, page, nil
}

func (s *AppointmentService) Get(ctx context.Context, viewer Viewer, id string) (*AppointmentView, error) {
	appt, err := s.backend.GetAppointment(ctx, viewer.Token, id)
	if err != nil {
		return nil, err
	}
	view := s.view(viewer, appt)
	return &view, nil
}

// DeadlineTracker returns the countdown to the end of the post-auction
// action window. Terminal and non-auction appointments have no deadline.
func (s *AppointmentService) DeadlineTracker(appt *models.Appointment) *lifecycle.Tracker {
	var anchor *time.Time
	if appt.Type == models.AppointmentTypeAuction && !appt.Status.IsTerminal() {
		anchor = appt.AuctionEndTime
	}
	return lifecycle.NewTracker(anchor, lifecycle.ActionWindow, lifecycle.WithClock(s.now))
}

// Confirm sets the viewer's confirmation flag. Confirming an appointment that
// is already CONFIRMED is a no-op that returns the current state.
func (s *AppointmentService) Confirm(ctx context.Context, viewer Viewer, id string) (*AppointmentView, error) {
	return s.perform(ctx, viewer, lifecycle.ActionConfirm, id, func() error {
		return s.backend.ConfirmAppointment(ctx, viewer.Token, id)
	})
}

func (s *AppointmentService) Reject(ctx context.Context, viewer Viewer, id, reason string) (*AppointmentView, error) {
	return s.perform(ctx, viewer, lifecycle.ActionReject, id, func() error {
		return s.backend.RejectAppointment(ctx, viewer.Token, id, reason)
	})
}

func (s *AppointmentService) Cancel(ctx context.Context, viewer Viewer, id, reason string) (*AppointmentView, error) {
	return s.perform(ctx, viewer, lifecycle.ActionCancel, id, func() error {
		return s.backend.CancelAppointment(ctx, viewer.Token, id, reason)
	})
}

// CreateFromAuction books the hand-over appointment of a won auction. Unset
// date, location and notes are left to the backend's defaults.
func (s *AppointmentService) CreateFromAuction(ctx context.Context, viewer Viewer, req models.CreateFromAuction) (*CreatedAppointment, error) {
	release, err := s.guard.Acquire(viewer.ID, actionCreate, req.AuctionID)
	if err != nil {
		return nil, err
	}
	defer release()

	appt, err := s.backend.CreateAppointmentFromAuction(ctx, viewer.Token, req)
	if err != nil {
		s.journal.Record(ctx, newActionLog(viewer, actionCreate, entityAppointment, req.AuctionID, err))
		return nil, err
	}
	if appt.ID == "" {
		err = fmt.Errorf("backend created an appointment without an id")
		s.journal.Record(ctx, newActionLog(viewer, actionCreate, entityAppointment, req.AuctionID, err))
		return nil, err
	}

	entry := newActionLog(viewer, actionCreate, entityAppointment, appt.ID, nil)
	entry.Details = map[string]interface{}{"auctionId": req.AuctionID}
	s.journal.Record(ctx, entry)

	return &CreatedAppointment{
		ID:          appt.ID,
		DetailURL:   s.DetailURL(appt.ID),
		Appointment: appt,
	}, nil
}

func (s *AppointmentService) DetailURL(id string) string {
	return fmt.Sprintf("%s/appointments/%s", s.frontendURL, id)
}

// perform gates the action on fresh state, sends exactly one mutation and
// answers with a re-fetched appointment. Failures are never retried.
func (s *AppointmentService) perform(ctx context.Context, viewer Viewer, action lifecycle.Action, id string, mutate func() error) (*AppointmentView, error) {
	release, err := s.guard.Acquire(viewer.ID, string(action), id)
	if err != nil {
		return nil, err
	}
	defer release()

	appt, err := s.backend.GetAppointment(ctx, viewer.Token, id)
	if err != nil {
		return nil, err
	}

	role := lifecycle.ResolveAppointmentRole(viewer.ID, appt)
	if action == lifecycle.ActionConfirm && role.IsParty() && appt.Status == models.AppointmentStatusConfirmed {
		view := s.view(viewer, appt)
		return &view, nil
	}

	if err := lifecycle.CanAppointment(appt, role, action); err != nil {
		s.journal.Record(ctx, newActionLog(viewer, string(action), entityAppointment, id, err))
		return nil, err
	}

	if err := mutate(); err != nil {
		s.journal.Record(ctx, newActionLog(viewer, string(action), entityAppointment, id, err))
		return nil, err
	}
	s.journal.Record(ctx, newActionLog(viewer, string(action), entityAppointment, id, nil))

	fresh, err := s.backend.GetAppointment(ctx, viewer.Token, id)
	if err != nil {
		return nil, fmt.Errorf("re-fetch after %s: %w", action, err)
	}
	view := s.view(viewer, fresh)
	return &view, nil
}

func (s *AppointmentService) view(viewer Viewer, appt *models.Appointment) AppointmentView {
	role := lifecycle.ResolveAppointmentRole(viewer.ID, appt)
	view := AppointmentView{
		Appointment: appt,
		Role:        role,
		Status:      lifecycle.DescribeAppointment(appt.Status),
		Actions:     lifecycle.AppointmentActions(appt, role),
	}
	if deadline := s.DeadlineTracker(appt).Current(); deadline.HasDeadline {
		view.Deadline = &deadline
	}
	return view
}
