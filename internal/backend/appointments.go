package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/javajoker/vehicle-gateway/internal/models"
)

type reasonPayload struct {
	Reason string `json:"reason,omitempty"`
}

func (c *Client) ListAppointments(ctx context.Context, token string, filter models.AppointmentFilter) ([]models.Appointment, *Pagination, error) {
	query := pageQuery(filter.Page, filter.Limit)
	if filter.Role != "" {
		query.Set("role", filter.Role)
	}
	if filter.Type != "" {
		query.Set("type", string(filter.Type))
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}

	var appointments []models.Appointment
	page, err := c.doJSON(ctx, token, http.MethodGet, "/appointments", query, nil, &appointments)
	if err != nil {
		return nil, nil, err
	}
	return appointments, page, nil
}

func (c *Client) GetAppointment(ctx context.Context, token, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if _, err := c.doJSON(ctx, token, http.MethodGet, "/appointments/"+url.PathEscape(id), nil, nil, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (c *Client) ConfirmAppointment(ctx context.Context, token, id string) error {
	_, err := c.doJSON(ctx, token, http.MethodPut, "/appointments/"+url.PathEscape(id)+"/confirm", nil, struct{}{}, nil)
	return err
}

// RejectAppointment asks the backend to reschedule; it moves the date by a
// week on its own.
func (c *Client) RejectAppointment(ctx context.Context, token, id, reason string) error {
	_, err := c.doJSON(ctx, token, http.MethodPut, "/appointments/"+url.PathEscape(id)+"/reject", nil, reasonPayload{Reason: reason}, nil)
	return err
}

func (c *Client) CancelAppointment(ctx context.Context, token, id, reason string) error {
	_, err := c.doJSON(ctx, token, http.MethodPut, "/appointments/"+url.PathEscape(id)+"/cancel", nil, reasonPayload{Reason: reason}, nil)
	return err
}

func (c *Client) CreateAppointmentFromAuction(ctx context.Context, token string, req models.CreateFromAuction) (*models.Appointment, error) {
	var appt models.Appointment
	if _, err := c.doJSON(ctx, token, http.MethodPost, "/appointments/auction", nil, req, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}
