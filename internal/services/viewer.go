// internal/services/viewer.go
package services

import (
	"context"

	"github.com/javajoker/vehicle-gateway/internal/backend"
	"github.com/javajoker/vehicle-gateway/internal/models"
)

// Viewer is the authenticated caller of a gateway request.
type Viewer struct {
	ID        string
	Role      models.UserRole
	Token     string
	RequestID string
}

// AppointmentBackend is the upstream surface the appointment service uses.
type AppointmentBackend interface {
	ListAppointments(ctx context.Context, token string, filter models.AppointmentFilter) ([]models.Appointment, *backend.Pagination, error)
	GetAppointment(ctx context.Context, token, id string) (*models.Appointment, error)
	ConfirmAppointment(ctx context.Context, token, id string) error
	RejectAppointment(ctx context.Context, token, id, reason string) error
	CancelAppointment(ctx context.Context, token, id, reason string) error
	CreateAppointmentFromAuction(ctx context.Context, token string, req models.CreateFromAuction) (*models.Appointment, error)
}

type ContractBackend interface {
	ListContracts(ctx context.Context, token string, filter models.ContractFilter) ([]models.Contract, *backend.Pagination, error)
	GetContract(ctx context.Context, token, appointmentID string) (*models.Contract, error)
	UploadContractPhotos(ctx context.Context, token, appointmentID string, photos []backend.Photo) error
	CompleteContract(ctx context.Context, token, appointmentID string) error
	CancelContract(ctx context.Context, token, appointmentID, reason string) error
}

type PaymentBackend interface {
	CreateDeposit(ctx context.Context, token string, req backend.CreateDepositRequest) (*models.DepositRequest, error)
	GenerateRemainingQR(ctx context.Context, token, listingID, depositRequestID string) (*models.PaymentQR, error)
	GenerateFullQR(ctx context.Context, token, listingID string) (*models.PaymentQR, error)
	PayRemaining(ctx context.Context, token, appointmentID string) (*models.PaymentQR, error)
}

type TransactionBackend interface {
	TransactionHistory(ctx context.Context, token string, page, limit int) ([]models.TransactionRecord, *backend.Pagination, error)
}

// Journal receives one entry per attempted lifecycle action.
type Journal interface {
	Record(ctx context.Context, entry *models.ActionLog)
}
