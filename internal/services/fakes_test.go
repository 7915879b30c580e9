package services

import (
	"context"
	"sync"

	"github.com/javajoker/vehicle-gateway/internal/backend"
	"github.com/javajoker/vehicle-gateway/internal/models"
)

type fakeBackend struct {
	mu sync.Mutex

	appointments map[string]*models.Appointment
	contracts    map[string]*models.Contract
	history      []models.TransactionRecord
	qr           *models.PaymentQR

	mutationErr error
	onMutate    func(id string)

	mutations     []string
	uploaded      []backend.Photo
	created       []models.CreateFromAuction
	historyCalls  int
	historyCap    int
	lastQRRequest []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		appointments: make(map[string]*models.Appointment),
		contracts:    make(map[string]*models.Contract),
	}
}

func (f *fakeBackend) mutate(name, id string) error {
	f.mu.Lock()
	f.mutations = append(f.mutations, name+":"+id)
	err := f.mutationErr
	hook := f.onMutate
	f.mu.Unlock()
	if err == nil && hook != nil {
		hook(id)
	}
	return err
}

func (f *fakeBackend) mutationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.mutations)
}

func (f *fakeBackend) ListAppointments(ctx context.Context, token string, filter models.AppointmentFilter) ([]models.Appointment, *backend.Pagination, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, appt := range f.appointments {
		out = append(out, *appt)
	}
	return out, &backend.Pagination{Page: 1, Limit: 20, Total: int64(len(out)), TotalPages: 1}, nil
}

func (f *fakeBackend) GetAppointment(ctx context.Context, token, id string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appt, ok := f.appointments[id]
	if !ok {
		return nil, &backend.APIError{StatusCode: 404, Message: "not found"}
	}
	copied := *appt
	return &copied, nil
}

func (f *fakeBackend) ConfirmAppointment(ctx context.Context, token, id string) error {
	return f.mutate("confirm", id)
}

func (f *fakeBackend) RejectAppointment(ctx context.Context, token, id, reason string) error {
	return f.mutate("reject", id)
}

func (f *fakeBackend) CancelAppointment(ctx context.Context, token, id, reason string) error {
	return f.mutate("cancel", id)
}

func (f *fakeBackend) CreateAppointmentFromAuction(ctx context.Context, token string, req models.CreateFromAuction) (*models.Appointment, error) {
	f.mu.Lock()
	f.created = append(f.created, req)
	f.mu.Unlock()
	if err := f.mutate("create", req.AuctionID); err != nil {
		return nil, err
	}
	return &models.Appointment{ID: "appt-new", AuctionID: req.AuctionID, Status: models.AppointmentStatusPending}, nil
}

func (f *fakeBackend) ListContracts(ctx context.Context, token string, filter models.ContractFilter) ([]models.Contract, *backend.Pagination, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Contract
	for _, contract := range f.contracts {
		out = append(out, *contract)
	}
	return out, nil, nil
}

func (f *fakeBackend) GetContract(ctx context.Context, token, appointmentID string) (*models.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	contract, ok := f.contracts[appointmentID]
	if !ok {
		return nil, &backend.APIError{StatusCode: 404}
	}
	copied := *contract
	return &copied, nil
}

func (f *fakeBackend) UploadContractPhotos(ctx context.Context, token, appointmentID string, photos []backend.Photo) error {
	f.mu.Lock()
	f.uploaded = append([]backend.Photo(nil), photos...)
	f.mu.Unlock()
	return f.mutate("upload", appointmentID)
}

func (f *fakeBackend) CompleteContract(ctx context.Context, token, appointmentID string) error {
	return f.mutate("complete", appointmentID)
}

func (f *fakeBackend) CancelContract(ctx context.Context, token, appointmentID, reason string) error {
	return f.mutate("cancel_contract", appointmentID)
}

func (f *fakeBackend) CreateDeposit(ctx context.Context, token string, req backend.CreateDepositRequest) (*models.DepositRequest, error) {
	if err := f.mutate("deposit", req.ListingID); err != nil {
		return nil, err
	}
	return &models.DepositRequest{ID: "dep-1", ListingID: req.ListingID, DepositAmount: req.DepositAmount}, nil
}

func (f *fakeBackend) GenerateRemainingQR(ctx context.Context, token, listingID, depositRequestID string) (*models.PaymentQR, error) {
	f.mu.Lock()
	f.lastQRRequest = []string{listingID, depositRequestID}
	f.mu.Unlock()
	return f.qrResult("remaining_qr", listingID)
}

func (f *fakeBackend) GenerateFullQR(ctx context.Context, token, listingID string) (*models.PaymentQR, error) {
	return f.qrResult("full_qr", listingID)
}

func (f *fakeBackend) PayRemaining(ctx context.Context, token, appointmentID string) (*models.PaymentQR, error) {
	return f.qrResult("pay_remaining", appointmentID)
}

func (f *fakeBackend) qrResult(name, id string) (*models.PaymentQR, error) {
	if err := f.mutate(name, id); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.qr == nil {
		return &models.PaymentQR{}, nil
	}
	copied := *f.qr
	return &copied, nil
}

func (f *fakeBackend) TransactionHistory(ctx context.Context, token string, page, limit int) ([]models.TransactionRecord, *backend.Pagination, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++

	var pagination *backend.Pagination
	if f.historyCap > 0 {
		if limit > f.historyCap {
			limit = f.historyCap
		}
		total := len(f.history)
		pagination = &backend.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      int64(total),
			TotalPages: (total + limit - 1) / limit,
		}
	}

	start := (page - 1) * limit
	if start >= len(f.history) {
		return []models.TransactionRecord{}, pagination, nil
	}
	end := start + limit
	if end > len(f.history) {
		end = len(f.history)
	}
	return f.history[start:end], pagination, nil
}

type memJournal struct {
	mu      sync.Mutex
	entries []*models.ActionLog
}

func (j *memJournal) Record(ctx context.Context, entry *models.ActionLog) {
	j.mu.Lock()
	j.entries = append(j.entries, entry)
	j.mu.Unlock()
}

func (j *memJournal) last() *models.ActionLog {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.entries) == 0 {
		return nil
	}
	return j.entries[len(j.entries)-1]
}
