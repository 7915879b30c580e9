// internal/services/contract_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/vehicle-gateway/internal/backend"
	"github.com/javajoker/vehicle-gateway/internal/lifecycle"
	"github.com/javajoker/vehicle-gateway/internal/models"
)

const entityContract = "contract"

// EvidenceArchive keeps a copy of uploaded contract photos.
type EvidenceArchive interface {
	ArchiveEvidence(ctx context.Context, appointmentID string, files []lifecycle.EvidenceFile) ([]string, error)
}

type ContractService struct {
	backend ContractBackend
	journal Journal
	guard   *ActionGuard
	archive EvidenceArchive
}

type ContractView struct {
	Contract     *models.Contract           `json:"contract"`
	Status       lifecycle.StatusDescriptor `json:"status"`
	Actions      []lifecycle.Action         `json:"actions"`
	Remaining    decimal.Decimal            `json:"remaining"`
	SellerPhotos []string                   `json:"sellerPhotos"`
	BuyerPhotos  []string                   `json:"buyerPhotos"`
}

func NewContractService(backend ContractBackend, journal Journal, guard *ActionGuard, archive EvidenceArchive) *ContractService {
	return &ContractService{
		backend: backend,
		journal: journal,
		guard:   guard,
		archive: archive,
	}
}

func (s *ContractService) List(ctx context.Context, viewer Viewer, filter models.ContractFilter) ([]ContractView, *backend.Pagination, error) {
	if !viewer.Role.IsStaff() {
		return nil, nil, lifecycle.ErrStaffOnly
	}

	contracts, page, err := s.backend.ListContracts(ctx, viewer.Token, filter)
	if err != nil {
		return nil, nil, err
	}

	views := make([]ContractView, 0, len(contracts))
	for i := range contracts {
		views = append(views, contractView(viewer, &contracts[i]))
	}
	return views, page, nil
}

func (s *ContractService) Get(ctx context.Context, viewer Viewer, appointmentID string) (*ContractView, error) {
	if !viewer.Role.IsStaff() {
		return nil, lifecycle.ErrStaffOnly
	}

	contract, err := s.backend.GetContract(ctx, viewer.Token, appointmentID)
	if err != nil {
		return nil, err
	}
	view := contractView(viewer, contract)
	return &view, nil
}

// UploadEvidence sends both parties' photos in one request, seller side
// first. Incomplete sets are refused before anything goes upstream.
func (s *ContractService) UploadEvidence(ctx context.Context, viewer Viewer, appointmentID string, evidence *lifecycle.EvidenceSet) (*ContractView, error) {
	if err := evidence.Validate(); err != nil {
		return nil, err
	}

	files := evidence.Ordered()
	photos := make([]backend.Photo, 0, len(files))
	for _, file := range files {
		photos = append(photos, backend.Photo{Name: file.Name, ContentType: file.ContentType, Data: file.Data})
	}

	var archived []string
	view, err := s.perform(ctx, viewer, lifecycle.ActionUploadEvidence, appointmentID, func() error {
		if err := s.backend.UploadContractPhotos(ctx, viewer.Token, appointmentID, photos); err != nil {
			return err
		}
		archived = s.archiveEvidence(ctx, appointmentID, files)
		return nil
	}, func(entry *models.ActionLog) {
		entry.PhotoKeys = archived
	})
	return view, err
}

func (s *ContractService) Complete(ctx context.Context, viewer Viewer, appointmentID string) (*ContractView, error) {
	return s.perform(ctx, viewer, lifecycle.ActionComplete, appointmentID, func() error {
		return s.backend.CompleteContract(ctx, viewer.Token, appointmentID)
	}, nil)
}

func (s *ContractService) Cancel(ctx context.Context, viewer Viewer, appointmentID, reason string) (*ContractView, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, lifecycle.ErrReasonRequired
	}
	return s.perform(ctx, viewer, lifecycle.ActionCancel, appointmentID, func() error {
		return s.backend.CancelContract(ctx, viewer.Token, appointmentID, reason)
	}, func(entry *models.ActionLog) {
		entry.Details = map[string]interface{}{"reason": reason}
	})
}

func (s *ContractService) perform(ctx context.Context, viewer Viewer, action lifecycle.Action, appointmentID string, mutate func() error, annotate func(*models.ActionLog)) (*ContractView, error) {
	if !viewer.Role.IsStaff() {
		return nil, lifecycle.ErrStaffOnly
	}

	release, err := s.guard.Acquire(viewer.ID, string(action), appointmentID)
	if err != nil {
		return nil, err
	}
	defer release()

	contract, err := s.backend.GetContract(ctx, viewer.Token, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanContract(contract, viewer.Role, action); err != nil {
		s.journal.Record(ctx, newActionLog(viewer, string(action), entityContract, appointmentID, err))
		return nil, err
	}

	if err := mutate(); err != nil {
		s.journal.Record(ctx, newActionLog(viewer, string(action), entityContract, appointmentID, err))
		return nil, err
	}
	entry := newActionLog(viewer, string(action), entityContract, appointmentID, nil)
	if annotate != nil {
		annotate(entry)
	}
	s.journal.Record(ctx, entry)

	fresh, err := s.backend.GetContract(ctx, viewer.Token, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("re-fetch after %s: %w", action, err)
	}
	view := contractView(viewer, fresh)
	return &view, nil
}

func (s *ContractService) archiveEvidence(ctx context.Context, appointmentID string, files []lifecycle.EvidenceFile) []string {
	if s.archive == nil {
		return nil
	}
	keys, err := s.archive.ArchiveEvidence(ctx, appointmentID, files)
	if err != nil {
		logrus.WithError(err).WithField("appointment_id", appointmentID).Warn("Failed to archive contract evidence")
	}
	return keys
}

func contractView(viewer Viewer, contract *models.Contract) ContractView {
	return ContractView{
		Contract:     contract,
		Status:       lifecycle.DescribeContract(contract.Status),
		Actions:      lifecycle.ContractActions(contract, viewer.Role),
		Remaining:    contract.Remaining(),
		SellerPhotos: contract.SellerPhotos(),
		BuyerPhotos:  contract.BuyerPhotos(),
	}
}
