// internal/services/journal_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/vehicle-gateway/internal/models"
	"github.com/javajoker/vehicle-gateway/internal/utils"
)

var journalSortFields = []string{"created_at", "action", "entity_id", "viewer_id"}

// JournalService persists lifecycle action outcomes for the staff activity
// view. Without a database it only logs.
type JournalService struct {
	db *gorm.DB
}

type JournalFilter struct {
	ViewerID   string
	EntityID   string
	Action     string
	EntityType string
	Outcome    models.ActionOutcome
	Since      *time.Time
}

func NewJournalService(db *gorm.DB) *JournalService {
	return &JournalService{db: db}
}

func (s *JournalService) Enabled() bool {
	return s.db != nil
}

// Record never fails the calling action; storage errors are logged.
func (s *JournalService) Record(ctx context.Context, entry *models.ActionLog) {
	fields := logrus.Fields{
		"request_id":  entry.RequestID,
		"viewer_id":   entry.ViewerID,
		"action":      entry.Action,
		"entity_type": entry.EntityType,
		"entity_id":   entry.EntityID,
		"outcome":     entry.Outcome,
	}
	if entry.Outcome == models.ActionOutcomeFailure {
		logrus.WithFields(fields).WithField("message", entry.Message).Warn("Lifecycle action failed")
	} else {
		logrus.WithFields(fields).Info("Lifecycle action succeeded")
	}

	if s.db == nil {
		return
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		logrus.WithFields(fields).WithError(err).Error("Failed to write action journal")
	}
}

func (s *JournalService) List(ctx context.Context, filter JournalFilter, params utils.PaginationParams) ([]models.ActionLog, int64, error) {
	if s.db == nil {
		return []models.ActionLog{}, 0, nil
	}

	query := s.filtered(s.db.WithContext(ctx).Model(&models.ActionLog{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count journal entries: %w", err)
	}

	var entries []models.ActionLog
	query = utils.ApplySort(query, params, journalSortFields)
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list journal entries: %w", err)
	}

	return entries, total, nil
}

var ErrJournalEntryNotFound = errors.New("journal entry not found")

func (s *JournalService) Get(ctx context.Context, id uuid.UUID) (*models.ActionLog, error) {
	if s.db == nil {
		return nil, ErrJournalEntryNotFound
	}

	var entry models.ActionLog
	if err := s.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJournalEntryNotFound
		}
		return nil, fmt.Errorf("failed to load journal entry: %w", err)
	}
	return &entry, nil
}

func (s *JournalService) filtered(query *gorm.DB, filter JournalFilter) *gorm.DB {
	if filter.ViewerID != "" {
		query = query.Where("viewer_id = ?", filter.ViewerID)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.Outcome != "" {
		query = query.Where("outcome = ?", filter.Outcome)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}
	return query
}

func newActionLog(viewer Viewer, action, entityType, entityID string, err error) *models.ActionLog {
	entry := &models.ActionLog{
		RequestID:  viewer.RequestID,
		ViewerID:   viewer.ID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Outcome:    models.ActionOutcomeSuccess,
	}
	if err != nil {
		entry.Outcome = models.ActionOutcomeFailure
		entry.Message = err.Error()
	}
	return entry
}
