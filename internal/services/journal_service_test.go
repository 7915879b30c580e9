package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/javajoker/vehicle-gateway/internal/models"
	"github.com/javajoker/vehicle-gateway/internal/utils"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 user=gateway dbname=gateway sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestJournalFilterBuildsWhereClause(t *testing.T) {
	svc := NewJournalService(dryRunDB(t))

	var entries []models.ActionLog
	stmt := svc.filtered(svc.db.Model(&models.ActionLog{}), JournalFilter{
		ViewerID: "staff-1",
		Outcome:  models.ActionOutcomeFailure,
	}).Find(&entries).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "viewer_id = $1")
	assert.Contains(t, sql, "outcome = $2")
	assert.NotContains(t, sql, "entity_id")
	assert.Equal(t, []interface{}{"staff-1", models.ActionOutcomeFailure}, stmt.Vars)
}

func TestJournalWithoutDatabase(t *testing.T) {
	svc := NewJournalService(nil)
	assert.False(t, svc.Enabled())

	svc.Record(context.Background(), newActionLog(staffViewer, "complete", entityContract, "appt-1", errors.New("boom")))

	entries, total, err := svc.List(context.Background(), JournalFilter{}, utils.PaginationParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Zero(t, total)
}

func TestNewActionLogOutcome(t *testing.T) {
	viewer := Viewer{ID: "u1", RequestID: "req-1"}

	ok := newActionLog(viewer, "confirm", entityAppointment, "appt-1", nil)
	assert.Equal(t, models.ActionOutcomeSuccess, ok.Outcome)
	assert.Equal(t, "req-1", ok.RequestID)

	failed := newActionLog(viewer, "confirm", entityAppointment, "appt-1", errors.New("backend responded with status 400"))
	assert.Equal(t, models.ActionOutcomeFailure, failed.Outcome)
	assert.Equal(t, "backend responded with status 400", failed.Message)
}

func TestJournalGetWithoutDatabase(t *testing.T) {
	svc := NewJournalService(nil)

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrJournalEntryNotFound)
}
