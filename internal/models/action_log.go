// internal/models/action_log.go
package models

import "github.com/lib/pq"

type ActionOutcome string

const (
	ActionOutcomeSuccess ActionOutcome = "success"
	ActionOutcomeFailure ActionOutcome = "failure"
)

// ActionLog records one lifecycle action attempted through the gateway.
type ActionLog struct {
	BaseModel
	RequestID  string         `json:"request_id" gorm:"size:36;index"`
	ViewerID   string         `json:"viewer_id" gorm:"size:64;not null;index"`
	Action     string         `json:"action" gorm:"size:50;not null;index"`
	EntityType string         `json:"entity_type" gorm:"size:30;not null"`
	EntityID   string         `json:"entity_id" gorm:"size:64;not null;index"`
	Outcome    ActionOutcome  `json:"outcome" gorm:"type:varchar(10);not null"`
	Message    string         `json:"message,omitempty" gorm:"type:text"`
	PhotoKeys  pq.StringArray `json:"photo_keys,omitempty" gorm:"type:text[]"`
	Details    JSONB          `json:"details,omitempty" gorm:"type:jsonb"`
}
