// internal/models/common.go
package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// PartyRef is the canonical form of a buyer or seller reference. The backend
// sends either a bare id string or an expanded user object; both decode here.
type PartyRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type expandedParty struct {
	MongoID  string `json:"_id"`
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

func (p *PartyRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = PartyRef{}
		return nil
	}

	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*p = PartyRef{ID: id}
		return nil
	}

	var raw expandedParty
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.ID = raw.MongoID
	if p.ID == "" {
		p.ID = raw.ID
	}
	p.Name = raw.FullName
	if p.Name == "" {
		p.Name = raw.Name
	}
	p.Phone = raw.Phone
	p.Email = raw.Email
	return nil
}

// IsZero reports whether the reference carries no identity.
func (p PartyRef) IsZero() bool {
	return p.ID == ""
}

// Enums
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleStaff UserRole = "staff"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) IsStaff() bool {
	return r == UserRoleStaff || r == UserRoleAdmin
}

type AppointmentType string

const (
	AppointmentTypeAuction AppointmentType = "AUCTION"
	AppointmentTypeDeposit AppointmentType = "DEPOSIT"
	AppointmentTypeOther   AppointmentType = "OTHER"
)

type AppointmentStatus string

const (
	AppointmentStatusPending     AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed   AppointmentStatus = "CONFIRMED"
	AppointmentStatusRescheduled AppointmentStatus = "RESCHEDULED"
	AppointmentStatusCancelled   AppointmentStatus = "CANCELLED"
	AppointmentStatusCompleted   AppointmentStatus = "COMPLETED"
)

// IsTerminal reports whether no further status or flag mutation is valid.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

type ContractStatus string

const (
	ContractStatusSigned    ContractStatus = "SIGNED"
	ContractStatusCompleted ContractStatus = "COMPLETED"
	ContractStatusCancelled ContractStatus = "CANCELLED"
)

func (s ContractStatus) IsTerminal() bool {
	return s != ContractStatusSigned
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)
