package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is one practice run: a structured resume profile plus the
// personalized questions generated for it. The profile fields are immutable
// once the session is created.
type Session struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobCategory      string     `gorm:"type:text;not null" json:"job_category"`
	TargetRole       string     `gorm:"type:text" json:"target_role"`
	ResumeDocumentID *uuid.UUID `gorm:"type:uuid" json:"resume_document_id,omitempty"`
	RedactedText     string     `gorm:"type:text" json:"-"`
	Skills           []string   `gorm:"serializer:json" json:"skills"`
	Organizations    []string   `gorm:"serializer:json" json:"organizations"`
	Locations        []string   `gorm:"serializer:json" json:"locations"`
	CreatedAt        time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Questions []Question `gorm:"foreignKey:SessionID" json:"questions,omitempty"`
}

func (Session) TableName() string {
	return "sessions"
}

// Question is a personalized question presented to the candidate. SourceEntryID
// always points back at the bank entry it was rendered from, even when the
// personalization call fell back to the verbatim prompt.
type Question struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID     uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	SourceEntryID string    `gorm:"type:text;not null" json:"source_entry_id"`
	RenderedText  string    `gorm:"type:text;not null" json:"rendered_text"`
	Position      int       `gorm:"not null" json:"position"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}
