package models

import (
	"time"

	"github.com/google/uuid"
)

type EvaluationStatus string

const (
	StatusQueued     EvaluationStatus = "queued"
	StatusProcessing EvaluationStatus = "processing"
	StatusCompleted  EvaluationStatus = "completed"
	StatusFailed     EvaluationStatus = "failed"
)

// Component names recorded when the hybrid scorer had to degrade to a single
// score source.
const (
	ComponentRubric   = "rubric"
	ComponentSemantic = "semantic"
)

// AnswerEvaluation is one scored answer. RubricScore and SemanticScore are
// nullable: a nil component means that sub-step was unavailable and
// MissingComponent names it. FinalScore is always set on completion.
type AnswerEvaluation struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"session_id"`
	QuestionID       uuid.UUID        `gorm:"type:uuid;not null" json:"question_id"`
	AnswerText       string           `gorm:"type:text;not null" json:"answer_text"`
	Status           EvaluationStatus `gorm:"not null;default:'queued'" json:"status"`
	RubricScore      *float64         `gorm:"type:decimal(4,2)" json:"rubric_score,omitempty"`
	SemanticScore    *float64         `gorm:"type:decimal(4,2)" json:"semantic_score,omitempty"`
	FinalScore       *float64         `gorm:"type:decimal(4,2)" json:"final_score,omitempty"`
	RubricFeedback   *string          `gorm:"type:text" json:"rubric_feedback,omitempty"`
	MissingComponent *string          `gorm:"type:text" json:"missing_component,omitempty"`
	ErrorMessage     *string          `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt        time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Question Question `gorm:"foreignKey:QuestionID" json:"-"`
}

func (AnswerEvaluation) TableName() string {
	return "answer_evaluations"
}
