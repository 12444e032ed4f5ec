package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/interview-coach/internal/models"
)

type EvaluationRepository interface {
	Create(eval *models.AnswerEvaluation) error
	FindByID(id uuid.UUID) (*models.AnswerEvaluation, error)
	FindCompletedBySession(sessionID uuid.UUID) ([]models.AnswerEvaluation, error)
	UpdateStatus(id uuid.UUID, status models.EvaluationStatus) error
	UpdateResult(id uuid.UUID, result *EvaluationUpdateData) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingJobs(limit int) ([]models.AnswerEvaluation, error)
}

type EvaluationUpdateData struct {
	RubricScore      *float64
	SemanticScore    *float64
	FinalScore       *float64
	RubricFeedback   *string
	MissingComponent *string
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Create(eval *models.AnswerEvaluation) error {
	if err := r.db.Create(eval).Error; err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

func (r *evaluationRepository) FindByID(id uuid.UUID) (*models.AnswerEvaluation, error) {
	var eval models.AnswerEvaluation
	if err := r.db.Where("id = ?", id).First(&eval).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("evaluation not found")
		}
		return nil, fmt.Errorf("failed to find evaluation: %w", err)
	}
	return &eval, nil
}

// FindCompletedBySession returns completed evaluations in answer order so the
// report renders questions in the order they were practiced.
func (r *evaluationRepository) FindCompletedBySession(sessionID uuid.UUID) ([]models.AnswerEvaluation, error) {
	var evals []models.AnswerEvaluation
	err := r.db.
		Where("session_id = ? AND status = ?", sessionID, models.StatusCompleted).
		Order("created_at ASC").
		Find(&evals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find evaluations: %w", err)
	}
	return evals, nil
}

func (r *evaluationRepository) UpdateStatus(id uuid.UUID, status models.EvaluationStatus) error {
	result := r.db.Model(&models.AnswerEvaluation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("evaluation not found")
	}

	return nil
}

func (r *evaluationRepository) UpdateResult(id uuid.UUID, data *EvaluationUpdateData) error {
	updates := map[string]interface{}{
		"status":     models.StatusCompleted,
		"updated_at": time.Now(),
	}

	if data.RubricScore != nil {
		updates["rubric_score"] = *data.RubricScore
	}
	if data.SemanticScore != nil {
		updates["semantic_score"] = *data.SemanticScore
	}
	if data.FinalScore != nil {
		updates["final_score"] = *data.FinalScore
	}
	if data.RubricFeedback != nil {
		updates["rubric_feedback"] = *data.RubricFeedback
	}
	if data.MissingComponent != nil {
		updates["missing_component"] = *data.MissingComponent
	}

	result := r.db.Model(&models.AnswerEvaluation{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update result: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("evaluation not found")
	}

	return nil
}

func (r *evaluationRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.AnswerEvaluation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("evaluation not found")
	}

	return nil
}

func (r *evaluationRepository) FindPendingJobs(limit int) ([]models.AnswerEvaluation, error) {
	var evals []models.AnswerEvaluation
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&evals).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return evals, nil
}
