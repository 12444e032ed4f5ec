package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
)

type ResultHandler struct {
	evalRepo repositories.EvaluationRepository
}

func NewResultHandler(evalRepo repositories.EvaluationRepository) *ResultHandler {
	return &ResultHandler{
		evalRepo: evalRepo,
	}
}

// HandleGetResult handles GET /answers/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	evalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid evaluation ID format",
		})
	}

	evaluation, err := h.evalRepo.FindByID(evalID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Evaluation not found",
		})
	}

	response := models.EvaluationResultResponse{
		ID:     evaluation.ID.String(),
		Status: string(evaluation.Status),
	}

	if evaluation.Status == models.StatusCompleted && evaluation.FinalScore != nil {
		data := &models.EvaluationData{
			QuestionID:       evaluation.QuestionID.String(),
			RubricScore:      evaluation.RubricScore,
			SemanticScore:    evaluation.SemanticScore,
			FinalScore:       *evaluation.FinalScore,
			MissingComponent: evaluation.MissingComponent,
		}
		if evaluation.RubricFeedback != nil {
			data.RubricFeedback = *evaluation.RubricFeedback
		}
		response.Result = data
	}

	if evaluation.Status == models.StatusFailed {
		response.ErrorMessage = evaluation.ErrorMessage
	}

	return c.JSON(response)
}
