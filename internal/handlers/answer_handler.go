package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

type AnswerHandler struct {
	evalRepo    repositories.EvaluationRepository
	sessionRepo repositories.SessionRepository
	worker      services.Worker
}

func NewAnswerHandler(
	evalRepo repositories.EvaluationRepository,
	sessionRepo repositories.SessionRepository,
	worker services.Worker,
) *AnswerHandler {
	return &AnswerHandler{
		evalRepo:    evalRepo,
		sessionRepo: sessionRepo,
		worker:      worker,
	}
}

// HandleSubmitAnswer handles POST /sessions/:id/answers. The answer is queued
// for the evaluation worker and the caller polls the result endpoint.
func (h *AnswerHandler) HandleSubmitAnswer(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID format",
		})
	}

	var req models.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.AnswerText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "answer_text is required",
		})
	}

	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question_id format",
		})
	}

	question, err := h.sessionRepo.FindQuestion(questionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Question not found",
		})
	}

	if question.SessionID != sessionID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question does not belong to this session",
		})
	}

	evaluation := &models.AnswerEvaluation{
		ID:         uuid.New(),
		SessionID:  sessionID,
		QuestionID: questionID,
		AnswerText: req.AnswerText,
		Status:     models.StatusQueued,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := h.evalRepo.Create(evaluation); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create evaluation job",
		})
	}

	h.worker.EnqueueJob(evaluation.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.SubmitAnswerResponse{
		ID:     evaluation.ID.String(),
		Status: string(models.StatusQueued),
	})
}
