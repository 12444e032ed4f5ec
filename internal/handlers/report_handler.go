package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

type ReportHandler struct {
	sessionRepo   repositories.SessionRepository
	evalRepo      repositories.EvaluationRepository
	reportService services.ReportService
}

func NewReportHandler(
	sessionRepo repositories.SessionRepository,
	evalRepo repositories.EvaluationRepository,
	reportService services.ReportService,
) *ReportHandler {
	return &ReportHandler{
		sessionRepo:   sessionRepo,
		evalRepo:      evalRepo,
		reportService: reportService,
	}
}

// HandleGetReport handles GET /sessions/:id/report and streams the PDF.
func (h *ReportHandler) HandleGetReport(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID format",
		})
	}

	session, err := h.sessionRepo.FindByID(sessionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	evals, err := h.evalRepo.FindCompletedBySession(sessionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load evaluations",
		})
	}

	if len(evals) == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "No completed evaluations to report. Answer at least one question first.",
		})
	}

	report := h.reportService.BuildReport(session, evals, time.Now())

	pdf, err := h.reportService.Render(report)
	if err != nil {
		if errors.Is(err, services.ErrRenderFailed) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to render report",
		})
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="interview_report_%s.pdf"`, sessionID))
	return c.Send(pdf)
}
