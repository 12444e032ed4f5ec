package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

type SessionHandler struct {
	sessionService services.SessionService
	sessionRepo    repositories.SessionRepository
}

func NewSessionHandler(
	sessionService services.SessionService,
	sessionRepo repositories.SessionRepository,
) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		sessionRepo:    sessionRepo,
	}
}

// HandleCreateSession handles POST /sessions
func (h *SessionHandler) HandleCreateSession(c *fiber.Ctx) error {
	var req models.CreateSessionRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.JobCategory == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_category is required",
		})
	}

	session, err := h.sessionService.CreateSession(c.Context(), req)
	if err != nil {
		if services.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(sessionToResponse(session))
}

// HandleGetSession handles GET /sessions/:id
func (h *SessionHandler) HandleGetSession(c *fiber.Ctx) error {
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

	return c.JSON(sessionToResponse(session))
}

func sessionToResponse(session *models.Session) models.SessionResponse {
	resp := models.SessionResponse{
		ID:            session.ID.String(),
		JobCategory:   session.JobCategory,
		TargetRole:    session.TargetRole,
		Skills:        session.Skills,
		Organizations: session.Organizations,
		Locations:     session.Locations,
	}

	for _, q := range session.Questions {
		resp.Questions = append(resp.Questions, models.QuestionResponse{
			ID:            q.ID.String(),
			SourceEntryID: q.SourceEntryID,
			RenderedText:  q.RenderedText,
			Position:      q.Position,
		})
	}

	return resp
}
