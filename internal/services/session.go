package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
)

// SessionService runs the session setup pipeline: structure the resume,
// retrieve matching bank questions, personalize them, persist the session.
type SessionService interface {
	CreateSession(ctx context.Context, req models.CreateSessionRequest) (*models.Session, error)
}

type sessionService struct {
	sessionRepo   repositories.SessionRepository
	docRepo       repositories.DocumentRepository
	pdfParser     PDFParserService
	structurer    ResumeStructurerService
	bank          *QuestionBank
	personalizer  PersonalizerService
	retrieveLimit int
}

func NewSessionService(
	sessionRepo repositories.SessionRepository,
	docRepo repositories.DocumentRepository,
	pdfParser PDFParserService,
	structurer ResumeStructurerService,
	bank *QuestionBank,
	personalizer PersonalizerService,
	retrieveLimit int,
) SessionService {
	return &sessionService{
		sessionRepo:   sessionRepo,
		docRepo:       docRepo,
		pdfParser:     pdfParser,
		structurer:    structurer,
		bank:          bank,
		personalizer:  personalizer,
		retrieveLimit: retrieveLimit,
	}
}

// CreateSession implements SessionService. Without a resume document the
// session runs in cold-start mode: empty profile, category-only retrieval,
// verbatim questions.
func (s *sessionService) CreateSession(ctx context.Context, req models.CreateSessionRequest) (*models.Session, error) {
	var rawText string
	var resumeDocID *uuid.UUID

	if req.ResumeDocumentID != "" {
		docID, err := uuid.Parse(req.ResumeDocumentID)
		if err != nil {
			return nil, fmt.Errorf("invalid resume document id: %w", err)
		}

		doc, err := s.docRepo.FindByID(docID)
		if err != nil {
			return nil, fmt.Errorf("resume document not found: %w", err)
		}

		rawText, err = s.pdfParser.ExtractText(doc.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read resume: %w", err)
		}
		resumeDocID = &docID
	}

	profile, err := s.structurer.Structure(ctx, rawText, req.JobCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to structure resume: %w", err)
	}

	entries, err := s.bank.Retrieve(profile.Skills, req.JobCategory, s.retrieveLimit)
	if err != nil {
		return nil, err
	}

	// Skills that match nothing in the bank fall back to category-only
	// retrieval, same as a cold start.
	if len(entries) == 0 && len(profile.Skills) > 0 {
		log.Printf("⚠️  No bank questions match skills %v, falling back to category-only retrieval\n", profile.Skills)
		entries, err = s.bank.Retrieve(nil, req.JobCategory, s.retrieveLimit)
		if err != nil {
			return nil, err
		}
	}

	personalized := s.personalizer.Personalize(ctx, entries, profile)

	session := &models.Session{
		ID:               uuid.New(),
		JobCategory:      req.JobCategory,
		TargetRole:       req.TargetRole,
		ResumeDocumentID: resumeDocID,
		RedactedText:     profile.RedactedText,
		Skills:           profile.Skills,
		Organizations:    profile.Organizations,
		Locations:        profile.Locations,
	}

	questions := make([]models.Question, 0, len(personalized))
	for i, q := range personalized {
		questions = append(questions, models.Question{
			ID:            uuid.New(),
			SourceEntryID: q.SourceEntryID,
			RenderedText:  q.RenderedText,
			Position:      i + 1,
		})
	}

	if err := s.sessionRepo.Create(session, questions); err != nil {
		return nil, err
	}

	return session, nil
}

// IsNotFound reports whether the error is the retrieval NotFound case.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCategoryNotFound)
}
