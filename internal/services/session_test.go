package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-coach/internal/models"
)

type fakeDocRepo struct {
	doc *models.Document
}

func (f *fakeDocRepo) Create(document *models.Document) error {
	f.doc = document
	return nil
}

func (f *fakeDocRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	if f.doc == nil || f.doc.ID != id {
		return nil, fmt.Errorf("document not found")
	}
	return f.doc, nil
}

type fakePDFParser struct {
	text string
	err  error
}

func (f *fakePDFParser) ExtractText(filePath string) (string, error) {
	return f.text, f.err
}

func sessionServiceFixture(t *testing.T, parser PDFParserService, docRepo *fakeDocRepo) (SessionService, *fakeSessionRepo) {
	t.Helper()

	sessionRepo := &fakeSessionRepo{}
	structurer := NewResumeStructurerService(testTaxonomy(t), nil, 1)
	personalizer := NewPersonalizerService(&fakeGeminiService{failText: true}, 1)

	svc := NewSessionService(sessionRepo, docRepo, parser, structurer, testBank(t), personalizer, 6)
	return svc, sessionRepo
}

func TestCreateSession(t *testing.T) {
	t.Run("full pipeline with resume", func(t *testing.T) {
		docID := uuid.New()
		docRepo := &fakeDocRepo{doc: &models.Document{ID: docID, FilePath: "/tmp/resume.pdf"}}
		parser := &fakePDFParser{text: "Python services on Kubernetes. Email dev@example.com."}
		svc, sessionRepo := sessionServiceFixture(t, parser, docRepo)

		session, err := svc.CreateSession(context.Background(), models.CreateSessionRequest{
			JobCategory:      "Backend",
			TargetRole:       "Senior Backend Engineer",
			ResumeDocumentID: docID.String(),
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"Kubernetes", "Python"}, session.Skills)
		assert.NotContains(t, session.RedactedText, "dev@example.com")
		require.NotNil(t, session.ResumeDocumentID)
		assert.Equal(t, docID, *session.ResumeDocumentID)

		// be-001 (2 tags) ranks above be-002 (1 tag); be-003/be-004 match nothing.
		require.Len(t, sessionRepo.createdQuestions, 2)
		assert.Equal(t, "be-001", sessionRepo.createdQuestions[0].SourceEntryID)
		assert.Equal(t, 1, sessionRepo.createdQuestions[0].Position)
		assert.Equal(t, "be-002", sessionRepo.createdQuestions[1].SourceEntryID)
		assert.Equal(t, 2, sessionRepo.createdQuestions[1].Position)
	})

	t.Run("cold start without resume", func(t *testing.T) {
		svc, sessionRepo := sessionServiceFixture(t, &fakePDFParser{}, &fakeDocRepo{})

		session, err := svc.CreateSession(context.Background(), models.CreateSessionRequest{
			JobCategory: "Backend",
		})
		require.NoError(t, err)

		assert.Empty(t, session.Skills)
		assert.Nil(t, session.ResumeDocumentID)
		// Category-only retrieval in bank order.
		require.Len(t, sessionRepo.createdQuestions, 4)
		assert.Equal(t, "be-001", sessionRepo.createdQuestions[0].SourceEntryID)
	})

	t.Run("skills matching no bank entry fall back to category-only", func(t *testing.T) {
		docID := uuid.New()
		docRepo := &fakeDocRepo{doc: &models.Document{ID: docID, FilePath: "/tmp/resume.pdf"}}
		// "Go" is in the taxonomy but tagged on no Backend bank entry.
		parser := &fakePDFParser{text: "Go developer."}
		svc, sessionRepo := sessionServiceFixture(t, parser, docRepo)

		session, err := svc.CreateSession(context.Background(), models.CreateSessionRequest{
			JobCategory:      "Backend",
			ResumeDocumentID: docID.String(),
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"Go"}, session.Skills)
		require.Len(t, sessionRepo.createdQuestions, 4)
	})

	t.Run("unknown category surfaces ErrCategoryNotFound", func(t *testing.T) {
		svc, _ := sessionServiceFixture(t, &fakePDFParser{}, &fakeDocRepo{})

		_, err := svc.CreateSession(context.Background(), models.CreateSessionRequest{
			JobCategory: "Quantum",
		})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("missing document fails the session", func(t *testing.T) {
		svc, _ := sessionServiceFixture(t, &fakePDFParser{}, &fakeDocRepo{})

		_, err := svc.CreateSession(context.Background(), models.CreateSessionRequest{
			JobCategory:      "Backend",
			ResumeDocumentID: uuid.New().String(),
		})
		assert.Error(t, err)
	})

	t.Run("invalid document id fails the session", func(t *testing.T) {
		svc, _ := sessionServiceFixture(t, &fakePDFParser{}, &fakeDocRepo{})

		_, err := svc.CreateSession(context.Background(), models.CreateSessionRequest{
			JobCategory:      "Backend",
			ResumeDocumentID: "not-a-uuid",
		})
		assert.Error(t, err)
	})
}
