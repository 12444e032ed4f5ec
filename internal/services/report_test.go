package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-coach/internal/models"
)

func reportFixture(t *testing.T) (*models.Session, []models.AnswerEvaluation, ReportService) {
	t.Helper()

	q1 := models.Question{ID: uuid.New(), SourceEntryID: "be-001", RenderedText: "Question one?", Position: 1}
	q2 := models.Question{ID: uuid.New(), SourceEntryID: "be-002", RenderedText: "Question two?", Position: 2}

	session := &models.Session{
		ID:          uuid.New(),
		JobCategory: "Backend",
		Questions:   []models.Question{q1, q2},
	}

	score := func(v float64) *float64 { return &v }
	feedback := "Good answer."

	evals := []models.AnswerEvaluation{
		{
			QuestionID:     q1.ID,
			AnswerText:     "first answer",
			Status:         models.StatusCompleted,
			RubricScore:    score(4),
			SemanticScore:  score(3),
			FinalScore:     score(3.6),
			RubricFeedback: &feedback,
		},
		{
			QuestionID:    q2.ID,
			AnswerText:    "second answer",
			Status:        models.StatusCompleted,
			SemanticScore: score(2),
			FinalScore:    score(2),
		},
	}

	bank, err := ParseQuestionBank([]byte(`
- id: be-001
  category: Backend
  type: technical
  skill_tags: [Python, Kubernetes]
  prompt: "Question one?"
- id: be-002
  category: Backend
  type: technical
  skill_tags: [Kafka]
  prompt: "Question two?"
`))
	require.NoError(t, err)

	return session, evals, NewReportService(bank)
}

func TestBuildReport(t *testing.T) {
	session, evals, svc := reportFixture(t)
	generatedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	report := svc.BuildReport(session, evals, generatedAt)
	require.Len(t, report.Items, 2)

	assert.Equal(t, "Question one?", report.Items[0].QuestionText)
	assert.Equal(t, []string{"Python", "Kubernetes"}, report.Items[0].SkillTags)
	assert.Equal(t, 3.6, report.Items[0].FinalScore)
	assert.Equal(t, "Good answer.", report.Items[0].Feedback)

	assert.Nil(t, report.Items[1].RubricScore)
	assert.Equal(t, 2.0, report.Items[1].FinalScore)
}

func TestBuildReportSkipsOrphanedEvaluations(t *testing.T) {
	session, evals, svc := reportFixture(t)
	evals[1].QuestionID = uuid.New()

	report := svc.BuildReport(session, evals, time.Now())
	require.Len(t, report.Items, 1)
	assert.Equal(t, "Question one?", report.Items[0].QuestionText)
}

func TestSummarize(t *testing.T) {
	session, evals, svc := reportFixture(t)
	report := svc.BuildReport(session, evals, time.Now())

	summary := Summarize(report)
	assert.InDelta(t, (3.6+2.0)/2, summary.MeanFinalScore, 1e-9)
	// Python and Kubernetes both average 3.6; the lexically smaller tag wins.
	assert.Equal(t, "Kubernetes", summary.StrongestSkillTag)
	assert.Equal(t, "Kafka", summary.WeakestSkillTag)
}

func TestSummarizeEmptyReport(t *testing.T) {
	summary := Summarize(&SessionReport{})
	assert.Zero(t, summary.MeanFinalScore)
	assert.Empty(t, summary.StrongestSkillTag)
}

func TestRenderDeterministic(t *testing.T) {
	session, evals, svc := reportFixture(t)
	generatedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	report := svc.BuildReport(session, evals, generatedAt)

	first, err := svc.Render(report)
	require.NoError(t, err)
	second, err := svc.Render(report)
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, "%PDF", string(first[:4]))
}
