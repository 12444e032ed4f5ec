package services

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"alfredoptarigan/interview-coach/internal/models"
)

// ErrRenderFailed marks an I/O-level rendering failure. Missing optional
// fields never cause it; they render as placeholders.
var ErrRenderFailed = errors.New("failed to render report")

// SessionReport is the accumulated outcome of one practice session, consumed
// exactly once by Render. GeneratedAt is the only non-deterministic input:
// rendering the same report with the same GeneratedAt is byte-identical.
type SessionReport struct {
	Session     *models.Session
	Items       []ReportItem
	GeneratedAt time.Time
}

type ReportItem struct {
	QuestionText     string
	SourceEntryID    string
	SkillTags        []string
	AnswerText       string
	RubricScore      *float64
	SemanticScore    *float64
	FinalScore       float64
	Feedback         string
	MissingComponent string
}

type ReportSummary struct {
	MeanFinalScore    float64
	StrongestSkillTag string
	WeakestSkillTag   string
}

type ReportService interface {
	BuildReport(session *models.Session, evals []models.AnswerEvaluation, generatedAt time.Time) *SessionReport
	Render(report *SessionReport) ([]byte, error)
}

type reportService struct {
	bank *QuestionBank
}

func NewReportService(bank *QuestionBank) ReportService {
	return &reportService{bank: bank}
}

// BuildReport joins completed evaluations with their session questions and
// bank skill tags. Evaluations whose question vanished are skipped rather
// than failing the report.
func (r *reportService) BuildReport(session *models.Session, evals []models.AnswerEvaluation, generatedAt time.Time) *SessionReport {
	questionsByID := make(map[string]models.Question, len(session.Questions))
	for _, q := range session.Questions {
		questionsByID[q.ID.String()] = q
	}

	tagsByEntry := make(map[string][]string)
	if r.bank != nil {
		for _, entry := range r.bank.entries {
			tagsByEntry[entry.ID] = entry.SkillTags
		}
	}

	report := &SessionReport{Session: session, GeneratedAt: generatedAt}
	for _, eval := range evals {
		question, ok := questionsByID[eval.QuestionID.String()]
		if !ok {
			continue
		}

		item := ReportItem{
			QuestionText:  question.RenderedText,
			SourceEntryID: question.SourceEntryID,
			SkillTags:     tagsByEntry[question.SourceEntryID],
			AnswerText:    eval.AnswerText,
			RubricScore:   eval.RubricScore,
			SemanticScore: eval.SemanticScore,
		}
		if eval.FinalScore != nil {
			item.FinalScore = *eval.FinalScore
		}
		if eval.RubricFeedback != nil {
			item.Feedback = *eval.RubricFeedback
		}
		if eval.MissingComponent != nil {
			item.MissingComponent = *eval.MissingComponent
		}

		report.Items = append(report.Items, item)
	}

	return report
}

// Summarize computes the aggregate block: mean final score and the strongest
// and weakest skill tag by mean final score. Ties resolve to the lexically
// smaller tag so the output is deterministic.
func Summarize(report *SessionReport) ReportSummary {
	var summary ReportSummary
	if len(report.Items) == 0 {
		return summary
	}

	var total float64
	tagTotals := make(map[string]float64)
	tagCounts := make(map[string]int)

	for _, item := range report.Items {
		total += item.FinalScore
		for _, tag := range item.SkillTags {
			tagTotals[tag] += item.FinalScore
			tagCounts[tag]++
		}
	}

	summary.MeanFinalScore = total / float64(len(report.Items))

	tags := make([]string, 0, len(tagTotals))
	for tag := range tagTotals {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	best, worst := -1.0, ScoreMax+1
	for _, tag := range tags {
		mean := tagTotals[tag] / float64(tagCounts[tag])
		if mean > best {
			best = mean
			summary.StrongestSkillTag = tag
		}
		if mean < worst {
			worst = mean
			summary.WeakestSkillTag = tag
		}
	}

	return summary
}

// Render implements ReportService. Deterministic given the same report struct.
func (r *reportService) Render(report *SessionReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(report.GeneratedAt)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Interview Preparation Report", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Category: %s    Generated: %s",
		report.Session.JobCategory,
		report.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	summary := Summarize(report)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Performance Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Mean Final Score: %.2f / 5.0", summary.MeanFinalScore), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Strongest Area: %s", placeholder(summary.StrongestSkillTag)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Weakest Area: %s", placeholder(summary.WeakestSkillTag)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Detailed Evaluation", "", 1, "L", false, 0, "")

	for i, item := range report.Items {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, fmt.Sprintf("Question %d: %s", i+1, item.QuestionText), "", "L", false)

		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 5, fmt.Sprintf("Your Answer: %s", placeholder(item.AnswerText)), "", "L", false)

		scoreLine := fmt.Sprintf("Final Score: %.2f / 5.0    Rubric: %s    Semantic: %s",
			item.FinalScore,
			formatScore(item.RubricScore),
			formatScore(item.SemanticScore))
		if item.MissingComponent != "" {
			scoreLine += fmt.Sprintf("    (%s score unavailable)", item.MissingComponent)
		}
		pdf.MultiCell(0, 5, scoreLine, "", "L", false)

		pdf.MultiCell(0, 5, fmt.Sprintf("Feedback: %s", placeholder(item.Feedback)), "", "L", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	return buf.Bytes(), nil
}

func placeholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return "n/a"
	}
	return s
}

func formatScore(score *float64) string {
	if score == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f / 5.0", *score)
}
