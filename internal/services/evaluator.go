package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
)

// ErrEvaluationUnavailable marks a rubric or reference-answer response that
// could not be parsed into the expected shape. It triggers degraded
// single-component scoring, never a hard failure of the whole evaluation.
var ErrEvaluationUnavailable = errors.New("evaluation response unavailable")

type EvaluatorService interface {
	EvaluateAnswer(ctx context.Context, evalID uuid.UUID) error
}

type evaluatorService struct {
	evalRepo       repositories.EvaluationRepository
	sessionRepo    repositories.SessionRepository
	gemini         GeminiService
	refCache       ReferenceCacheService
	promptBuilder  *PromptBuilder
	audit          *AuditLogger
	rubricWeight   float64
	semanticWeight float64
	maxRetries     int
}

func NewEvaluatorService(
	evalRepo repositories.EvaluationRepository,
	sessionRepo repositories.SessionRepository,
	gemini GeminiService,
	refCache ReferenceCacheService,
	audit *AuditLogger,
	rubricWeight float64,
	semanticWeight float64,
	maxRetries int,
) EvaluatorService {
	return &evaluatorService{
		evalRepo:       evalRepo,
		sessionRepo:    sessionRepo,
		gemini:         gemini,
		refCache:       refCache,
		promptBuilder:  NewPromptBuilder(),
		audit:          audit,
		rubricWeight:   rubricWeight,
		semanticWeight: semanticWeight,
		maxRetries:     maxRetries,
	}
}

// RubricResult is the shape the rubric prompt asks for. OverallScore is a
// pointer so a response that omits it is detectably malformed rather than a
// silent zero.
type RubricResult struct {
	StructureScore         float64  `json:"structure_score"`
	ClarityScore           float64  `json:"clarity_score"`
	TechnicalAccuracyScore float64  `json:"technical_accuracy_score"`
	OverallScore           *float64 `json:"overall_score"`
	Feedback               string   `json:"feedback"`
}

// EvaluateAnswer runs the hybrid scoring pipeline for one queued evaluation:
// a rubric score from the generative model and a semantic score from embedding
// similarity against a generated reference answer, combined with the fixed
// weights. Either component may be missing; only both missing fails the job.
func (e *evaluatorService) EvaluateAnswer(ctx context.Context, evalID uuid.UUID) error {
	if err := e.evalRepo.UpdateStatus(evalID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log.Printf("🔄 Starting evaluation %s\n", evalID)

	evaluation, err := e.evalRepo.FindByID(evalID)
	if err != nil {
		e.evalRepo.UpdateError(evalID, err.Error())
		return fmt.Errorf("failed to get evaluation: %w", err)
	}

	question, err := e.sessionRepo.FindQuestion(evaluation.QuestionID)
	if err != nil {
		e.evalRepo.UpdateError(evalID, fmt.Sprintf("question not found: %v", err))
		return fmt.Errorf("failed to get question: %w", err)
	}

	// Step 1: Rubric scoring
	log.Println("🤖 Scoring answer against rubric...")
	rubricScore, feedback, err := e.scoreRubric(ctx, question.RenderedText, evaluation.AnswerText)
	if err != nil {
		log.Printf("⚠️  Rubric scoring unavailable: %v\n", err)
		rubricScore = nil
	}

	// Step 2: Semantic scoring
	log.Println("🔍 Scoring answer against reference embedding...")
	semanticScore, err := e.scoreSemantic(ctx, question, evaluation.AnswerText)
	if err != nil {
		log.Printf("⚠️  Semantic scoring unavailable: %v\n", err)
		semanticScore = nil
	}

	// Step 3: Combine
	finalScore, missing, err := CombineScores(rubricScore, semanticScore, e.rubricWeight, e.semanticWeight)
	if err != nil {
		e.evalRepo.UpdateError(evalID, "both scoring components failed")
		return fmt.Errorf("failed to score answer: %w", err)
	}

	updateData := &repositories.EvaluationUpdateData{
		RubricScore:   rubricScore,
		SemanticScore: semanticScore,
		FinalScore:    &finalScore,
	}
	if feedback != "" {
		updateData.RubricFeedback = &feedback
	}
	if missing != "" {
		updateData.MissingComponent = &missing
	}

	if err := e.evalRepo.UpdateResult(evalID, updateData); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	e.audit.Evaluation(evalID.String(), evaluation.QuestionID.String(), rubricScore, semanticScore, finalScore, missing)

	log.Printf("✅ Evaluation %s completed (final score %.2f)\n", evalID, finalScore)
	return nil
}

func (e *evaluatorService) scoreRubric(ctx context.Context, questionText, answerText string) (*float64, string, error) {
	prompt := e.promptBuilder.BuildRubricPrompt(questionText, answerText)

	response, err := e.gemini.GenerateTextWithRetry(ctx, prompt, 0.2, e.maxRetries)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate rubric evaluation: %w", err)
	}

	var result RubricResult
	if err := parseJSONResponse(response, &result); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrEvaluationUnavailable, err)
	}

	if result.OverallScore == nil {
		return nil, "", fmt.Errorf("%w: missing overall score", ErrEvaluationUnavailable)
	}

	if strings.TrimSpace(result.Feedback) == "" {
		return nil, "", fmt.Errorf("%w: missing feedback text", ErrEvaluationUnavailable)
	}

	score := ClampScore(*result.OverallScore)
	return &score, result.Feedback, nil
}

func (e *evaluatorService) scoreSemantic(ctx context.Context, question *models.Question, answerText string) (*float64, error) {
	reference, err := e.referenceAnswer(ctx, question)
	if err != nil {
		return nil, err
	}

	referenceEmbedding, err := e.gemini.GenerateEmbeddingWithRetry(ctx, reference, e.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to embed reference answer: %w", err)
	}

	answerEmbedding, err := e.gemini.GenerateEmbeddingWithRetry(ctx, answerText, e.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to embed answer: %w", err)
	}

	cos, err := CosineSimilarity(answerEmbedding, referenceEmbedding)
	if err != nil {
		return nil, fmt.Errorf("failed to compute similarity: %w", err)
	}

	score := RescaleCosine(cos)
	return &score, nil
}

// referenceAnswer resolves the ideal answer for a question, consulting the
// Qdrant cache before generating. Cache problems only cost the extra
// generative call.
func (e *evaluatorService) referenceAnswer(ctx context.Context, question *models.Question) (string, error) {
	var questionEmbedding []float32

	if e.refCache != nil {
		embedding, err := e.gemini.GenerateEmbeddingWithRetry(ctx, question.RenderedText, e.maxRetries)
		if err != nil {
			log.Printf("⚠️  Failed to embed question for cache lookup: %v\n", err)
		} else {
			questionEmbedding = embedding
			cached, hit, err := e.refCache.Lookup(ctx, questionEmbedding)
			if err != nil {
				log.Printf("⚠️  Reference cache lookup failed: %v\n", err)
			} else if hit {
				log.Printf("📦 Reference answer served from cache (score %.3f)\n", cached.Score)
				return cached.ReferenceAnswer, nil
			}
		}
	}

	prompt := e.promptBuilder.BuildReferenceAnswerPrompt(question.RenderedText)
	reference, err := e.gemini.GenerateTextWithRetry(ctx, prompt, 0.4, e.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to generate reference answer: %w", err)
	}

	reference = strings.TrimSpace(reference)
	if reference == "" {
		return "", fmt.Errorf("%w: empty reference answer", ErrEvaluationUnavailable)
	}

	if e.refCache != nil && questionEmbedding != nil {
		if err := e.refCache.Store(ctx, question.SourceEntryID, question.RenderedText, reference, questionEmbedding); err != nil {
			log.Printf("⚠️  Failed to cache reference answer: %v\n", err)
		}
	}

	return reference, nil
}

func parseJSONResponse(response string, target interface{}) error {
	jsonStr := extractJSON(response)

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return nil
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	// Remove markdown code blocks
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	// Find JSON object or array boundaries
	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
