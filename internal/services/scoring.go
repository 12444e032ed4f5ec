package services

import (
	"fmt"
	"math"

	"alfredoptarigan/interview-coach/internal/models"
)

const (
	// ScoreMin and ScoreMax bound every component and final score.
	ScoreMin = 0.0
	ScoreMax = 5.0
)

// CosineSimilarity computes the cosine of the angle between two embedding
// vectors, a value in [-1, 1].
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("embedding vectors must not be empty")
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimensionality mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("embedding vector has zero magnitude")
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))

	// Guard against floating point drift just outside [-1, 1].
	if cos > 1 {
		cos = 1
	}
	if cos < -1 {
		cos = -1
	}

	return cos, nil
}

// RescaleCosine maps a cosine similarity in [-1, 1] onto the rubric's [0, 5]
// scale: (cos + 1) * 2.5. Exact at the boundaries: -1 -> 0, 0 -> 2.5, 1 -> 5.
func RescaleCosine(cos float64) float64 {
	return ClampScore((cos + 1) * 2.5)
}

// ClampScore bounds a score to [ScoreMin, ScoreMax].
func ClampScore(score float64) float64 {
	if score < ScoreMin {
		return ScoreMin
	}
	if score > ScoreMax {
		return ScoreMax
	}
	return score
}

// CombineScores applies the fixed hybrid weighting to the available component
// scores. A nil component triggers degraded mode: the remaining component
// takes weight 1.0 and the returned missing string names the absent one. Both
// components missing is an error; the caller surfaces it as a failed
// evaluation.
func CombineScores(rubric, semantic *float64, rubricWeight, semanticWeight float64) (final float64, missing string, err error) {
	switch {
	case rubric == nil && semantic == nil:
		return 0, "", fmt.Errorf("no component scores available")
	case rubric == nil:
		return ClampScore(*semantic), models.ComponentRubric, nil
	case semantic == nil:
		return ClampScore(*rubric), models.ComponentSemantic, nil
	default:
		r := ClampScore(*rubric)
		s := ClampScore(*semantic)
		return ClampScore(rubricWeight*r + semanticWeight*s), "", nil
	}
}
