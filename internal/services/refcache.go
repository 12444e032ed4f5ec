package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// ReferenceCacheService caches generated reference answers in Qdrant, keyed
// by the embedding of the question text. A lookup hit for a near-identical
// question skips one generative call; every cache failure degrades to direct
// generation, never to an evaluation failure.
type ReferenceCacheService interface {
	InitCollection() error
	Lookup(ctx context.Context, questionEmbedding []float32) (*CachedReference, bool, error)
	Store(ctx context.Context, questionID, questionText, referenceAnswer string, questionEmbedding []float32) error
}

type CachedReference struct {
	QuestionID      string
	ReferenceAnswer string
	Score           float32
}

type referenceCacheService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	scoreThreshold float32
}

func NewReferenceCacheService(urlStr, apiKey, collectionName string, scoreThreshold float32) (ReferenceCacheService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &referenceCacheService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 dimensionality
		scoreThreshold: scoreThreshold,
	}, nil
}

// InitCollection implements ReferenceCacheService.
func (r *referenceCacheService) InitCollection() error {
	ctx := context.Background()

	exists, err := r.client.CollectionExists(ctx, r.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Reference cache collection already exists")
		return nil
	}

	err = r.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: r.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     r.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", r.collectionName)
	return nil
}

// Lookup implements ReferenceCacheService. The boolean reports a hit: the
// nearest cached question scored at or above the configured threshold.
func (r *referenceCacheService) Lookup(ctx context.Context, questionEmbedding []float32) (*CachedReference, bool, error) {
	searchResult, err := r.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: r.collectionName,
		Query:          qdrant.NewQuery(questionEmbedding...),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to query reference cache: %w", err)
	}

	if len(searchResult) == 0 {
		return nil, false, nil
	}

	point := searchResult[0]
	if point.Score < r.scoreThreshold {
		return nil, false, nil
	}

	cached := &CachedReference{Score: point.Score}
	if questionID, ok := point.Payload["question_id"]; ok {
		if val, ok := questionID.GetKind().(*qdrant.Value_StringValue); ok {
			cached.QuestionID = val.StringValue
		}
	}
	if answer, ok := point.Payload["reference_answer"]; ok {
		if val, ok := answer.GetKind().(*qdrant.Value_StringValue); ok {
			cached.ReferenceAnswer = val.StringValue
		}
	}

	if cached.ReferenceAnswer == "" {
		return nil, false, nil
	}

	return cached, true, nil
}

// Store implements ReferenceCacheService.
func (r *referenceCacheService) Store(ctx context.Context, questionID, questionText, referenceAnswer string, questionEmbedding []float32) error {
	pointID := uuid.New()

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(pointID.ID())),
		Vectors: qdrant.NewVectors(questionEmbedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"question_id":      questionID,
			"question_text":    questionText,
			"reference_answer": referenceAnswer,
		}),
	}

	_, err := r.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: r.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert reference answer: %w", err)
	}

	return nil
}
