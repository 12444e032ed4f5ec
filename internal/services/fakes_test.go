package services

import (
	"context"
	"fmt"
)

// fakeGeminiService scripts model responses for tests. Text responses are
// consumed in call order; embeddings are looked up by exact input text with
// defaultEmbedding as the fallback.
type fakeGeminiService struct {
	textResponses    []string
	textCalls        int
	prompts          []string
	failText         bool
	embeddings       map[string][]float32
	defaultEmbedding []float32
	failEmbed        bool
}

func (f *fakeGeminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	if f.failText {
		return "", fmt.Errorf("text generation failed")
	}
	f.prompts = append(f.prompts, prompt)
	if f.textCalls >= len(f.textResponses) {
		return "", fmt.Errorf("no scripted response for call %d", f.textCalls)
	}
	response := f.textResponses[f.textCalls]
	f.textCalls++
	return response, nil
}

func (f *fakeGeminiService) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return f.GenerateText(ctx, prompt, temperature)
}

func (f *fakeGeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if f.failEmbed {
		return nil, fmt.Errorf("embedding failed")
	}
	if embedding, ok := f.embeddings[text]; ok {
		return embedding, nil
	}
	if f.defaultEmbedding != nil {
		return f.defaultEmbedding, nil
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeGeminiService) GenerateEmbeddingWithRetry(ctx context.Context, text string, maxRetries int) ([]float32, error) {
	return f.GenerateEmbedding(ctx, text)
}

// fakeReferenceCache serves a single scripted cache entry.
type fakeReferenceCache struct {
	cached      *CachedReference
	lookupErr   error
	storeErr    error
	storedIDs   []string
	lookupCalls int
}

func (f *fakeReferenceCache) InitCollection() error {
	return nil
}

func (f *fakeReferenceCache) Lookup(ctx context.Context, questionEmbedding []float32) (*CachedReference, bool, error) {
	f.lookupCalls++
	if f.lookupErr != nil {
		return nil, false, f.lookupErr
	}
	if f.cached == nil {
		return nil, false, nil
	}
	return f.cached, true, nil
}

func (f *fakeReferenceCache) Store(ctx context.Context, questionID, questionText, referenceAnswer string, questionEmbedding []float32) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.storedIDs = append(f.storedIDs, questionID)
	return nil
}
