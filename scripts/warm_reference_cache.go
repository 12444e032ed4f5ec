package main

import (
	"context"
	"log"
	"os"
	"strings"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/services"
)

// Warms the Qdrant reference-answer cache for every question bank entry so
// the first evaluation of each question does not pay the generation latency.
func main() {
	log.Println("🚀 Starting reference cache warm-up...")

	// Load configuration
	cfg := config.Load()

	bank, err := services.LoadQuestionBank(cfg.Bank.QuestionBankPath)
	if err != nil {
		log.Fatalf("❌ Failed to load question bank: %v", err)
	}
	log.Printf("✅ Question bank loaded (%d entries)", bank.Size())

	// Initialize services
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Worker.RetryInitialDelay, nil)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	refCache, err := services.NewReferenceCacheService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		cfg.Qdrant.ScoreThreshold,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize reference cache: %v", err)
	}

	if err := refCache.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	prompts := services.NewPromptBuilder()
	ctx := context.Background()

	successCount := 0
	failCount := 0

	for _, entry := range bank.Entries() {
		log.Printf("\n📄 Processing: %s", entry.ID)
		log.Printf("   Category: %s", entry.Category)

		// Check for an existing cached answer
		embedding, err := geminiService.GenerateEmbeddingWithRetry(ctx, entry.Prompt, cfg.Worker.RetryMaxAttempts)
		if err != nil {
			log.Printf("   ❌ Failed to embed question: %v", err)
			failCount++
			continue
		}

		if _, hit, err := refCache.Lookup(ctx, embedding); err == nil && hit {
			log.Printf("   ⏭️  Already cached, skipping...")
			successCount++
			continue
		}

		// Generate and store the reference answer
		log.Printf("   🔄 Generating reference answer...")
		reference, err := geminiService.GenerateTextWithRetry(ctx, prompts.BuildReferenceAnswerPrompt(entry.Prompt), 0.3, cfg.Worker.RetryMaxAttempts)
		if err != nil {
			log.Printf("   ❌ Failed to generate reference answer: %v", err)
			failCount++
			continue
		}

		if err := refCache.Store(ctx, entry.ID, entry.Prompt, reference, embedding); err != nil {
			log.Printf("   ❌ Failed to store reference answer: %v", err)
			failCount++
			continue
		}

		log.Printf("   ✅ Cached reference answer (%d characters)", len(reference))
		successCount++
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Warm-up Summary:")
	log.Printf("   ✅ Successful: %d entries", successCount)
	log.Printf("   ❌ Failed: %d entries", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some entries failed. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ Reference cache warmed successfully!")
}
