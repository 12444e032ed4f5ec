package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLoggerWritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	audit, err := NewAuditLogger(path)
	require.NoError(t, err)

	rubric := 4.0
	audit.ExternalCall("generate_text", "gemini-2.5-flash", "some prompt", "some response", 120*time.Millisecond, nil)
	audit.Evaluation("eval-1", "question-1", &rubric, nil, 4.0, "semantic")
	audit.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var call map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &call))
	assert.Equal(t, "generate_text", call["event"])
	assert.Equal(t, "gemini-2.5-flash", call["model"])
	assert.Equal(t, "some response", call["response"])

	var eval map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &eval))
	assert.Equal(t, "evaluation_completed", eval["event"])
	assert.Equal(t, 4.0, eval["final_score"])
	assert.Equal(t, "semantic", eval["missing_component"])
	_, hasSemantic := eval["semantic_score"]
	assert.False(t, hasSemantic)
}

func TestAuditLoggerNilSafe(t *testing.T) {
	var audit *AuditLogger
	audit.ExternalCall("generate_text", "model", "p", "r", 0, nil)
	audit.Evaluation("e", "q", nil, nil, 0, "")
	audit.Sync()
}

func TestTruncateForAudit(t *testing.T) {
	long := strings.Repeat("a", 600)
	out := truncateForAudit(long)
	assert.Len(t, out, auditTruncateLimit+3)
	assert.True(t, strings.HasSuffix(out, "..."))
}
