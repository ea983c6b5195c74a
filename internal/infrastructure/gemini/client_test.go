package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHintsJSON(t *testing.T) {
	text := "```json\n[\"Used by browsers\", \"Rhymes with smell\", \"The answer is HTML\"]\n```"

	hints, err := parseHints(text, "HTML")
	require.NoError(t, err)
	assert.Equal(t, []string{"Used by browsers", "Rhymes with smell"}, hints)
}

func TestParseHintsLines(t *testing.T) {
	text := "1. Think of containers\n- Orchestrates pods\n\n"

	hints, err := parseHints(text, "Kubernetes")
	require.NoError(t, err)
	assert.Equal(t, []string{"Think of containers", "Orchestrates pods"}, hints)
}

func TestParseHintsEmpty(t *testing.T) {
	_, err := parseHints("   ", "REST")
	assert.Error(t, err)
}

func TestFallbackHints(t *testing.T) {
	hints := fallbackHints("Virtual DOM", 3)
	assert.Equal(t, []string{
		"Starts with the letter 'V'",
		"Has 11 characters",
		"Made of 2 words",
	}, hints)

	assert.Len(t, fallbackHints("REST", 1), 1)
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient("")
	assert.Error(t, err)
}
