package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-pro")
	model.SetTemperature(0.7)

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Close() {
	c.client.Close()
}

// GenerateHints asks for count short hints that lead to answer without
// giving it away. If the API is unavailable, generic hints built from the
// answer's shape are returned instead.
func (c *GeminiClient) GenerateHints(ctx context.Context, question, answer string, count int) ([]string, error) {
	prompt := fmt.Sprintf(`
		You write hints for a campus icebreaker trivia game.
		Question: %s
		Answer: %s

		Task: Write %d short hints (under 12 words each) that help someone guess the answer.
		Never include the answer itself.
		Output: JSON array of strings. Example: ["Think about...", "Used for..."]
	`, question, answer, count)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return fallbackHints(answer, count), nil
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return fallbackHints(answer, count), nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	hints, err := parseHints(sb.String(), answer)
	if err != nil || len(hints) == 0 {
		return fallbackHints(answer, count), nil
	}
	if len(hints) > count {
		hints = hints[:count]
	}
	return hints, nil
}

// parseHints reads the model output as a JSON array, falling back to one
// hint per line. Hints that contain the answer are dropped.
func parseHints(text, answer string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw []string
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
			if line != "" && !strings.HasPrefix(line, "[") && !strings.HasSuffix(line, "]") {
				raw = append(raw, line)
			}
		}
		if len(raw) == 0 {
			return nil, fmt.Errorf("failed to parse hints: %w", err)
		}
	}

	lowerAnswer := strings.ToLower(strings.TrimSpace(answer))
	hints := make([]string, 0, len(raw))
	for _, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if lowerAnswer != "" && strings.Contains(strings.ToLower(h), lowerAnswer) {
			continue
		}
		hints = append(hints, h)
	}
	return hints, nil
}

func fallbackHints(answer string, count int) []string {
	answer = strings.TrimSpace(answer)
	first, _ := utf8.DecodeRuneInString(answer)
	words := len(strings.Fields(answer))

	hints := []string{
		fmt.Sprintf("Starts with the letter %q", first),
		fmt.Sprintf("Has %d characters", utf8.RuneCountInString(answer)),
	}
	if words > 1 {
		hints = append(hints, fmt.Sprintf("Made of %d words", words))
	} else {
		hints = append(hints, "A single word")
	}
	if count > 0 && count < len(hints) {
		hints = hints[:count]
	}
	return hints
}
