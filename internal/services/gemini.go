package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"flashscroll-backend/internal/models"
)

// GeminiService turns free-form text into front/back card pairs. The
// rest of the system treats it as an opaque async function: it either
// returns pairs or fails with a GenerationError.
type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{} // Token bucket
}

func NewGeminiService(apiKey string, concurrentReqs int) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.5-flash")
	model.SetTemperature(0.3)
	model.SetTopP(0.95)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"front": {Type: genai.TypeString},
				"back":  {Type: genai.TypeString},
			},
			Required: []string{"front", "back"},
		},
	}

	// Token bucket for rate limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		model:    model,
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// GenerateCards produces flashcard pairs from the given text.
func (s *GeminiService) GenerateCards(ctx context.Context, text string) ([]models.CardPair, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, &GenerationError{Message: err.Error()}
	}
	defer s.releaseRate()

	prompt := buildCardPrompt(text)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &GenerationError{Message: fmt.Sprintf("Gemini API error: %v", err)}
	}

	rawText := extractText(resp)
	rawText = strings.TrimPrefix(rawText, "```json")
	rawText = strings.TrimPrefix(rawText, "```")
	rawText = strings.TrimSuffix(rawText, "```")
	rawText = strings.TrimSpace(rawText)

	pairs, err := parseCardJSON(rawText)
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

func parseCardJSON(rawText string) ([]models.CardPair, error) {
	var pairs []models.CardPair
	if err := json.Unmarshal([]byte(rawText), &pairs); err != nil {
		// model sometimes wraps the array in prose despite the schema
		start := strings.Index(rawText, "[")
		end := strings.LastIndex(rawText, "]")
		if start < 0 || end <= start {
			return nil, &GenerationError{Message: "Gemini returned unparsable content"}
		}
		if err := json.Unmarshal([]byte(rawText[start:end+1]), &pairs); err != nil {
			return nil, &GenerationError{Message: "Gemini returned unparsable content"}
		}
	}

	valid := pairs[:0]
	for _, p := range pairs {
		if p.Front == "" || p.Back == "" {
			continue
		}
		valid = append(valid, p)
	}
	return valid, nil
}

func buildCardPrompt(text string) string {
	var b strings.Builder

	b.WriteString("Create a list of educational flashcards based on the following text.\n")
	b.WriteString("Focus on key concepts, definitions, and important facts.\n")
	b.WriteString("Return a JSON array where each object has a 'front' (question/term) and 'back' (answer/definition).\n\n")
	b.WriteString("---TEXT START---\n")
	b.WriteString(text)
	b.WriteString("\n---TEXT END---\n")

	return b.String()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

// GenerationError covers service failures and unparsable responses.
// Surfaced to the user as a generic failure notice, never retried.
type GenerationError struct{ Message string }

func (e *GenerationError) Error() string { return e.Message }
