package writer

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Persona instruction texts. Each writer is told to return a JSON object so
// the generator's structured parse succeeds on the happy path; the parser
// still tolerates models that ignore the format.
const (
	professionalInstructions = `You are a professional sales email copywriter.
Write a formal, confident cold sales email based on the user's request about
their own company and product. Focus on benefits and value, keep it 3-4
paragraphs, and end with a clear call-to-action.
Respond with a JSON object: {"subject": "...", "body": "..."}.`

	humorousInstructions = `You are a witty sales email copywriter.
Write an entertaining, engaging cold sales email based on the user's request
about their own company and product. Use humor to stand out while staying
professional, and include a memorable call-to-action.
Respond with a JSON object: {"subject": "...", "body": "..."}.`

	conciseInstructions = `You are a concise sales email copywriter.
Write a brief, direct cold sales email based on the user's request about
their own company and product. Get straight to the value proposition in at
most 2-3 short paragraphs, no fluff, with a clear call-to-action.
Respond with a JSON object: {"subject": "...", "body": "..."}.`
)

// LLMStrategy is a persona bound to one model. A small response cache keyed
// by request text avoids re-billing identical regenerations; the cache is
// dropped on Reset.
type LLMStrategy struct {
	name         string
	model        string
	instructions string
	client       *Client
	log          *zap.Logger

	mu    sync.Mutex
	cache map[string]string
}

func NewLLMStrategy(name, model, instructions string, client *Client, log *zap.Logger) *LLMStrategy {
	return &LLMStrategy{
		name:         name,
		model:        model,
		instructions: instructions,
		client:       client,
		log:          log,
		cache:        make(map[string]string),
	}
}

// Personas builds the three standard writers against one shared client.
func Personas(client *Client, professionalModel, humorousModel, conciseModel string, log *zap.Logger) []Strategy {
	return []Strategy{
		NewLLMStrategy("professional", professionalModel, professionalInstructions, client, log),
		NewLLMStrategy("humorous", humorousModel, humorousInstructions, client, log),
		NewLLMStrategy("concise", conciseModel, conciseInstructions, client, log),
	}
}

func (s *LLMStrategy) Name() string { return s.name }

func (s *LLMStrategy) Generate(ctx context.Context, request string) (string, error) {
	s.mu.Lock()
	cached, ok := s.cache[request]
	s.mu.Unlock()
	if ok {
		s.log.Debug("strategy cache hit", zap.String("strategy", s.name))
		return cached, nil
	}

	out, err := s.client.Complete(ctx, s.model, s.instructions, request)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.cache[request] = out
	s.mu.Unlock()
	return out, nil
}

// Reset drops the response cache.
func (s *LLMStrategy) Reset() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}
