package writer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

// fakeCompletions serves an OpenAI-style chat completions endpoint that
// echoes a canned reply and counts calls.
func fakeCompletions(t *testing.T, reply string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		calls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))
}

func TestClient_Complete(t *testing.T) {
	var calls atomic.Int32
	srv := fakeCompletions(t, "hello back", &calls)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	out, err := c.Complete(context.Background(), "some-model", "system", "user")
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if out != "hello back" {
		t.Errorf("Complete() = %q", out)
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.Complete(context.Background(), "missing", "s", "u"); err == nil {
		t.Error("expected error on non-200 response")
	}
}

func TestLLMStrategy_CacheAndReset(t *testing.T) {
	var calls atomic.Int32
	srv := fakeCompletions(t, "draft text", &calls)
	defer srv.Close()

	s := NewLLMStrategy("professional", "m", "instructions", NewClient(srv.URL, ""), zap.NewNop())

	ctx := context.Background()
	if _, err := s.Generate(ctx, "req"); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if _, err := s.Generate(ctx, "req"); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected cache hit on repeat request, got %d calls", calls.Load())
	}

	s.Reset()
	if _, err := s.Generate(ctx, "req"); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected fresh call after Reset, got %d calls", calls.Load())
	}
}

func TestSafetyOpinion_ParsesFencedJSON(t *testing.T) {
	var calls atomic.Int32
	reply := "Here is my analysis:\n```json\n{\"is_safe\": false, \"is_prompt_injection\": true, \"risk_score\": 0.95, \"flagged_issues\": [\"override attempt\"]}\n```"
	srv := fakeCompletions(t, reply, &calls)
	defer srv.Close()

	o := &SafetyOpinion{Model: "m", Client: NewClient(srv.URL, "")}
	v, err := o.Classify(context.Background(), "suspicious text")
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if v.IsSafe || !v.IsPromptInjection || v.RiskScore != 0.95 {
		t.Errorf("verdict = %+v", v)
	}
}

func TestSafetyOpinion_UnparseableReply(t *testing.T) {
	var calls atomic.Int32
	srv := fakeCompletions(t, "I think it is probably fine", &calls)
	defer srv.Close()

	o := &SafetyOpinion{Model: "m", Client: NewClient(srv.URL, "")}
	if _, err := o.Classify(context.Background(), "text"); err == nil {
		t.Error("expected error for unparseable opinion")
	}
}
