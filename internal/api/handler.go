package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"PitchGuard/internal/csvparser"
	"PitchGuard/internal/generator"
	"PitchGuard/internal/models"
	"PitchGuard/internal/workflow"
)

// Example requests surfaced to the UI, carried over from the original
// assistant's seed list.
var exampleRequests = []string{
	"Send a cold sales email to introduce our new product to potential clients.",
	"Create a witty cold email about our SOC2 compliance tool",
	"Write a concise sales email for busy executives",
}

type Handler struct {
	Flow *workflow.Workflow
	Log  *zap.Logger
}

type submitRequest struct {
	Text string `json:"text"`
}

type approveRequest struct {
	Recipients    []models.Recipient `json:"recipients,omitempty"`
	RecipientsCSV string             `json:"recipients_csv,omitempty"`
	SenderName    string             `json:"sender_name"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := h.Flow.Submit(r.Context(), req.Text)
	h.writeRoundResult(w, summary, err)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	recipients := req.Recipients
	if len(recipients) == 0 && strings.TrimSpace(req.RecipientsCSV) != "" {
		parsed, err := csvparser.ParseRecipients(strings.NewReader(req.RecipientsCSV), 0, h.Log)
		if err != nil {
			http.Error(w, "recipients_csv: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		recipients = parsed
	}

	result, err := h.Flow.Approve(r.Context(), recipients, req.SenderName)
	if err != nil {
		if errors.Is(err, workflow.ErrAlreadyApproved) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "already_approved"})
			return
		}
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Flow.Reject(r.Context())
	h.writeRoundResult(w, summary, err)
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	h.Flow.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": string(h.Flow.State())})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   h.Flow.State(),
		"summary":  h.Flow.Summary(),
		"examples": exampleRequests,
	})
}

// writeRoundResult maps a submit/reject outcome onto the wire. A safety
// block is a successful evaluation with a negative verdict, not a server
// error, so it goes out as 200 with the verdict attached.
func (h *Handler) writeRoundResult(w http.ResponseWriter, summary *workflow.Summary, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	var blocked *workflow.SafetyBlockedError
	if errors.As(err, &blocked) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "blocked",
			"reason":  blocked.Error(),
			"verdict": blocked.Verdict,
		})
		return
	}
	h.writeError(w, err)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *workflow.ValidationError
	var serr *workflow.StateError

	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &serr):
		http.Error(w, serr.Error(), http.StatusConflict)
	case errors.Is(err, generator.ErrNoCandidates):
		h.Log.Error("round failed: no candidates", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		h.Log.Error("request failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
