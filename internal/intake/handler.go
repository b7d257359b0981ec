package intake

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carepilot/internal/feedback"
	"carepilot/internal/suggest"
	"carepilot/internal/triage"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type FeedbackRequest struct {
	Symptoms         string               `json:"symptoms"`
	Predictions      []suggest.Suggestion `json:"predictions"`
	CorrectCondition string               `json:"correct_condition"`
	HelpfulScore     string               `json:"helpful_score"`
	Comments         string               `json:"comments"`
}

func (h *Handler) HandleTriage(w http.ResponseWriter, r *http.Request) {
	var record triage.SymptomRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.svc.Triage(r.Context(), record)
	if err != nil {
		var fieldErr *triage.FieldError
		if errors.As(err, &fieldErr) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Triage failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rec := feedback.Record{
		Symptoms:         req.Symptoms,
		Predictions:      req.Predictions,
		CorrectCondition: req.CorrectCondition,
		HelpfulScore:     req.HelpfulScore,
		Comments:         req.Comments,
	}

	if err := h.svc.RecordFeedback(r.Context(), rec); err != nil {
		http.Error(w, "Failed to record feedback: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/triage", h.HandleTriage)
	r.Post("/feedback", h.HandleFeedback)
}
