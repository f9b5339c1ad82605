// Package handlers provides HTTP request handlers for the MediCure API endpoints.
// It includes handlers for medicine predictions, remedy search, AI chat, health
// checks, and response formatting with proper input validation and error handling.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/medicure/medicure-api/assistant"
	"github.com/medicure/medicure-api/classifier"
	"github.com/medicure/medicure-api/interfaces"
	"github.com/medicure/medicure-api/logging"
	"github.com/medicure/medicure-api/remedies"
	"github.com/medicure/medicure-api/validation"
)

// The assistant client must satisfy both AI contracts: chat here and the
// remedy simplify/generate pair consumed by the finder.
var (
	_ interfaces.Conversationalist = (*assistant.Client)(nil)
	_ interfaces.RemedyAssistant   = (*assistant.Client)(nil)
)

const apiVersion = "1.0.0"

// apologyMessage is what callers see when the upstream AI provider fails.
// The real cause goes to the log only.
const apologyMessage = "I'm sorry, I'm having trouble reaching the AI service right now. Please try again in a moment."

// ErrorResponse is the JSON envelope for all non-2xx responses
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is served at the root path
type StatusResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// MedicineRequest is the body for the three prediction endpoints
type MedicineRequest struct {
	MedicineName string `json:"medicine_name"`
}

// RemedyRequest is the body for the remedy search endpoint
type RemedyRequest struct {
	Disease string `json:"disease"`
}

// ChatRequest is the body for the chat endpoint. ChatHistory carries the
// full prior transcript; the server keeps no conversation state.
type ChatRequest struct {
	Message     string           `json:"message"`
	ChatHistory []assistant.Turn `json:"chat_history"`
}

// UsageResponse carries the single most likely usage label
type UsageResponse struct {
	Usage string `json:"usage"`
}

// SideEffectsResponse carries side effects ordered most likely first
type SideEffectsResponse struct {
	SideEffects []string `json:"side_effects"`
}

// SubstitutesResponse carries substitute medicines ordered most likely first
type SubstitutesResponse struct {
	Substitutes []string `json:"substitutes"`
}

// ChatResponse carries the assistant reply verbatim
type ChatResponse struct {
	Response string `json:"response"`
}

// RespondWithJSON writes a JSON response with compression optimization
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// decodeJSONBody decodes a JSON request body into dst. Malformed JSON and
// wrong field types are client errors, reported as 400 with a short message
// instead of leaking decoder internals.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logging.Warn("Rejected undecodable request body", "path", r.URL.Path, "error", err)
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Request body must be valid JSON"})
		return false
	}
	return true
}

// writeServiceError maps service failures onto the API error contract:
// invalid input 400, classifier failure 500, missing dataset 503, upstream
// AI outage 503 with a generic apology.
func writeServiceError(w http.ResponseWriter, err error) {
	var inferenceErr *classifier.InferenceError

	switch {
	case errors.Is(err, validation.ErrInvalid):
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.As(err, &inferenceErr):
		logging.Error("Model inference failed", "model", string(inferenceErr.Kind), "error", err)
		RespondWithJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Model inference failed"})
	case errors.Is(err, remedies.ErrDatasetUnavailable):
		logging.Error("Remedy dataset unavailable", "error", err)
		RespondWithJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "Remedy dataset is not available"})
	case errors.Is(err, assistant.ErrUnavailable):
		logging.Error("Upstream AI request failed", "error", err)
		RespondWithJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: apologyMessage})
	default:
		logging.Error("Unhandled service error", "error", err)
		RespondWithJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// ServiceStatus reports that the API is up
func ServiceStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, StatusResponse{
			Message: "MediCure API is running",
			Version: apiVersion,
		})
	}
}

// HealthCheck returns server health information
func HealthCheck(checker interfaces.HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, details, httpStatus := checker.HealthCheck()

		payload := make(map[string]any, len(details)+1)
		payload["status"] = status
		for key, value := range details {
			payload[key] = value
		}

		RespondWithJSON(w, httpStatus, payload)
	}
}

// PredictUsage returns the most likely usage for a medicine
func PredictUsage(predictor interfaces.Predictor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MedicineRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		usage, err := predictor.PredictUsage(req.MedicineName)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		RespondWithJSON(w, http.StatusOK, UsageResponse{Usage: usage})
	}
}

// PredictSideEffects returns the likely side effects for a medicine
func PredictSideEffects(predictor interfaces.Predictor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MedicineRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		effects, err := predictor.PredictSideEffects(req.MedicineName)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		RespondWithJSON(w, http.StatusOK, SideEffectsResponse{SideEffects: effects})
	}
}

// PredictSubstitutes returns substitute medicines
func PredictSubstitutes(predictor interfaces.Predictor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MedicineRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		substitutes, err := predictor.PredictSubstitutes(req.MedicineName)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		RespondWithJSON(w, http.StatusOK, SubstitutesResponse{Substitutes: substitutes})
	}
}

// SearchRemedies looks up home remedies for a disease, falling back to AI
// generation when the dataset has no match
func SearchRemedies(finder interfaces.RemedyFinder, validator interfaces.InputValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RemedyRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		disease, err := validator.ValidateQueryTerm(req.Disease)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		result, err := finder.Find(r.Context(), disease)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		RespondWithJSON(w, http.StatusOK, result)
	}
}

// Chat answers a health question through the AI assistant, replaying the
// supplied history for context
func Chat(conversationalist interfaces.Conversationalist, validator interfaces.InputValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		message, err := validator.ValidateMessage(req.Message)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		if err := validator.ValidateChatHistory(req.ChatHistory); err != nil {
			writeServiceError(w, err)
			return
		}

		reply, err := conversationalist.Converse(r.Context(), message, req.ChatHistory)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		RespondWithJSON(w, http.StatusOK, ChatResponse{Response: reply})
	}
}
