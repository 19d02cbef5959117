// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package handlers implements the HTTP surface of the feedback service.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/service"
)

// FeedbackHandler handles the webhook ingestion and feedback submission
// routes.
type FeedbackHandler struct {
	webhookService  *service.WebhookService
	feedbackService *service.FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(webhookService *service.WebhookService, feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		webhookService:  webhookService,
		feedbackService: feedbackService,
	}
}

// HandlerReady checks if the handler's services are ready.
func (h *FeedbackHandler) HandlerReady() bool {
	return h.webhookService.ServiceReady() && h.feedbackService.ServiceReady()
}

// statusResponse is the wire envelope of the submission route.
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// HandleWebhook handles POST /feedback/webhook. The conferencing server only
// distinguishes success from failure, so the response is 200 once the batch
// is dispatched and 500 on a parse or processing failure.
func (h *FeedbackHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var envelope models.WebhookEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		slog.ErrorContext(ctx, "failed to decode webhook body", logging.ErrKey, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := h.webhookService.HandleBatch(ctx, &envelope); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleSubmit handles POST /feedback/submit. Client errors (missing
// identifiers, duplicate submission) yield a 400 with
// {status:"error",message}; internal failures yield an empty 500.
func (h *FeedbackHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		slog.WarnContext(ctx, "failed to decode submission body", logging.ErrKey, err)
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "invalid request body"})
		return
	}

	response, err := h.feedbackService.Submit(ctx, &request)
	if err != nil {
		switch domain.GetErrorType(err) {
		case domain.ErrorTypeValidation, domain.ErrorTypeConflict:
			writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: err.Error()})
		default:
			slog.ErrorContext(ctx, "failed to process submission", logging.ErrKey, err)
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Data: response})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response body", logging.ErrKey, err)
	}
}
