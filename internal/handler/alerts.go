package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/restman-ops/api/internal/enum"
	"github.com/restman-ops/api/internal/service"
	"github.com/restman-ops/api/internal/ws"
)

// AlertDispatcher defines the routing methods needed by alert handlers.
// Satisfied by *service.AlertService.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, restaurantID uuid.UUID, alert service.Alert)
	RunVarianceScan(ctx context.Context, restaurantID uuid.UUID, engine service.VarianceComputer) ([]service.Alert, error)
}

// Broadcaster pushes events to connected dashboard clients.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	BroadcastToRestaurant(restaurantID uuid.UUID, event ws.Event)
}

// AlertHandler handles alert dispatch endpoints.
type AlertHandler struct {
	dispatcher AlertDispatcher
	engine     VarianceEngine
	hub        Broadcaster
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(dispatcher AlertDispatcher, engine VarianceEngine, hub Broadcaster) *AlertHandler {
	return &AlertHandler{dispatcher: dispatcher, engine: engine, hub: hub}
}

// RegisterRoutes registers alert endpoints on the given Chi router.
// Expected to be mounted inside a restaurant-scoped subrouter.
func (h *AlertHandler) RegisterRoutes(r chi.Router) {
	r.Post("/alerts/dispatch", h.Dispatch)
	r.Post("/alerts/variance-scan", h.VarianceScan)
}

// --- Request / Response types ---

type dispatchAlertRequest struct {
	Kind     string             `json:"kind"`
	Subject  string             `json:"subject"`
	Message  string             `json:"message"`
	Severity string             `json:"severity"`
	Context  map[string]float64 `json:"context"`
}

type alertResponse struct {
	Kind     string             `json:"kind"`
	Severity string             `json:"severity"`
	Subject  string             `json:"subject"`
	Message  string             `json:"message"`
	Context  map[string]float64 `json:"context,omitempty"`
}

func toAlertResponse(a service.Alert) alertResponse {
	return alertResponse{
		Kind:     a.Kind,
		Severity: a.Severity,
		Subject:  a.Subject,
		Message:  a.Message,
		Context:  a.Context,
	}
}

// --- Handlers ---

// Dispatch accepts an external alert payload and routes it to eligible
// staff. Delivery is best-effort: the endpoint always answers 202 once
// the payload is accepted, regardless of transport outcomes.
func (h *AlertHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid restaurant ID"})
		return
	}

	var req dispatchAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	severity := req.Severity
	if severity == "" {
		// No explicit severity: classify from the text, MEDIUM fallback.
		severity = service.ClassifySeverity(req.Message, enum.SeverityMedium)
	} else if !service.IsValidSeverity(severity) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid severity"})
		return
	}

	kind := req.Kind
	if kind == "" {
		kind = enum.AlertKindExternal
	} else if !service.IsValidAlertKind(kind) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid kind"})
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = "Restaurant alert"
	}

	alert := service.Alert{
		Kind:     kind,
		Severity: severity,
		Subject:  subject,
		Message:  req.Message,
		Context:  req.Context,
	}

	h.dispatcher.Dispatch(r.Context(), restaurantID, alert)
	h.broadcastAlert(restaurantID, alert)

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"alert":   toAlertResponse(alert),
	})
}

// VarianceScan runs the variance analysis and dispatches an alert for
// every item that crossed a threshold.
func (h *AlertHandler) VarianceScan(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid restaurant ID"})
		return
	}

	alerts, err := h.dispatcher.RunVarianceScan(r.Context(), restaurantID, h.engine)
	if err != nil {
		log.Printf("ERROR: variance scan: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]alertResponse, len(alerts))
	for i, a := range alerts {
		resp[i] = toAlertResponse(a)
		h.broadcastAlert(restaurantID, a)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"alerts":  resp,
	})
}

// --- Helpers ---

func (h *AlertHandler) broadcastAlert(restaurantID uuid.UUID, alert service.Alert) {
	if h.hub == nil {
		return
	}
	payload, err := json.Marshal(toAlertResponse(alert))
	if err != nil {
		log.Printf("ERROR: marshal alert event: %v", err)
		return
	}
	h.hub.BroadcastToRestaurant(restaurantID, ws.Event{
		Type:    "alert.dispatched",
		Payload: payload,
	})
}
