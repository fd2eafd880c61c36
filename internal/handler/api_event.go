package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmaguire/rsvp/internal/auth"
	"github.com/dmaguire/rsvp/internal/service"
	"github.com/dmaguire/rsvp/internal/store"
	ws "github.com/dmaguire/rsvp/internal/websocket"
)

type APIEventHandler struct {
	events      *service.EventService
	invitations *store.InvitationStore
	guests      *store.GuestStore
	hub         *ws.Hub
	logger      *slog.Logger
}

func NewAPIEventHandler(events *service.EventService, invitations *store.InvitationStore, guests *store.GuestStore, hub *ws.Hub, logger *slog.Logger) *APIEventHandler {
	return &APIEventHandler{events: events, invitations: invitations, guests: guests, hub: hub, logger: logger}
}

type eventRequest struct {
	Name            string `json:"name"`
	EventType       string `json:"event_type"`
	Location        string `json:"location"`
	Date            string `json:"date"`
	Notes           string `json:"notes"`
	TargetAttendees any    `json:"target_attendees"`
	IncludeMe       bool   `json:"include_me"`
}

// rawTarget turns whatever JSON type the client sent for target_attendees
// into the raw string the normalization rule expects. "0" and garbage both
// end up absent downstream.
func rawTarget(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func (req eventRequest) input() service.EventInput {
	return service.EventInput{
		Name:            req.Name,
		EventType:       req.EventType,
		Location:        req.Location,
		Date:            req.Date,
		Notes:           req.Notes,
		TargetAttendees: rawTarget(req.TargetAttendees),
		IncludeMe:       req.IncludeMe,
	}
}

func (h *APIEventHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	page := parsePage(r)

	events, total, err := h.events.List(userID, page)
	if err != nil {
		apiServiceError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(events))
	for _, e := range events {
		invitations, err := h.invitations.ListByEvent(e.ID)
		if err != nil {
			apiServiceError(w, err)
			return
		}
		items = append(items, serializeEvent(e, invitations))
	}

	apiSuccess(w, http.StatusOK, map[string]any{
		"items": items,
		"page":  page,
		"pages": pageCount(total, service.EventsPerPage),
		"total": total,
	})
}

func (h *APIEventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		apiError(w, http.StatusBadRequest, "Invalid event id", "BAD_REQUEST")
		return
	}

	event, err := h.events.GetOwned(auth.UserID(r.Context()), id)
	if err != nil {
		apiServiceError(w, err)
		return
	}

	invitations, err := h.invitations.ListByEvent(event.ID)
	if err != nil {
		apiServiceError(w, err)
		return
	}

	data := serializeEvent(*event, invitations)
	briefs := make([]map[string]any, 0, len(invitations))
	for _, inv := range invitations {
		guest, err := h.guests.GetByID(inv.GuestID)
		if err != nil || guest == nil {
			continue
		}
		briefs = append(briefs, serializeInvitationBrief(inv, guest))
	}
	data["invitations"] = briefs

	apiSuccess(w, http.StatusOK, data)
}

func (h *APIEventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, http.StatusBadRequest, "Request body must be JSON", "INVALID_FORMAT")
		return
	}

	event, err := h.events.Create(auth.UserID(r.Context()), req.input())
	if err != nil {
		apiServiceError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("event", "created", event.ID))

	invitations, err := h.invitations.ListByEvent(event.ID)
	if err != nil {
		apiServiceError(w, err)
		return
	}
	apiSuccess(w, http.StatusCreated, serializeEvent(*event, invitations))
}

func (h *APIEventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		apiError(w, http.StatusBadRequest, "Invalid event id", "BAD_REQUEST")
		return
	}
	userID := auth.UserID(r.Context())

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil || len(fields) == 0 {
		apiError(w, http.StatusBadRequest, "Request body must be JSON", "INVALID_FORMAT")
		return
	}

	// Notes-only fast path: skip full validation when nothing else changes.
	if raw, ok := fields["notes"]; ok && len(fields) == 1 {
		var notes string
		if err := json.Unmarshal(raw, &notes); err != nil {
			apiError(w, http.StatusBadRequest, "Invalid notes value", "BAD_REQUEST")
			return
		}
		e, err := h.events.UpdateNotes(userID, id, notes)
		if err != nil {
			apiServiceError(w, err)
			return
		}
		invitations, err := h.invitations.ListByEvent(e.ID)
		if err != nil {
			apiServiceError(w, err)
			return
		}
		h.hub.Broadcast(ws.NewMessage("event", "updated", e.ID))
		apiSuccess(w, http.StatusOK, serializeEvent(*e, invitations))
		return
	}

	var req eventRequest
	body, _ := json.Marshal(fields)
	if err := json.Unmarshal(body, &req); err != nil {
		apiError(w, http.StatusBadRequest, "Request body must be JSON", "INVALID_FORMAT")
		return
	}

	e, err := h.events.Update(userID, id, req.input())
	if err != nil {
		apiServiceError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("event", "updated", e.ID))

	invitations, err := h.invitations.ListByEvent(e.ID)
	if err != nil {
		apiServiceError(w, err)
		return
	}
	apiSuccess(w, http.StatusOK, serializeEvent(*e, invitations))
}

func (h *APIEventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		apiError(w, http.StatusBadRequest, "Invalid event id", "BAD_REQUEST")
		return
	}

	if err := h.events.Delete(auth.UserID(r.Context()), id); err != nil {
		apiServiceError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("event", "deleted", id))
	w.WriteHeader(http.StatusNoContent)
}
