package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dmaguire/rsvp/internal/auth"
	"github.com/dmaguire/rsvp/internal/model"
	"github.com/dmaguire/rsvp/internal/service"
	"github.com/dmaguire/rsvp/internal/store"
	ws "github.com/dmaguire/rsvp/internal/websocket"
)

type APIGuestHandler struct {
	guests      *service.GuestService
	invitations *store.InvitationStore
	events      *store.EventStore
	hub         *ws.Hub
	logger      *slog.Logger
}

func NewAPIGuestHandler(guests *service.GuestService, invitations *store.InvitationStore, events *store.EventStore, hub *ws.Hub, logger *slog.Logger) *APIGuestHandler {
	return &APIGuestHandler{guests: guests, invitations: invitations, events: events, hub: hub, logger: logger}
}

type guestRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	IsMe      bool   `json:"is_me"`
	Notes     string `json:"notes"`
}

func (req guestRequest) input() service.GuestInput {
	return service.GuestInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		IsMe:      req.IsMe,
		Notes:     req.Notes,
	}
}

// serialize fetches the guest's invitations and parent events so the
// serializer can build the summary block.
func (h *APIGuestHandler) serialize(g model.Guest) (map[string]any, error) {
	invitations, err := h.invitations.ListByGuest(g.ID)
	if err != nil {
		return nil, err
	}
	eventsByID := make(map[int64]model.Event, len(invitations))
	for _, inv := range invitations {
		if _, ok := eventsByID[inv.EventID]; ok {
			continue
		}
		event, err := h.events.GetByID(inv.EventID)
		if err != nil {
			return nil, err
		}
		if event != nil {
			eventsByID[inv.EventID] = *event
		}
	}
	return serializeGuest(g, invitations, eventsByID), nil
}

func (h *APIGuestHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	page := parsePage(r)

	guests, total, err := h.guests.List(userID, page)
	if err != nil {
		apiServiceError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(guests))
	for _, g := range guests {
		data, err := h.serialize(g)
		if err != nil {
			apiServiceError(w, err)
			return
		}
		items = append(items, data)
	}

	apiSuccess(w, http.StatusOK, map[string]any{
		"items": items,
		"page":  page,
		"pages": pageCount(total, service.GuestsPerPage),
		"total": total,
	})
}

func (h *APIGuestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		apiError(w, http.StatusBadRequest, "Invalid guest id", "BAD_REQUEST")
		return
	}

	guest, err := h.guests.GetOwned(auth.UserID(r.Context()), id)
	if err != nil {
		apiServiceError(w, err)
		return
	}

	data, err := h.serialize(*guest)
	if err != nil {
		apiServiceError(w, err)
		return
	}
	apiSuccess(w, http.StatusOK, data)
}

func (h *APIGuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req guestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, http.StatusBadRequest, "Request body must be JSON", "INVALID_FORMAT")
		return
	}

	guest, err := h.guests.Create(auth.UserID(r.Context()), req.input())
	if err != nil {
		apiServiceError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("guest", "created", guest.ID))

	data, err := h.serialize(*guest)
	if err != nil {
		apiServiceError(w, err)
		return
	}
	apiSuccess(w, http.StatusCreated, data)
}

// Update applies each present field independently, mirroring the field
// endpoints the web UI uses.
func (h *APIGuestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		apiError(w, http.StatusBadRequest, "Invalid guest id", "BAD_REQUEST")
		return
	}
	userID := auth.UserID(r.Context())

	guest, err := h.guests.GetOwned(userID, id)
	if err != nil {
		apiServiceError(w, err)
		return
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil || len(fields) == 0 {
		apiError(w, http.StatusBadRequest, "Request body must be JSON", "INVALID_FORMAT")
		return
	}

	asString := func(raw json.RawMessage, fallback string) string {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fallback
		}
		return s
	}

	if _, hasFirst := fields["first_name"]; hasFirst || fields["last_name"] != nil {
		first := guest.FirstName
		last := guest.LastName
		if raw, ok := fields["first_name"]; ok {
			first = asString(raw, first)
		}
		if raw, ok := fields["last_name"]; ok {
			last = asString(raw, last)
		}
		if guest, err = h.guests.SetName(userID, id, first, last); err != nil {
			apiServiceError(w, err)
			return
		}
	}

	if raw, ok := fields["gender"]; ok {
		if guest, err = h.guests.SetGender(userID, id, asString(raw, guest.Gender)); err != nil {
			apiServiceError(w, err)
			return
		}
	}

	if raw, ok := fields["notes"]; ok {
		if guest, err = h.guests.SetNotes(userID, id, asString(raw, guest.Notes)); err != nil {
			apiServiceError(w, err)
			return
		}
	}

	if raw, ok := fields["is_me"]; ok {
		var isMe bool
		if err := json.Unmarshal(raw, &isMe); err != nil {
			apiError(w, http.StatusBadRequest, "Invalid is_me value", "BAD_REQUEST")
			return
		}
		if guest, err = h.guests.SetIsMe(userID, id, isMe); err != nil {
			apiServiceError(w, err)
			return
		}
	}

	h.hub.Broadcast(ws.NewMessage("guest", "updated", guest.ID))

	data, err := h.serialize(*guest)
	if err != nil {
		apiServiceError(w, err)
		return
	}
	apiSuccess(w, http.StatusOK, data)
}

func (h *APIGuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		apiError(w, http.StatusBadRequest, "Invalid guest id", "BAD_REQUEST")
		return
	}

	if err := h.guests.Delete(auth.UserID(r.Context()), id); err != nil {
		apiServiceError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("guest", "deleted", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIGuestHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Guests []guestRequest `json:"guests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, http.StatusBadRequest, "Request body must be JSON", "INVALID_FORMAT")
		return
	}

	inputs := make([]service.GuestInput, 0, len(req.Guests))
	for _, g := range req.Guests {
		inputs = append(inputs, g.input())
	}

	created, err := h.guests.BulkCreate(auth.UserID(r.Context()), inputs)
	if err != nil {
		apiServiceError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(created))
	for _, g := range created {
		h.hub.Broadcast(ws.NewMessage("guest", "created", g.ID))
		items = append(items, map[string]any{
			"id":         g.ID,
			"first_name": g.FirstName,
			"last_name":  g.LastName,
			"gender":     g.Gender,
			"full_name":  g.FullName(),
		})
	}
	apiSuccess(w, http.StatusCreated, items)
}
