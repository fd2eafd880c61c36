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

type APIInvitationHandler struct {
	invitations *service.InvitationService
	guestStore  *store.GuestStore
	hub         *ws.Hub
	logger      *slog.Logger
}

func NewAPIInvitationHandler(invitations *service.InvitationService, guestStore *store.GuestStore, hub *ws.Hub, logger *slog.Logger) *APIInvitationHandler {
	return &APIInvitationHandler{invitations: invitations, guestStore: guestStore, hub: hub, logger: logger}
}

func (h *APIInvitationHandler) briefs(invitations []model.Invitation) ([]map[string]any, error) {
	items := make([]map[string]any, 0, len(invitations))
	for _, inv := range invitations {
		guest, err := h.guestStore.GetByID(inv.GuestID)
		if err != nil {
			return nil, err
		}
		if guest == nil {
			continue
		}
		items = append(items, serializeInvitationBrief(inv, guest))
	}
	return items, nil
}

// ListByEvent returns the event's invitations with inline guest info.
func (h *APIInvitationHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIDParam(r)
	if err != nil {
		apiError(w, http.StatusBadRequest, "Invalid event id", "BAD_REQUEST")
		return
	}

	invitations, err := h.invitations.ListByEvent(auth.UserID(r.Context()), eventID)
	if err != nil {
		apiServiceError(w, err)
		return
	}

	items, err := h.briefs(invitations)
	if err != nil {
		apiServiceError(w, err)
		return
	}
	apiSuccess(w, http.StatusOK, items)
}

// AvailableGuests lists the guests that can still be invited to the event.
func (h *APIInvitationHandler) AvailableGuests(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIDParam(r)
	if err != nil {
		apiError(w, http.StatusBadRequest, "Invalid event id", "BAD_REQUEST")
		return
	}

	guests, err := h.invitations.AvailableGuests(auth.UserID(r.Context()), eventID)
	if err != nil {
		apiServiceError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(guests))
	for _, g := range guests {
		items = append(items, map[string]any{
			"id":         g.ID,
			"first_name": g.FirstName,
			"last_name":  g.LastName,
			"gender":     g.Gender,
			"full_name":  g.FullName(),
		})
	}
	apiSuccess(w, http.StatusOK, items)
}

// Update accepts toggle_send, status, channel, and notes in one PUT, applied
// in that order.
func (h *APIInvitationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		apiError(w, http.StatusBadRequest, "Invalid invitation id", "BAD_REQUEST")
		return
	}
	userID := auth.UserID(r.Context())

	var req struct {
		ToggleSend bool    `json:"toggle_send"`
		Status     *string `json:"status"`
		Channel    *string `json:"channel"`
		Notes      *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, http.StatusBadRequest, "Request body must be JSON", "INVALID_FORMAT")
		return
	}

	if req.ToggleSend {
		if _, err := h.invitations.ToggleSend(userID, id); err != nil {
			apiServiceError(w, err)
			return
		}
	}
	if req.Status != nil {
		if _, err := h.invitations.SetStatus(userID, id, *req.Status); err != nil {
			apiServiceError(w, err)
			return
		}
	}
	if req.Channel != nil {
		if _, err := h.invitations.SetField(userID, id, "channel", *req.Channel); err != nil {
			apiServiceError(w, err)
			return
		}
	}
	if req.Notes != nil {
		if _, err := h.invitations.SetField(userID, id, "notes", *req.Notes); err != nil {
			apiServiceError(w, err)
			return
		}
	}

	inv, _, err := h.invitations.GetOwned(userID, id)
	if err != nil {
		apiServiceError(w, err)
		return
	}
	guest, err := h.guestStore.GetByID(inv.GuestID)
	if err != nil || guest == nil {
		apiError(w, http.StatusInternalServerError, "Internal server error", "ERROR")
		return
	}

	h.hub.Broadcast(ws.NewMessage("invitation", "updated", inv.ID))
	apiSuccess(w, http.StatusOK, serializeInvitation(*inv, guest))
}

func (h *APIInvitationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		apiError(w, http.StatusBadRequest, "Invalid invitation id", "BAD_REQUEST")
		return
	}

	if _, err := h.invitations.Delete(auth.UserID(r.Context()), id); err != nil {
		apiServiceError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("invitation", "deleted", id))
	w.WriteHeader(http.StatusNoContent)
}

// BulkAdd invites existing guests by id.
func (h *APIInvitationHandler) BulkAdd(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIDParam(r)
	if err != nil {
		apiError(w, http.StatusBadRequest, "Invalid event id", "BAD_REQUEST")
		return
	}

	var req struct {
		GuestIDs []int64 `json:"guest_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, http.StatusBadRequest, "Request body must be JSON", "INVALID_FORMAT")
		return
	}

	added, err := h.invitations.BulkAddGuests(auth.UserID(r.Context()), eventID, req.GuestIDs)
	if err != nil {
		apiServiceError(w, err)
		return
	}

	items, err := h.briefs(added)
	if err != nil {
		apiServiceError(w, err)
		return
	}
	if len(added) > 0 {
		h.hub.Broadcast(ws.NewMessage("event", "updated", eventID))
	}
	apiSuccess(w, http.StatusCreated, items)
}

// BulkCreateAndInvite creates new guests and invites them in one call.
func (h *APIInvitationHandler) BulkCreateAndInvite(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIDParam(r)
	if err != nil {
		apiError(w, http.StatusBadRequest, "Invalid event id", "BAD_REQUEST")
		return
	}

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

	added, err := h.invitations.BulkCreateAndInvite(auth.UserID(r.Context()), eventID, inputs)
	if err != nil {
		apiServiceError(w, err)
		return
	}

	items, err := h.briefs(added)
	if err != nil {
		apiServiceError(w, err)
		return
	}
	if len(added) > 0 {
		h.hub.Broadcast(ws.NewMessage("event", "updated", eventID))
	}
	apiSuccess(w, http.StatusCreated, items)
}
