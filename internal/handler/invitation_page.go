package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmaguire/rsvp/internal/auth"
	"github.com/dmaguire/rsvp/internal/model"
	"github.com/dmaguire/rsvp/internal/service"
	"github.com/dmaguire/rsvp/internal/websocket"
)

// InvitationPageHandler backs the invitation rows on the event detail page.
// The row actions are posted either as plain forms or as fetch calls marked
// with X-Requested-With, and the response shape follows suit.
type InvitationPageHandler struct {
	invitations *service.InvitationService
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewInvitationPageHandler(invitations *service.InvitationService, hub *websocket.Hub, logger *slog.Logger) *InvitationPageHandler {
	return &InvitationPageHandler{invitations: invitations, hub: hub, logger: logger}
}

func eventPath(eventID int64) string {
	return "/event/" + strconv.FormatInt(eventID, 10)
}

func invitationRowPayload(inv *model.Invitation) map[string]any {
	return map[string]any{
		"ok":             true,
		"status":         inv.Status,
		"date_invited":   formatDate(inv.DateInvited),
		"date_responded": formatDate(inv.DateResponded),
	}
}

func (h *InvitationPageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	invitationID, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "Invalid invitation ID", http.StatusBadRequest)
		return
	}
	inv, err := h.invitations.ToggleSend(userID, invitationID)
	if err != nil {
		if isXHR(r) {
			xhrServiceError(w, err)
		} else {
			htmlServiceError(w, err)
		}
		return
	}
	h.hub.Broadcast(websocket.NewMessage("invitation", "updated", inv.ID))
	if isXHR(r) {
		writeJSON(w, http.StatusOK, invitationRowPayload(inv))
		return
	}
	http.Redirect(w, r, eventPath(inv.EventID), http.StatusSeeOther)
}

func (h *InvitationPageHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	invitationID, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "Invalid invitation ID", http.StatusBadRequest)
		return
	}
	inv, err := h.invitations.SetStatus(userID, invitationID, r.FormValue("status"))
	if err != nil {
		if isXHR(r) {
			xhrServiceError(w, err)
		} else {
			htmlServiceError(w, err)
		}
		return
	}
	h.hub.Broadcast(websocket.NewMessage("invitation", "updated", inv.ID))
	if isXHR(r) {
		writeJSON(w, http.StatusOK, invitationRowPayload(inv))
		return
	}
	http.Redirect(w, r, eventPath(inv.EventID), http.StatusSeeOther)
}

func (h *InvitationPageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	invitationID, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "Invalid invitation ID", http.StatusBadRequest)
		return
	}
	eventID, err := h.invitations.Delete(userID, invitationID)
	if err != nil {
		if isXHR(r) {
			xhrServiceError(w, err)
		} else {
			htmlServiceError(w, err)
		}
		return
	}
	h.hub.Broadcast(websocket.NewMessage("invitation", "deleted", invitationID))
	if isXHR(r) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}
	http.Redirect(w, r, eventPath(eventID), http.StatusSeeOther)
}

// SetField patches the channel or notes column from the inline editors.
func (h *InvitationPageHandler) SetField(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	invitationID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid invitation ID"})
		return
	}
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid JSON body"})
		return
	}
	inv, err := h.invitations.SetField(userID, invitationID, req.Field, req.Value)
	if err != nil {
		xhrServiceError(w, err)
		return
	}
	h.hub.Broadcast(websocket.NewMessage("invitation", "updated", inv.ID))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// AvailableGuests feeds the add-guest picker on the event page.
func (h *InvitationPageHandler) AvailableGuests(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	eventID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid event ID"})
		return
	}
	guests, err := h.invitations.AvailableGuests(userID, eventID)
	if err != nil {
		xhrServiceError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(guests))
	for _, g := range guests {
		items = append(items, map[string]any{
			"id":        g.ID,
			"full_name": g.FullName(),
			"gender":    g.Gender,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"guests": items})
}

func (h *InvitationPageHandler) BulkAdd(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	eventID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid event ID"})
		return
	}
	var req struct {
		GuestIDs []int64 `json:"guest_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid JSON body"})
		return
	}
	added, err := h.invitations.BulkAddGuests(userID, eventID, req.GuestIDs)
	if err != nil {
		xhrServiceError(w, err)
		return
	}
	if len(added) > 0 {
		h.hub.Broadcast(websocket.NewMessage("event", "updated", eventID))
	}
	writeJSON(w, http.StatusOK, map[string]any{"added": len(added)})
}

func (h *InvitationPageHandler) BulkCreateAndInvite(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	eventID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid event ID"})
		return
	}
	var req struct {
		Guests []guestRequest `json:"guests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid JSON body"})
		return
	}
	entries := make([]service.GuestInput, 0, len(req.Guests))
	for _, g := range req.Guests {
		entries = append(entries, g.input())
	}
	added, err := h.invitations.BulkCreateAndInvite(userID, eventID, entries)
	if err != nil {
		xhrServiceError(w, err)
		return
	}
	if len(added) > 0 {
		h.hub.Broadcast(websocket.NewMessage("event", "updated", eventID))
	}
	writeJSON(w, http.StatusOK, map[string]any{"added": len(added)})
}
