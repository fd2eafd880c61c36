package handler

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dmaguire/rsvp/internal/auth"
	"github.com/dmaguire/rsvp/internal/model"
	"github.com/dmaguire/rsvp/internal/service"
	"github.com/dmaguire/rsvp/internal/store"
	"github.com/dmaguire/rsvp/internal/websocket"
)

type GuestPageHandler struct {
	guests    *service.GuestService
	invStore  *store.InvitationStore
	hub       *websocket.Hub
	templates *template.Template
	logger    *slog.Logger
}

func NewGuestPageHandler(guests *service.GuestService, is *store.InvitationStore, hub *websocket.Hub, templates *template.Template, logger *slog.Logger) *GuestPageHandler {
	return &GuestPageHandler{
		guests:    guests,
		invStore:  is,
		hub:       hub,
		templates: templates,
		logger:    logger,
	}
}

type guestRow struct {
	model.Guest
	Invited   int
	Attending int
	Pending   int
	Declined  int
}

type guestsData struct {
	Guests  []guestRow
	Page    int
	Pages   int
	Genders []string
	Error   string
}

func (h *GuestPageHandler) guestsData(userID int64, page int) (*guestsData, error) {
	guests, total, err := h.guests.List(userID, page)
	if err != nil {
		return nil, err
	}
	rows := make([]guestRow, 0, len(guests))
	for _, g := range guests {
		invs, err := h.invStore.ListByGuest(g.ID)
		if err != nil {
			return nil, err
		}
		row := guestRow{Guest: g}
		for _, inv := range invs {
			switch inv.Status {
			case model.StatusAttending:
				row.Invited++
				row.Attending++
			case model.StatusPending:
				row.Invited++
				row.Pending++
			case model.StatusDeclined:
				row.Invited++
				row.Declined++
			}
		}
		rows = append(rows, row)
	}
	return &guestsData{
		Guests:  rows,
		Page:    page,
		Pages:   pageCount(total, service.GuestsPerPage),
		Genders: model.Genders,
	}, nil
}

func (h *GuestPageHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	data, err := h.guestsData(userID, parsePage(r))
	if err != nil {
		h.logger.Error("load guests page", "error", err)
		htmlServiceError(w, err)
		return
	}
	renderPage(w, h.templates, h.logger, "guests.html", data)
}

func guestFormInput(r *http.Request) service.GuestInput {
	return service.GuestInput{
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Gender:    r.FormValue("gender"),
		Notes:     r.FormValue("notes"),
		IsMe:      r.FormValue("is_me") != "",
	}
}

func (h *GuestPageHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	guest, err := h.guests.Create(userID, guestFormInput(r))
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			data, derr := h.guestsData(userID, 1)
			if derr != nil {
				htmlServiceError(w, derr)
				return
			}
			data.Error = verr.Message
			renderPage(w, h.templates, h.logger, "guests.html", data)
			return
		}
		htmlServiceError(w, err)
		return
	}
	h.hub.Broadcast(websocket.NewMessage("guest", "created", guest.ID))
	http.Redirect(w, r, "/guests", http.StatusSeeOther)
}

func (h *GuestPageHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	guestID, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "Invalid guest ID", http.StatusBadRequest)
		return
	}
	guest, err := h.guests.Update(userID, guestID, guestFormInput(r))
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			data, derr := h.guestsData(userID, 1)
			if derr != nil {
				htmlServiceError(w, derr)
				return
			}
			data.Error = verr.Message
			renderPage(w, h.templates, h.logger, "guests.html", data)
			return
		}
		htmlServiceError(w, err)
		return
	}
	h.hub.Broadcast(websocket.NewMessage("guest", "updated", guest.ID))
	http.Redirect(w, r, "/guests", http.StatusSeeOther)
}

func (h *GuestPageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	guestID, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "Invalid guest ID", http.StatusBadRequest)
		return
	}
	if err := h.guests.Delete(userID, guestID); err != nil {
		htmlServiceError(w, err)
		return
	}
	h.hub.Broadcast(websocket.NewMessage("guest", "deleted", guestID))
	http.Redirect(w, r, "/guests", http.StatusSeeOther)
}

// The /api/guest/{id}/... endpoints back the inline editors on the guests
// page. Each one patches a single field and answers a small ok payload.

func (h *GuestPageHandler) SetName(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	guestID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid guest ID"})
		return
	}
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid JSON body"})
		return
	}
	guest, err := h.guests.SetName(userID, guestID, req.FirstName, req.LastName)
	if err != nil {
		xhrServiceError(w, err)
		return
	}
	h.hub.Broadcast(websocket.NewMessage("guest", "updated", guest.ID))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "full_name": guest.FullName()})
}

func (h *GuestPageHandler) SetGender(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	guestID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid guest ID"})
		return
	}
	var req struct {
		Gender string `json:"gender"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid JSON body"})
		return
	}
	guest, err := h.guests.SetGender(userID, guestID, req.Gender)
	if err != nil {
		xhrServiceError(w, err)
		return
	}
	h.hub.Broadcast(websocket.NewMessage("guest", "updated", guest.ID))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *GuestPageHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	guestID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid guest ID"})
		return
	}
	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid JSON body"})
		return
	}
	guest, err := h.guests.SetNotes(userID, guestID, req.Notes)
	if err != nil {
		xhrServiceError(w, err)
		return
	}
	h.hub.Broadcast(websocket.NewMessage("guest", "updated", guest.ID))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *GuestPageHandler) SetIsMe(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	guestID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid guest ID"})
		return
	}
	var req struct {
		IsMe bool `json:"is_me"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid JSON body"})
		return
	}
	guest, err := h.guests.SetIsMe(userID, guestID, req.IsMe)
	if err != nil {
		xhrServiceError(w, err)
		return
	}
	h.hub.Broadcast(websocket.NewMessage("guest", "updated", guest.ID))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "is_me": guest.IsMe})
}

// BulkCreate accepts pasted rows from the import dialog.
func (h *GuestPageHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
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
	created, err := h.guests.BulkCreate(userID, entries)
	if err != nil {
		xhrServiceError(w, err)
		return
	}
	for _, g := range created {
		h.hub.Broadcast(websocket.NewMessage("guest", "created", g.ID))
	}
	writeJSON(w, http.StatusOK, map[string]any{"added": len(created)})
}
