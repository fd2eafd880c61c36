package handler

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmaguire/rsvp/internal/auth"
	"github.com/dmaguire/rsvp/internal/model"
	"github.com/dmaguire/rsvp/internal/service"
	"github.com/dmaguire/rsvp/internal/store"
	"github.com/dmaguire/rsvp/internal/websocket"
)

type EventPageHandler struct {
	events      *service.EventService
	invitations *service.InvitationService
	guestStore  *store.GuestStore
	invStore    *store.InvitationStore
	hub         *websocket.Hub
	templates   *template.Template
	logger      *slog.Logger
}

func NewEventPageHandler(events *service.EventService, invitations *service.InvitationService, gs *store.GuestStore, is *store.InvitationStore, hub *websocket.Hub, templates *template.Template, logger *slog.Logger) *EventPageHandler {
	return &EventPageHandler{
		events:      events,
		invitations: invitations,
		guestStore:  gs,
		invStore:    is,
		hub:         hub,
		templates:   templates,
		logger:      logger,
	}
}

type eventRow struct {
	model.Event
	Invited   int
	Attending int
}

type homeData struct {
	Events     []eventRow
	Page       int
	Pages      int
	EventTypes []string
	Error      string
	Form       map[string]string
}

func (h *EventPageHandler) homeData(userID int64, page int) (*homeData, error) {
	events, total, err := h.events.List(userID, page)
	if err != nil {
		return nil, err
	}
	rows := make([]eventRow, 0, len(events))
	for _, e := range events {
		invs, err := h.invStore.ListByEvent(e.ID)
		if err != nil {
			return nil, err
		}
		row := eventRow{Event: e}
		for _, inv := range invs {
			if inv.Status != model.StatusNotSent {
				row.Invited++
			}
			if inv.Status == model.StatusAttending {
				row.Attending++
			}
		}
		rows = append(rows, row)
	}
	return &homeData{
		Events:     rows,
		Page:       page,
		Pages:      pageCount(total, service.EventsPerPage),
		EventTypes: model.EventTypes,
	}, nil
}

func (h *EventPageHandler) Home(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	data, err := h.homeData(userID, parsePage(r))
	if err != nil {
		h.logger.Error("load events page", "error", err)
		htmlServiceError(w, err)
		return
	}
	renderPage(w, h.templates, h.logger, "home.html", data)
}

func eventFormInput(r *http.Request) service.EventInput {
	return service.EventInput{
		Name:            r.FormValue("name"),
		EventType:       r.FormValue("event_type"),
		Location:        r.FormValue("location"),
		Date:            r.FormValue("date"),
		Notes:           r.FormValue("notes"),
		TargetAttendees: r.FormValue("target_attendees"),
		IncludeMe:       r.FormValue("include_me") != "",
	}
}

func (h *EventPageHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	in := eventFormInput(r)

	event, err := h.events.Create(userID, in)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			data, derr := h.homeData(userID, 1)
			if derr != nil {
				htmlServiceError(w, derr)
				return
			}
			data.Error = verr.Message
			data.Form = map[string]string{
				"name": in.Name, "event_type": in.EventType, "location": in.Location,
				"date": in.Date, "notes": in.Notes, "target_attendees": in.TargetAttendees,
			}
			renderPage(w, h.templates, h.logger, "home.html", data)
			return
		}
		htmlServiceError(w, err)
		return
	}

	h.hub.Broadcast(websocket.NewMessage("event", "created", event.ID))
	http.Redirect(w, r, "/event/"+strconv.FormatInt(event.ID, 10), http.StatusSeeOther)
}

type invitationRow struct {
	model.Invitation
	Guest *model.Guest
}

type eventDetailData struct {
	Event       *model.Event
	Invitations []invitationRow
	Invited     int
	Attending   int
	EventTypes  []string
	Statuses    []string
	Channels    []string
	Genders     []string
	Error       string
}

func (h *EventPageHandler) detailData(userID, eventID int64) (*eventDetailData, error) {
	event, err := h.events.GetOwned(userID, eventID)
	if err != nil {
		return nil, err
	}
	invs, err := h.invitations.ListByEvent(userID, eventID)
	if err != nil {
		return nil, err
	}
	data := &eventDetailData{
		Event:      event,
		EventTypes: model.EventTypes,
		Statuses:   []string{model.StatusNotSent, model.StatusPending, model.StatusAttending, model.StatusDeclined},
		Channels:   model.Channels,
		Genders:    model.Genders,
	}
	for _, inv := range invs {
		guest, err := h.guestStore.GetByID(inv.GuestID)
		if err != nil {
			return nil, err
		}
		data.Invitations = append(data.Invitations, invitationRow{Invitation: inv, Guest: guest})
		if inv.Status != model.StatusNotSent {
			data.Invited++
		}
		if inv.Status == model.StatusAttending {
			data.Attending++
		}
	}
	return data, nil
}

func (h *EventPageHandler) Detail(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	eventID, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "Invalid event ID", http.StatusBadRequest)
		return
	}
	data, err := h.detailData(userID, eventID)
	if err != nil {
		htmlServiceError(w, err)
		return
	}
	renderPage(w, h.templates, h.logger, "event_detail.html", data)
}

func (h *EventPageHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	eventID, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "Invalid event ID", http.StatusBadRequest)
		return
	}

	in := eventFormInput(r)
	event, err := h.events.Update(userID, eventID, in)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			data, derr := h.detailData(userID, eventID)
			if derr != nil {
				htmlServiceError(w, derr)
				return
			}
			data.Error = verr.Message
			renderPage(w, h.templates, h.logger, "event_detail.html", data)
			return
		}
		htmlServiceError(w, err)
		return
	}

	h.hub.Broadcast(websocket.NewMessage("event", "updated", event.ID))
	http.Redirect(w, r, "/event/"+strconv.FormatInt(event.ID, 10), http.StatusSeeOther)
}

func (h *EventPageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	eventID, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "Invalid event ID", http.StatusBadRequest)
		return
	}
	if err := h.events.Delete(userID, eventID); err != nil {
		htmlServiceError(w, err)
		return
	}
	h.hub.Broadcast(websocket.NewMessage("event", "deleted", eventID))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Notes handles the inline notes editor on the event page.
func (h *EventPageHandler) Notes(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	eventID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid event ID"})
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid JSON body"})
		return
	}

	event, err := h.events.UpdateNotes(userID, eventID, req.Notes)
	if err != nil {
		xhrServiceError(w, err)
		return
	}
	h.hub.Broadcast(websocket.NewMessage("event", "updated", event.ID))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
