package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dmaguire/rsvp/internal/auth"
	"github.com/dmaguire/rsvp/internal/export"
	"github.com/dmaguire/rsvp/internal/model"
	"github.com/dmaguire/rsvp/internal/service"
	"github.com/dmaguire/rsvp/internal/store"
)

// ExportHandler serves the XLSX downloads. The same handlers back both the
// HTML routes and the /api/v1 mirrors; the response is the binary file either
// way.
type ExportHandler struct {
	events      *service.EventService
	guests      *service.GuestService
	invitations *store.InvitationStore
	guestStore  *store.GuestStore
	logger      *slog.Logger
}

func NewExportHandler(events *service.EventService, guests *service.GuestService, invitations *store.InvitationStore, guestStore *store.GuestStore, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{events: events, guests: guests, invitations: invitations, guestStore: guestStore, logger: logger}
}

func (h *ExportHandler) write(w http.ResponseWriter, f *excelize.File, filename string) {
	defer f.Close()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, filename))
	if err := f.Write(w); err != nil {
		h.logger.Error("write workbook", "error", err)
	}
}

func (h *ExportHandler) Events(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	events, err := h.events.ListAll(userID)
	if err != nil {
		htmlServiceError(w, err)
		return
	}

	summaries := make([]export.EventSummary, 0, len(events))
	for _, e := range events {
		invitations, err := h.invitations.ListByEvent(e.ID)
		if err != nil {
			htmlServiceError(w, err)
			return
		}
		attending := 0
		for _, inv := range invitations {
			if inv.Status == model.StatusAttending {
				attending++
			}
		}
		summaries = append(summaries, export.EventSummary{
			Event:     e,
			Invited:   len(invitations),
			Attending: attending,
		})
	}

	f, err := export.EventsWorkbook(summaries)
	if err != nil {
		h.logger.Error("build events workbook", "error", err)
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}
	h.write(w, f, "events_"+time.Now().Format("20060102"))
}

func (h *ExportHandler) Guests(w http.ResponseWriter, r *http.Request) {
	guests, err := h.guests.ListAll(auth.UserID(r.Context()))
	if err != nil {
		htmlServiceError(w, err)
		return
	}

	f, err := export.GuestsWorkbook(guests)
	if err != nil {
		h.logger.Error("build guests workbook", "error", err)
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}
	h.write(w, f, "guests_"+time.Now().Format("20060102"))
}

func (h *ExportHandler) EventGuests(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "Invalid event id", http.StatusBadRequest)
		return
	}

	event, err := h.events.GetOwned(auth.UserID(r.Context()), id)
	if err != nil {
		htmlServiceError(w, err)
		return
	}

	invitations, err := h.invitations.ListByEvent(event.ID)
	if err != nil {
		htmlServiceError(w, err)
		return
	}

	rows := make([]export.EventGuestRow, 0, len(invitations))
	for _, inv := range invitations {
		guest, err := h.guestStore.GetByID(inv.GuestID)
		if err != nil || guest == nil {
			continue
		}
		rows = append(rows, export.EventGuestRow{Guest: *guest, Invitation: inv})
	}

	f, err := export.EventGuestsWorkbook(event, rows)
	if err != nil {
		h.logger.Error("build event guests workbook", "error", err)
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}
	h.write(w, f, export.SanitizeFileName(event.Name)+"_guests")
}
