package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"loan-desk/domain"
	"loan-desk/service"
	"loan-desk/web"
)

const scopeModal = "modal"

type TableHandler struct {
	sessions *service.SessionService
	tables   *service.TableService
	renderer *web.Renderer
	log      *logrus.Logger
}

func NewTableHandler(
	sessions *service.SessionService,
	tables *service.TableService,
	renderer *web.Renderer,
	log *logrus.Logger,
) *TableHandler {
	return &TableHandler{sessions: sessions, tables: tables, renderer: renderer, log: log}
}

// Page renders the records table, with the modal when a row is selected.
func (h *TableHandler) Page(w http.ResponseWriter, r *http.Request) {
	records, err := h.tables.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var notice string
	session, err := h.sessions.Update(r.Context(), sessionID(r), func(s *domain.Session) error {
		notice = s.PopFlash()
		return nil
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	page := web.TablePage{
		Records:  records,
		Selected: session.Table.SelectedID,
		Notice:   notice,
	}
	if session.Table.Form != nil {
		page.Form = web.NewFormView(scopeModal, session.Table.Form, "")
		if record, err := h.tables.Selected(r.Context(), &session.Table); err == nil {
			page.Record = &record
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, "loans", page); err != nil {
		writeError(w, r, h.log, err)
	}
}

// State returns the records and the table controller state as JSON.
func (h *TableHandler) State(w http.ResponseWriter, r *http.Request) {
	records, err := h.tables.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	session, err := h.sessions.Get(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, struct {
		Records []domain.Record   `json:"records"`
		Table   domain.TableState `json:"table"`
	}{records, session.Table})
}

// Select opens the modal for the clicked row.
func (h *TableHandler) Select(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, err := h.sessions.Update(r.Context(), sessionID(r), func(s *domain.Session) error {
		_, err := h.tables.Select(r.Context(), &s.Table, id)
		return err
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	respond(w, r, h.log, "/loans", newStateResponse(session))
}

// Close dismisses the modal from the overlay or the close button.
func (h *TableHandler) Close(w http.ResponseWriter, r *http.Request) {
	via := r.FormValue("via")
	if via == "" {
		via = domain.DismissButton
	}

	session, err := h.sessions.Update(r.Context(), sessionID(r), func(s *domain.Session) error {
		return h.tables.Close(r.Context(), &s.Table, via)
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	respond(w, r, h.log, "/loans", newStateResponse(session))
}
