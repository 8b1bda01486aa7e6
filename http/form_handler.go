package http

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"loan-desk/domain"
	"loan-desk/service"
	"loan-desk/web"
)

const (
	scopeApply      = "apply"
	maxUploadFiles  = 10
	multipartMemory = 8 << 20
)

type FormHandler struct {
	sessions       *service.SessionService
	tables         *service.TableService
	forms          *service.FormService
	renderer       *web.Renderer
	log            *logrus.Logger
	maxUploadBytes int64
}

func NewFormHandler(
	sessions *service.SessionService,
	tables *service.TableService,
	forms *service.FormService,
	renderer *web.Renderer,
	log *logrus.Logger,
	maxUploadBytes int64,
) *FormHandler {
	return &FormHandler{
		sessions:       sessions,
		tables:         tables,
		forms:          forms,
		renderer:       renderer,
		log:            log,
		maxUploadBytes: maxUploadBytes,
	}
}

// formContext is the form a request acts on and the callback that closes
// its host.
type formContext struct {
	form    *domain.FormState
	onClose func()
	page    string
}

func (h *FormHandler) resolve(ctx context.Context, s *domain.Session, scope string) (formContext, error) {
	switch scope {
	case scopeApply:
		if s.Apply == nil {
			s.Apply = domain.NewFormState(nil, false)
		}
		return formContext{form: s.Apply, onClose: func() {}, page: "/apply"}, nil
	case scopeModal:
		if s.Table.Form == nil {
			return formContext{}, domain.ErrNoModalForm
		}
		return formContext{
			form:    s.Table.Form,
			onClose: h.tables.CloseFunc(ctx, &s.Table),
			page:    "/loans",
		}, nil
	default:
		return formContext{}, fmt.Errorf("%w: unknown form scope %q", domain.ErrMalformedRequest, scope)
	}
}

// update resolves the scoped form inside a session update and runs fn on it.
func (h *FormHandler) update(
	w http.ResponseWriter,
	r *http.Request,
	fn func(s *domain.Session, fc formContext) error,
) (*domain.Session, string, bool) {
	scope := mux.Vars(r)["scope"]
	var page string

	session, err := h.sessions.Update(r.Context(), sessionID(r), func(s *domain.Session) error {
		fc, err := h.resolve(r.Context(), s, scope)
		if err != nil {
			return err
		}
		page = fc.page
		return fn(s, fc)
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return nil, "", false
	}
	return session, page, true
}

// applyPosted copies posted field values into the form, so buttons that
// submit the whole form see what the user typed.
func (h *FormHandler) applyPosted(r *http.Request, f *domain.FormState) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedRequest, err)
	}
	for _, field := range domain.Fields {
		if vals, ok := r.PostForm[field]; ok && len(vals) > 0 {
			if _, err := h.forms.Change(f, field, vals[0]); err != nil {
				return err
			}
		}
	}
	return nil
}

// ApplyPage renders the standalone application form.
func (h *FormHandler) ApplyPage(w http.ResponseWriter, r *http.Request) {
	var notice string
	session, err := h.sessions.Update(r.Context(), sessionID(r), func(s *domain.Session) error {
		if s.Apply == nil {
			s.Apply = domain.NewFormState(nil, false)
		}
		notice = s.PopFlash()
		return nil
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := web.ApplyPage{Form: web.NewFormView(scopeApply, session.Apply, notice)}
	if err := h.renderer.Render(w, "apply", page); err != nil {
		writeError(w, r, h.log, err)
	}
}

// State returns the scoped form as JSON.
func (h *FormHandler) State(w http.ResponseWriter, r *http.Request) {
	var form *domain.FormState
	_, _, ok := h.update(w, r, func(_ *domain.Session, fc formContext) error {
		form = fc.form
		return nil
	})
	if !ok {
		return
	}
	writeJSON(w, h.log, http.StatusOK, form)
}

type fieldResponse struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Field applies one field change and answers with the field's error.
func (h *FormHandler) Field(w http.ResponseWriter, r *http.Request) {
	name, value := r.FormValue("name"), r.FormValue("value")

	var msg string
	_, page, ok := h.update(w, r, func(_ *domain.Session, fc formContext) error {
		var err error
		msg, err = h.forms.Change(fc.form, name, value)
		return err
	})
	if !ok {
		return
	}

	if wantsJSON(r) {
		writeJSON(w, h.log, http.StatusOK, fieldResponse{Field: name, Error: msg})
		return
	}
	http.Redirect(w, r, page, http.StatusSeeOther)
}

// Submit validates the standalone form.
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var valid bool
	session, page, ok := h.update(w, r, func(s *domain.Session, fc formContext) error {
		if err := h.applyPosted(r, fc.form); err != nil {
			return err
		}
		var err error
		valid, err = h.forms.Submit(r.Context(), fc.form)
		if valid {
			s.Flash = "Application submitted"
			if fc.form.RecordID != "" {
				s.Flash = "Application " + fc.form.RecordID + " submitted"
			}
		}
		return err
	})
	if !ok {
		return
	}

	resp := newStateResponse(session)
	resp.Valid = &valid
	respond(w, r, h.log, page, resp)
}

// Cancel resets the standalone form or closes the modal.
func (h *FormHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	session, page, ok := h.update(w, r, func(_ *domain.Session, fc formContext) error {
		h.forms.Cancel(r.Context(), fc.form, fc.onClose)
		return nil
	})
	if !ok {
		return
	}
	respond(w, r, h.log, page, newStateResponse(session))
}

// Reject opens the reject confirmation.
func (h *FormHandler) Reject(w http.ResponseWriter, r *http.Request) {
	session, page, ok := h.update(w, r, func(_ *domain.Session, fc formContext) error {
		if err := h.applyPosted(r, fc.form); err != nil {
			return err
		}
		return h.forms.RequestReject(fc.form)
	})
	if !ok {
		return
	}
	respond(w, r, h.log, page, newStateResponse(session))
}

func (h *FormHandler) ConfirmReject(w http.ResponseWriter, r *http.Request) {
	session, page, ok := h.update(w, r, func(s *domain.Session, fc formContext) error {
		if err := h.forms.ConfirmReject(fc.form, fc.onClose); err != nil {
			return err
		}
		s.Flash = "Application rejected"
		return nil
	})
	if !ok {
		return
	}
	respond(w, r, h.log, page, newStateResponse(session))
}

func (h *FormHandler) DismissReject(w http.ResponseWriter, r *http.Request) {
	session, page, ok := h.update(w, r, func(_ *domain.Session, fc formContext) error {
		return h.forms.DismissReject(fc.form)
	})
	if !ok {
		return
	}
	respond(w, r, h.log, page, newStateResponse(session))
}

// Accept validates the modal form and opens the upload dialog.
func (h *FormHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var valid bool
	session, page, ok := h.update(w, r, func(_ *domain.Session, fc formContext) error {
		if err := h.applyPosted(r, fc.form); err != nil {
			return err
		}
		var err error
		valid, err = h.forms.Accept(fc.form)
		return err
	})
	if !ok {
		return
	}

	resp := newStateResponse(session)
	resp.Valid = &valid
	respond(w, r, h.log, page, resp)
}

// Upload stages the files posted in the "files" multipart field.
func (h *FormHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes*maxUploadFiles+multipartMemory)
	}
	uploads, err := h.readUploads(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	session, page, ok := h.update(w, r, func(s *domain.Session, fc formContext) error {
		_, err := h.forms.AddDocuments(r.Context(), s.ID, fc.form, uploads)
		return err
	})
	if !ok {
		return
	}
	respond(w, r, h.log, page, newStateResponse(session))
}

func (h *FormHandler) readUploads(r *http.Request) ([]domain.Upload, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRequest, err)
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) > maxUploadFiles {
		return nil, fmt.Errorf("%w: at most %d files per upload", domain.ErrInvalidDocument, maxUploadFiles)
	}

	uploads := make([]domain.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, domain.Upload{Name: fh.Filename, Data: data})
	}
	return uploads, nil
}

func (h *FormHandler) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	docID := mux.Vars(r)["doc"]
	session, page, ok := h.update(w, r, func(_ *domain.Session, fc formContext) error {
		return h.forms.RemoveDocument(r.Context(), fc.form, docID)
	})
	if !ok {
		return
	}
	respond(w, r, h.log, page, newStateResponse(session))
}

func (h *FormHandler) SubmitDocuments(w http.ResponseWriter, r *http.Request) {
	session, page, ok := h.update(w, r, func(s *domain.Session, fc formContext) error {
		docs, err := h.forms.SubmitDocuments(fc.form)
		if err != nil {
			return err
		}
		s.Flash = fmt.Sprintf("%d document(s) submitted", len(docs))
		return nil
	})
	if !ok {
		return
	}
	respond(w, r, h.log, page, newStateResponse(session))
}

func (h *FormHandler) CloseUpload(w http.ResponseWriter, r *http.Request) {
	session, page, ok := h.update(w, r, func(_ *domain.Session, fc formContext) error {
		return h.forms.CloseUpload(r.Context(), fc.form)
	})
	if !ok {
		return
	}
	respond(w, r, h.log, page, newStateResponse(session))
}
