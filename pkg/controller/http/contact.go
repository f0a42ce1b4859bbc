package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ncn914491/folio/pkg/domain/interfaces"
	"github.com/ncn914491/folio/pkg/domain/model"
	"github.com/ncn914491/folio/pkg/domain/types"
	"github.com/ncn914491/folio/pkg/usecase"
)

// maxEditBodySize bounds a field edit request body
const maxEditBodySize = 64 << 10

// ContactHandler exposes contact form sessions
type ContactHandler struct {
	contactUC interfaces.ContactUseCase
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactUC interfaces.ContactUseCase) *ContactHandler {
	return &ContactHandler{contactUC: contactUC}
}

type editRequest struct {
	Field model.Field `json:"field"`
	Value string      `json:"value"`
}

func sessionID(r *http.Request) types.SessionID {
	return types.SessionID(chi.URLParam(r, "id"))
}

// Create opens a new contact session
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.contactUC.Create(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, sess)
}

// Get returns the state of a contact session
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.contactUC.Get(r.Context(), sessionID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, sess)
}

// Edit updates one field of a contact session
func (h *ContactHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEditBodySize)).Decode(&req); err != nil {
		writeError(r.Context(), w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}

	sess, err := h.contactUC.Edit(r.Context(), sessionID(r), req.Field, req.Value)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, sess)
}

// Submit sends the session's message through the relay. A relay failure is reported
// as the session's error status, not as an HTTP error.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, err := h.contactUC.Submit(r.Context(), sessionID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, sess)
}

// Dismiss hides the result notice of a session
func (h *ContactHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	sess, err := h.contactUC.Dismiss(r.Context(), sessionID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, sess)
}

// Close tears a session down
func (h *ContactHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.contactUC.Close(r.Context(), sessionID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContactHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrMissingField), errors.Is(err, usecase.ErrUnknownField):
		status = http.StatusBadRequest
	case errors.Is(err, usecase.ErrSessionNotFound), errors.Is(err, usecase.ErrControllerClosed):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrSubmitInProgress):
		status = http.StatusConflict
	}

	logger := ctxlog.From(r.Context())
	if status == http.StatusInternalServerError {
		logger.Error("Contact request failed", "error", err)
	} else {
		logger.Debug("Contact request rejected", "error", err, "status", status)
	}

	writeError(r.Context(), w, err, status)
}
