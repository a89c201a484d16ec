package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/formdoc/formdoc/internal/answers"
	"github.com/formdoc/formdoc/internal/doctree"
	"github.com/formdoc/formdoc/internal/schema"
	"github.com/formdoc/formdoc/internal/service"
)

// renderError maps service errors onto HTTP statuses. Unrecognized errors
// become a 500 and are logged with the request id left to the middleware.
func (a *API) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var required *answers.RequiredError
	if errors.As(err, &required) {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, map[string]any{
			"error":   "required questions unanswered",
			"missing": required.IDs,
		})
		return
	}

	var schemaErr *schema.SchemaError
	if errors.As(err, &schemaErr) {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	switch {
	case errors.Is(err, service.ErrFormNotFound),
		errors.Is(err, service.ErrNotPublished),
		errors.Is(err, service.ErrSubmissionNotFound):
		writeError(w, r, http.StatusNotFound, err)
	case errors.Is(err, service.ErrNotOwner):
		writeError(w, r, http.StatusForbidden, err)
	case errors.Is(err, doctree.ErrPositionOutOfRange),
		errors.Is(err, doctree.ErrInvalidRange),
		errors.Is(err, answers.ErrUnknownQuestion),
		errors.Is(err, answers.ErrNotCheckbox):
		writeError(w, r, http.StatusBadRequest, err)
	default:
		logrus.Errorf("request failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}
