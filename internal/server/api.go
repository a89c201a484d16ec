package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/gobuffalo/packr"
	"github.com/google/uuid"

	"github.com/formdoc/formdoc/internal/auth"
	"github.com/formdoc/formdoc/internal/doctree"
	authoring "github.com/formdoc/formdoc/internal/render"
	"github.com/formdoc/formdoc/internal/service"
)

// NewAPI creates the HTTP surface over the two services.
func NewAPI(forms *service.FormService, subs *service.SubmissionService, jwtSecret string) *API {
	return &API{
		forms:     forms,
		subs:      subs,
		jwtSecret: jwtSecret,
		validate:  validator.New(),
	}
}

type API struct {
	forms     *service.FormService
	subs      *service.SubmissionService
	jwtSecret string
	validate  *validator.Validate
}

// Router wires the authoring API (token gated) and the public respondent
// routes.
func (a *API) Router() http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.RequestID, middleware.Logger, middleware.Recoverer)

	root.Route("/api", func(api chi.Router) {
		api.Group(func(priv chi.Router) {
			priv.Use(auth.Middleware(a.jwtSecret))

			priv.Post("/forms", a.createForm)
			priv.Get("/forms", a.listForms)
			priv.Get("/forms/{id}", a.getForm)
			priv.Delete("/forms/{id}", a.deleteForm)
			priv.Put("/forms/{id}/title", a.saveTitle)
			priv.Put("/forms/{id}/content", a.saveContent)
			priv.Get("/forms/{id}/view", a.authoringView)
			priv.Post("/forms/{id}/blocks", a.insertBlock)
			priv.Delete("/forms/{id}/blocks", a.deleteBlocks)
			priv.Post("/forms/{id}/move", a.moveNode)
			priv.Post("/forms/{id}/publish", a.publish)
			priv.Post("/forms/{id}/unpublish", a.unpublish)
			priv.Get("/forms/{id}/versions", a.listVersions)
			priv.Get("/forms/{id}/submissions", a.listSubmissions)
			priv.Get("/submissions/{id}", a.getSubmission)
		})

		api.Post("/token", a.mintToken)
	})

	// respondent routes are public: filling a form needs no account
	root.Get("/s/{id}", a.respondentForm)
	root.Get("/s/{id}/pages/{page}", a.respondentPage)
	root.Post("/s/{id}/submissions", a.submit)

	openapiDocs := packr.NewBox("../../docs/v1")
	docsPath := "/v1/docs/"
	root.Handle(docsPath+"*", http.StripPrefix(docsPath, http.FileServer(openapiDocs)))

	return root
}

func (a *API) createForm(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())

	var req createFormRequest
	if !a.decode(w, r, &req) {
		return
	}

	form, err := a.forms.CreateForm(r.Context(), actor, req.Title)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, newFormResponse(form, nil))
}

func (a *API) listForms(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())

	forms, total, err := a.forms.ListForms(r.Context(), actor)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	items := make([]*formResponse, 0, len(forms))
	for _, form := range forms {
		items = append(items, newFormResponse(form, nil))
	}

	render.JSON(w, r, listFormsResponse{Forms: items, Total: total})
}

func (a *API) getForm(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := a.formID(w, r)
	if !ok {
		return
	}

	form, tree, err := a.forms.GetForm(r.Context(), actor, id)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	render.JSON(w, r, newFormResponse(form, tree))
}

func (a *API) deleteForm(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := a.formID(w, r)
	if !ok {
		return
	}

	if err := a.forms.DeleteForm(r.Context(), actor, id); err != nil {
		a.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]string{"id": id.String()})
}

func (a *API) saveTitle(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := a.formID(w, r)
	if !ok {
		return
	}

	var req saveTitleRequest
	if !a.decode(w, r, &req) {
		return
	}

	if err := a.forms.SaveTitle(r.Context(), actor, id, req.Title); err != nil {
		a.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]string{"id": id.String()})
}

func (a *API) saveContent(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := a.formID(w, r)
	if !ok {
		return
	}

	var req saveContentRequest
	if !a.decode(w, r, &req) {
		return
	}

	tree, err := a.forms.SaveContent(r.Context(), actor, id, req.Content)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.renderTree(w, r, id, tree)
}

func (a *API) authoringView(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := a.formID(w, r)
	if !ok {
		return
	}

	form, tree, err := a.forms.GetForm(r.Context(), actor, id)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	render.JSON(w, r, viewResponse{
		ID:    form.ID,
		Title: form.Title,
		HTML:  authoring.Authoring(tree.Nodes()),
	})
}

func (a *API) insertBlock(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := a.formID(w, r)
	if !ok {
		return
	}

	var req insertBlockRequest
	if !a.decode(w, r, &req) {
		return
	}

	tree, err := a.forms.InsertBlock(r.Context(), actor, id, req.Pos, req.Kind)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.renderTree(w, r, id, tree)
}

func (a *API) deleteBlocks(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := a.formID(w, r)
	if !ok {
		return
	}

	var req deleteRangeRequest
	if !a.decode(w, r, &req) {
		return
	}

	tree, err := a.forms.DeleteBlocks(r.Context(), actor, id, req.From, req.To)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.renderTree(w, r, id, tree)
}

func (a *API) moveNode(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := a.formID(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if !a.decode(w, r, &req) {
		return
	}

	tree, err := a.forms.MoveNode(r.Context(), actor, id, req.From, req.Drop)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.renderTree(w, r, id, tree)
}

func (a *API) publish(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := a.formID(w, r)
	if !ok {
		return
	}

	var req publishRequest
	if !a.decode(w, r, &req) {
		return
	}

	published, err := a.forms.Publish(r.Context(), actor, id, req.Version)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	render.JSON(w, r, publishResponse{ID: published.ID, Version: published.Version})
}

func (a *API) unpublish(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := a.formID(w, r)
	if !ok {
		return
	}

	if err := a.forms.Unpublish(r.Context(), actor, id); err != nil {
		a.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]string{"id": id.String()})
}

func (a *API) listVersions(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := a.formID(w, r)
	if !ok {
		return
	}

	versions, err := a.forms.ListVersions(r.Context(), actor, id)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	items := make([]publishResponse, 0, len(versions))
	for _, v := range versions {
		items = append(items, publishResponse{ID: v.ID, Version: v.Version, Unpublished: v.Unpublished})
	}

	render.JSON(w, r, map[string]any{"versions": items})
}

func (a *API) listSubmissions(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, ok := a.formID(w, r)
	if !ok {
		return
	}

	submissions, err := a.subs.ListSubmissions(r.Context(), actor, id)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	count, err := a.subs.CountSubmissions(r.Context(), actor, id)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	items := make([]submissionResponse, 0, len(submissions))
	for _, sub := range submissions {
		items = append(items, newSubmissionResponse(sub, nil))
	}

	render.JSON(w, r, map[string]any{"submissions": items, "total": count})
}

func (a *API) getSubmission(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid submission id", http.StatusBadRequest)
		return
	}

	submission, payload, err := a.subs.GetSubmission(r.Context(), actor, id)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	render.JSON(w, r, newSubmissionResponse(submission, payload))
}

// mintToken issues a development token. Production deployments sit behind
// an external identity provider and keep this route disabled at the edge.
func (a *API) mintToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !a.decode(w, r, &req) {
		return
	}

	userID := uuid.New()
	if req.UserID != "" {
		parsed, err := uuid.Parse(req.UserID)
		if err != nil {
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}
		userID = parsed
	}

	token, err := auth.NewToken(a.jwtSecret, userID, tokenTTL)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	render.JSON(w, r, tokenResponse{UserID: userID.String(), Token: token})
}

func (a *API) respondentForm(w http.ResponseWriter, r *http.Request) {
	a.renderRespondentPage(w, r, 0)
}

func (a *API) respondentPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 0 {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}

	a.renderRespondentPage(w, r, page)
}

func (a *API) renderRespondentPage(w http.ResponseWriter, r *http.Request, page int) {
	id, ok := a.formID(w, r)
	if !ok {
		return
	}

	view, err := a.subs.RenderPage(r.Context(), id, page, nil)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	render.JSON(w, r, pageResponse{
		Title:     view.Title,
		HTML:      view.HTML,
		PageIndex: view.Nav.PageIndex,
		PageCount: view.Nav.PageCount,
		HasNext:   view.Nav.HasNext(),
		HasPrev:   view.Nav.HasPrevious(),
	})
}

func (a *API) submit(w http.ResponseWriter, r *http.Request) {
	id, ok := a.formID(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if !a.decode(w, r, &req) {
		return
	}

	submission, err := a.subs.Submit(r.Context(), id, req.SubmitterID, req.Answers)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"id": submission.ID})
}

func (a *API) formID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid form id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (a *API) renderTree(w http.ResponseWriter, r *http.Request, id uuid.UUID, tree *doctree.Tree) {
	data, err := tree.Serialize()
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	render.JSON(w, r, treeResponse{ID: id.String(), Content: data})
}

// decode parses and validates a JSON body. An empty body decodes to the
// request type's zero value so optional-body endpoints stay callable.
func (a *API) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := render.DecodeJSON(r.Body, req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}

	if err := a.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}

	return true
}
