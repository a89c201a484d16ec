package server

import (
	"encoding/json"
	"time"

	"github.com/formdoc/formdoc/internal/answers"
	"github.com/formdoc/formdoc/internal/doctree"
	"github.com/formdoc/formdoc/internal/model"
)

const tokenTTL = 24 * time.Hour

type createFormRequest struct {
	Title string `json:"title" validate:"max=200"`
}

type saveTitleRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

type saveContentRequest struct {
	Content json.RawMessage `json:"content" validate:"required"`
}

type insertBlockRequest struct {
	Pos  int    `json:"pos" validate:"min=0"`
	Kind string `json:"kind" validate:"required"`
}

type deleteRangeRequest struct {
	From int `json:"from" validate:"min=0"`
	To   int `json:"to" validate:"min=0"`
}

type moveRequest struct {
	From int `json:"from" validate:"min=0"`
	Drop int `json:"drop" validate:"min=0"`
}

type publishRequest struct {
	Version string `json:"version" validate:"omitempty,semver"`
}

type tokenRequest struct {
	UserID string `json:"userId" validate:"omitempty,uuid"`
}

type tokenResponse struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

type submitRequest struct {
	SubmitterID string              `json:"submitterId" validate:"omitempty,uuid"`
	Answers     map[string][]string `json:"answers"`
}

type formResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Published bool            `json:"published"`
	Content   json.RawMessage `json:"content,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func newFormResponse(form *model.Form, tree *doctree.Tree) *formResponse {
	res := &formResponse{
		ID:        form.ID,
		Title:     form.Title,
		Published: form.Published,
		CreatedAt: form.CreatedAt,
		UpdatedAt: form.UpdatedAt,
	}

	if tree != nil {
		if data, err := tree.Serialize(); err == nil {
			res.Content = data
		}
	}

	return res
}

type listFormsResponse struct {
	Forms []*formResponse `json:"forms"`
	Total int64           `json:"total"`
}

type viewResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}

type publishResponse struct {
	ID          string `json:"id"`
	Version     string `json:"version"`
	Unpublished bool   `json:"unpublished,omitempty"`
}

type pageResponse struct {
	Title     string `json:"title"`
	HTML      string `json:"html"`
	PageIndex int    `json:"pageIndex"`
	PageCount int    `json:"pageCount"`
	HasNext   bool   `json:"hasNext"`
	HasPrev   bool   `json:"hasPrev"`
}

type treeResponse struct {
	ID      string          `json:"id"`
	Content json.RawMessage `json:"content"`
}

type submissionResponse struct {
	ID          string           `json:"id"`
	FormID      string           `json:"formId"`
	FormVersion string           `json:"formVersion"`
	SubmitterID string           `json:"submitterId,omitempty"`
	Answers     []answers.Answer `json:"answers,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func newSubmissionResponse(sub *model.Submission, payload []answers.Answer) submissionResponse {
	if payload == nil {
		// list views decode inline so callers get answers without a
		// second request
		_ = json.Unmarshal([]byte(sub.Content), &payload)
	}

	return submissionResponse{
		ID:          sub.ID,
		FormID:      sub.FormID,
		FormVersion: sub.FormVersion,
		SubmitterID: sub.SubmitterID,
		Answers:     payload,
		CreatedAt:   sub.CreatedAt,
	}
}
