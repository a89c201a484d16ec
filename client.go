package formdoc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to a running formdoc server over its HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is the decoded error body of a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string   `json:"error"`
	Missing    []string `json:"missing,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: %v", e.Message, e.Missing)
	}
	return e.Message
}

type Form struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Published bool            `json:"published"`
	Content   json.RawMessage `json:"content,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type FormList struct {
	Forms []*Form `json:"forms"`
	Total int64   `json:"total"`
}

type FormView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}

type Tree struct {
	ID      string          `json:"id"`
	Content json.RawMessage `json:"content"`
}

type Version struct {
	ID          string `json:"id"`
	Version     string `json:"version"`
	Unpublished bool   `json:"unpublished,omitempty"`
}

type Page struct {
	Title     string `json:"title"`
	HTML      string `json:"html"`
	PageIndex int    `json:"pageIndex"`
	PageCount int    `json:"pageCount"`
	HasNext   bool   `json:"hasNext"`
	HasPrev   bool   `json:"hasPrev"`
}

type Answer struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Options  []string `json:"options,omitempty"`
}

type Submission struct {
	ID          string    `json:"id"`
	FormID      string    `json:"formId"`
	FormVersion string    `json:"formVersion"`
	SubmitterID string    `json:"submitterId,omitempty"`
	Answers     []Answer  `json:"answers,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SubmissionList struct {
	Submissions []Submission `json:"submissions"`
	Total       int64        `json:"total"`
}

type Token struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

func (c *Client) CreateForm(ctx context.Context, title string) (*Form, error) {
	var form Form
	err := c.do(ctx, http.MethodPost, "/api/forms", map[string]string{"title": title}, &form)
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (c *Client) GetForm(ctx context.Context, id string) (*Form, error) {
	var form Form
	err := c.do(ctx, http.MethodGet, "/api/forms/"+id, nil, &form)
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (c *Client) ListForms(ctx context.Context) (*FormList, error) {
	var list FormList
	err := c.do(ctx, http.MethodGet, "/api/forms", nil, &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) DeleteForm(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/forms/"+id, nil, nil)
}

func (c *Client) SaveTitle(ctx context.Context, id, title string) error {
	return c.do(ctx, http.MethodPut, "/api/forms/"+id+"/title", map[string]string{"title": title}, nil)
}

func (c *Client) SaveContent(ctx context.Context, id string, content json.RawMessage) (*Tree, error) {
	var tree Tree
	err := c.do(ctx, http.MethodPut, "/api/forms/"+id+"/content", map[string]json.RawMessage{"content": content}, &tree)
	if err != nil {
		return nil, err
	}
	return &tree, nil
}

func (c *Client) GetFormView(ctx context.Context, id string) (*FormView, error) {
	var view FormView
	err := c.do(ctx, http.MethodGet, "/api/forms/"+id+"/view", nil, &view)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) InsertBlock(ctx context.Context, id string, pos int, kind string) (*Tree, error) {
	var tree Tree
	err := c.do(ctx, http.MethodPost, "/api/forms/"+id+"/blocks", map[string]any{"pos": pos, "kind": kind}, &tree)
	if err != nil {
		return nil, err
	}
	return &tree, nil
}

func (c *Client) DeleteBlocks(ctx context.Context, id string, from, to int) (*Tree, error) {
	var tree Tree
	err := c.do(ctx, http.MethodDelete, "/api/forms/"+id+"/blocks", map[string]int{"from": from, "to": to}, &tree)
	if err != nil {
		return nil, err
	}
	return &tree, nil
}

func (c *Client) MoveNode(ctx context.Context, id string, from, drop int) (*Tree, error) {
	var tree Tree
	err := c.do(ctx, http.MethodPost, "/api/forms/"+id+"/move", map[string]int{"from": from, "drop": drop}, &tree)
	if err != nil {
		return nil, err
	}
	return &tree, nil
}

// PublishForm publishes the draft. An empty version lets the server pick
// the next patch version.
func (c *Client) PublishForm(ctx context.Context, id, version string) (*Version, error) {
	var published Version
	err := c.do(ctx, http.MethodPost, "/api/forms/"+id+"/publish", map[string]string{"version": version}, &published)
	if err != nil {
		return nil, err
	}
	return &published, nil
}

func (c *Client) UnpublishForm(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/forms/"+id+"/unpublish", nil, nil)
}

func (c *Client) ListVersions(ctx context.Context, id string) ([]Version, error) {
	var res struct {
		Versions []Version `json:"versions"`
	}
	err := c.do(ctx, http.MethodGet, "/api/forms/"+id+"/versions", nil, &res)
	if err != nil {
		return nil, err
	}
	return res.Versions, nil
}

func (c *Client) ListSubmissions(ctx context.Context, id string) (*SubmissionList, error) {
	var list SubmissionList
	err := c.do(ctx, http.MethodGet, "/api/forms/"+id+"/submissions", nil, &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetSubmission(ctx context.Context, id string) (*Submission, error) {
	var sub Submission
	err := c.do(ctx, http.MethodGet, "/api/submissions/"+id, nil, &sub)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// MintToken asks the server for a development token. An empty userID lets
// the server pick one.
func (c *Client) MintToken(ctx context.Context, userID string) (*Token, error) {
	var token Token
	err := c.do(ctx, http.MethodPost, "/api/token", map[string]string{"userId": userID}, &token)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// GetPage fetches a rendered respondent page. No token needed.
func (c *Client) GetPage(ctx context.Context, id string, page int) (*Page, error) {
	var res Page
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/s/%s/pages/%d", id, page), nil, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Submit posts a respondent's answers. No token needed.
func (c *Client) Submit(ctx context.Context, id, submitterID string, answers map[string][]string) (string, error) {
	body := map[string]any{"answers": answers}
	if submitterID != "" {
		body["submitterId"] = submitterID
	}

	var res struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/s/"+id+"/submissions", body, &res)
	if err != nil {
		return "", err
	}
	return res.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = string(bytes.TrimSpace(data))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}

	return json.Unmarshal(data, out)
}
