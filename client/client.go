// Package client implements the gateway.Gateway contract over the HTTP API
// and WebSocket snapshot streams. It is the only piece of the client stack
// that knows about URLs and wire formats.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kadichii/kadichii/internal/domain"
	"github.com/kadichii/kadichii/internal/gateway"
)

const defaultTimeout = 15 * time.Second

var _ gateway.Gateway = (*Client)(nil)

// Client talks to a Kadichii server. It satisfies gateway.Gateway.
type Client struct {
	baseURL string // e.g. "http://localhost:8080"
	token   string
	http    *http.Client
}

// New creates a Client against baseURL, authenticating every request with
// the given access token.
func New(baseURL, accessToken string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   accessToken,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// SetToken swaps the access token, for use after a refresh.
func (c *Client) SetToken(accessToken string) {
	c.token = accessToken
}

// apiError is the problem-details shape the server returns on failure.
type apiError struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func (e *apiError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (%d): %s", e.Title, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s (%d)", e.Title, e.Status)
}

// do issues a request and decodes the response into out (when non-nil).
// Error statuses are mapped to domain sentinels where the caller can act on
// them, wrapping the server's problem details.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: marshal request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1"+path, reqBody)
	if err != nil {
		return fmt.Errorf("client: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.decodeError(resp)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("client: decode response: %w", err)
		}
	}

	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	var apiErr apiError
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Status == 0 {
		apiErr = apiError{Title: http.StatusText(resp.StatusCode), Status: resp.StatusCode}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, apiErr.Error())
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrConflict, apiErr.Error())
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, apiErr.Error())
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrForbidden, apiErr.Error())
	default:
		return &apiErr
	}
}

// ---------------------------------------------------------------------------
// Projects
// ---------------------------------------------------------------------------

func (c *Client) Project(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var p domain.Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+id.String(), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Projects(ctx context.Context) ([]*domain.Project, error) {
	var projects []*domain.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) CreateProject(ctx context.Context, name, description string) (*domain.Project, error) {
	body := map[string]string{"name": name}
	if description != "" {
		body["description"] = description
	}
	var p domain.Project
	if err := c.do(ctx, http.MethodPost, "/projects", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProject(ctx context.Context, id uuid.UUID, name, description string) error {
	body := map[string]string{}
	if name != "" {
		body["name"] = name
	}
	if description != "" {
		body["description"] = description
	}
	return c.do(ctx, http.MethodPut, "/projects/"+id.String(), body, nil)
}

func (c *Client) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+id.String(), nil, nil)
}

// ---------------------------------------------------------------------------
// Columns
// ---------------------------------------------------------------------------

func (c *Client) Columns(ctx context.Context, projectID uuid.UUID) ([]domain.Column, error) {
	var columns []domain.Column
	if err := c.do(ctx, http.MethodGet, "/projects/"+projectID.String()+"/columns", nil, &columns); err != nil {
		return nil, err
	}
	return columns, nil
}

func (c *Client) CreateColumn(ctx context.Context, projectID uuid.UUID, title string) (*domain.Column, error) {
	var col domain.Column
	err := c.do(ctx, http.MethodPost, "/projects/"+projectID.String()+"/columns",
		map[string]string{"title": title}, &col)
	if err != nil {
		return nil, err
	}
	return &col, nil
}

func (c *Client) RenameColumn(ctx context.Context, projectID, columnID uuid.UUID, title string) error {
	return c.do(ctx, http.MethodPut, "/projects/"+projectID.String()+"/columns/"+columnID.String(),
		map[string]string{"title": title}, nil)
}

// DeleteColumn maps the server's conflict on a non-empty column back to
// domain.ErrColumnNotEmpty so callers can branch without parsing messages.
func (c *Client) DeleteColumn(ctx context.Context, projectID, columnID uuid.UUID) error {
	err := c.do(ctx, http.MethodDelete, "/projects/"+projectID.String()+"/columns/"+columnID.String(), nil, nil)
	if errors.Is(err, domain.ErrConflict) {
		return fmt.Errorf("%w: %w", domain.ErrColumnNotEmpty, err)
	}
	return err
}

func (c *Client) ReorderColumns(ctx context.Context, projectID uuid.UUID, ranks []domain.ColumnRank) error {
	return c.do(ctx, http.MethodPut, "/projects/"+projectID.String()+"/columns/order",
		map[string]any{"ranks": ranks}, nil)
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

func (c *Client) Tasks(ctx context.Context, projectID uuid.UUID) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := c.do(ctx, http.MethodGet, "/projects/"+projectID.String()+"/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	body := map[string]any{
		"column_id": t.ColumnID,
		"title":     t.Title,
	}
	if t.Description != "" {
		body["description"] = t.Description
	}
	if t.DueDate != nil {
		body["due_date"] = t.DueDate
	}
	if len(t.Checklist) > 0 {
		body["checklist"] = t.Checklist
	}
	if len(t.Assignees) > 0 {
		body["assignees"] = t.Assignees
	}

	var created domain.Task
	err := c.do(ctx, http.MethodPost, "/projects/"+t.ProjectID.String()+"/tasks", body, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateTask(ctx context.Context, t *domain.Task) error {
	body := map[string]any{
		"title":       t.Title,
		"description": t.Description,
		"column_id":   t.ColumnID,
		"checklist":   t.Checklist,
		"assignees":   t.Assignees,
	}
	if t.DueDate != nil {
		body["due_date"] = t.DueDate
	} else {
		body["clear_due"] = true
	}
	return c.do(ctx, http.MethodPut, "/projects/"+t.ProjectID.String()+"/tasks/"+t.ID.String(), body, nil)
}

func (c *Client) UpdateTaskColumn(ctx context.Context, projectID, taskID, columnID uuid.UUID) error {
	return c.do(ctx, http.MethodPut,
		"/projects/"+projectID.String()+"/tasks/"+taskID.String()+"/column",
		map[string]any{"column_id": columnID}, nil)
}

func (c *Client) UpdateTaskChecklist(ctx context.Context, projectID, taskID uuid.UUID, items []domain.ChecklistItem) error {
	if items == nil {
		items = []domain.ChecklistItem{}
	}
	return c.do(ctx, http.MethodPut,
		"/projects/"+projectID.String()+"/tasks/"+taskID.String()+"/checklist",
		map[string]any{"checklist": items}, nil)
}

func (c *Client) DeleteTask(ctx context.Context, projectID, taskID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+projectID.String()+"/tasks/"+taskID.String(), nil, nil)
}

// ---------------------------------------------------------------------------
// Members and invitations
// ---------------------------------------------------------------------------

func (c *Client) Members(ctx context.Context, projectID uuid.UUID) ([]domain.MemberProfile, error) {
	var members []domain.MemberProfile
	if err := c.do(ctx, http.MethodGet, "/projects/"+projectID.String()+"/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) Invite(ctx context.Context, projectID uuid.UUID, email string) error {
	return c.do(ctx, http.MethodPost, "/projects/"+projectID.String()+"/invitations",
		map[string]string{"email": email}, nil)
}

func (c *Client) PendingInvitations(ctx context.Context) ([]*domain.Invitation, error) {
	var invitations []*domain.Invitation
	if err := c.do(ctx, http.MethodGet, "/invitations", nil, &invitations); err != nil {
		return nil, err
	}
	return invitations, nil
}

func (c *Client) AcceptInvitation(ctx context.Context, invitationID uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/invitations/"+invitationID.String()+"/accept", nil, nil)
}

func (c *Client) DeclineInvitation(ctx context.Context, invitationID uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/invitations/"+invitationID.String()+"/decline", nil, nil)
}

// ---------------------------------------------------------------------------
// Chat
// ---------------------------------------------------------------------------

func (c *Client) SendMessage(ctx context.Context, projectID uuid.UUID, text string) error {
	return c.do(ctx, http.MethodPost, "/projects/"+projectID.String()+"/chat",
		map[string]string{"text": text}, nil)
}

// ---------------------------------------------------------------------------
// Whiteboard
// ---------------------------------------------------------------------------

func (c *Client) DrawStroke(ctx context.Context, projectID uuid.UUID, points []domain.Point, color string) error {
	return c.do(ctx, http.MethodPost, "/projects/"+projectID.String()+"/whiteboard/strokes",
		map[string]any{"points": points, "color": color}, nil)
}

func (c *Client) ClearStrokes(ctx context.Context, projectID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+projectID.String()+"/whiteboard/strokes", nil, nil)
}
