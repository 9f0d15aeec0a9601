package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/riskboard/internal/domain"
)

// RESTConfig addresses a PostgREST-compatible API such as a hosted Supabase
// project.
type RESTConfig struct {
	BaseURL string
	APIKey  string
	Table   string
	Timeout time.Duration
}

// RESTTaskRepo implements TaskRepo over the store's REST interface. Calls are
// never retried.
type RESTTaskRepo struct {
	cfg      RESTConfig
	endpoint string
	http     *http.Client
}

// NewRESTTaskRepo creates a repo for cfg.Table under cfg.BaseURL.
func NewRESTTaskRepo(cfg RESTConfig) *RESTTaskRepo {
	return &RESTTaskRepo{
		cfg:      cfg,
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/rest/v1/" + url.PathEscape(cfg.Table),
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

// restTask is one row as the REST API returns it. The id may arrive as a
// JSON number or string depending on the column type.
type restTask struct {
	ID            json.RawMessage `json:"id"`
	TaskName      *string         `json:"task_name"`
	Assignee      *string         `json:"assignee"`
	DueDate       *string         `json:"due_date"`
	Priority      *string         `json:"priority"`
	Progress      *int            `json:"progress"`
	PastDelayDays *int            `json:"past_delay_days"`
	Dependencies  *string         `json:"dependencies"`
	RiskFactors   *string         `json:"risk_factors"`
	CreatedAt     *string         `json:"created_at"`
	UpdatedAt     *string         `json:"updated_at"`
}

func (rt restTask) toDomain() *domain.Task {
	t := &domain.Task{
		ID:            decodeID(rt.ID),
		TaskName:      deref(rt.TaskName),
		Assignee:      deref(rt.Assignee),
		Priority:      domain.Priority(deref(rt.Priority)),
		Progress:      rt.Progress,
		PastDelayDays: rt.PastDelayDays,
		Dependencies:  deref(rt.Dependencies),
		RiskFactors:   deref(rt.RiskFactors),
	}
	if rt.DueDate != nil {
		t.DueDate = parseDate(*rt.DueDate, domain.DateLayout)
	}
	if rt.CreatedAt != nil {
		t.CreatedAt = parseTimestamp(*rt.CreatedAt)
	}
	if rt.UpdatedAt != nil {
		t.UpdatedAt = parseTimestamp(*rt.UpdatedAt)
	}
	return t
}

func decodeID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	v := strings.TrimSpace(string(raw))
	if v == "null" {
		return ""
	}
	return v
}

// restError is the PostgREST error payload.
type restError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (r *RESTTaskRepo) FetchAll(ctx context.Context) ([]*domain.Task, error) {
	q := url.Values{"select": {"*"}}
	rows, err := r.do(ctx, "listing tasks", http.MethodGet, q, nil, false)
	if err != nil {
		return nil, err
	}
	tasks := make([]*domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toDomain())
	}
	return tasks, nil
}

func (r *RESTTaskRepo) Insert(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	rows, err := r.do(ctx, "inserting task", http.MethodPost, nil, columnsToJSON(in.Columns()), true)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &StoreError{Op: "inserting task", Message: "store returned no row for the insert"}
	}
	return rows[0].toDomain(), nil
}

func (r *RESTTaskRepo) Update(ctx context.Context, id string, patch domain.TaskPatch) error {
	op := "updating task " + id
	cols := patch.Columns()
	var (
		rows []restTask
		err  error
	)
	if len(cols) == 0 {
		q := url.Values{"select": {"id"}, "id": {"eq." + id}}
		rows, err = r.do(ctx, op, http.MethodGet, q, nil, false)
	} else {
		q := url.Values{"id": {"eq." + id}}
		rows, err = r.do(ctx, op, http.MethodPatch, q, columnsToJSON(cols), true)
	}
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func (r *RESTTaskRepo) Delete(ctx context.Context, id string) error {
	op := "deleting task " + id
	q := url.Values{"id": {"eq." + id}}
	rows, err := r.do(ctx, op, http.MethodDelete, q, nil, true)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func columnsToJSON(cols []domain.Column) map[string]any {
	body := make(map[string]any, len(cols))
	for _, c := range cols {
		body[c.Name] = c.Value
	}
	return body
}

// do sends one request and decodes the row array in the response. With
// representation set, the store echoes the affected rows back.
func (r *RESTTaskRepo) do(ctx context.Context, op, method string, q url.Values, body any, representation bool) ([]restTask, error) {
	target := r.endpoint
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: marshaling request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", op, err)
	}
	req.Header.Set("apikey", r.cfg.APIKey)
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if representation {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, transportError(ctx, op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeStoreError(op, resp.StatusCode, respBody)
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, nil
	}

	var rows []restTask
	if err := json.Unmarshal(respBody, &rows); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return rows, nil
}

// maxErrorBodyRunes caps how much of a non-JSON error body ends up in a
// StoreError message.
const maxErrorBodyRunes = 200

func decodeStoreError(op string, status int, body []byte) error {
	se := &StoreError{Op: op, Status: status}
	var payload restError
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		se.Code = payload.Code
		se.Message = payload.Message
		se.Details = payload.Details
		se.Hint = payload.Hint
		return se
	}
	msg := strings.TrimSpace(string(body))
	if runes := []rune(msg); len(runes) > maxErrorBodyRunes {
		msg = string(runes[:maxErrorBodyRunes]) + "..."
	}
	se.Message = msg
	if se.Message == "" {
		se.Message = http.StatusText(status)
	}
	return se
}

func transportError(ctx context.Context, op string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s: %w: request timed out", op, ErrStoreUnavailable)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}
