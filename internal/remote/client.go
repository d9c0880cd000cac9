// Package remote is the REST API data source and write transport.
//
// Every request carries the bearer token and a fresh X-Request-ID. Responses
// use the `{data}` / `{error: {message}}` envelope; anything outside 2xx
// becomes an *APIError.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/HendryAvila/board-mcp/internal/board"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// apiPrefix is prepended to every route.
const apiPrefix = "/api/v1"

// maxErrorBody caps how much of an error response is kept. The cut never
// splits a UTF-8 sequence.
const maxErrorBody = 4 << 10

// APIError is a non-2xx response. Message is the server-reported
// error.message when the body carried one.
type APIError struct {
	Status  int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	detail := e.Message
	if detail == "" {
		detail = e.Body
	}
	return fmt.Sprintf("REST API error %d: %s", e.Status, detail)
}

// Is makes a 404 match board.ErrNotFound while keeping the status and body
// in the rendered message.
func (e *APIError) Is(target error) bool {
	return target == board.ErrNotFound && e.Status == http.StatusNotFound
}

// Client talks to the board REST API. It implements both board.Source and
// board.Writer.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	newID   func() string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets a whole-request timeout. Zero means no timeout beyond
// what the transport enforces.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a Client for baseURL (e.g. https://app.example.com).
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{},
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Describe implements board.Source.
func (c *Client) Describe() string {
	return fmt.Sprintf("REST API (%s)", c.baseURL)
}

// Close drops idle keep-alive connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// ─── Reads ───────────────────────────────────────────────────────────────────

// FetchBoard implements board.Source. Only a 2xx with null data is a
// NotFoundError; a 404 stays an *APIError so a wrong base URL is visible.
func (c *Client) FetchBoard(ctx context.Context, boardID string) (*board.Board, error) {
	var b *board.Board
	err := c.do(ctx, http.MethodGet, "/boards/"+url.PathEscape(boardID), nil, &b)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, board.NotFound("Board", boardID)
	}
	return b, nil
}

// FetchCard implements board.Source.
func (c *Client) FetchCard(ctx context.Context, cardID string) (*board.Card, error) {
	var card *board.Card
	err := c.do(ctx, http.MethodGet, "/boards/cards/"+url.PathEscape(cardID), nil, &card)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, board.NotFound("Card", cardID)
	}
	return card, nil
}

// ─── Writes ──────────────────────────────────────────────────────────────────

type moveRequest struct {
	TargetColumnID string `json:"targetColumnId"`
	NewOrder       int    `json:"newOrder"`
}

type commentRequest struct {
	Content string `json:"content"`
}

// MoveCard implements board.Writer. The card lands at the top of the
// target column.
func (c *Client) MoveCard(ctx context.Context, cardID, targetColumnID string) (*board.Card, error) {
	var card board.Card
	body := moveRequest{TargetColumnID: targetColumnID, NewOrder: 0}
	if err := c.do(ctx, http.MethodPost, "/boards/cards/"+url.PathEscape(cardID)+"/move", body, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// AddComment implements board.Writer.
func (c *Client) AddComment(ctx context.Context, cardID, content string) (*board.Comment, error) {
	var comment board.Comment
	if err := c.do(ctx, http.MethodPost, "/boards/cards/"+url.PathEscape(cardID)+"/comments", commentRequest{Content: content}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateCard implements board.Writer. Only the supplied fields are sent.
func (c *Client) UpdateCard(ctx context.Context, cardID string, u board.CardUpdate) (*board.Card, error) {
	var card board.Card
	if err := c.do(ctx, http.MethodPatch, "/boards/cards/"+url.PathEscape(cardID), u.Body(), &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// CreateCard implements board.Writer.
func (c *Client) CreateCard(ctx context.Context, n board.NewCard) (*board.Card, error) {
	var card board.Card
	if err := c.do(ctx, http.MethodPost, "/boards/cards", n, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// ─── Transport ───────────────────────────────────────────────────────────────

type envelope struct {
	Data  sonic.NoCopyRawMessage `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// do sends one request and decodes the envelope's data into out. A null or
// missing data field leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := sonic.ConfigStd.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", c.newID())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, raw)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var env envelope
	if err := sonic.ConfigStd.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" || out == nil {
		return nil
	}
	if err := sonic.ConfigStd.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}

func newAPIError(status int, raw []byte) *APIError {
	body := string(raw)
	if len(body) > maxErrorBody {
		body = strings.ToValidUTF8(body[:maxErrorBody], "")
	}
	apiErr := &APIError{Status: status, Body: strings.TrimSpace(body)}

	var env envelope
	if err := sonic.ConfigStd.Unmarshal(raw, &env); err == nil && env.Error != nil {
		apiErr.Message = env.Error.Message
	}
	return apiErr
}

