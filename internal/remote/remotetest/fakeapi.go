// Package remotetest provides an in-process fake of the board REST API for
// tests. It records every request so tests can assert on exact payloads or
// on the absence of network calls.
package remotetest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/HendryAvila/board-mcp/internal/board"
	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

// APIKey is the bearer token the fake accepts.
const APIKey = "sk_test_board"

// Request is one recorded call.
type Request struct {
	Method    string
	Path      string
	Auth      string
	RequestID string
	RawBody   string
	Body      map[string]any
}

// FakeAPI serves the board REST routes from in-memory fixtures.
type FakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
	boards   map[string]any
	cards    map[string]*board.Card
	columns  map[string]string
	failWith *failure
	nextID   int
}

type failure struct {
	status int
	body   string
}

// New starts a fake API that is closed when the test ends.
func New(t testing.TB) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		boards:  make(map[string]any),
		cards:   make(map[string]*board.Card),
		columns: make(map[string]string),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(f.record)

	g := e.Group("/api/v1/boards")
	g.GET("/:id", f.getBoard)
	g.GET("/cards/:id", f.getCard)
	g.POST("/cards/:id/move", f.moveCard)
	g.POST("/cards/:id/comments", f.addComment)
	g.PATCH("/cards/:id", f.updateCard)
	g.POST("/cards", f.createCard)

	f.Server = httptest.NewServer(e)
	t.Cleanup(f.Close)
	return f
}

// AddBoard registers a board snapshot. Any JSON-serialisable value works so
// tests can also serve raw documents.
func (f *FakeAPI) AddBoard(id string, b any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boards[id] = b
}

// AddCard registers a card snapshot.
func (f *FakeAPI) AddCard(c *board.Card) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards[c.ID] = c
}

// AddColumn registers a column name for move/create responses.
func (f *FakeAPI) AddColumn(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.columns[id] = name
}

// FailWith makes every following request answer with status and body.
func (f *FakeAPI) FailWith(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith = &failure{status: status, body: body}
}

// Requests returns a copy of everything received so far.
func (f *FakeAPI) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeAPI) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		raw, _ := io.ReadAll(r.Body)
		rec := Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			Auth:      r.Header.Get("Authorization"),
			RequestID: r.Header.Get("X-Request-ID"),
			RawBody:   string(raw),
		}
		if len(raw) > 0 {
			_ = sonic.ConfigStd.Unmarshal(raw, &rec.Body)
		}

		f.mu.Lock()
		f.requests = append(f.requests, rec)
		fail := f.failWith
		f.mu.Unlock()

		if fail != nil {
			return c.Blob(fail.status, echo.MIMEApplicationJSON, []byte(fail.body))
		}
		if rec.Auth != "Bearer "+APIKey {
			return apiError(c, http.StatusUnauthorized, "Invalid API key")
		}
		return next(c)
	}
}

func (f *FakeAPI) getBoard(c echo.Context) error {
	f.mu.Lock()
	b, ok := f.boards[c.Param("id")]
	f.mu.Unlock()
	if !ok {
		return apiError(c, http.StatusNotFound, "Board not found")
	}
	return c.JSON(http.StatusOK, map[string]any{"data": b})
}

func (f *FakeAPI) getCard(c echo.Context) error {
	card, ok := f.card(c.Param("id"))
	if !ok {
		return apiError(c, http.StatusNotFound, "Card not found")
	}
	return c.JSON(http.StatusOK, map[string]any{"data": card})
}

func (f *FakeAPI) moveCard(c echo.Context) error {
	card, ok := f.card(c.Param("id"))
	if !ok {
		return apiError(c, http.StatusNotFound, "Card not found")
	}
	body := f.lastBody()
	target, _ := body["targetColumnId"].(string)

	f.mu.Lock()
	name, known := f.columns[target]
	f.mu.Unlock()
	if !known {
		return apiError(c, http.StatusBadRequest, "Unknown column")
	}

	moved := *card
	moved.Column = &board.ColumnRef{ID: target, Name: name}
	return c.JSON(http.StatusOK, map[string]any{"data": moved})
}

func (f *FakeAPI) addComment(c echo.Context) error {
	card, ok := f.card(c.Param("id"))
	if !ok {
		return apiError(c, http.StatusNotFound, "Card not found")
	}
	content, _ := f.lastBody()["content"].(string)
	return c.JSON(http.StatusCreated, map[string]any{"data": board.Comment{
		ID:      f.id("comment"),
		Content: content,
		Card:    &board.CardRef{ID: card.ID, Title: card.Title},
	}})
}

func (f *FakeAPI) updateCard(c echo.Context) error {
	card, ok := f.card(c.Param("id"))
	if !ok {
		return apiError(c, http.StatusNotFound, "Card not found")
	}
	updated := *card
	if title, ok := f.lastBody()["title"].(string); ok {
		updated.Title = title
	}
	return c.JSON(http.StatusOK, map[string]any{"data": updated})
}

func (f *FakeAPI) createCard(c echo.Context) error {
	body := f.lastBody()
	columnID, _ := body["columnId"].(string)
	title, _ := body["title"].(string)

	f.mu.Lock()
	name, known := f.columns[columnID]
	f.mu.Unlock()
	if !known {
		return apiError(c, http.StatusBadRequest, "Unknown column")
	}

	return c.JSON(http.StatusCreated, map[string]any{"data": board.Card{
		ID:     f.id("card"),
		Title:  title,
		Column: &board.ColumnRef{ID: columnID, Name: name},
	}})
}

func (f *FakeAPI) card(id string) (*board.Card, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[id]
	return c, ok
}

func (f *FakeAPI) lastBody() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1].Body
}

func (f *FakeAPI) id(prefix string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func apiError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]any{"error": map[string]string{"message": message}})
}
