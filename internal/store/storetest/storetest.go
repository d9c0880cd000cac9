// Package storetest builds throwaway SQLite databases with the board schema
// and seeds them from board model values.
package storetest

import (
	"database/sql"
	_ "embed"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/HendryAvila/board-mcp/internal/board"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// DB is a schema-initialised database file owned by one test.
type DB struct {
	*sql.DB
	Path string

	t    testing.TB
	next int
}

// New creates an empty board database under t.TempDir.
func New(t testing.TB) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dev.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return &DB{DB: db, Path: path, t: t}
}

// MustExec runs a statement and fails the test on error.
func (d *DB) MustExec(query string, args ...any) {
	d.t.Helper()
	if _, err := d.Exec(query, args...); err != nil {
		d.t.Fatalf("exec %q: %v", query, err)
	}
}

// Millis encodes t the way Prisma stores DateTime in SQLite.
func Millis(t time.Time) int64 { return t.UnixMilli() }

// InsertBoard writes b with its columns and cards. Column and card order
// follow slice order.
func (d *DB) InsertBoard(b *board.Board) {
	d.t.Helper()
	d.MustExec(`INSERT INTO "Board" (id, name) VALUES (?, ?)`, b.ID, b.Name)
	for i, col := range b.Columns {
		d.MustExec(`INSERT INTO "BoardColumn" (id, boardId, name, status, "order") VALUES (?, ?, ?, ?, ?)`,
			col.ID, b.ID, col.Name, nullable(col.Status), i)
		for j := range col.Cards {
			d.InsertCard(col.ID, j, &col.Cards[j])
		}
	}
}

// InsertCard writes c into columnID at position order, together with its
// assignees, tags, checklists, comments, activities and links. People and
// tags are created on the fly.
func (d *DB) InsertCard(columnID string, order int, c *board.Card) {
	d.t.Helper()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if c.CreatedAt != nil {
		created = *c.CreatedAt
	}
	var due any
	if c.DueDate != nil {
		due = Millis(*c.DueDate)
	}
	var blockedBy any
	if c.BlockedByCard != nil {
		blockedBy = c.BlockedByCard.ID
	}
	priority := c.Priority
	if priority == "" {
		priority = board.PriorityNone
	}

	d.MustExec(`INSERT INTO "BoardCard"
		(id, columnId, title, description, priority, color, dueDate, createdAt, isBlocked, blockedReason, blockedByCardId, "order")
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, columnID, c.Title, nullable(c.Description), string(priority), nullable(c.Color),
		due, Millis(created), c.IsBlocked, nullable(c.BlockedReason), blockedBy, order)

	for _, a := range c.Assignees {
		pid := d.person(&a.Person)
		d.MustExec(`INSERT INTO "BoardCardAssignee" (cardId, personId) VALUES (?, ?)`, c.ID, pid)
	}
	for _, tg := range c.Tags {
		id := tg.Tag.ID
		if id == "" {
			id = d.id("tag")
		}
		d.MustExec(`INSERT OR IGNORE INTO "Tag" (id, name) VALUES (?, ?)`, id, tg.Tag.Name)
		d.MustExec(`INSERT INTO "BoardCardTag" (cardId, tagId) VALUES (?, ?)`, c.ID, id)
	}
	for i, cl := range c.Checklists {
		clID := orID(cl.ID, d.id("checklist"))
		d.MustExec(`INSERT INTO "BoardChecklist" (id, cardId, title, "order") VALUES (?, ?, ?, ?)`,
			clID, c.ID, cl.Title, i)
		for j, it := range cl.Items {
			d.MustExec(`INSERT INTO "BoardChecklistItem" (id, checklistId, title, completed, "order") VALUES (?, ?, ?, ?, ?)`,
				orID(it.ID, d.id("item")), clID, it.Title, it.Completed, j)
		}
	}
	// Snapshots list comments and activity newest first; insert oldest first
	// so rowid order matches creation order.
	for i := len(c.Comments) - 1; i >= 0; i-- {
		m := c.Comments[i]
		d.MustExec(`INSERT INTO "BoardComment" (id, cardId, authorId, content, createdAt) VALUES (?, ?, ?, ?, ?)`,
			orID(m.ID, d.id("comment")), c.ID, d.author(m.Author), m.Content, Millis(m.CreatedAt))
	}
	for i := len(c.Activities) - 1; i >= 0; i-- {
		a := c.Activities[i]
		d.MustExec(`INSERT INTO "BoardActivity" (id, cardId, authorId, action, createdAt) VALUES (?, ?, ?, ?, ?)`,
			orID(a.ID, d.id("activity")), c.ID, d.author(a.Author), a.Action, Millis(a.CreatedAt))
	}
	for _, l := range c.Links {
		d.MustExec(`INSERT INTO "BoardCardLink" (id, cardId, entityType, entityId) VALUES (?, ?, ?, ?)`,
			orID(l.ID, d.id("link")), c.ID, l.EntityType, l.EntityID)
	}
}

func (d *DB) person(p *board.Person) string {
	d.t.Helper()
	id := d.id("person")
	d.MustExec(`INSERT INTO "Person" (id, firstName, lastName) VALUES (?, ?, ?)`, id, p.FirstName, p.LastName)
	return id
}

func (d *DB) author(p *board.Person) any {
	if p == nil {
		return nil
	}
	return d.person(p)
}

func (d *DB) id(prefix string) string {
	d.next++
	return fmt.Sprintf("%s-%d", prefix, d.next)
}

func orID(id, fallback string) string {
	if id != "" {
		return id
	}
	return fallback
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
