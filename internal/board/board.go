// Package board defines the task-board snapshot model shared by the data
// sources, the text formatter, and the write gateway.
//
// The JSON shape mirrors the REST API's `data` payload. The SQLite store
// composes the very same document in SQL, so both sources decode into these
// types and the formatter never needs to know where a snapshot came from.
package board

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the card urgency level.
type Priority string

// Valid priorities, most urgent first.
const (
	PriorityUrgent Priority = "URGENT"
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
	PriorityNone   Priority = "NONE"
)

// Priorities lists the accepted priority values in schema order.
var Priorities = []string{
	string(PriorityUrgent),
	string(PriorityHigh),
	string(PriorityMedium),
	string(PriorityLow),
	string(PriorityNone),
}

// ParsePriority validates s against the priority enum.
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if s == p {
			return Priority(p), nil
		}
	}
	return "", fmt.Errorf("%w: priority %q must be one of %s",
		ErrInvalidArgument, s, strings.Join(Priorities, ", "))
}

// StatusDone is the terminal column status; cards in it are never overdue.
const StatusDone = "done"

// Board is a named collection of ordered columns.
type Board struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Column is a lane within a board holding ordered, non-archived cards.
type Column struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
	Cards  []Card `json:"cards"`
}

// Card is a unit of work. Board snapshots only fill the summary fields and
// Count; card snapshots add Column, Comments, Activities, Links and
// BlockedByCard.
type Card struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	Priority      Priority    `json:"priority"`
	Color         string      `json:"color,omitempty"`
	DueDate       *time.Time  `json:"dueDate,omitempty"`
	CreatedAt     *time.Time  `json:"createdAt,omitempty"`
	IsBlocked     bool        `json:"isBlocked"`
	BlockedReason string      `json:"blockedReason,omitempty"`
	BlockedByCard *CardRef    `json:"blockedByCard,omitempty"`
	Assignees     []Assignee  `json:"assignees"`
	Tags          []CardTag   `json:"tags"`
	Checklists    []Checklist `json:"checklists"`
	Links         []Link      `json:"links,omitempty"`
	Comments      []Comment   `json:"comments,omitempty"`
	Activities    []Activity  `json:"activities,omitempty"`
	Column        *ColumnRef  `json:"column,omitempty"`
	Count         Counts      `json:"_count"`
}

// AssigneeNames joins the display names of all assignees, or "none".
func (c *Card) AssigneeNames() string {
	names := make([]string, 0, len(c.Assignees))
	for _, a := range c.Assignees {
		if n := a.Person.DisplayName(); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// TagNames returns the tag names in source order.
func (c *Card) TagNames() []string {
	names := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		names = append(names, t.Tag.Name)
	}
	return names
}

// ChecklistProgress sums completed and total items across all checklists.
func (c *Card) ChecklistProgress() (done, total int) {
	for _, cl := range c.Checklists {
		d, t := cl.Progress()
		done += d
		total += t
	}
	return done, total
}

// CardRef is a lightweight pointer to another card.
type CardRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ColumnRef is the column context attached to a card snapshot.
type ColumnRef struct {
	ID     string    `json:"id,omitempty"`
	Name   string    `json:"name"`
	Status string    `json:"status,omitempty"`
	Board  *BoardRef `json:"board,omitempty"`
}

// BoardRef names the board a column belongs to.
type BoardRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Person is a user referenced by assignees, comments and activity.
type Person struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// DisplayName is "first last" with surrounding blanks trimmed.
func (p Person) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// AuthorName returns the author's display name, or "System" when the
// entry has no author.
func AuthorName(p *Person) string {
	if p == nil {
		return "System"
	}
	if n := p.DisplayName(); n != "" {
		return n
	}
	return "System"
}

// Assignee links a card to a person.
type Assignee struct {
	Person Person `json:"person"`
}

// Tag is a named label.
type Tag struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// CardTag links a card to a tag.
type CardTag struct {
	Tag Tag `json:"tag"`
}

// Checklist is an ordered list of items on a card.
type Checklist struct {
	ID    string          `json:"id,omitempty"`
	Title string          `json:"title"`
	Items []ChecklistItem `json:"items"`
}

// Progress counts completed items and total items.
func (cl Checklist) Progress() (done, total int) {
	for _, it := range cl.Items {
		if it.Completed {
			done++
		}
	}
	return done, len(cl.Items)
}

// ChecklistItem is a single checkbox entry.
type ChecklistItem struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Comment is a user comment on a card. Card is only set on write responses.
type Comment struct {
	ID        string    `json:"id,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Author    *Person   `json:"author,omitempty"`
	Card      *CardRef  `json:"card,omitempty"`
}

// Activity is an audit entry; a nil Author means a system action.
type Activity struct {
	ID        string    `json:"id,omitempty"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"createdAt"`
	Author    *Person   `json:"author,omitempty"`
}

// Link is a typed reference from a card to an external entity.
type Link struct {
	ID         string `json:"id,omitempty"`
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
}

// Counts carries aggregate counts used when full detail is not loaded.
type Counts struct {
	Comments   int `json:"comments"`
	Checklists int `json:"checklists"`
}
