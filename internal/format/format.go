// Package format turns board and card snapshots into the Markdown-flavoured
// text returned to the agent. Everything here is pure: no I/O, and the only
// input besides the snapshot is the clock used for overdue detection.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/HendryAvila/board-mcp/internal/board"
)

// dateLayout renders dates as DD.MM.YYYY.
const dateLayout = "02.01.2006"

// Renderer renders snapshots. Now is injectable so overdue checks can be
// pinned in tests.
type Renderer struct {
	Now func() time.Time
}

// NewRenderer returns a Renderer using the wall clock.
func NewRenderer() *Renderer {
	return &Renderer{Now: time.Now}
}

// RenderBoard renders b against the wall clock.
func RenderBoard(b *board.Board, source string) string {
	return NewRenderer().Board(b, source)
}

// RenderCard renders c against the wall clock.
func RenderCard(c *board.Card) string {
	return NewRenderer().Card(c)
}

// Date formats t in local time as DD.MM.YYYY.
func Date(t time.Time) string {
	return t.Local().Format(dateLayout)
}

// Board renders a board snapshot. source names the data source that
// produced it and is echoed in the summary line.
func (r *Renderer) Board(b *board.Board, source string) string {
	now := r.now()
	var (
		totalCards   int
		blockedCount int
		overdueCount int
	)

	lines := []string{"# " + b.Name, ""}

	for _, col := range b.Columns {
		totalCards += len(col.Cards)

		heading := "## " + col.Name
		if col.Status != "" {
			heading += " (" + col.Status + ")"
		}
		heading += fmt.Sprintf(" — %d cards", len(col.Cards))
		lines = append(lines, heading, "   Column ID: "+col.ID, "")

		if len(col.Cards) == 0 {
			lines = append(lines, "_No cards_", "")
			continue
		}

		for i := range col.Cards {
			card := &col.Cards[i]

			prefix := ""
			if card.Priority != "" && card.Priority != board.PriorityNone {
				prefix = "[" + string(card.Priority) + "] "
			}
			lines = append(lines,
				fmt.Sprintf("### %d. %s%s", i+1, prefix, card.Title),
				"   ID: "+card.ID,
				"   Assignees: "+card.AssigneeNames(),
			)

			if card.DueDate != nil {
				due := "   Due: " + Date(*card.DueDate)
				if card.DueDate.Before(now) && col.Status != board.StatusDone {
					due += " ⚠ OVERDUE"
					overdueCount++
				}
				lines = append(lines, due)
			}

			if card.IsBlocked {
				blockedCount++
				lines = append(lines, "   ⛔ BLOCKED"+reasonSuffix(card.BlockedReason))
			}

			if tags := card.TagNames(); len(tags) > 0 {
				lines = append(lines, "   Tags: #"+strings.Join(tags, ", #"))
			}

			switch {
			case len(card.Checklists) > 0:
				done, total := card.ChecklistProgress()
				lines = append(lines, fmt.Sprintf("   Checklist: %d/%d done", done, total))
			case card.Count.Checklists > 0:
				lines = append(lines, fmt.Sprintf("   Checklists: %d", card.Count.Checklists))
			}

			if card.Count.Comments > 0 {
				lines = append(lines, fmt.Sprintf("   Comments: %d", card.Count.Comments))
			}

			lines = append(lines, "")
		}
	}

	summary := fmt.Sprintf("Summary: %d active cards across %d columns.", totalCards, len(b.Columns))
	if blockedCount > 0 {
		summary += fmt.Sprintf(" %d blocked.", blockedCount)
	}
	if overdueCount > 0 {
		summary += fmt.Sprintf(" %d overdue.", overdueCount)
	}
	summary += " | Source: " + source

	lines = append(lines, "---", summary)
	return strings.Join(lines, "\n")
}

// Card renders the full detail view of a card. Comments and activity
// arrive most-recent-first and are printed oldest-first.
func (r *Renderer) Card(c *board.Card) string {
	lines := []string{"# " + c.Title, ""}

	if c.Column != nil {
		if c.Column.Board != nil && c.Column.Board.Name != "" {
			lines = append(lines, "**Board:** "+c.Column.Board.Name)
		}
		if c.Column.Name != "" {
			col := "**Column:** " + c.Column.Name
			if c.Column.Status != "" {
				col += " (" + c.Column.Status + ")"
			}
			lines = append(lines, col)
		}
	}

	priority := c.Priority
	if priority == "" {
		priority = board.PriorityNone
	}
	lines = append(lines, "**Priority:** "+string(priority))

	if c.CreatedAt != nil {
		lines = append(lines, "**Created:** "+Date(*c.CreatedAt))
	}
	if c.DueDate != nil {
		lines = append(lines, "**Due:** "+Date(*c.DueDate))
	}
	lines = append(lines, "**Assignees:** "+c.AssigneeNames())
	if tags := c.TagNames(); len(tags) > 0 {
		lines = append(lines, "**Tags:** "+strings.Join(tags, ", "))
	}

	if c.IsBlocked {
		lines = append(lines, "", "⛔ **BLOCKED**"+reasonSuffix(c.BlockedReason))
		if c.BlockedByCard != nil {
			lines = append(lines, fmt.Sprintf("   Blocked by: %s (%s)", c.BlockedByCard.Title, c.BlockedByCard.ID))
		}
	}

	lines = append(lines, "", "## Description", "")
	if c.Description != "" {
		lines = append(lines, StripHTML(c.Description))
	} else {
		lines = append(lines, "_No description_")
	}

	if len(c.Checklists) > 0 {
		lines = append(lines, "", "## Checklists")
		for _, cl := range c.Checklists {
			done, total := cl.Progress()
			lines = append(lines, "", fmt.Sprintf("### %s (%d/%d)", cl.Title, done, total))
			for _, item := range cl.Items {
				mark := " "
				if item.Completed {
					mark = "x"
				}
				lines = append(lines, fmt.Sprintf("- [%s] %s", mark, item.Title))
			}
		}
	}

	if len(c.Links) > 0 {
		lines = append(lines, "", "## Linked Entities")
		for _, l := range c.Links {
			lines = append(lines, fmt.Sprintf("- %s: %s", l.EntityType, l.EntityID))
		}
	}

	if len(c.Comments) > 0 {
		lines = append(lines, "", "## Comments (recent)")
		for i := len(c.Comments) - 1; i >= 0; i-- {
			cm := c.Comments[i]
			lines = append(lines,
				"",
				fmt.Sprintf("**%s** (%s):", board.AuthorName(cm.Author), Date(cm.CreatedAt)),
				StripHTML(cm.Content),
			)
		}
	}

	if len(c.Activities) > 0 {
		lines = append(lines, "", "## Activity (recent)")
		for i := len(c.Activities) - 1; i >= 0; i-- {
			a := c.Activities[i]
			lines = append(lines, fmt.Sprintf("- %s | %s | %s", Date(a.CreatedAt), board.AuthorName(a.Author), a.Action))
		}
	}

	return strings.Join(lines, "\n")
}

func (r *Renderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func reasonSuffix(reason string) string {
	if reason == "" {
		return ""
	}
	return ": " + reason
}
