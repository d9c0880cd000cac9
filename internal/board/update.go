package board

// CardUpdate is a sparse card update. Only non-nil fields are sent.
// Color is tri-state: nil keeps the current color, ClearColor resets it.
type CardUpdate struct {
	Title       *string
	Description *string
	Priority    *Priority
	DueDate     *string
	Color       *string
	ClearColor  bool
}

// IsEmpty reports whether the update carries no fields at all.
func (u CardUpdate) IsEmpty() bool {
	return len(u.Fields()) == 0
}

// Fields lists the names of the supplied fields in a stable order.
func (u CardUpdate) Fields() []string {
	var fields []string
	if u.Title != nil {
		fields = append(fields, "title")
	}
	if u.Description != nil {
		fields = append(fields, "description")
	}
	if u.Priority != nil {
		fields = append(fields, "priority")
	}
	if u.DueDate != nil {
		fields = append(fields, "dueDate")
	}
	if u.Color != nil || u.ClearColor {
		fields = append(fields, "color")
	}
	return fields
}

// Body returns the PATCH payload holding only the supplied fields. A
// cleared color is sent as an explicit null.
func (u CardUpdate) Body() map[string]any {
	body := make(map[string]any, 5)
	if u.Title != nil {
		body["title"] = *u.Title
	}
	if u.Description != nil {
		body["description"] = *u.Description
	}
	if u.Priority != nil {
		body["priority"] = string(*u.Priority)
	}
	if u.DueDate != nil {
		body["dueDate"] = *u.DueDate
	}
	switch {
	case u.ClearColor:
		body["color"] = nil
	case u.Color != nil:
		body["color"] = *u.Color
	}
	return body
}

// NewCard is the payload for creating a card.
type NewCard struct {
	ColumnID    string    `json:"columnId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
}
