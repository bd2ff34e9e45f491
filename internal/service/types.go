package service

// Choice is a normalized {id, name} entry used for workspaces and spaces.
type Choice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListChoice is a list entry as offered to form authors.
// Label is "<folder> → <list>" for lists nested in a folder.
type ListChoice struct {
	Value    string   `json:"value"`
	Label    string   `json:"label"`
	Statuses []Status `json:"statuses"`
}

// Status is a task status of a list.
type Status struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Member is a workspace member.
type Member struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// CustomField is a custom field value attached to a task.
type CustomField struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// TaskPayload is the task creation body.
type TaskPayload struct {
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Status       string        `json:"status,omitempty"`
	Priority     int           `json:"priority,omitempty"` // 1 urgent .. 4 low
	DueDate      int64         `json:"due_date,omitempty"` // epoch milliseconds
	Assignees    []int64       `json:"assignees,omitempty"`
	CustomFields []CustomField `json:"custom_fields,omitempty"`
}

// DocumentPayload is the document creation input.
// Content is assembled by callers but the current docs contract does not carry it.
type DocumentPayload struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Created identifies an entity created on the remote side.
type Created struct {
	ID string `json:"id"`
}
