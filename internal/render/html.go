// Package render turns tasks into HTML: the task list fragment and the full
// page around it.
package render

import (
	"bytes"
	"html/template"

	"tasklist/internal/service"
)

const (
	// EmptyStateText is shown when a load returns no tasks.
	EmptyStateText = "No tasks found. Create your first task above!"
	// NoDescription replaces an empty description.
	NoDescription = "No description"

	LabelPending   = "Pending"
	LabelCompleted = "Completed"

	ButtonComplete = "✓ Complete"
	ButtonReopen   = "↺ Reopen"
	ButtonDelete   = "× Delete"
)

// Action names carried by list buttons in data-action.
const (
	ActionToggle = "toggle"
	ActionDelete = "delete"
)

const listHTML = `{{- if not . -}}
<div class="empty-state">
  <svg fill="none" stroke="currentColor" viewBox="0 0 24 24"><path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M9 5H7a2 2 0 00-2 2v12a2 2 0 002 2h10a2 2 0 002-2V7a2 2 0 00-2-2h-2M9 5a2 2 0 002 2h2a2 2 0 002-2M9 5a2 2 0 012-2h2a2 2 0 012 2"></path></svg>
  <p>{{ emptyText }}</p>
</div>
{{- else -}}
{{- range . }}
<div class="task-item{{ if .Completed }} completed{{ end }}" data-id="{{ .ID }}">
  <div class="task-header">
    <h3 class="task-title">{{ .Title }}</h3>
    <span class="status-badge {{ if .Completed }}status-completed{{ else }}status-pending{{ end }}">{{ status . }}</span>
  </div>
  <p class="task-description">{{ description . }}</p>
  <div class="task-actions">
    {{- if .Completed }}
    <button class="btn btn-sm" data-action="toggle" data-id="{{ .ID }}" data-completed="false">{{ reopen }}</button>
    {{- else }}
    <button class="btn btn-sm btn-success" data-action="toggle" data-id="{{ .ID }}" data-completed="true">{{ complete }}</button>
    {{- end }}
    <button class="btn btn-sm btn-danger" data-action="delete" data-id="{{ .ID }}">{{ remove }}</button>
  </div>
</div>
{{- end }}
{{- end }}
`

var funcs = template.FuncMap{
	"emptyText":   func() string { return EmptyStateText },
	"status":      StatusLabel,
	"description": Description,
	"complete":    func() string { return ButtonComplete },
	"reopen":      func() string { return ButtonReopen },
	"remove":      func() string { return ButtonDelete },
}

var listTmpl = template.Must(template.New("list").Funcs(funcs).Parse(listHTML))

// StatusLabel returns the status badge text of a task.
func StatusLabel(t service.Task) string {
	if t.Completed {
		return LabelCompleted
	}
	return LabelPending
}

// Description returns the task description or the NoDescription placeholder.
func Description(t service.Task) string {
	if t.Description == "" {
		return NoDescription
	}
	return t.Description
}

// HTML renders the task list fragment. All task text is escaped.
type HTML struct{}

// Render returns the list markup for tasks in the given order.
func (HTML) Render(tasks []service.Task) string {
	var buf bytes.Buffer
	// The template only fails on writer errors, which bytes.Buffer never returns.
	_ = listTmpl.Execute(&buf, tasks)
	return buf.String()
}
