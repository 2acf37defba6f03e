package render

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"

	"tasklist/internal/service"
	"tasklist/internal/view"
)

// Banner colours per kind.
const (
	successBackground = "#d1fae5"
	successColor      = "#065f46"
	errorBackground   = "#fee2e2"
	errorColor        = "#991b1b"
)

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{ .Title }}</title>
</head>
<body>
  <div class="container">
    <h1>{{ .Title }}</h1>
    <div id="message" class="message{{ if .Banner.Visible }} {{ .Banner.Kind }}{{ end }}" style="{{ .Banner.Style }}">{{ .Banner.Text }}</div>
    <form id="taskForm">
      <input type="text" id="title" name="title" placeholder="Task title" value="{{ .FormTitle }}" required>
      <textarea id="description" name="description" placeholder="Description (optional)">{{ .FormDescription }}</textarea>
      <button type="submit" class="btn">Add Task</button>
    </form>
    <div class="filters">
      {{- range .Filters }}
      <button class="filter-btn{{ if .Active }} active{{ end }}" data-filter="{{ .Value }}">{{ .Label }}</button>
      {{- end }}
    </div>
    <div id="tasksList">{{ .List }}</div>
  </div>
</body>
</html>
`

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

type pageBanner struct {
	Text    string
	Kind    view.Kind
	Visible bool
}

// Style is the inline style of the banner element.
func (b pageBanner) Style() template.CSS {
	if !b.Visible {
		return "display: none"
	}
	if b.Kind == view.KindError {
		return template.CSS(fmt.Sprintf("display: block; background: %s; color: %s", errorBackground, errorColor))
	}
	return template.CSS(fmt.Sprintf("display: block; background: %s; color: %s", successBackground, successColor))
}

type pageFilter struct {
	Value  string
	Label  string
	Active bool
}

type pageData struct {
	Title           string
	Banner          pageBanner
	FormTitle       string
	FormDescription string
	Filters         []pageFilter
	List            template.HTML
}

// PageTitle is the document title.
const PageTitle = "Task Manager"

// Page is an in-memory HTML page that a view.Client draws on. It expects
// list markup produced by HTML.
type Page struct {
	mu              sync.Mutex
	list            view.List
	banner          pageBanner
	filter          service.Filter
	formTitle       string
	formDescription string
}

// Compile-time verification that *Page implements view.Surface.
var _ view.Surface = (*Page)(nil)

// NewPage returns an empty page with the all filter active.
func NewPage() *Page {
	return &Page{filter: service.FilterAll, list: view.List{Markup: HTML{}.Render(nil)}}
}

func (p *Page) ReplaceList(list view.List) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.list = list
}

func (p *Page) ResetForm() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.formTitle = ""
	p.formDescription = ""
}

func (p *Page) MarkFilter(filter service.Filter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filter = filter
}

func (p *Page) ShowBanner(text string, kind view.Kind) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.banner = pageBanner{Text: text, Kind: kind, Visible: true}
}

func (p *Page) HideBanner() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.banner.Visible = false
}

// SetForm fills the create form fields.
func (p *Page) SetForm(title, description string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.formTitle = title
	p.formDescription = description
}

// Tasks returns the tasks currently shown.
func (p *Page) Tasks() []service.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.list.Tasks
}

// Document renders the full page.
func (p *Page) Document() (string, error) {
	p.mu.Lock()
	data := pageData{
		Title:           PageTitle,
		Banner:          p.banner,
		FormTitle:       p.formTitle,
		FormDescription: p.formDescription,
		List:            template.HTML(p.list.Markup),
	}
	for _, f := range service.Filters() {
		data.Filters = append(data.Filters, pageFilter{
			Value:  f.String(),
			Label:  f.Label(),
			Active: f == p.filter,
		})
	}
	p.mu.Unlock()

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("could not render page: %w", err)
	}
	return buf.String(), nil
}
