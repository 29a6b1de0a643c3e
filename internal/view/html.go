package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"

	"github.com/ziadkadry99/policyvote/internal/prefs"
)

// HTMLRenderer renders cards as an HTML page. Descriptions are treated
// as Markdown; raw HTML inside them is escaped.
type HTMLRenderer struct {
	theme prefs.Theme
	tr    prefs.Translator
	md    goldmark.Markdown
	tmpl  *template.Template
}

// NewHTMLRenderer creates a renderer for theme and language.
func NewHTMLRenderer(theme prefs.Theme, tr prefs.Translator) (*HTMLRenderer, error) {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(codeStyle(theme)),
			),
		),
	)
	return &HTMLRenderer{
		theme: theme,
		tr:    tr,
		md:    md,
		tmpl:  tmpl,
	}, nil
}

// codeStyle picks the chroma style for fenced code in descriptions.
func codeStyle(theme prefs.Theme) string {
	if theme == prefs.ThemeDark {
		return "monokai"
	}
	return "github"
}

type htmlCard struct {
	ID           string
	Title        string
	Status       string
	StatusLabel  string
	Description  template.HTML
	AdminComment string
	Upvotes      int
	Downvotes    int
	Disabled     bool
	Voted        bool
	Failed       string
	Empty        bool
	Width        string
	Support      string
	Oppose       string
}

type htmlPage struct {
	Lang       string
	Theme      string
	Heading    string
	AdminLabel string
	NoVotes    string
	Voted      string
	Empty      string
	Cards      []htmlCard
}

// Render writes the page for cards to w.
func (h *HTMLRenderer) Render(w io.Writer, cards []Card) error {
	page := htmlPage{
		Lang:       string(h.tr.Lang),
		Theme:      string(h.theme),
		Heading:    h.tr.T("all_policies"),
		AdminLabel: h.tr.T("admin_note"),
		NoVotes:    h.tr.T("no_votes_yet"),
		Voted:      h.tr.T("already_voted"),
		Empty:      h.tr.T("no_policies"),
	}
	for _, c := range cards {
		hc, err := h.card(c)
		if err != nil {
			return err
		}
		page.Cards = append(page.Cards, hc)
	}
	return h.tmpl.Execute(w, page)
}

func (h *HTMLRenderer) card(c Card) (htmlCard, error) {
	var desc bytes.Buffer
	if err := h.md.Convert([]byte(c.Policy.Description), &desc); err != nil {
		return htmlCard{}, fmt.Errorf("rendering description of %s: %w", c.Policy.ID, err)
	}
	bar := c.Bar()
	hc := htmlCard{
		ID:           c.Policy.ID,
		Title:        c.Policy.Title,
		Status:       string(c.Policy.Status),
		StatusLabel:  h.tr.T(string(c.Policy.Status)),
		Description:  template.HTML(strings.TrimSpace(desc.String())),
		AdminComment: c.Policy.AdminComment,
		Upvotes:      bar.Upvotes,
		Downvotes:    bar.Downvotes,
		Disabled:     c.ButtonsDisabled(),
		Voted:        c.State == StateVoted,
		Empty:        bar.Empty,
	}
	if c.State == StateVoteFailed {
		hc.Failed = c.LastError
	}
	if !bar.Empty {
		hc.Width = fmt.Sprintf("%.1f", bar.Support)
		hc.Support = fmt.Sprintf("%s: %.1f%%", h.tr.T("support"), bar.Support)
		hc.Oppose = fmt.Sprintf("%s: %.1f%%", h.tr.T("oppose"), bar.Oppose)
	}
	return hc, nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}" data-theme="{{.Theme}}">
<head>
<meta charset="utf-8">
<title>{{.Heading}}</title>
</head>
<body>
<h1>{{.Heading}}</h1>
<div id="policies-container">
{{- if not .Cards}}
<div class="empty-state"><h3>{{.Empty}}</h3></div>
{{- end}}
{{- range .Cards}}
<div class="card" data-policy-id="{{.ID}}">
  <div class="card-header">
    <h3 class="card-title">{{.Title}}</h3>
    <span class="badge badge-{{.Status}}">{{.StatusLabel}}</span>
  </div>
  <div class="card-body">{{.Description}}</div>
  {{- if .AdminComment}}
  <div class="info-box"><strong>{{$.AdminLabel}}:</strong> {{.AdminComment}}</div>
  {{- end}}
  <div class="vote-container">
    <button class="vote-btn upvote" data-policy-id="{{.ID}}" data-vote-type="upvote"{{if .Disabled}} disabled{{end}}><span data-role="upvote-count">{{.Upvotes}}</span></button>
    <button class="vote-btn downvote" data-policy-id="{{.ID}}" data-vote-type="downvote"{{if .Disabled}} disabled{{end}}><span data-role="downvote-count">{{.Downvotes}}</span></button>
  </div>
  {{- if .Empty}}
  <div class="vote-progress-empty">{{$.NoVotes}}</div>
  {{- else}}
  <div class="vote-progress"><div class="vote-progress-bar" style="width: {{.Width}}%"></div></div>
  <div class="vote-progress-label"><span>{{.Support}}</span><span>{{.Oppose}}</span></div>
  {{- end}}
  {{- if .Voted}}
  <small class="voted">✓ {{$.Voted}}</small>
  {{- end}}
  {{- if .Failed}}
  <div class="alert alert-error">{{.Failed}}</div>
  {{- end}}
</div>
{{- end}}
</div>
</body>
</html>
`
