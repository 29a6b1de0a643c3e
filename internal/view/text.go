package view

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mitchellh/colorstring"

	"github.com/ziadkadry99/policyvote/internal/prefs"
)

const barWidth = 20

// palette maps roles to colorstring codes for one theme.
type palette struct {
	title  string
	muted  string
	good   string
	bad    string
	accent string
}

var palettes = map[prefs.Theme]palette{
	prefs.ThemeLight: {title: "[bold]", muted: "[dark_gray]", good: "[green]", bad: "[red]", accent: "[blue]"},
	prefs.ThemeDark:  {title: "[bold][white]", muted: "[light_gray]", good: "[light_green]", bad: "[light_red]", accent: "[light_cyan]"},
}

// TextRenderer writes cards for a terminal.
type TextRenderer struct {
	w     io.Writer
	tr    prefs.Translator
	pal   palette
	color colorstring.Colorize
}

// NewTextRenderer creates a renderer for theme and language. noColor
// strips color codes.
func NewTextRenderer(w io.Writer, theme prefs.Theme, tr prefs.Translator, noColor bool) *TextRenderer {
	pal, ok := palettes[theme]
	if !ok {
		pal = palettes[prefs.ThemeLight]
	}
	return &TextRenderer{
		w:   w,
		tr:  tr,
		pal: pal,
		color: colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: noColor,
		},
	}
}

// c wraps s in the color code. s itself is never parsed for codes.
func (r *TextRenderer) c(code, s string) string {
	return r.color.Color(code) + s + r.color.Color("[reset]")
}

// RenderCards writes every card, or the empty-state text.
func (r *TextRenderer) RenderCards(cards []Card) error {
	if len(cards) == 0 {
		_, err := fmt.Fprintln(r.w, r.c(r.pal.muted, r.tr.T("no_policies")))
		return err
	}
	for i, card := range cards {
		if i > 0 {
			if _, err := fmt.Fprintln(r.w); err != nil {
				return err
			}
		}
		if err := r.RenderCard(card); err != nil {
			return err
		}
	}
	return nil
}

// RenderCard writes one card.
func (r *TextRenderer) RenderCard(card Card) error {
	p := card.Policy
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", r.c(r.pal.title, p.Title), r.statusBadge(string(p.Status)))
	fmt.Fprintf(&b, "  %s%s\n", r.c(r.pal.muted, "id: "), p.ID)

	if p.CategoryName != "" {
		fmt.Fprintf(&b, "  %s%s\n", r.c(r.pal.muted, r.tr.T("category")+": "), p.CategoryName)
	}
	if p.Description != "" {
		for _, line := range strings.Split(strings.TrimSpace(p.Description), "\n") {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	if p.AdminComment != "" {
		fmt.Fprintf(&b, "  %s%s\n", r.c(r.pal.accent, r.tr.T("admin_note")+": "), p.AdminComment)
	}

	b.WriteString("  " + r.voteLine(card) + "\n")
	if card.State == StateVoted {
		fmt.Fprintf(&b, "  %s\n", r.c(r.pal.good, "✓ "+r.tr.T("already_voted")))
	}
	if card.State == StateVoteFailed && card.LastError != "" {
		fmt.Fprintf(&b, "  %s%s\n", r.c(r.pal.bad, "✗ "), card.LastError)
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

// RenderPatch writes a one-line summary of a card after a live update.
func (r *TextRenderer) RenderPatch(card Card) error {
	_, err := fmt.Fprintf(r.w, "%s%s  %s  %s\n",
		r.c(r.pal.accent, "↻ "), card.Policy.Title, r.statusBadge(string(card.Policy.Status)), r.voteLine(card))
	return err
}

func (r *TextRenderer) statusBadge(status string) string {
	code := r.pal.muted
	switch status {
	case "approved", "completed", "in_progress":
		code = r.pal.good
	case "rejected", "cannot_implement":
		code = r.pal.bad
	case "uncertain", "on_hold":
		code = r.pal.accent
	}
	return r.c(code, "["+r.tr.T(status)+"]")
}

func (r *TextRenderer) voteLine(card Card) string {
	bar := card.Bar()
	counts := fmt.Sprintf("▲ %d  ▼ %d", bar.Upvotes, bar.Downvotes)
	if card.ButtonsDisabled() {
		counts = r.c(r.pal.muted, counts)
	}
	if bar.Empty {
		return counts + "   " + r.c(r.pal.muted, r.tr.T("no_votes_yet"))
	}
	filled := int(math.Round(bar.Support / 100 * barWidth))
	meter := r.c(r.pal.good, strings.Repeat("█", filled)) + r.c(r.pal.bad, strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s   %s  %s: %.1f%%  %s: %.1f%%",
		counts, meter, r.tr.T("support"), bar.Support, r.tr.T("oppose"), bar.Oppose)
}
