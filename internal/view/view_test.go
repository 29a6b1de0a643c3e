package view

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ziadkadry99/policyvote/internal/api"
	"github.com/ziadkadry99/policyvote/internal/prefs"
)

func TestBar(t *testing.T) {
	tests := []struct {
		up, down        int
		support, oppose float64
		empty           bool
	}{
		{7, 3, 70.0, 30.0, false},
		{0, 0, 0, 0, true},
		{5, 1, 83.3, 16.7, false},
		{1, 2, 33.3, 66.7, false},
		{0, 4, 0, 100, false},
		{4, 0, 100, 0, false},
	}
	for _, tt := range tests {
		b := Bar(tt.up, tt.down)
		if b.Empty != tt.empty {
			t.Errorf("Bar(%d,%d).Empty = %v, want %v", tt.up, tt.down, b.Empty, tt.empty)
		}
		if b.Support != tt.support || b.Oppose != tt.oppose {
			t.Errorf("Bar(%d,%d) = %.1f/%.1f, want %.1f/%.1f", tt.up, tt.down, b.Support, b.Oppose, tt.support, tt.oppose)
		}
		if b.Total != tt.up+tt.down {
			t.Errorf("Bar(%d,%d).Total = %d", tt.up, tt.down, b.Total)
		}
	}
}

func policies() []api.Policy {
	return []api.Policy{
		{ID: "p1", Title: "Longer breaks", Status: api.StatusApproved, Upvotes: 7, Downvotes: 3},
		{ID: "p2", Title: "Vending machine", Status: api.StatusPending},
		{ID: "p3", Title: "No homework Fridays", Status: api.StatusPending, Upvotes: 5, Downvotes: 1},
	}
}

func TestReconcileUsesVoteCache(t *testing.T) {
	r := NewRegistry()
	cache := NewVoteCache()
	cache.Set("p1", true)
	ps := policies()
	ps[2].CurrentUserVote = true
	r.Reconcile(ps, cache)

	want := map[string]State{"p1": StateVoted, "p2": StateUnvoted, "p3": StateVoted}
	for id, state := range want {
		c, ok := r.Card(id)
		if !ok {
			t.Fatalf("card %s missing", id)
		}
		if c.State != state {
			t.Errorf("card %s state = %v, want %v", id, c.State, state)
		}
	}
	cards := r.Cards()
	if len(cards) != 3 || cards[0].Policy.ID != "p1" || cards[2].Policy.ID != "p3" {
		t.Errorf("Cards order = %+v", cards)
	}
}

func TestReconcileReplacesWholesale(t *testing.T) {
	r := NewRegistry()
	r.Reconcile(policies(), nil)
	r.Reconcile([]api.Policy{{ID: "p9", Title: "New"}, {ID: "p9", Title: "Dup"}}, nil)
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}
	if _, ok := r.Card("p1"); ok {
		t.Error("p1 survived a replacement fetch")
	}
	if c, _ := r.Card("p9"); c.Policy.Title != "New" {
		t.Errorf("duplicate id replaced the first card: %q", c.Policy.Title)
	}
}

func TestVoteLifecycle(t *testing.T) {
	r := NewRegistry()
	r.Reconcile(policies(), nil)

	if err := r.BeginVote("p2", api.VoteUp); err != nil {
		t.Fatalf("BeginVote: %v", err)
	}
	c, _ := r.Card("p2")
	if c.State != StateVoteInFlight || !c.ButtonsDisabled() || c.Pending != api.VoteUp {
		t.Fatalf("after BeginVote = %+v", c)
	}
	if err := r.BeginVote("p2", api.VoteDown); !errors.Is(err, ErrVoteLocked) {
		t.Errorf("second BeginVote err = %v, want ErrVoteLocked", err)
	}
	if err := r.CompleteVote("p2"); err != nil {
		t.Fatalf("CompleteVote: %v", err)
	}
	c, _ = r.Card("p2")
	if c.State != StateVoted || !c.ButtonsDisabled() {
		t.Errorf("after CompleteVote = %+v", c)
	}
	if err := r.CompleteVote("p2"); !errors.Is(err, ErrNoVoteInFlight) {
		t.Errorf("CompleteVote twice err = %v", err)
	}
}

func TestFailedVoteReenablesButtons(t *testing.T) {
	r := NewRegistry()
	r.Reconcile(policies(), nil)

	if err := r.BeginVote("p1", api.VoteDown); err != nil {
		t.Fatal(err)
	}
	if err := r.FailVote("p1", "You have already voted on this policy"); err != nil {
		t.Fatal(err)
	}
	c, _ := r.Card("p1")
	if c.ButtonsDisabled() {
		t.Error("buttons still disabled after a failed vote")
	}
	if c.Policy.Upvotes != 7 || c.Policy.Downvotes != 3 {
		t.Errorf("counts changed on failure: %d/%d", c.Policy.Upvotes, c.Policy.Downvotes)
	}
	if c.LastError != "You have already voted on this policy" {
		t.Errorf("LastError = %q", c.LastError)
	}
	if err := r.BeginVote("p1", api.VoteUp); err != nil {
		t.Errorf("retry after failure: %v", err)
	}
}

func TestUnknownPolicy(t *testing.T) {
	r := NewRegistry()
	r.Reconcile(policies(), nil)
	if err := r.BeginVote("zz", api.VoteUp); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("BeginVote unknown err = %v", err)
	}
	if r.ApplyVotes("zz", 1, 1) {
		t.Error("ApplyVotes on unknown id reported a change")
	}
	if r.ApplyStatus("zz", api.StatusApproved) {
		t.Error("ApplyStatus on unknown id reported a change")
	}
}

func TestApplyVotesTouchesOnlyTarget(t *testing.T) {
	r := NewRegistry()
	cache := NewVoteCache()
	cache.Set("p1", true)
	r.Reconcile(policies(), cache)

	var seen []Card
	r.SetObserver(func(c Card) { seen = append(seen, c) })

	if !r.ApplyVotes("p1", 8, 3) {
		t.Fatal("ApplyVotes returned false")
	}
	c, _ := r.Card("p1")
	if c.Policy.Upvotes != 8 || c.State != StateVoted {
		t.Errorf("p1 = %+v", c)
	}
	other, _ := r.Card("p3")
	if other.Policy.Upvotes != 5 || other.Policy.Downvotes != 1 {
		t.Errorf("p3 changed: %+v", other.Policy)
	}
	unvoted, _ := r.Card("p2")
	r.ApplyVotes("p2", 1, 0)
	after, _ := r.Card("p2")
	if after.ButtonsDisabled() != unvoted.ButtonsDisabled() {
		t.Error("ApplyVotes changed the disabled state")
	}
	if len(seen) != 2 || seen[0].Policy.ID != "p1" || seen[1].Policy.ID != "p2" {
		t.Errorf("observer saw %d cards", len(seen))
	}
}

func TestApplyStatus(t *testing.T) {
	r := NewRegistry()
	r.Reconcile(policies(), nil)
	if !r.ApplyStatus("p2", api.StatusInProgress) {
		t.Fatal("ApplyStatus returned false")
	}
	c, _ := r.Card("p2")
	if c.Policy.Status != api.StatusInProgress {
		t.Errorf("status = %s", c.Policy.Status)
	}
}

func TestReconcileKeepsInFlightVote(t *testing.T) {
	r := NewRegistry()
	r.Reconcile(policies(), nil)
	if err := r.BeginVote("p2", api.VoteDown); err != nil {
		t.Fatal(err)
	}
	r.Reconcile(policies(), nil)
	c, _ := r.Card("p2")
	if c.State != StateVoteInFlight || c.Pending != api.VoteDown {
		t.Errorf("in-flight vote lost on refetch: %+v", c)
	}
	if err := r.CompleteVote("p2"); err != nil {
		t.Errorf("CompleteVote after refetch: %v", err)
	}
}

func TestVoteCacheConcurrent(t *testing.T) {
	cache := NewVoteCache()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cache.Set(string(rune('a'+i%26)), i%2 == 0)
			cache.Voted("a")
		}(i)
	}
	wg.Wait()
	var nilCache *VoteCache
	if nilCache.Voted("a") {
		t.Error("nil cache reported a vote")
	}
}

func TestTextRenderer(t *testing.T) {
	r := NewRegistry()
	cache := NewVoteCache()
	cache.Set("p1", true)
	ps := policies()
	ps[0].AdminComment = "Starting next term"
	ps[1].Title = "[red]not a color"
	r.Reconcile(ps, cache)

	var buf bytes.Buffer
	tr := prefs.Translator{Lang: prefs.LangEnglish}
	if err := NewTextRenderer(&buf, prefs.ThemeDark, tr, true).RenderCards(r.Cards()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Support: 70.0%", "Oppose: 30.0%",
		"Support: 83.3%", "Oppose: 16.7%",
		"No votes yet",
		"Starting next term",
		"[red]not a color",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, tr.T("already_voted")) != 1 {
		t.Errorf("expected one already-voted note:\n%s", out)
	}
}

func TestTextRendererEmpty(t *testing.T) {
	var buf bytes.Buffer
	tr := prefs.Translator{Lang: prefs.LangRomanian}
	if err := NewTextRenderer(&buf, prefs.ThemeLight, tr, true).RenderCards(nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), tr.T("no_policies")) {
		t.Errorf("empty output = %q", buf.String())
	}
}

func TestHTMLRenderer(t *testing.T) {
	r := NewRegistry()
	ps := policies()
	ps[0].Description = "Make **lunch** longer <script>alert(1)</script>"
	r.Reconcile(ps, nil)
	if err := r.BeginVote("p3", api.VoteUp); err != nil {
		t.Fatal(err)
	}

	h, err := NewHTMLRenderer(prefs.ThemeLight, prefs.Translator{Lang: prefs.LangEnglish})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := h.Render(&buf, r.Cards()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`data-policy-id="p1"`,
		`data-role="upvote-count">7<`,
		`style="width: 70.0%"`,
		"<strong>lunch</strong>",
		"No votes yet",
		`data-theme="light"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q", want)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Error("raw html in description was not escaped")
	}
	if strings.Count(out, "disabled") != 2 {
		t.Errorf("want both buttons of the in-flight card disabled, got %d", strings.Count(out, "disabled"))
	}
}

func TestHTMLRendererHighlightsCode(t *testing.T) {
	r := NewRegistry()
	ps := policies()[:1]
	ps[0].Description = "Proposed bell schedule:\n\n```go\nfunc main() {}\n```\n"
	r.Reconcile(ps, nil)

	h, err := NewHTMLRenderer(prefs.ThemeDark, prefs.Translator{Lang: prefs.LangEnglish})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := h.Render(&buf, r.Cards()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "<pre") || !strings.Contains(out, `<span style="`) {
		t.Errorf("fenced code was not highlighted:\n%s", out)
	}
}

func TestShare(t *testing.T) {
	links := Share("https://vote.example.org/", "p 1", "Longer breaks")
	if links.URL != "https://vote.example.org/policy/p%201" {
		t.Errorf("URL = %q", links.URL)
	}
	if !strings.HasPrefix(links.Twitter, "https://twitter.com/intent/tweet?text=Longer+breaks&url=https%3A%2F%2Fvote.example.org") {
		t.Errorf("Twitter = %q", links.Twitter)
	}
	if !strings.Contains(links.Facebook, "u=https%3A%2F%2F") || !strings.Contains(links.LinkedIn, "url=https%3A%2F%2F") {
		t.Errorf("Facebook/LinkedIn = %q %q", links.Facebook, links.LinkedIn)
	}
}
