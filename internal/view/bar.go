package view

import "math"

// VoteBar is the support/oppose split shown under a policy.
type VoteBar struct {
	Upvotes   int
	Downvotes int
	Total     int
	// Support and Oppose are percentages rounded to one decimal. They are
	// zero when Empty is set.
	Support float64
	Oppose  float64
	// Empty means nobody voted yet; renderers show a placeholder instead
	// of a bar.
	Empty bool
}

// Bar computes the split for the given counts.
func Bar(upvotes, downvotes int) VoteBar {
	b := VoteBar{Upvotes: upvotes, Downvotes: downvotes, Total: upvotes + downvotes}
	if b.Total <= 0 {
		b.Empty = true
		return b
	}
	b.Support = round1(float64(upvotes) / float64(b.Total) * 100)
	b.Oppose = round1(100 - b.Support)
	return b
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
