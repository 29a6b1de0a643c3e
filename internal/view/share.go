package view

import (
	"net/url"
	"strings"
)

// ShareLinks are the ways to share a policy.
type ShareLinks struct {
	URL      string
	Twitter  string
	Facebook string
	LinkedIn string
}

// Share builds share links for the policy page on the server at baseURL.
func Share(baseURL, policyID, title string) ShareLinks {
	link := strings.TrimRight(baseURL, "/") + "/policy/" + url.PathEscape(policyID)
	u := url.QueryEscape(link)
	return ShareLinks{
		URL:      link,
		Twitter:  "https://twitter.com/intent/tweet?text=" + url.QueryEscape(title) + "&url=" + u,
		Facebook: "https://www.facebook.com/sharer/sharer.php?u=" + u,
		LinkedIn: "https://www.linkedin.com/sharing/share-offsite/?url=" + u,
	}
}
