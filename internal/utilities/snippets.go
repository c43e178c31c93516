package utilities

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"module/blogwithusers/internal/models"
)

// ImportedPostBody links to the original article instead of copying its text.
// Only http and https URLs become links; anything else is shown as text.
func ImportedPostBody(articleURL string, source string) string {
	if source == "" {
		source = "the original publisher"
	}
	intro := fmt.Sprintf("<p>This story was first published by %s.</p>", html.EscapeString(source))
	if !isWebURL(articleURL) {
		return intro + fmt.Sprintf("\n<p>Original article: %s</p>", html.EscapeString(articleURL))
	}
	return intro + fmt.Sprintf(`
<p><a href="%s" target="_blank" rel="noopener noreferrer">Read the full article</a></p>`,
		html.EscapeString(articleURL))
}

func isWebURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}

func PostDate(now time.Time) string {
	return now.Format(models.PostDateLayout)
}
