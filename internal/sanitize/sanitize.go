package sanitize

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Limits are in characters, not bytes.
const (
	MaxCommentLen  = 500
	MaxUsernameLen = 50
)

// Strict policy: no tags survive, script bodies are dropped entirely.
var policy = bluemonday.StrictPolicy()

var (
	schemeRe = regexp.MustCompile(`(?i)https?://`)
	wwwRe    = regexp.MustCompile(`(?i)(^|\s)www\.`)
	pathRe   = regexp.MustCompile(`(?i)[a-z0-9-]+\.[a-z]{2,}/\S`)
	domainRe = regexp.MustCompile(`(?i)([a-z0-9-]+)\.([a-z]{2,})(\s|$|[^a-z0-9/])`)
)

// TLDs we treat a bare "name.suffix" as a link for. Deliberately small:
// matching every registered TLD would flag ordinary sentences ("see ch. 2").
var knownTLDs = map[string]bool{
	"com": true, "net": true, "org": true, "edu": true, "gov": true,
	"sg": true, "co": true, "io": true, "me": true, "info": true, "biz": true,
}

// CleanText strips all markup (including script element content), undoes
// the entity escaping the sanitizer applies to plain text, and trims
// surrounding whitespace. Runs until the output is stable, so entity-encoded
// markup cannot smuggle a tag past a single pass and the result is
// idempotent.
func CleanText(s string) string {
	for i := 0; i < 8; i++ {
		next := strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
		if next == s {
			return next
		}
		s = next
	}
	return s
}

// ContainsURL reports whether text carries anything link-shaped: an explicit
// scheme, a www. prefix, a domain followed by a path, or a bare domain with
// a recognised TLD.
func ContainsURL(text string) bool {
	if schemeRe.MatchString(text) || wwwRe.MatchString(text) || pathRe.MatchString(text) {
		return true
	}
	for _, m := range domainRe.FindAllStringSubmatch(text, -1) {
		if knownTLDs[strings.ToLower(m[2])] {
			return true
		}
	}
	return false
}

// ValidateComment accumulates every violation so the caller can show all
// problems at once, not just the first.
func ValidateComment(text, username string) []string {
	var reasons []string
	if text == "" {
		reasons = append(reasons, "comment cannot be empty")
	}
	if utf8.RuneCountInString(text) > MaxCommentLen {
		reasons = append(reasons, fmt.Sprintf("comment cannot exceed %d characters", MaxCommentLen))
	}
	if ContainsURL(text) {
		reasons = append(reasons, "comment cannot contain links")
	}
	if username == "" {
		reasons = append(reasons, "name cannot be empty")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLen {
		reasons = append(reasons, fmt.Sprintf("name cannot exceed %d characters", MaxUsernameLen))
	}
	return reasons
}
