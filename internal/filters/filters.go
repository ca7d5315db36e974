// package filters classifies release titles
package filters

import (
	"regexp"
	"strings"
)

// Category is a release title classification.
type Category string

const (
	ReRelease     Category = "re_release"
	LiveRecording Category = "live_recording"
	Soundtrack    Category = "soundtrack"
	Remix         Category = "remix"
)

// Categories is the set of classifications matched for a single title.
type Categories map[Category]bool

// Has reports whether the set contains the given category.
func (c Categories) Has(cat Category) bool { return c[cat] }

var (
	bracketed  = regexp.MustCompile(`[()\[\]]`)
	dashes     = regexp.MustCompile(`\s*-\s*`)
	colons     = regexp.MustCompile(`\s*:\s*`)
	whitespace = regexp.MustCompile(`\s+`)
)

// reReleasePatterns match reissues of previously released material.
var reReleasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bdeluxe\b`),
	regexp.MustCompile(`\bremaster(ed)?\b`),
	regexp.MustCompile(`\banniversary\b`),
	regexp.MustCompile(`\b\d{1,2}\s*year\s*(anniversary|edition)\b`),
	regexp.MustCompile(`\bspecial\s*edition\b`),
	regexp.MustCompile(`\bexpanded\s*edition\b`),
	regexp.MustCompile(`\bexpanded\b`),
	regexp.MustCompile(`\breissue\b`),
	regexp.MustCompile(`\bbonus\b`),
	regexp.MustCompile(`\bedition\b`),
}

// liveRecordingPatterns match concert recordings. The phrase forms come
// first so titles like "Live at Wembley" match even though a bare "Alive"
// never will (word boundaries, not substrings).
var liveRecordingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\blive at\b`),
	regexp.MustCompile(`\bin concert\b`),
	regexp.MustCompile(`\blive recording\b`),
	regexp.MustCompile(`\brecorded live\b`),
	regexp.MustCompile(`\blive version\b`),
	regexp.MustCompile(`\blive performance\b`),
	regexp.MustCompile(`\blive from\b`),
	regexp.MustCompile(`\blive in\b`),
	regexp.MustCompile(`\blive on\b`),
	regexp.MustCompile(`\bunplugged\b`),
	regexp.MustCompile(`\blive\b`),
}

var soundtrackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bsoundtrack\b`),
	regexp.MustCompile(`\bost\b`),
}

var remixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bremix\b`),
	regexp.MustCompile(`\brework\b`),
	regexp.MustCompile(`\bedit\b`),
	regexp.MustCompile(`\bversion\b`),
	regexp.MustCompile(`\bremake\b`),
	regexp.MustCompile(`\bremixed\b`),
}

var categoryPatterns = map[Category][]*regexp.Regexp{
	ReRelease:     reReleasePatterns,
	LiveRecording: liveRecordingPatterns,
	Soundtrack:    soundtrackPatterns,
	Remix:         remixPatterns,
}

// Normalize lowercases a release title, strips parentheses and brackets,
// collapses dash and colon punctuation to single spaces, collapses
// whitespace, and trims. Normalize is idempotent.
func Normalize(title string) string {
	normalized := strings.ToLower(title)
	normalized = bracketed.ReplaceAllString(normalized, "")
	normalized = dashes.ReplaceAllString(normalized, " ")
	normalized = colons.ReplaceAllString(normalized, " ")
	normalized = whitespace.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// Classify matches a normalized title against every category's pattern table.
//
// Categories are evaluated independently; a title may land in zero, one, or
// several. Callers are expected to pass the output of [Normalize].
func Classify(normalizedTitle string) Categories {
	categories := Categories{}
	for category, patterns := range categoryPatterns {
		for _, pattern := range patterns {
			if pattern.MatchString(normalizedTitle) {
				categories[category] = true
				break
			}
		}
	}
	return categories
}

// IsReRelease reports whether a raw title looks like a reissue.
func IsReRelease(title string) bool {
	return Classify(Normalize(title)).Has(ReRelease)
}

// IsLiveRecording reports whether a raw title looks like a concert recording.
func IsLiveRecording(title string) bool {
	return Classify(Normalize(title)).Has(LiveRecording)
}

// IsSoundtrack reports whether a raw title looks like a soundtrack.
func IsSoundtrack(title string) bool {
	return Classify(Normalize(title)).Has(Soundtrack)
}

// IsRemix reports whether a raw title looks like a remix.
func IsRemix(title string) bool {
	return Classify(Normalize(title)).Has(Remix)
}
