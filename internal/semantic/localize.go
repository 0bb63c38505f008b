package semantic

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// The warehouse carries bilingual labels: Spanish is the primary language
// of the descriptive columns, English the fallback. The requested language
// never changes the fallback direction; it only selects the wording of the
// "not recorded" sentinel.
var supportedLanguages = []language.Tag{
	language.Spanish,
	language.English,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// notRecorded holds the language-tagged sentinel substituted for free-text
// attributes absent in both source systems, so downstream retrieval never
// indexes an empty value as meaningful signal.
var notRecorded = map[language.Tag]string{
	language.Spanish: "No registrado",
	language.English: "Not recorded",
}

// Localizer resolves bilingual and nullable descriptive values for one
// requested language.
type Localizer struct {
	requested language.Tag
}

// NewLocalizer builds a localizer for a BCP-47 language code ("es", "en",
// or any tag that matches one of them, e.g. "es-AR").
func NewLocalizer(lang string) (*Localizer, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("invalid language %q: %w", lang, err)
	}
	_, idx, conf := languageMatcher.Match(tag)
	if conf == language.No {
		return nil, fmt.Errorf("unsupported language %q (supported: es, en)", lang)
	}
	return &Localizer{requested: supportedLanguages[idx]}, nil
}

// Language returns the matched request language.
func (l *Localizer) Language() language.Tag {
	return l.requested
}

// Sentinel returns the "not recorded" literal in the request language.
func (l *Localizer) Sentinel() string {
	return notRecorded[l.requested]
}

// Label resolves a bilingual pair: the primary value when present, else the
// secondary value. The requested language does not flip the direction; a
// present primary always wins.
func (l *Localizer) Label(primary, secondary *string) *string {
	return FirstNonNull(primary, secondary)
}

// LabelOrSentinel resolves like Label but substitutes the language-tagged
// sentinel when both values are absent.
func (l *Localizer) LabelOrSentinel(primary, secondary *string) string {
	if v := FirstNonNull(primary, secondary); v != nil {
		return *v
	}
	return l.Sentinel()
}

// FallbackExpr renders the SQL fallback chain for a bilingual column pair.
func (l *Localizer) FallbackExpr(primaryCol, secondaryCol string) string {
	return fmt.Sprintf("COALESCE(%s, %s)", primaryCol, secondaryCol)
}

// FallbackOrSentinelExpr renders the SQL fallback chain ending in the
// sentinel literal, for attributes that may be absent in both systems.
func (l *Localizer) FallbackOrSentinelExpr(cols ...string) string {
	parts := make([]string, 0, len(cols)+1)
	parts = append(parts, cols...)
	parts = append(parts, sqlStringLiteral(l.Sentinel()))
	return fmt.Sprintf("COALESCE(%s)", strings.Join(parts, ", "))
}

// FirstNonNull is the ordered-precedence resolver: it returns the first
// non-nil candidate, or nil when every candidate is absent.
func FirstNonNull[T any](candidates ...*T) *T {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

func sqlStringLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
