// Package validate applies fixed per-field grammars to untrusted strings.
// Rejection is a normal outcome, not an error: every user-supplied field
// must pass its grammar before any side effect happens.
package validate

import "regexp"

// Field selects the grammar applied by Parse.
type Field int

// Supported field kinds. All grammars are anchored full matches,
// case-sensitive and locale-independent.
const (
	Username Field = iota
	GalleryName
	ImageTitle
	Password
	Label
	Email
	SessionToken
)

var patterns = map[Field]*regexp.Regexp{
	Username:    regexp.MustCompile(`^[a-zA-Z0-9_]{4,16}$`),
	GalleryName: regexp.MustCompile(`^[a-zA-Z0-9_]{1,128}$`),
	ImageTitle:  regexp.MustCompile(`^[a-zA-Z0-9_\-.#]{1,128}\.jpg$`),
	Password:    regexp.MustCompile(`^.{8,64}$`),
	Label:       regexp.MustCompile(`^[a-zA-Z0-9_@]{4,64}$`),
	Email:       regexp.MustCompile(`^[a-z0-9_+.]{1,32}@[a-z0-9\-.]{1,32}\.[a-z]{2,6}$`),
	// Session tokens are exactly 255 alphanumeric characters.
	SessionToken: regexp.MustCompile(`^[a-zA-Z0-9]{255}$`),
}

// Parse returns (raw, true) if raw satisfies the grammar for f,
// and ("", false) otherwise.
func Parse(f Field, raw string) (string, bool) {
	re, ok := patterns[f]
	if !ok || !re.MatchString(raw) {
		return "", false
	}
	return raw, true
}

// OK reports whether raw satisfies the grammar for f.
func OK(f Field, raw string) bool {
	_, ok := Parse(f, raw)
	return ok
}
