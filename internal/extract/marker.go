package extract

import (
	"strings"
	"unicode"

	"github.com/quantmind-br/snipdocs-go/internal/domain"
)

// Dialect is one start/end marker convention.
type Dialect struct {
	Name  string
	Start string
	End   string
	// OpenEnded dialects also match a start token that ends the line.
	// A bare "#region" is legal C# and must stay a plain line.
	OpenEnded bool
}

// Supported marker dialects. Tokens are lower case; lines are folded before matching.
var (
	StartCode = Dialect{Name: "startcode", Start: "startcode", End: "endcode", OpenEnded: true}
	Region    = Dialect{Name: "region", Start: "#region", End: "#endregion"}
)

var dialects = []Dialect{StartCode, Region}

// commentClosers are stripped from a start line so that markers glued to the
// end of a comment ("<!--startcode Key-->", "/*startcode Key 5*/") still parse.
var commentClosers = strings.NewReplacer("-->", "", "*/", "")

// Marker is a recognized start marker.
type Marker struct {
	Dialect Dialect
	// Key in its original case.
	Key string
	// Version is the raw version token, empty when the marker has none.
	Version string
}

// IsEnd reports whether a normalized line closes a snippet opened with d.
func (d Dialect) IsEnd(normalized string) bool {
	return strings.Contains(foldASCII(normalized), d.End)
}

// NormalizeLine trims the line and collapses interior whitespace runs into a
// single space. Case is preserved.
func NormalizeLine(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// ScanStart checks a normalized line for a start marker of any dialect.
// It returns false when the line holds no marker. A recognized marker without
// a usable key is a hard failure wrapping domain.ErrNoKey or domain.ErrKeySymbols.
// For the startcode dialect a token ending the line counts as followed by a
// space, so "<!--startcode-->" fails with domain.ErrNoKey while a bare
// "#region" is not a marker.
func ScanStart(normalized string) (Marker, bool, error) {
	line := strings.TrimSpace(commentClosers.Replace(normalized))
	folded := foldASCII(line)

	for _, d := range dialects {
		haystack := folded
		if d.OpenEnded {
			haystack += " "
		}
		idx := strings.Index(haystack, d.Start+" ")
		if idx == -1 {
			continue
		}
		key, ver, err := splitKeyVersion(line[min(idx+len(d.Start)+1, len(line)):])
		if err != nil {
			return Marker{}, false, err
		}
		return Marker{Dialect: d, Key: key, Version: ver}, true, nil
	}
	return Marker{}, false, nil
}

func splitKeyVersion(rest string) (string, string, error) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", "", domain.ErrNoKey
	}

	raw := fields[0]
	key := strings.TrimFunc(raw, isSymbol)
	if key == "" {
		return "", "", domain.ErrNoKey
	}
	if key != raw {
		return "", "", domain.ErrKeySymbols
	}

	var ver string
	if len(fields) > 1 {
		ver = fields[1]
	}
	return key, ver, nil
}

func isSymbol(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// foldASCII lower-cases ASCII letters only, keeping byte offsets aligned with
// the input so matches can be sliced from the original-case line.
func foldASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; 'A' <= c && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if 'A' <= b[j] && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}
