package markdown

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/quantmind-br/snipdocs-go/internal/domain"
)

// directivePattern matches "<!-- import key -->" on its own line
var directivePattern = regexp.MustCompile(`(?i)^\s*<!--\s*import\s+(\S+?)\s*-->\s*$`)

// ParseDirective recognizes an import directive in text, found at the given
// 1-based line. The key is lower-cased.
func ParseDirective(text string, line int) (domain.ImportDirective, bool) {
	m := directivePattern.FindStringSubmatch(text)
	if m == nil {
		return domain.ImportDirective{}, false
	}
	return domain.ImportDirective{Key: strings.ToLower(m[1]), Line: line}, true
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}
