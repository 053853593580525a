package extract

// sourceLine is one input line with its 1-based number.
type sourceLine struct {
	number int
	raw    string
}

// candidate is a closed snippet body awaiting post-processing.
type candidate struct {
	marker    Marker
	startLine int
	endLine   int
	lines     []string
}

// state is a node of the per-file scan machine. next consumes one line and
// returns the successor state plus a candidate when a snippet was closed.
type state interface {
	next(ln sourceLine) (state, *candidate, error)
}

// searching waits for a start marker.
type searching struct{}

func (searching) next(ln sourceLine) (state, *candidate, error) {
	m, ok, err := ScanStart(NormalizeLine(ln.raw))
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return searching{}, nil, nil
	}
	return inSnippet{marker: m, startLine: ln.number + 1}, nil, nil
}

// inSnippet accumulates raw lines until the dialect's end marker.
type inSnippet struct {
	marker    Marker
	startLine int
	lines     []string
}

func (s inSnippet) next(ln sourceLine) (state, *candidate, error) {
	if s.marker.Dialect.IsEnd(NormalizeLine(ln.raw)) {
		return searching{}, &candidate{
			marker:    s.marker,
			startLine: s.startLine,
			endLine:   ln.number,
			lines:     s.lines,
		}, nil
	}
	s.lines = append(s.lines, ln.raw)
	return s, nil, nil
}
