package rawcodec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// LineType classifies a significant input line.
type LineType int

const (
	// LineData belongs to the block currently being read.
	LineData LineType = iota
	// LineKeyword starts a new block.
	LineKeyword
	// LineEnd is the explicit END terminator.
	LineEnd
	// LineEOF marks the end of input.
	LineEOF
)

// SkipList is the list name readers switch to after an unknown option so the data
// lines that follow it are dropped silently.
const SkipList = "\x00skip"

// Warning records a recovered anomaly in the input.
type Warning struct {
	Line    int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

// Parser reads the raw format one significant line at a time. Blank lines and lines
// starting with '#' are never reported.
type Parser struct {
	scanner  *bufio.Scanner
	line     string
	fields   []string
	lineNo   int
	typ      LineType
	keyword  Keyword
	err      error
	warnings []Warning
	onWarn   func(Warning)
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithWarningHook registers fn to receive every warning as it is recorded.
func WithWarningHook(fn func(Warning)) ParserOption {
	return func(p *Parser) { p.onWarn = fn }
}

// NewParser returns a parser positioned before the first line of r.
func NewParser(r io.Reader, opts ...ParserOption) *Parser {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	p := &Parser{scanner: sc, typ: LineData}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckLine advances to the next significant line and classifies it.
func (p *Parser) CheckLine() LineType {
	for p.scanner.Scan() {
		p.lineNo++
		line := strings.TrimSpace(p.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p.line = line
		p.fields = strings.Fields(line)
		kw, ok := lookupKeyword(p.fields[0])
		switch {
		case ok && kw == KeywordEnd:
			p.typ = LineEnd
		case ok:
			p.typ = LineKeyword
		default:
			p.typ = LineData
		}
		p.keyword = kw
		return p.typ
	}
	if err := p.scanner.Err(); err != nil && p.err == nil {
		p.err = err
	}
	p.line, p.fields = "", nil
	p.typ, p.keyword = LineEOF, KeywordEOF
	return LineEOF
}

// NextKeyword reports the keyword of the current line. Lines that do not start a
// readable block report KeywordNone.
func (p *Parser) NextKeyword() Keyword {
	switch p.typ {
	case LineKeyword:
		return p.keyword
	case LineEnd:
		return KeywordEnd
	case LineEOF:
		return KeywordEOF
	default:
		return KeywordNone
	}
}

// NextData advances within the current block. It returns false, leaving the
// terminating keyword, END or EOF line current, when the block is exhausted.
func (p *Parser) NextData() bool {
	if p.typ == LineEOF {
		return false
	}
	return p.CheckLine() == LineData
}

// Header parses the current keyword line "<KEYWORD> [n[-m]] [description]".
// A missing or malformed id defaults to 1.
func (p *Parser) Header() (nUser, nUserEnd int, description string) {
	nUser, nUserEnd = 1, 1
	if len(p.fields) < 2 {
		return nUser, nUserEnd, ""
	}
	if n, m, ok := parseRange(p.fields[1]); ok {
		return n, m, strings.Join(p.fields[2:], " ")
	}
	return nUser, nUserEnd, strings.Join(p.fields[1:], " ")
}

func parseRange(tok string) (int, int, bool) {
	if n, err := strconv.Atoi(tok); err == nil {
		return n, n, true
	}
	idx := strings.Index(tok[1:], "-")
	if idx < 0 {
		return 0, 0, false
	}
	idx++
	n, err := strconv.Atoi(tok[:idx])
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(tok[idx+1:])
	if err != nil {
		return 0, 0, false
	}
	return n, m, true
}

// Option returns the lower-cased option name when the current line is "-name ...".
// Lines such as "-1.5" are data, not options.
func (p *Parser) Option() (string, bool) {
	if p.typ != LineData || len(p.fields) == 0 {
		return "", false
	}
	tok := p.fields[0]
	if len(tok) < 2 || tok[0] != '-' || !unicode.IsLetter(rune(tok[1])) {
		return "", false
	}
	return strings.ToLower(tok[1:]), true
}

// Line returns the trimmed text of the current line.
func (p *Parser) Line() string { return p.line }

// LineNumber returns the 1-based number of the current line.
func (p *Parser) LineNumber() int { return p.lineNo }

// Fields returns the whitespace separated tokens of the current line.
func (p *Parser) Fields() []string { return p.fields }

// Arg returns field i or "" when absent.
func (p *Parser) Arg(i int) string {
	if i < 0 || i >= len(p.fields) {
		return ""
	}
	return p.fields[i]
}

// Text joins the fields from index i onward.
func (p *Parser) Text(from int) string {
	if from >= len(p.fields) {
		return ""
	}
	return strings.Join(p.fields[from:], " ")
}

// Float parses field i, recording a warning when it is missing or malformed.
func (p *Parser) Float(i int) (float64, bool) {
	tok := p.Arg(i)
	if tok == "" {
		p.Warnf("expected a number after %q", p.Arg(0))
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		p.Warnf("malformed number %q", tok)
		return 0, false
	}
	return v, true
}

// Int parses field i as an integer.
func (p *Parser) Int(i int) (int, bool) {
	tok := p.Arg(i)
	v, err := strconv.Atoi(tok)
	if err != nil {
		p.Warnf("malformed integer %q", tok)
		return 0, false
	}
	return v, true
}

// Bool parses field i; 1/0, true/false and t/f are accepted.
func (p *Parser) Bool(i int) (bool, bool) {
	switch strings.ToLower(p.Arg(i)) {
	case "1", "true", "t":
		return true, true
	case "0", "false", "f":
		return false, true
	}
	p.Warnf("malformed boolean %q", p.Arg(i))
	return false, false
}

// SetFloat stores field i into dst when it parses.
func (p *Parser) SetFloat(i int, dst *float64) {
	if v, ok := p.Float(i); ok {
		*dst = v
	}
}

// SetInt stores field i into dst when it parses.
func (p *Parser) SetInt(i int, dst *int) {
	if v, ok := p.Int(i); ok {
		*dst = v
	}
}

// SetBool stores field i into dst when it parses.
func (p *Parser) SetBool(i int, dst *bool) {
	if v, ok := p.Bool(i); ok {
		*dst = v
	}
}

// Floats parses every field from index i onward, skipping malformed entries.
func (p *Parser) Floats(from int) []float64 {
	out := make([]float64, 0, len(p.fields))
	for i := from; i < len(p.fields); i++ {
		if v, ok := p.Float(i); ok {
			out = append(out, v)
		}
	}
	return out
}

// Pair reads a "name value" data line into dst.
func (p *Parser) Pair(dst map[string]float64) {
	if len(p.fields) < 2 {
		p.Warnf("expected name and value, got %q", p.line)
		return
	}
	if v, ok := p.Float(1); ok {
		dst[p.fields[0]] = v
	}
}

// IntPair reads an "id value" data line into dst.
func (p *Parser) IntPair(dst map[int]float64) {
	if len(p.fields) < 2 {
		p.Warnf("expected id and value, got %q", p.line)
		return
	}
	id, ok := p.Int(0)
	if !ok {
		return
	}
	if v, ok := p.Float(1); ok {
		dst[id] = v
	}
}

// UnknownOption records an unrecognized option inside a block.
func (p *Parser) UnknownOption(block Keyword, option string) {
	p.Warnf("unknown option -%s in %s block, skipped", option, block)
}

// UnexpectedData records a data line that belongs to no list option.
func (p *Parser) UnexpectedData(block Keyword) {
	p.Warnf("unexpected data %q in %s block, skipped", p.line, block)
}

// Warnf records a warning against the current line.
func (p *Parser) Warnf(format string, args ...any) {
	w := Warning{Line: p.lineNo, Message: fmt.Sprintf(format, args...)}
	p.warnings = append(p.warnings, w)
	if p.onWarn != nil {
		p.onWarn(w)
	}
}

// Warnings returns a copy of every warning recorded so far.
func (p *Parser) Warnings() []Warning {
	out := make([]Warning, len(p.warnings))
	copy(out, p.warnings)
	return out
}

// Err returns the first read error encountered, if any.
func (p *Parser) Err() error { return p.err }
