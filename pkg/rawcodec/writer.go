package rawcodec

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ErrUnsafeToken is returned by Writer.Err when a value would read back as something
// else: a line break anywhere, or a list name that is empty, contains whitespace,
// starts like an option or comment, or is a keyword.
var ErrUnsafeToken = errors.New("unsafe raw token")

// Precision is the number of significant digits written for floating values:
// one less than the digits a float64 always represents exactly.
const Precision = 14

const indentUnit = "  "

// FormatFloat renders v with Precision significant digits.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', Precision, 64)
}

// Writer emits raw blocks. The first write error is sticky and returned by Err.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered while writing.
func (w *Writer) Err() error { return w.err }

// Line writes the tokens joined by single spaces at the given indent.
func (w *Writer) Line(indent int, tokens ...string) {
	if w.err != nil {
		return
	}
	for _, tok := range tokens {
		if strings.ContainsAny(tok, "\r\n") {
			w.err = fmt.Errorf("%w: line break in %q", ErrUnsafeToken, tok)
			return
		}
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(indentUnit, indent))
	b.WriteString(strings.Join(tokens, " "))
	b.WriteByte('\n')
	_, w.err = io.WriteString(w.w, b.String())
}

// Header writes the keyword line opening a block.
func (w *Writer) Header(indent int, kw Keyword, nUser, nUserEnd int, description string) {
	id := strconv.Itoa(nUser)
	if nUserEnd != nUser {
		id += "-" + strconv.Itoa(nUserEnd)
	}
	tokens := []string{kw.String(), id}
	if description = strings.TrimSpace(description); description != "" {
		tokens = append(tokens, description)
	}
	w.Line(indent, tokens...)
}

// Option writes a bare "-name" line, typically opening a list.
func (w *Writer) Option(indent int, name string) {
	w.Line(indent, "-"+name)
}

// Float writes "-name value".
func (w *Writer) Float(indent int, name string, v float64) {
	w.Line(indent, "-"+name, FormatFloat(v))
}

// Floats writes "-name v1 v2 ...". Nothing is written for an empty slice.
func (w *Writer) Floats(indent int, name string, vs []float64) {
	if len(vs) == 0 {
		return
	}
	tokens := make([]string, 0, len(vs)+1)
	tokens = append(tokens, "-"+name)
	for _, v := range vs {
		tokens = append(tokens, FormatFloat(v))
	}
	w.Line(indent, tokens...)
}

// Int writes "-name value".
func (w *Writer) Int(indent int, name string, v int) {
	w.Line(indent, "-"+name, strconv.Itoa(v))
}

// Bool writes "-name 1" or "-name 0".
func (w *Writer) Bool(indent int, name string, v bool) {
	val := "0"
	if v {
		val = "1"
	}
	w.Line(indent, "-"+name, val)
}

// Text writes "-name text"; empty text is omitted.
func (w *Writer) Text(indent int, name, v string) {
	if v = strings.TrimSpace(v); v == "" {
		return
	}
	w.Line(indent, "-"+name, v)
}

// CheckName reports whether name can start a "name value" data line and read back
// unchanged.
func CheckName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrUnsafeToken)
	case strings.IndexFunc(name, unicode.IsSpace) >= 0:
		return fmt.Errorf("%w: name %q contains whitespace", ErrUnsafeToken, name)
	case name[0] == '#':
		return fmt.Errorf("%w: name %q reads as a comment", ErrUnsafeToken, name)
	case len(name) > 1 && name[0] == '-' && unicode.IsLetter(rune(name[1])):
		return fmt.Errorf("%w: name %q reads as an option", ErrUnsafeToken, name)
	}
	if _, ok := lookupKeyword(name); ok {
		return fmt.Errorf("%w: name %q is a keyword", ErrUnsafeToken, name)
	}
	return nil
}

// Pairs writes "-name" followed by one "key value" line per entry in ascending key
// order. Nothing is written for an empty map. Keys must pass CheckName.
func (w *Writer) Pairs(indent int, name string, m map[string]float64) {
	if len(m) == 0 || w.err != nil {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		if err := CheckName(k); err != nil {
			w.err = fmt.Errorf("-%s: %w", name, err)
			return
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w.Option(indent, name)
	for _, k := range keys {
		w.Line(indent+1, k, FormatFloat(m[k]))
	}
}

// IntPairs writes "-name" followed by one "id value" line per entry in ascending id
// order.
func (w *Writer) IntPairs(indent int, name string, m map[int]float64) {
	if len(m) == 0 {
		return
	}
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	w.Option(indent, name)
	for _, id := range ids {
		w.Line(indent+1, strconv.Itoa(id), FormatFloat(m[id]))
	}
}
