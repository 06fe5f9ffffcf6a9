// Package resultapi is the value boundary between calculation results and callers:
// a tagged value type with explicit result codes and a column-keyed result table.
package resultapi

import "fmt"

// VarType tags the value held by a Var.
type VarType int

const (
	TTEmpty VarType = iota
	TTError
	TTLong
	TTDouble
	TTString
)

func (t VarType) String() string {
	switch t {
	case TTEmpty:
		return "empty"
	case TTError:
		return "error"
	case TTLong:
		return "long"
	case TTDouble:
		return "double"
	case TTString:
		return "string"
	}
	return fmt.Sprintf("VarType(%d)", int(t))
}

// VResult is the outcome code of a boundary operation.
type VResult int

const (
	VROK VResult = iota
	VROutOfMemory
	VRBadVarType
	VRInvalidArg
	VRInvalidRow
	VRInvalidCol
)

var vresultNames = [...]string{
	VROK:          "ok",
	VROutOfMemory: "out of memory",
	VRBadVarType:  "bad var type",
	VRInvalidArg:  "invalid argument",
	VRInvalidRow:  "invalid row",
	VRInvalidCol:  "invalid column",
}

func (r VResult) String() string {
	if r >= 0 && int(r) < len(vresultNames) {
		return vresultNames[r]
	}
	return fmt.Sprintf("VResult(%d)", int(r))
}

// Err returns nil for VROK and a *ResultError otherwise.
func (r VResult) Err() error {
	if r == VROK {
		return nil
	}
	return &ResultError{Code: r}
}

// ResultError carries a non-OK VResult through error returns.
type ResultError struct {
	Code VResult
}

func (e *ResultError) Error() string { return "resultapi: " + e.Code.String() }

// Is matches any *ResultError with the same code.
func (e *ResultError) Is(target error) bool {
	t, ok := target.(*ResultError)
	return ok && t.Code == e.Code
}

// Text is an owned text buffer. It is produced by AllocString and released by
// FreeString; a freed buffer reads as empty.
type Text struct {
	s     string
	freed bool
}

// String returns the buffer contents.
func (t *Text) String() string {
	if t == nil || t.freed {
		return ""
	}
	return t.s
}

// allocLimit caps the size of a single text buffer. Requests above it fail the
// way an exhausted allocator would.
var allocLimit = 64 << 20

// AllocString copies s into a new owned buffer. It returns nil when the buffer
// cannot be allocated.
func AllocString(s string) *Text {
	if len(s) > allocLimit {
		return nil
	}
	return &Text{s: string([]byte(s))}
}

// FreeString releases t. Freeing nil or an already freed buffer does nothing.
func FreeString(t *Text) {
	if t == nil {
		return
	}
	t.s = ""
	t.freed = true
}

// Var is a tagged value. The zero Var is uninitialized; call Init before use.
type Var struct {
	Type    VarType
	Long    int64
	Double  float64
	Text    *Text
	VResult VResult

	valid bool
}

// Init resets v to Empty without releasing anything it held.
func (v *Var) Init() {
	*v = Var{Type: TTEmpty, valid: true}
}

// NewLong returns an initialized long value.
func NewLong(n int64) Var { return Var{Type: TTLong, Long: n, valid: true} }

// NewDouble returns an initialized double value.
func NewDouble(f float64) Var { return Var{Type: TTDouble, Double: f, valid: true} }

// NewError returns an initialized error value carrying code.
func NewError(code VResult) Var { return Var{Type: TTError, VResult: code, valid: true} }

// NewEmpty returns an initialized empty value.
func NewEmpty() Var { return Var{Type: TTEmpty, valid: true} }

// NewString returns a string value owning a copy of s. When the copy cannot be
// allocated the value is an error carrying VROutOfMemory.
func NewString(s string) Var {
	t := AllocString(s)
	if t == nil {
		return NewError(VROutOfMemory)
	}
	return Var{Type: TTString, Text: t, valid: true}
}

// Valid reports whether v has been initialized and holds a known type.
func (v *Var) Valid() bool {
	return v != nil && v.valid && v.Type >= TTEmpty && v.Type <= TTString
}

// StringValue returns the text of a string value, "" for other types.
func (v Var) StringValue() string {
	if v.Type != TTString {
		return ""
	}
	return v.Text.String()
}

// Clear releases owned text and resets v to Empty. Clearing an Empty value is a
// no-op returning VROK.
func (v *Var) Clear() VResult {
	if !v.Valid() {
		return VRBadVarType
	}
	if v.Type == TTString {
		FreeString(v.Text)
	}
	v.Init()
	return VROK
}

// Copy clears dst and makes it a copy of src, duplicating owned text. Both must
// be initialized.
func Copy(dst *Var, src Var) VResult {
	if !src.Valid() || !dst.Valid() {
		return VRBadVarType
	}
	text := src.StringValue()
	dst.Clear()
	switch src.Type {
	case TTString:
		t := AllocString(text)
		if t == nil {
			dst.Init()
			dst.Type = TTError
			dst.VResult = VROutOfMemory
			return VROutOfMemory
		}
		*dst = Var{Type: TTString, Text: t, valid: true}
	default:
		*dst = src
		dst.Text = nil
	}
	return VROK
}

func (v Var) String() string {
	switch v.Type {
	case TTLong:
		return fmt.Sprintf("%d", v.Long)
	case TTDouble:
		return fmt.Sprintf("%g", v.Double)
	case TTString:
		return v.Text.String()
	case TTError:
		return "#" + v.VResult.String()
	}
	return ""
}
