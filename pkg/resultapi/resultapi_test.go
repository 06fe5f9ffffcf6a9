package resultapi

import (
	"errors"
	"strings"
	"testing"
)

func TestVarClearTwiceIsOK(t *testing.T) {
	v := NewString("calcite")
	if v.Type != TTString || v.StringValue() != "calcite" {
		t.Fatalf("unexpected var %+v", v)
	}
	text := v.Text
	if res := v.Clear(); res != VROK {
		t.Fatalf("first clear: %v", res)
	}
	if res := v.Clear(); res != VROK {
		t.Fatalf("second clear: %v", res)
	}
	if v.Type != TTEmpty || text.String() != "" {
		t.Fatalf("expected empty var and released text")
	}
}

func TestVarUninitialized(t *testing.T) {
	var v Var
	if res := v.Clear(); res != VRBadVarType {
		t.Fatalf("expected bad var type, got %v", res)
	}
	var dst Var
	if res := Copy(&dst, NewLong(1)); res != VRBadVarType {
		t.Fatalf("expected bad var type for uninitialized destination, got %v", res)
	}
	v.Init()
	if res := v.Clear(); res != VROK {
		t.Fatalf("clear after init: %v", res)
	}
	if !errors.Is(VRBadVarType.Err(), &ResultError{Code: VRBadVarType}) || VROK.Err() != nil {
		t.Fatalf("unexpected error mapping")
	}
}

func TestCopyDuplicatesText(t *testing.T) {
	src := NewString("NaCl")
	dst := NewLong(3)
	if res := Copy(&dst, src); res != VROK {
		t.Fatalf("copy: %v", res)
	}
	src.Clear()
	if dst.StringValue() != "NaCl" {
		t.Fatalf("copy shares text with source: %q", dst.StringValue())
	}
	if res := Copy(&dst, dst); res != VROK || dst.StringValue() != "NaCl" {
		t.Fatalf("self copy: %v %q", res, dst.StringValue())
	}
}

func TestAllocationFailure(t *testing.T) {
	old := allocLimit
	allocLimit = 4
	defer func() { allocLimit = old }()

	if AllocString("toolong") != nil {
		t.Fatalf("expected allocation failure")
	}
	v := NewString("toolong")
	if v.Type != TTError || v.VResult != VROutOfMemory {
		t.Fatalf("expected out-of-memory error var, got %+v", v)
	}
	so := NewSelectedOutput()
	if res := so.PushBackString("name", "toolong"); res != VROutOfMemory {
		t.Fatalf("expected out of memory, got %v", res)
	}
	FreeString(nil)
}

func TestSelectedOutputRows(t *testing.T) {
	so := NewSelectedOutput()
	for row := 0; row < 2; row++ {
		so.PushBackLong("step", int64(row))
		so.PushBackDouble("pH", 7+float64(row))
		so.PushBackString("phase", "Calcite")
		so.EndRow()
	}
	if so.RowCount() != 2 || so.ColCount() != 3 {
		t.Fatalf("expected 2x3, got %dx%d", so.RowCount(), so.ColCount())
	}
	if h, res := so.Heading(1); res != VROK || h != "pH" {
		t.Fatalf("heading: %q %v", h, res)
	}
	v, res := so.Get(1, 1)
	if res != VROK || v.Type != TTDouble || v.Double != 8 {
		t.Fatalf("get: %+v %v", v, res)
	}
	if v, _ := so.Get(0, 2); v.StringValue() != "Calcite" {
		t.Fatalf("expected Calcite, got %q", v.String())
	}
}

func TestSelectedOutputBounds(t *testing.T) {
	so := NewSelectedOutput()
	so.PushBackDouble("a", 1)
	so.EndRow()

	if v, res := so.Get(1, 0); res != VRInvalidRow || v.Type != TTError {
		t.Fatalf("expected invalid row, got %v", res)
	}
	if _, res := so.Get(0, 1); res != VRInvalidCol {
		t.Fatalf("expected invalid column, got %v", res)
	}
	if _, res := so.Get(-1, 0); res != VRInvalidRow {
		t.Fatalf("expected invalid row for negative index, got %v", res)
	}
	if _, res := so.Heading(3); res != VRInvalidCol {
		t.Fatalf("expected invalid column heading, got %v", res)
	}
	if res := so.PushBackEmpty(""); res != VRInvalidArg {
		t.Fatalf("expected invalid arg, got %v", res)
	}
	if res := so.PushBack("a", Var{}); res != VRBadVarType {
		t.Fatalf("expected bad var type, got %v", res)
	}
}

func TestSelectedOutputSparseColumns(t *testing.T) {
	so := NewSelectedOutput()
	so.PushBackDouble("a", 1)
	so.EndRow()
	so.PushBackDouble("b", 2)
	so.PushBackDouble("b", 3)
	so.EndRow()

	if v, _ := so.Get(0, 1); v.Type != TTEmpty {
		t.Fatalf("late column should be empty in earlier rows, got %v", v.Type)
	}
	if v, _ := so.Get(1, 0); v.Type != TTEmpty {
		t.Fatalf("unfilled cell should be empty, got %v", v.Type)
	}
	if v, _ := so.Get(1, 1); v.Double != 3 {
		t.Fatalf("second push should replace pending value, got %v", v.Double)
	}
	if strings.Join(so.Headings(), ",") != "a,b" {
		t.Fatalf("unexpected headings %v", so.Headings())
	}

	so.Clear()
	so.Clear()
	if so.RowCount() != 0 || so.ColCount() != 0 {
		t.Fatalf("expected empty table after clear")
	}
}

func TestVarStrings(t *testing.T) {
	cases := map[string]Var{
		"12":           NewLong(12),
		"0.5":          NewDouble(0.5),
		"#invalid row": NewError(VRInvalidRow),
		"":             NewEmpty(),
	}
	for want, v := range cases {
		if v.String() != want {
			t.Fatalf("expected %q, got %q", want, v.String())
		}
	}
	if TTDouble.String() != "double" || VarType(9).String() != "VarType(9)" || VResult(42).String() != "VResult(42)" {
		t.Fatalf("unexpected type names")
	}
}
