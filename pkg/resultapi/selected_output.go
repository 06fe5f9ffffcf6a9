package resultapi

// SelectedOutput is a result table whose columns are created on first use of a
// heading key. Values pushed since the last EndRow form the pending row; EndRow
// commits it, filling columns that received nothing with Empty. A column created
// mid-table reads Empty for every earlier row.
type SelectedOutput struct {
	rows     int
	headings []string
	cols     map[string]int
	cells    [][]Var // cells[col][row], len rows+1 when the pending row is set
}

// NewSelectedOutput returns an empty table.
func NewSelectedOutput() *SelectedOutput {
	return &SelectedOutput{cols: map[string]int{}}
}

func (so *SelectedOutput) column(key string) int {
	if so.cols == nil {
		so.cols = map[string]int{}
	}
	if c, ok := so.cols[key]; ok {
		return c
	}
	c := len(so.headings)
	so.cols[key] = c
	so.headings = append(so.headings, key)
	col := make([]Var, so.rows)
	for i := range col {
		col[i] = NewEmpty()
	}
	so.cells = append(so.cells, col)
	return c
}

// PushBack stores a copy of v in column key of the pending row, replacing any
// value already pushed there for this row.
func (so *SelectedOutput) PushBack(key string, v Var) VResult {
	if key == "" {
		return VRInvalidArg
	}
	if !v.Valid() {
		return VRBadVarType
	}
	cell := NewEmpty()
	if res := Copy(&cell, v); res != VROK {
		return res
	}
	c := so.column(key)
	if len(so.cells[c]) > so.rows {
		so.cells[c][so.rows].Clear()
		so.cells[c][so.rows] = cell
		return VROK
	}
	so.cells[c] = append(so.cells[c], cell)
	return VROK
}

// PushBackDouble pushes a double value.
func (so *SelectedOutput) PushBackDouble(key string, f float64) VResult {
	return so.PushBack(key, NewDouble(f))
}

// PushBackLong pushes a long value.
func (so *SelectedOutput) PushBackLong(key string, n int64) VResult {
	return so.PushBack(key, NewLong(n))
}

// PushBackString pushes a copy of s.
func (so *SelectedOutput) PushBackString(key, s string) VResult {
	v := NewString(s)
	defer v.Clear()
	if v.Type == TTError {
		return v.VResult
	}
	return so.PushBack(key, v)
}

// PushBackEmpty creates column key if needed and leaves the pending cell Empty.
func (so *SelectedOutput) PushBackEmpty(key string) VResult {
	return so.PushBack(key, NewEmpty())
}

// EndRow commits the pending row and returns the new row count.
func (so *SelectedOutput) EndRow() int {
	for c := range so.cells {
		if len(so.cells[c]) == so.rows {
			so.cells[c] = append(so.cells[c], NewEmpty())
		}
	}
	so.rows++
	return so.rows
}

// Clear drops every row, heading and pending value.
func (so *SelectedOutput) Clear() {
	for c := range so.cells {
		for r := range so.cells[c] {
			so.cells[c][r].Clear()
		}
	}
	so.rows = 0
	so.headings = nil
	so.cells = nil
	so.cols = map[string]int{}
}

// RowCount returns the number of committed rows.
func (so *SelectedOutput) RowCount() int { return so.rows }

// ColCount returns the number of columns.
func (so *SelectedOutput) ColCount() int { return len(so.headings) }

// Headings returns a copy of the column keys in creation order.
func (so *SelectedOutput) Headings() []string {
	return append([]string(nil), so.headings...)
}

// Heading returns the key of column col.
func (so *SelectedOutput) Heading(col int) (string, VResult) {
	if col < 0 || col >= len(so.headings) {
		return "", VRInvalidCol
	}
	return so.headings[col], VROK
}

// Get returns a copy of the committed cell at row, col. Out of range indexes
// return VRInvalidRow or VRInvalidCol together with an error Var.
func (so *SelectedOutput) Get(row, col int) (Var, VResult) {
	if row < 0 || row >= so.rows {
		return NewError(VRInvalidRow), VRInvalidRow
	}
	if col < 0 || col >= len(so.headings) {
		return NewError(VRInvalidCol), VRInvalidCol
	}
	out := NewEmpty()
	if res := Copy(&out, so.cells[col][row]); res != VROK {
		return NewError(res), res
	}
	return out, VROK
}
