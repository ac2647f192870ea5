package cells

import (
	"strings"

	"github.com/beevik/etree"
)

// MatrCell is a two-dimensional table of owned cell chains: an ordered
// sequence of rows, each an ordered sequence of entries. Special and
// inference tables render without the usual matrix delimiters; row and
// column name headers can be flagged.
type MatrCell struct {
	base
	rows      [][]Cell
	special   bool
	inference bool
	colNames  bool
	rowNames  bool
}

func NewMatrCell() *MatrCell {
	c := &MatrCell{}
	c.init(c, TypeDefault)
	return c
}

// NewRow opens a fresh row; subsequent AddNewCell calls fill it.
func (c *MatrCell) NewRow() {
	c.rows = append(c.rows, nil)
}

// AddNewCell appends one entry chain to the current row.
func (c *MatrCell) AddNewCell(head Cell) {
	if len(c.rows) == 0 {
		c.NewRow()
	}
	last := len(c.rows) - 1
	c.rows[last] = append(c.rows[last], head)
}

func (c *MatrCell) Rows() int { return len(c.rows) }

func (c *MatrCell) Cols() int {
	cols := 0
	for _, row := range c.rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return cols
}

// Entry returns the chain at (row, col), nil when out of range.
func (c *MatrCell) Entry(row, col int) Cell {
	if row < 0 || row >= len(c.rows) {
		return nil
	}
	if col < 0 || col >= len(c.rows[row]) {
		return nil
	}
	return c.rows[row][col]
}

func (c *MatrCell) SetSpecialFlag(v bool)   { c.special = v }
func (c *MatrCell) SpecialFlag() bool       { return c.special }
func (c *MatrCell) SetInferenceFlag(v bool) { c.inference = v }
func (c *MatrCell) InferenceFlag() bool     { return c.inference }
func (c *MatrCell) ColNames(v bool)         { c.colNames = v }
func (c *MatrCell) RowNames(v bool)         { c.rowNames = v }
func (c *MatrCell) HasColNames() bool       { return c.colNames }
func (c *MatrCell) HasRowNames() bool       { return c.rowNames }

func (c *MatrCell) Copy() Cell {
	cp := NewMatrCell()
	c.copyInto(&cp.base)
	cp.special = c.special
	cp.inference = c.inference
	cp.colNames = c.colNames
	cp.rowNames = c.rowNames
	cp.rows = make([][]Cell, len(c.rows))
	for i, row := range c.rows {
		cp.rows[i] = make([]Cell, len(row))
		for j, entry := range row {
			cp.rows[i][j] = CopyList(entry)
		}
	}
	return cp
}

func (c *MatrCell) Children() []Cell {
	var out []Cell
	for _, row := range c.rows {
		for _, entry := range row {
			if entry != nil {
				out = append(out, entry)
			}
		}
	}
	return out
}

func (c *MatrCell) Recalculate(mc *MeasureContext, fontsize int) {
	fs := smaller(fontsize)
	cols := c.Cols()
	colW := make([]int, cols)
	rowH := make([]int, len(c.rows))
	for i, row := range c.rows {
		for j, entry := range row {
			w, ec, ed := chainMetrics(entry, mc, fs)
			if w > colW[j] {
				colW[j] = w
			}
			if h := ec + ed; h > rowH[i] {
				rowH[i] = h
			}
		}
	}
	pad := mc.Px(cellPadding)
	width := 2 * pad
	for _, w := range colW {
		width += w + 2*pad
	}
	height := 2 * pad
	for _, h := range rowH {
		height += h + 2*pad
	}
	c.setSize(width, height, height/2)
}

func (c *MatrCell) XML(parent *etree.Element) {
	el := parent.CreateElement("tb")
	if c.special {
		el.CreateAttr("special", "true")
	}
	if c.inference {
		el.CreateAttr("inference", "true")
	}
	if c.colNames {
		el.CreateAttr("colnames", "true")
	}
	if c.rowNames {
		el.CreateAttr("rownames", "true")
	}
	for _, row := range c.rows {
		tr := el.CreateElement("mtr")
		for _, entry := range row {
			ChainXML(entry, tr.CreateElement("mtd"))
		}
	}
	c.xmlFinish(el)
}

func (c *MatrCell) String() string {
	var sb strings.Builder
	sb.WriteString("matrix(")
	for i, row := range c.rows {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("[")
		for j, entry := range row {
			if j > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(ChainString(entry))
		}
		sb.WriteString("]")
	}
	sb.WriteString(")")
	return sb.String()
}

func (c *MatrCell) TeX() string {
	var sb strings.Builder
	sb.WriteString("\\begin{pmatrix}")
	for i, row := range c.rows {
		if i > 0 {
			sb.WriteString("\\\\\n")
		}
		for j, entry := range row {
			if j > 0 {
				sb.WriteString(" & ")
			}
			sb.WriteString(ChainTeX(entry))
		}
	}
	sb.WriteString("\\end{pmatrix}")
	return sb.String()
}
