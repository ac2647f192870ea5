package cells

import "github.com/beevik/etree"

// FracCell is a fraction: an owned numerator chain over an owned denominator
// chain. Depending on FracStyle it renders as a plain fraction, a binomial
// coefficient (no line) or a derivative-style fraction.
type FracCell struct {
	base
	num       Cell
	denom     Cell
	fracStyle FracStyle
}

func NewFracCell() *FracCell {
	c := &FracCell{}
	c.init(c, TypeDefault)
	return c
}

func (c *FracCell) SetNum(head Cell)   { c.num = head }
func (c *FracCell) SetDenom(head Cell) { c.denom = head }
func (c *FracCell) Num() Cell          { return c.num }
func (c *FracCell) Denom() Cell        { return c.denom }

func (c *FracCell) FracStyle() FracStyle     { return c.fracStyle }
func (c *FracCell) SetFracStyle(s FracStyle) { c.fracStyle = s }

func (c *FracCell) Copy() Cell {
	cp := NewFracCell()
	c.copyInto(&cp.base)
	cp.fracStyle = c.fracStyle
	cp.num = CopyList(c.num)
	cp.denom = CopyList(c.denom)
	return cp
}

func (c *FracCell) Children() []Cell {
	return childSlots(c.num, c.denom)
}

func (c *FracCell) Recalculate(mc *MeasureContext, fontsize int) {
	nw, nc, nd := chainMetrics(c.num, mc, fontsize)
	dw, dc, dd := chainMetrics(c.denom, mc, fontsize)
	pad := mc.Px(cellPadding)
	gap := mc.Px(lineGap)
	w := nw
	if dw > w {
		w = dw
	}
	numH := nc + nd
	denH := dc + dd
	c.setSize(w+2*pad, numH+denH+2*gap+1, numH+gap)
}

func (c *FracCell) XML(parent *etree.Element) {
	el := parent.CreateElement("f")
	switch c.fracStyle {
	case FracChoose:
		el.CreateAttr("line", "no")
	case FracDiff:
		el.CreateAttr("diffstyle", "yes")
	}
	ChainXML(c.num, el.CreateElement("r"))
	ChainXML(c.denom, el.CreateElement("r"))
	c.xmlFinish(el)
}

func (c *FracCell) String() string {
	if c.fracStyle == FracChoose {
		return "binomial(" + ChainString(c.num) + "," + ChainString(c.denom) + ")"
	}
	return "(" + ChainString(c.num) + ")/(" + ChainString(c.denom) + ")"
}

func (c *FracCell) TeX() string {
	if c.fracStyle == FracChoose {
		return "\\begin{pmatrix}" + ChainTeX(c.num) + "\\\\" + ChainTeX(c.denom) + "\\end{pmatrix}"
	}
	return "\\frac{" + ChainTeX(c.num) + "}{" + ChainTeX(c.denom) + "}"
}

// parenthesize renders a chain, wrapping it in parentheses when it is more
// than a single atom.
func parenthesize(head Cell) string {
	s := ChainString(head)
	if ChainLength(head) > 1 {
		return "(" + s + ")"
	}
	return s
}

// childSlots collects the non-nil slot heads.
func childSlots(slots ...Cell) []Cell {
	out := make([]Cell, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
