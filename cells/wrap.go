package cells

import "github.com/beevik/etree"

// The unary wrappers share one shape: a single owned inner chain plus
// variant-specific decoration (radical, bars, overline, parentheses).

// SqrtCell draws a radical around its inner chain.
type SqrtCell struct {
	base
	inner Cell
}

func NewSqrtCell() *SqrtCell {
	c := &SqrtCell{}
	c.init(c, TypeDefault)
	return c
}

func (c *SqrtCell) SetInner(head Cell) { c.inner = head }
func (c *SqrtCell) Inner() Cell        { return c.inner }

func (c *SqrtCell) Copy() Cell {
	cp := NewSqrtCell()
	c.copyInto(&cp.base)
	cp.inner = CopyList(c.inner)
	return cp
}

func (c *SqrtCell) Children() []Cell { return childSlots(c.inner) }

func (c *SqrtCell) Recalculate(mc *MeasureContext, fontsize int) {
	iw, ic, id := chainMetrics(c.inner, mc, fontsize)
	sign := mc.Px(fontsize / 2)
	top := mc.Px(lineGap) + 1
	c.setSize(iw+sign+2*mc.Px(cellPadding), ic+id+top, ic+top)
}

func (c *SqrtCell) XML(parent *etree.Element) {
	el := parent.CreateElement("q")
	ChainXML(c.inner, el)
	c.xmlFinish(el)
}

func (c *SqrtCell) String() string {
	return "sqrt(" + ChainString(c.inner) + ")"
}

func (c *SqrtCell) TeX() string {
	return "\\sqrt{" + ChainTeX(c.inner) + "}"
}

// AbsCell draws vertical bars around its inner chain.
type AbsCell struct {
	base
	inner Cell
}

func NewAbsCell() *AbsCell {
	c := &AbsCell{}
	c.init(c, TypeDefault)
	return c
}

func (c *AbsCell) SetInner(head Cell) { c.inner = head }
func (c *AbsCell) Inner() Cell        { return c.inner }

func (c *AbsCell) Copy() Cell {
	cp := NewAbsCell()
	c.copyInto(&cp.base)
	cp.inner = CopyList(c.inner)
	return cp
}

func (c *AbsCell) Children() []Cell { return childSlots(c.inner) }

func (c *AbsCell) Recalculate(mc *MeasureContext, fontsize int) {
	iw, ic, id := chainMetrics(c.inner, mc, fontsize)
	bar := mc.Px(cellPadding) + 1
	c.setSize(iw+2*bar+2*mc.Px(cellPadding), ic+id, ic)
}

func (c *AbsCell) XML(parent *etree.Element) {
	el := parent.CreateElement("a")
	ChainXML(c.inner, el)
	c.xmlFinish(el)
}

func (c *AbsCell) String() string {
	return "abs(" + ChainString(c.inner) + ")"
}

func (c *AbsCell) TeX() string {
	return "\\left|" + ChainTeX(c.inner) + "\\right|"
}

// ConjugateCell draws an overline above its inner chain.
type ConjugateCell struct {
	base
	inner Cell
}

func NewConjugateCell() *ConjugateCell {
	c := &ConjugateCell{}
	c.init(c, TypeDefault)
	return c
}

func (c *ConjugateCell) SetInner(head Cell) { c.inner = head }
func (c *ConjugateCell) Inner() Cell        { return c.inner }

func (c *ConjugateCell) Copy() Cell {
	cp := NewConjugateCell()
	c.copyInto(&cp.base)
	cp.inner = CopyList(c.inner)
	return cp
}

func (c *ConjugateCell) Children() []Cell { return childSlots(c.inner) }

func (c *ConjugateCell) Recalculate(mc *MeasureContext, fontsize int) {
	iw, ic, id := chainMetrics(c.inner, mc, fontsize)
	top := mc.Px(lineGap) + 1
	c.setSize(iw+2*mc.Px(cellPadding), ic+id+top, ic+top)
}

func (c *ConjugateCell) XML(parent *etree.Element) {
	el := parent.CreateElement("cj")
	ChainXML(c.inner, el)
	c.xmlFinish(el)
}

func (c *ConjugateCell) String() string {
	return "conjugate(" + ChainString(c.inner) + ")"
}

func (c *ConjugateCell) TeX() string {
	return "\\overline{" + ChainTeX(c.inner) + "}"
}

// ParenCell wraps its inner chain in parentheses. Printing of the
// parentheses themselves can be suppressed while the grouping survives.
type ParenCell struct {
	base
	inner Cell
	print bool
}

func NewParenCell() *ParenCell {
	c := &ParenCell{print: true}
	c.init(c, TypeDefault)
	return c
}

func (c *ParenCell) SetInner(head Cell, t CellType) {
	c.inner = head
	c.ctype = t
}

func (c *ParenCell) Inner() Cell { return c.inner }

// SetPrint controls whether the parentheses are rendered.
func (c *ParenCell) SetPrint(p bool) { c.print = p }
func (c *ParenCell) Print() bool     { return c.print }

func (c *ParenCell) Copy() Cell {
	cp := NewParenCell()
	c.copyInto(&cp.base)
	cp.print = c.print
	cp.inner = CopyList(c.inner)
	return cp
}

func (c *ParenCell) Children() []Cell { return childSlots(c.inner) }

func (c *ParenCell) Recalculate(mc *MeasureContext, fontsize int) {
	iw, ic, id := chainMetrics(c.inner, mc, fontsize)
	parenW := 0
	if c.print {
		parenW = 2 * (mc.Px(fontsize/4) + 1)
	}
	c.setSize(iw+parenW, ic+id, ic)
}

func (c *ParenCell) XML(parent *etree.Element) {
	el := parent.CreateElement("p")
	if !c.print {
		el.CreateAttr("print", "no")
	}
	ChainXML(c.inner, el.CreateElement("r"))
	c.xmlFinish(el)
}

func (c *ParenCell) String() string {
	if !c.print {
		return ChainString(c.inner)
	}
	return "(" + ChainString(c.inner) + ")"
}

func (c *ParenCell) TeX() string {
	if !c.print {
		return ChainTeX(c.inner)
	}
	return "\\left(" + ChainTeX(c.inner) + "\\right)"
}
