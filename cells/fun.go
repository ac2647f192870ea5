package cells

import "github.com/beevik/etree"

// FunCell is a function application: a name chain followed by an argument
// chain, the latter usually a parenthesis cell.
type FunCell struct {
	base
	name Cell
	arg  Cell
}

func NewFunCell() *FunCell {
	c := &FunCell{}
	c.init(c, TypeDefault)
	return c
}

func (c *FunCell) SetName(head Cell) { c.name = head }
func (c *FunCell) SetArg(head Cell)  { c.arg = head }
func (c *FunCell) Name() Cell        { return c.name }
func (c *FunCell) Arg() Cell         { return c.arg }

func (c *FunCell) Copy() Cell {
	cp := NewFunCell()
	c.copyInto(&cp.base)
	cp.name = CopyList(c.name)
	cp.arg = CopyList(c.arg)
	return cp
}

func (c *FunCell) Children() []Cell {
	return childSlots(c.name, c.arg)
}

func (c *FunCell) Recalculate(mc *MeasureContext, fontsize int) {
	nw, nc, nd := chainMetrics(c.name, mc, fontsize)
	aw, ac, ad := chainMetrics(c.arg, mc, fontsize)
	center := nc
	if ac > center {
		center = ac
	}
	drop := nd
	if ad > drop {
		drop = ad
	}
	c.setSize(nw+aw, center+drop, center)
}

func (c *FunCell) XML(parent *etree.Element) {
	el := parent.CreateElement("fn")
	ChainXML(c.name, el.CreateElement("r"))
	ChainXML(c.arg, el.CreateElement("r"))
	c.xmlFinish(el)
}

func (c *FunCell) String() string {
	return ChainString(c.name) + ChainString(c.arg)
}

func (c *FunCell) TeX() string {
	return ChainTeX(c.name) + ChainTeX(c.arg)
}

// AtCell renders an expression evaluated at a point: base with the binding
// attached below a vertical bar.
type AtCell struct {
	base
	baseChain Cell
	index     Cell
}

func NewAtCell() *AtCell {
	c := &AtCell{}
	c.init(c, TypeDefault)
	return c
}

func (c *AtCell) SetBase(head Cell)  { c.baseChain = head }
func (c *AtCell) SetIndex(head Cell) { c.index = head }
func (c *AtCell) Base() Cell         { return c.baseChain }
func (c *AtCell) Index() Cell        { return c.index }

func (c *AtCell) Copy() Cell {
	cp := NewAtCell()
	c.copyInto(&cp.base)
	cp.baseChain = CopyList(c.baseChain)
	cp.index = CopyList(c.index)
	return cp
}

func (c *AtCell) Children() []Cell {
	return childSlots(c.baseChain, c.index)
}

func (c *AtCell) Recalculate(mc *MeasureContext, fontsize int) {
	bw, bc, bd := chainMetrics(c.baseChain, mc, fontsize)
	iw, ic, id := chainMetrics(c.index, mc, smaller(fontsize))
	sink := (ic + id) / 2
	c.setSize(bw+iw+mc.Px(cellPadding)+1, bc+bd+sink, bc)
}

func (c *AtCell) XML(parent *etree.Element) {
	el := parent.CreateElement("at")
	ChainXML(c.baseChain, el.CreateElement("r"))
	ChainXML(c.index, el.CreateElement("r"))
	c.xmlFinish(el)
}

func (c *AtCell) String() string {
	return "at(" + ChainString(c.baseChain) + "," + ChainString(c.index) + ")"
}

func (c *AtCell) TeX() string {
	return "\\left." + ChainTeX(c.baseChain) + "\\right|_{" + ChainTeX(c.index) + "}"
}

// DiffCell renders a derivative: the differential operator chain followed by
// the expression it applies to.
type DiffCell struct {
	base
	diff      Cell
	baseChain Cell
}

func NewDiffCell() *DiffCell {
	c := &DiffCell{}
	c.init(c, TypeDefault)
	return c
}

func (c *DiffCell) SetDiff(head Cell) { c.diff = head }
func (c *DiffCell) SetBase(head Cell) { c.baseChain = head }
func (c *DiffCell) Diff() Cell        { return c.diff }
func (c *DiffCell) Base() Cell        { return c.baseChain }

func (c *DiffCell) Copy() Cell {
	cp := NewDiffCell()
	c.copyInto(&cp.base)
	cp.diff = CopyList(c.diff)
	cp.baseChain = CopyList(c.baseChain)
	return cp
}

func (c *DiffCell) Children() []Cell {
	return childSlots(c.diff, c.baseChain)
}

func (c *DiffCell) Recalculate(mc *MeasureContext, fontsize int) {
	dw, dc, dd := chainMetrics(c.diff, mc, fontsize)
	bw, bc, bd := chainMetrics(c.baseChain, mc, fontsize)
	center := dc
	if bc > center {
		center = bc
	}
	drop := dd
	if bd > drop {
		drop = bd
	}
	c.setSize(dw+bw+2*mc.Px(cellPadding), center+drop, center)
}

func (c *DiffCell) XML(parent *etree.Element) {
	el := parent.CreateElement("d")
	ChainXML(c.diff, el.CreateElement("r"))
	ChainXML(c.baseChain, el)
	c.xmlFinish(el)
}

func (c *DiffCell) String() string {
	return ChainString(c.diff) + " " + ChainString(c.baseChain)
}

func (c *DiffCell) TeX() string {
	return ChainTeX(c.diff) + " " + ChainTeX(c.baseChain)
}
