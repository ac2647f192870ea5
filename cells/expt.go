package cells

import "github.com/beevik/etree"

// ExptCell is an exponent: a base chain raised to a power chain. The power
// renders reduced and lifted above the base line.
type ExptCell struct {
	base
	baseChain Cell
	power     Cell
	isMatrix  bool
}

func NewExptCell() *ExptCell {
	c := &ExptCell{}
	c.init(c, TypeDefault)
	return c
}

func (c *ExptCell) SetBase(head Cell)  { c.baseChain = head }
func (c *ExptCell) SetPower(head Cell) { c.power = head }
func (c *ExptCell) Base() Cell         { return c.baseChain }
func (c *ExptCell) Power() Cell        { return c.power }

// IsMatrix marks the exponent as applied to a matrix, which suppresses the
// usual operator spacing on export.
func (c *ExptCell) IsMatrix(m bool) { c.isMatrix = m }

func (c *ExptCell) Copy() Cell {
	cp := NewExptCell()
	c.copyInto(&cp.base)
	cp.isMatrix = c.isMatrix
	cp.baseChain = CopyList(c.baseChain)
	cp.power = CopyList(c.power)
	return cp
}

func (c *ExptCell) Children() []Cell {
	return childSlots(c.baseChain, c.power)
}

func (c *ExptCell) Recalculate(mc *MeasureContext, fontsize int) {
	bw, bc, bd := chainMetrics(c.baseChain, mc, fontsize)
	pw, pc, pd := chainMetrics(c.power, mc, smaller(fontsize))
	lift := (pc + pd) / 2
	c.setSize(bw+pw, bc+bd+lift, bc+lift)
}

func (c *ExptCell) XML(parent *etree.Element) {
	el := parent.CreateElement("e")
	if c.isMatrix {
		el.CreateAttr("mat", "true")
	}
	ChainXML(c.baseChain, el.CreateElement("r"))
	ChainXML(c.power, el.CreateElement("r"))
	c.xmlFinish(el)
}

func (c *ExptCell) String() string {
	return parenthesize(c.baseChain) + "^" + parenthesize(c.power)
}

func (c *ExptCell) TeX() string {
	return "{" + ChainTeX(c.baseChain) + "}^{" + ChainTeX(c.power) + "}"
}

// SubCell is a subscripted expression: base with a reduced index below the
// line.
type SubCell struct {
	base
	baseChain Cell
	index     Cell
}

func NewSubCell() *SubCell {
	c := &SubCell{}
	c.init(c, TypeDefault)
	return c
}

func (c *SubCell) SetBase(head Cell)  { c.baseChain = head }
func (c *SubCell) SetIndex(head Cell) { c.index = head }
func (c *SubCell) Base() Cell         { return c.baseChain }
func (c *SubCell) Index() Cell        { return c.index }

func (c *SubCell) Copy() Cell {
	cp := NewSubCell()
	c.copyInto(&cp.base)
	cp.baseChain = CopyList(c.baseChain)
	cp.index = CopyList(c.index)
	return cp
}

func (c *SubCell) Children() []Cell {
	return childSlots(c.baseChain, c.index)
}

func (c *SubCell) Recalculate(mc *MeasureContext, fontsize int) {
	bw, bc, bd := chainMetrics(c.baseChain, mc, fontsize)
	iw, ic, id := chainMetrics(c.index, mc, smaller(fontsize))
	sink := (ic + id) / 2
	c.setSize(bw+iw, bc+bd+sink, bc)
}

func (c *SubCell) XML(parent *etree.Element) {
	el := parent.CreateElement("i")
	ChainXML(c.baseChain, el.CreateElement("r"))
	ChainXML(c.index, el.CreateElement("r"))
	c.xmlFinish(el)
}

func (c *SubCell) String() string {
	return parenthesize(c.baseChain) + "[" + ChainString(c.index) + "]"
}

func (c *SubCell) TeX() string {
	return "{" + ChainTeX(c.baseChain) + "}_{" + ChainTeX(c.index) + "}"
}

// SubSupCell carries both an index and a power on the same base.
type SubSupCell struct {
	base
	baseChain Cell
	index     Cell
	power     Cell
}

func NewSubSupCell() *SubSupCell {
	c := &SubSupCell{}
	c.init(c, TypeDefault)
	return c
}

func (c *SubSupCell) SetBase(head Cell)     { c.baseChain = head }
func (c *SubSupCell) SetIndex(head Cell)    { c.index = head }
func (c *SubSupCell) SetExponent(head Cell) { c.power = head }
func (c *SubSupCell) Base() Cell            { return c.baseChain }
func (c *SubSupCell) Index() Cell           { return c.index }
func (c *SubSupCell) Exponent() Cell        { return c.power }

func (c *SubSupCell) Copy() Cell {
	cp := NewSubSupCell()
	c.copyInto(&cp.base)
	cp.baseChain = CopyList(c.baseChain)
	cp.index = CopyList(c.index)
	cp.power = CopyList(c.power)
	return cp
}

func (c *SubSupCell) Children() []Cell {
	return childSlots(c.baseChain, c.index, c.power)
}

func (c *SubSupCell) Recalculate(mc *MeasureContext, fontsize int) {
	bw, bc, bd := chainMetrics(c.baseChain, mc, fontsize)
	iw, ic, id := chainMetrics(c.index, mc, smaller(fontsize))
	pw, pc, pd := chainMetrics(c.power, mc, smaller(fontsize))
	scriptW := iw
	if pw > scriptW {
		scriptW = pw
	}
	lift := (pc + pd) / 2
	sink := (ic + id) / 2
	c.setSize(bw+scriptW, bc+bd+lift+sink, bc+lift)
}

func (c *SubSupCell) XML(parent *etree.Element) {
	el := parent.CreateElement("ie")
	ChainXML(c.baseChain, el.CreateElement("r"))
	ChainXML(c.index, el.CreateElement("r"))
	ChainXML(c.power, el.CreateElement("r"))
	c.xmlFinish(el)
}

func (c *SubSupCell) String() string {
	return parenthesize(c.baseChain) + "[" + ChainString(c.index) + "]^" + parenthesize(c.power)
}

func (c *SubSupCell) TeX() string {
	return "{" + ChainTeX(c.baseChain) + "}_{" + ChainTeX(c.index) + "}^{" + ChainTeX(c.power) + "}"
}
