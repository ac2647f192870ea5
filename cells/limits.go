package cells

import "github.com/beevik/etree"

// LimitCell renders a limit: the operator name above its bound expression,
// followed by the limited expression.
type LimitCell struct {
	base
	name      Cell
	under     Cell
	baseChain Cell
}

func NewLimitCell() *LimitCell {
	c := &LimitCell{}
	c.init(c, TypeDefault)
	return c
}

func (c *LimitCell) SetName(head Cell)  { c.name = head }
func (c *LimitCell) SetUnder(head Cell) { c.under = head }
func (c *LimitCell) SetBase(head Cell)  { c.baseChain = head }
func (c *LimitCell) Name() Cell         { return c.name }
func (c *LimitCell) Under() Cell        { return c.under }
func (c *LimitCell) Base() Cell         { return c.baseChain }

func (c *LimitCell) Copy() Cell {
	cp := NewLimitCell()
	c.copyInto(&cp.base)
	cp.name = CopyList(c.name)
	cp.under = CopyList(c.under)
	cp.baseChain = CopyList(c.baseChain)
	return cp
}

func (c *LimitCell) Children() []Cell {
	return childSlots(c.name, c.under, c.baseChain)
}

func (c *LimitCell) Recalculate(mc *MeasureContext, fontsize int) {
	nw, nc, nd := chainMetrics(c.name, mc, fontsize)
	uw, uc, ud := chainMetrics(c.under, mc, smaller(fontsize))
	bw, bc, bd := chainMetrics(c.baseChain, mc, fontsize)
	opW := nw
	if uw > opW {
		opW = uw
	}
	center := nc
	if bc > center {
		center = bc
	}
	drop := nd + uc + ud
	if bd > drop {
		drop = bd
	}
	c.setSize(opW+bw+mc.Px(cellPadding), center+drop, center)
}

func (c *LimitCell) XML(parent *etree.Element) {
	el := parent.CreateElement("lm")
	ChainXML(c.name, el.CreateElement("r"))
	ChainXML(c.under, el.CreateElement("r"))
	ChainXML(c.baseChain, el.CreateElement("r"))
	c.xmlFinish(el)
}

func (c *LimitCell) String() string {
	return "limit(" + ChainString(c.baseChain) + "," + ChainString(c.under) + ")"
}

func (c *LimitCell) TeX() string {
	return "\\lim_{" + ChainTeX(c.under) + "}{" + ChainTeX(c.baseChain) + "}"
}

// SumCell renders an iterated sum or product with a lower bound and, except
// in the lower-sum style, an upper bound.
type SumCell struct {
	base
	under     Cell
	over      Cell
	baseChain Cell
	sumStyle  SumStyle
}

func NewSumCell() *SumCell {
	c := &SumCell{}
	c.init(c, TypeDefault)
	return c
}

func (c *SumCell) SetUnder(head Cell) { c.under = head }
func (c *SumCell) SetOver(head Cell)  { c.over = head }
func (c *SumCell) SetBase(head Cell)  { c.baseChain = head }
func (c *SumCell) Under() Cell        { return c.under }
func (c *SumCell) Over() Cell         { return c.over }
func (c *SumCell) Base() Cell         { return c.baseChain }

func (c *SumCell) SumStyle() SumStyle     { return c.sumStyle }
func (c *SumCell) SetSumStyle(s SumStyle) { c.sumStyle = s }

func (c *SumCell) Copy() Cell {
	cp := NewSumCell()
	c.copyInto(&cp.base)
	cp.sumStyle = c.sumStyle
	cp.under = CopyList(c.under)
	cp.over = CopyList(c.over)
	cp.baseChain = CopyList(c.baseChain)
	return cp
}

func (c *SumCell) Children() []Cell {
	return childSlots(c.under, c.over, c.baseChain)
}

func (c *SumCell) Recalculate(mc *MeasureContext, fontsize int) {
	signW, signH := mc.Measurer.TextExtent("∑", c.style, fontsize+expIndent)
	uw, uc, ud := chainMetrics(c.under, mc, smaller(fontsize))
	ow, oc, od := chainMetrics(c.over, mc, smaller(fontsize))
	bw, bc, bd := chainMetrics(c.baseChain, mc, fontsize)
	opW := signW
	if uw > opW {
		opW = uw
	}
	if ow > opW {
		opW = ow
	}
	center := signH/2 + oc + od
	if bc > center {
		center = bc
	}
	drop := signH/2 + uc + ud
	if bd > drop {
		drop = bd
	}
	c.setSize(opW+bw+mc.Px(cellPadding), center+drop, center)
}

func (c *SumCell) XML(parent *etree.Element) {
	el := parent.CreateElement("sm")
	if c.sumStyle != SumSum {
		el.CreateAttr("type", c.sumStyle.String())
	}
	ChainXML(c.under, el.CreateElement("r"))
	// the middle slot stays in the save format even when unused
	ChainXML(c.over, el.CreateElement("r"))
	ChainXML(c.baseChain, el.CreateElement("r"))
	c.xmlFinish(el)
}

func (c *SumCell) String() string {
	name := "sum"
	if c.sumStyle == SumProduct {
		name = "product"
	}
	if c.over == nil {
		return "l" + name + "(" + ChainString(c.baseChain) + "," + ChainString(c.under) + ")"
	}
	return name + "(" + ChainString(c.baseChain) + "," + ChainString(c.under) + "," + ChainString(c.over) + ")"
}

func (c *SumCell) TeX() string {
	sign := "\\sum"
	if c.sumStyle == SumProduct {
		sign = "\\prod"
	}
	out := sign + "_{" + ChainTeX(c.under) + "}"
	if c.over != nil {
		out += "^{" + ChainTeX(c.over) + "}"
	}
	return out + "{" + ChainTeX(c.baseChain) + "}"
}

// IntCell renders an integral, definite (with both bounds) or indefinite.
type IntCell struct {
	base
	under     Cell
	over      Cell
	baseChain Cell
	variable  Cell
	intStyle  IntStyle
}

func NewIntCell() *IntCell {
	c := &IntCell{}
	c.init(c, TypeDefault)
	return c
}

func (c *IntCell) SetUnder(head Cell) { c.under = head }
func (c *IntCell) SetOver(head Cell)  { c.over = head }
func (c *IntCell) SetBase(head Cell)  { c.baseChain = head }
func (c *IntCell) SetVar(head Cell)   { c.variable = head }
func (c *IntCell) Under() Cell        { return c.under }
func (c *IntCell) Over() Cell         { return c.over }
func (c *IntCell) Base() Cell         { return c.baseChain }
func (c *IntCell) Var() Cell          { return c.variable }

func (c *IntCell) IntStyle() IntStyle     { return c.intStyle }
func (c *IntCell) SetIntStyle(s IntStyle) { c.intStyle = s }

func (c *IntCell) Copy() Cell {
	cp := NewIntCell()
	c.copyInto(&cp.base)
	cp.intStyle = c.intStyle
	cp.under = CopyList(c.under)
	cp.over = CopyList(c.over)
	cp.baseChain = CopyList(c.baseChain)
	cp.variable = CopyList(c.variable)
	return cp
}

func (c *IntCell) Children() []Cell {
	return childSlots(c.under, c.over, c.baseChain, c.variable)
}

func (c *IntCell) Recalculate(mc *MeasureContext, fontsize int) {
	signW, signH := mc.Measurer.TextExtent("∫", c.style, fontsize+2*expIndent)
	uw, uc, ud := chainMetrics(c.under, mc, smaller(fontsize))
	ow, oc, od := chainMetrics(c.over, mc, smaller(fontsize))
	bw, bc, bd := chainMetrics(c.baseChain, mc, fontsize)
	vw, vc, vd := chainMetrics(c.variable, mc, fontsize)
	boundW := uw
	if ow > boundW {
		boundW = ow
	}
	center := signH / 2
	if c.intStyle == IntDefinite {
		center += oc + od
	}
	if bc > center {
		center = bc
	}
	if vc > center {
		center = vc
	}
	drop := signH / 2
	if c.intStyle == IntDefinite {
		drop += uc + ud
	}
	if bd > drop {
		drop = bd
	}
	if vd > drop {
		drop = vd
	}
	c.setSize(signW+boundW+bw+vw+2*mc.Px(cellPadding), center+drop, center)
}

func (c *IntCell) XML(parent *etree.Element) {
	el := parent.CreateElement("in")
	if c.intStyle == IntIndefinite {
		// bound-less form is flagged by any attribute on the node
		el.CreateAttr("def", "false")
	} else {
		ChainXML(c.under, el.CreateElement("r"))
		ChainXML(c.over, el.CreateElement("r"))
	}
	ChainXML(c.baseChain, el.CreateElement("r"))
	ChainXML(c.variable, el.CreateElement("r"))
	c.xmlFinish(el)
}

func (c *IntCell) String() string {
	if c.intStyle == IntDefinite {
		return "integrate(" + ChainString(c.baseChain) + "," + ChainString(c.variable) +
			"," + ChainString(c.under) + "," + ChainString(c.over) + ")"
	}
	return "integrate(" + ChainString(c.baseChain) + "," + ChainString(c.variable) + ")"
}

func (c *IntCell) TeX() string {
	out := "\\int"
	if c.intStyle == IntDefinite {
		out += "_{" + ChainTeX(c.under) + "}^{" + ChainTeX(c.over) + "}"
	}
	return out + "{" + ChainTeX(c.baseChain) + "}\\,{d" + ChainTeX(c.variable) + "}"
}
