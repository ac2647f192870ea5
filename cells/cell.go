// Package cells implements the worksheet expression tree: a closed set of
// typed cells that is simultaneously an expression tree (composite cells own
// named child slots) and a linear sequence (siblings chained for horizontal
// flow), with a separate draw-order view used to linearize visible content
// for layout.
package cells

import "github.com/beevik/etree"

// Cell is the contract every worksheet cell satisfies. The set of
// implementations is closed: all of them live in this package and embed the
// shared cell state.
type Cell interface {
	// Copy returns an independent deep copy of this cell and the subtrees in
	// its named child slots. The sibling tail is not copied; use CopyList.
	Copy() Cell

	// Recalculate refreshes the cached layout metrics of this cell and its
	// children for the given font size.
	Recalculate(mc *MeasureContext, fontsize int)

	// XML appends the round-trip serialization of this single cell to parent.
	XML(parent *etree.Element)

	// String renders this single cell as linear plain text.
	String() string

	// TeX renders this single cell in LaTeX.
	TeX() string

	// Children returns the heads of the named child slots (not siblings).
	Children() []Cell

	// Value returns the editable or textual payload of the cell, if any.
	Value() string

	// IsOperator reports whether the cell behaves as an operator for
	// spacing and line-break purposes.
	IsOperator() bool

	// IsComment reports whether the cell's text never reaches the
	// evaluation engine.
	IsComment() bool

	// SetExponentFlag marks the cell as rendered in exponent position.
	SetExponentFlag()

	// sibling chain and views, promoted from the shared cell state

	Next() Cell
	Previous() Cell
	NextToDraw() Cell
	PreviousToDraw() Cell
	Append(Cell)
	Detach() Cell
	Group() *GroupCell

	Type() CellType
	SetType(CellType)
	Style() TextStyle
	SetStyle(TextStyle)
	AltCopyText() string
	SetAltCopyText(string)
	Hidden() bool
	SetHidden(bool)
	Highlight() bool
	SetHighlight(bool)
	BigSkip() bool
	SetBigSkip(bool)
	SetBreakPage(bool)
	BreakPageHere() bool
	SetBreakLine(bool)
	ForceBreakLine(bool)
	ForcedBreak() bool
	BreakLineHere() bool
	IsBroken() bool
	BreakUp() bool
	Unbreak()

	Width() int
	Height() int
	Center() int
	Drop() int
	MaxCenter() int
	MaxDrop() int
	MaxHeight() int
	SetPosition(x, y int)
	Rect() Rect
	ContainsPoint(x, y int) bool
	ContainsRect(r Rect) bool
	InvalidateSizeInformation()

	cellBase() *base
}

// Rect is an axis-aligned bounding rectangle in layout units.
type Rect struct {
	X, Y, Width, Height int
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// ContainsRect reports whether o lies entirely inside the rectangle.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.X+o.Width <= r.X+r.Width && o.Y+o.Height <= r.Y+r.Height
}

// sizeUnset marks cached layout metrics that need recomputation.
const sizeUnset = -1

// base carries the state shared by every cell variant. Variants embed it;
// its exported methods are promoted onto the variant.
type base struct {
	self Cell

	// sibling chain, owned left to right
	next Cell
	prev Cell

	// draw-order view, rebuilt by BuildDrawOrder, never owning
	nextToDraw Cell
	prevToDraw Cell

	// enclosing document block, non-owning
	group *GroupCell

	ctype   CellType
	style   TextStyle
	altCopy string

	width, height, center int
	maxCenter, maxDrop    int

	posX, posY int

	bigSkip        bool
	breakPage      bool
	breakLine      bool
	forceBreakLine bool
	isBroken       bool
	hidden         bool
	highlight      bool
	exponent       bool
}

func (b *base) init(self Cell, t CellType) {
	b.self = self
	b.ctype = t
	b.width = sizeUnset
	b.height = sizeUnset
	b.center = sizeUnset
	b.maxCenter = sizeUnset
	b.maxDrop = sizeUnset
}

func (b *base) cellBase() *base { return b }

// copyInto transfers the flag and style state, but never the link fields:
// a copy starts detached.
func (b *base) copyInto(dst *base) {
	dst.ctype = b.ctype
	dst.style = b.style
	dst.altCopy = b.altCopy
	dst.bigSkip = b.bigSkip
	dst.breakPage = b.breakPage
	dst.breakLine = b.breakLine
	dst.forceBreakLine = b.forceBreakLine
	dst.hidden = b.hidden
	dst.highlight = b.highlight
	dst.exponent = b.exponent
}

// Next returns the next cell of the sibling chain, nil at the tail.
func (b *base) Next() Cell { return b.next }

// Previous returns the previous cell of the sibling chain, nil at the head.
func (b *base) Previous() Cell { return b.prev }

// NextToDraw returns the next cell in draw order. Valid only after
// BuildDrawOrder has run over the chain.
func (b *base) NextToDraw() Cell { return b.nextToDraw }

// PreviousToDraw returns the previous cell in draw order.
func (b *base) PreviousToDraw() Cell { return b.prevToDraw }

// Group returns the enclosing document block, nil if none.
func (b *base) Group() *GroupCell { return b.group }

// Append attaches c to the end of the sibling chain this cell belongs to.
// Appending nil is a no-op so parse handlers can chain without nil checks.
func (b *base) Append(c Cell) {
	if c == nil {
		return
	}
	cur := b
	for cur.next != nil {
		cur = cur.next.cellBase()
	}
	cur.next = c
	c.cellBase().prev = cur.self
}

// Detach unlinks this cell from its sibling chain and returns it. The tail
// that followed the cell stays with the chain.
func (b *base) Detach() Cell {
	if b.prev != nil {
		b.prev.cellBase().next = b.next
	}
	if b.next != nil {
		b.next.cellBase().prev = b.prev
	}
	b.next = nil
	b.prev = nil
	return b.self
}

func (b *base) Type() CellType     { return b.ctype }
func (b *base) SetType(t CellType) { b.ctype = t }

func (b *base) Style() TextStyle     { return b.style }
func (b *base) SetStyle(s TextStyle) { b.style = s }

func (b *base) AltCopyText() string     { return b.altCopy }
func (b *base) SetAltCopyText(s string) { b.altCopy = s }

func (b *base) Hidden() bool     { return b.hidden }
func (b *base) SetHidden(h bool) { b.hidden = h }

func (b *base) Highlight() bool      { return b.highlight }
func (b *base) SetHighlight(h bool)  { b.highlight = h }
func (b *base) BigSkip() bool        { return b.bigSkip }
func (b *base) SetBigSkip(s bool)    { b.bigSkip = s }
func (b *base) SetBreakPage(bp bool) { b.breakPage = bp }
func (b *base) BreakPageHere() bool  { return b.breakPage }
func (b *base) SetBreakLine(bl bool) { b.breakLine = bl }
func (b *base) IsBroken() bool       { return b.isBroken }

// BreakUp marks the cell as broken across lines because it is too wide for
// the page and reports whether the state changed. The cached metrics become
// stale either way the state went.
func (b *base) BreakUp() bool {
	if b.isBroken {
		return false
	}
	b.isBroken = true
	b.resetSize()
	return true
}

// Unbreak reverses BreakUp.
func (b *base) Unbreak() {
	if b.isBroken {
		b.isBroken = false
		b.resetSize()
	}
}

// UnbreakChain reverses BreakUp on every cell of the sibling chain at head,
// child slots included.
func UnbreakChain(head Cell) {
	for c := head; c != nil; c = c.cellBase().next {
		c.Unbreak()
		for _, child := range c.Children() {
			UnbreakChain(child)
		}
	}
}

// ForceBreakLine inserts (or removes) a forced line break before this cell.
func (b *base) ForceBreakLine(force bool) {
	b.forceBreakLine = force
	b.breakLine = force
}

// ForcedBreak reports whether the cell begins with a manual line break.
func (b *base) ForcedBreak() bool { return b.forceBreakLine }

// BreakLineHere reports whether a line may (or must) break before this cell.
func (b *base) BreakLineHere() bool {
	return b.breakLine || b.forceBreakLine
}

// IsComment reports whether the cell carries text that is never sent to the
// evaluation engine.
func (b *base) IsComment() bool {
	return b.ctype == TypeText || b.ctype == TypeSection ||
		b.ctype == TypeSubsection || b.ctype == TypeTitle
}

// IsExponent reports whether the cell sits in exponent position.
func (b *base) IsExponent() bool { return b.exponent }

// Width returns the cached width, sizeUnset if stale.
func (b *base) Width() int { return b.width }

// Height returns the cached height.
func (b *base) Height() int { return b.height }

// Center returns the distance from the top of the cell to its baseline.
func (b *base) Center() int { return b.center }

// Drop returns the distance from the baseline to the bottom of the cell.
func (b *base) Drop() int { return b.height - b.center }

// SetPosition records the top-left layout position of the cell.
func (b *base) SetPosition(x, y int) {
	b.posX = x
	b.posY = y
}

// Rect returns the smallest rectangle the cell fits in, anchored at the
// recorded layout position.
func (b *base) Rect() Rect {
	return Rect{X: b.posX, Y: b.posY - b.center, Width: b.width, Height: b.height}
}

// ContainsPoint reports whether (x, y) hits the cell's rectangle.
func (b *base) ContainsPoint(x, y int) bool {
	return b.Rect().Contains(x, y)
}

// ContainsRect reports whether r fits inside the cell's rectangle.
func (b *base) ContainsRect(r Rect) bool {
	return b.Rect().ContainsRect(r)
}

// setSize stores freshly computed metrics. Keeps the invariant that width,
// height and center are set together.
func (b *base) setSize(w, h, center int) {
	b.width = w
	b.height = h
	b.center = center
}

// resetSize marks the cached metrics of this single cell as stale.
func (b *base) resetSize() {
	b.width = sizeUnset
	b.height = sizeUnset
	b.center = sizeUnset
	b.maxCenter = sizeUnset
	b.maxDrop = sizeUnset
}

// InvalidateSizeInformation marks this cell and every cell reachable through
// its child slots as needing layout recomputation. Siblings are untouched;
// use InvalidateChain for a whole sequence.
func (b *base) InvalidateSizeInformation() {
	invalidateCell(b.self)
}

func invalidateCell(c Cell) {
	c.cellBase().resetSize()
	for _, child := range c.Children() {
		for cur := child; cur != nil; cur = cur.cellBase().next {
			invalidateCell(cur)
		}
	}
}

// InvalidateChain invalidates every cell of the sibling chain starting at
// head, including child slots.
func InvalidateChain(head Cell) {
	for c := head; c != nil; c = c.cellBase().next {
		invalidateCell(c)
	}
}

// MaxCenter returns the maximum center of the line run this cell starts:
// the cell itself and every following sibling up to (excluding) the next
// line break. The walk is a plain loop; output chains can run to thousands
// of cells.
func (b *base) MaxCenter() int {
	if b.maxCenter != sizeUnset {
		return b.maxCenter
	}
	m := 0
	for c := b.self; c != nil; c = c.cellBase().next {
		cb := c.cellBase()
		if cb != b && cb.BreakLineHere() {
			break
		}
		if cb.center > m {
			m = cb.center
		}
	}
	b.maxCenter = m
	return m
}

// MaxDrop returns the maximum drop of the line run this cell starts.
func (b *base) MaxDrop() int {
	if b.maxDrop != sizeUnset {
		return b.maxDrop
	}
	m := 0
	for c := b.self; c != nil; c = c.cellBase().next {
		cb := c.cellBase()
		if cb != b && cb.BreakLineHere() {
			break
		}
		if d := cb.height - cb.center; d > m {
			m = d
		}
	}
	b.maxDrop = m
	return m
}

// MaxHeight returns the full height of the line run this cell starts.
func (b *base) MaxHeight() int { return b.MaxCenter() + b.MaxDrop() }

// default contract implementations shared by most variants

func (b *base) Children() []Cell { return nil }
func (b *base) Value() string    { return "" }
func (b *base) IsOperator() bool { return false }
func (b *base) SetExponentFlag() { b.exponent = true }

// CopyList deep-copies head together with its entire owned sibling tail.
func CopyList(head Cell) Cell {
	if head == nil {
		return nil
	}
	first := head.Copy()
	last := first
	for c := head.cellBase().next; c != nil; c = c.cellBase().next {
		cp := c.Copy()
		last.cellBase().next = cp
		cp.cellBase().prev = last
		last = cp
	}
	return first
}

// ChainLength returns the number of cells in the sibling chain at head.
func ChainLength(head Cell) int {
	n := 0
	for c := head; c != nil; c = c.cellBase().next {
		n++
	}
	return n
}

// LastCell returns the tail of the sibling chain at head.
func LastCell(head Cell) Cell {
	if head == nil {
		return nil
	}
	c := head
	for c.cellBase().next != nil {
		c = c.cellBase().next
	}
	return c
}

// BuildDrawOrder rebuilds the draw-order view over the sibling chain at
// head, skipping hidden cells, and returns the visible cells in order. The
// draw links are a view, not ownership: folding or hiding cells only
// requires calling this again.
func BuildDrawOrder(head Cell) []Cell {
	var visible []Cell
	for c := head; c != nil; c = c.cellBase().next {
		cb := c.cellBase()
		cb.nextToDraw = nil
		cb.prevToDraw = nil
		if cb.hidden {
			continue
		}
		visible = append(visible, c)
	}
	for i, c := range visible {
		cb := c.cellBase()
		if i > 0 {
			cb.prevToDraw = visible[i-1]
		}
		if i < len(visible)-1 {
			cb.nextToDraw = visible[i+1]
		}
	}
	return visible
}

// RecalculateChain recalculates layout metrics of every cell in the chain.
func RecalculateChain(head Cell, mc *MeasureContext, fontsize int) {
	for c := head; c != nil; c = c.cellBase().next {
		c.Recalculate(mc, fontsize)
	}
}

// chainWidth sums the widths of a recalculated chain.
func chainWidth(head Cell) int {
	w := 0
	for c := head; c != nil; c = c.cellBase().next {
		w += c.cellBase().width
	}
	return w
}

// chainMetrics recalculates a child chain and returns its total width and
// the line extents above and below the baseline.
func chainMetrics(head Cell, mc *MeasureContext, fontsize int) (w, center, drop int) {
	if head == nil {
		return 0, 0, 0
	}
	RecalculateChain(head, mc, fontsize)
	for c := head; c != nil; c = c.cellBase().next {
		cb := c.cellBase()
		w += cb.width
		if cb.center > center {
			center = cb.center
		}
		if d := cb.height - cb.center; d > drop {
			drop = d
		}
	}
	return w, center, drop
}

// ChainString renders a sibling chain as plain text, honoring forced line
// breaks.
func ChainString(head Cell) string {
	var out []byte
	for c := head; c != nil; c = c.cellBase().next {
		if c != head && c.cellBase().ForcedBreak() {
			out = append(out, '\n')
		}
		out = append(out, c.String()...)
	}
	return string(out)
}

// ChainTeX renders a sibling chain in LaTeX.
func ChainTeX(head Cell) string {
	var out []byte
	for c := head; c != nil; c = c.cellBase().next {
		if c != head && c.cellBase().ForcedBreak() {
			out = append(out, "\\\\\n"...)
		}
		out = append(out, c.TeX()...)
	}
	return string(out)
}

// ChainXML appends the round-trip serialization of a whole sibling chain to
// parent.
func ChainXML(head Cell, parent *etree.Element) {
	for c := head; c != nil; c = c.cellBase().next {
		c.XML(parent)
	}
}

// xmlFinish applies the attributes every serialized cell may carry.
func (b *base) xmlFinish(el *etree.Element) {
	if b.altCopy != "" {
		el.CreateAttr("altCopy", b.altCopy)
	}
}
