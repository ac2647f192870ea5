package cells

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// GroupCell is one foldable document block: a category, an editable source
// text, an owned output chain and, when the block has been folded, an owned
// hidden subtree kept out of draw order until unfolded.
type GroupCell struct {
	base
	id         uuid.UUID
	gtype      GroupType
	editor     *EditorCell
	output     Cell
	hiddenTree Cell
}

func NewGroupCell(t GroupType) *GroupCell {
	g := &GroupCell{id: uuid.New(), gtype: t, editor: NewEditorCell()}
	g.init(g, TypeGroup)
	switch t {
	case GroupText:
		g.editor.SetType(TypeText)
	case GroupTitle:
		g.editor.SetType(TypeTitle)
	case GroupSection:
		g.editor.SetType(TypeSection)
	case GroupSubsection, GroupSubsubsection:
		g.editor.SetType(TypeSubsection)
	}
	return g
}

// ID is the stable identity of the block, usable as a weak reference key.
func (g *GroupCell) ID() uuid.UUID { return g.id }

func (g *GroupCell) GroupType() GroupType { return g.gtype }

// SetEditableContent replaces the block's source text.
func (g *GroupCell) SetEditableContent(text string) {
	g.editor.SetValue(text)
}

// EditableContent returns the block's source text.
func (g *GroupCell) EditableContent() string { return g.editor.Value() }

// Editor exposes the owned editor cell.
func (g *GroupCell) Editor() *EditorCell { return g.editor }

// Output returns the head of the owned output chain, nil when empty.
func (g *GroupCell) Output() Cell { return g.output }

// AppendOutput attaches head to the end of the output chain and adopts it
// into this block. Appending nil is a no-op.
func (g *GroupCell) AppendOutput(head Cell) {
	if head == nil {
		return
	}
	g.adopt(head)
	if g.output == nil {
		g.output = head
		return
	}
	g.output.cellBase().Append(head)
}

// RemoveOutput drops the whole output chain.
func (g *GroupCell) RemoveOutput() {
	g.output = nil
	g.resetSize()
}

// adopt points the group back-reference of a chain and all its descendants
// at this block.
func (g *GroupCell) adopt(head Cell) {
	for c := head; c != nil; c = c.cellBase().next {
		c.cellBase().group = g
		for _, child := range c.Children() {
			g.adopt(child)
		}
	}
}

// Hide folds or unfolds the block itself in the document view.
func (g *GroupCell) Hide(hidden bool) { g.hidden = hidden }

// HideTree attaches a previously visible subtree as this block's folded
// payload. Every cell of the subtree is marked hidden and back-referenced to
// this block; the draw order must be rebuilt afterwards.
func (g *GroupCell) HideTree(tree Cell) {
	g.hiddenTree = tree
	for c := tree; c != nil; c = c.cellBase().next {
		c.cellBase().hidden = true
		c.cellBase().group = g
	}
}

// UnhideTree detaches and returns the folded subtree, clearing the hidden
// marks so a draw-order rebuild restores the cells.
func (g *GroupCell) UnhideTree() Cell {
	tree := g.hiddenTree
	g.hiddenTree = nil
	for c := tree; c != nil; c = c.cellBase().next {
		c.cellBase().hidden = false
	}
	return tree
}

// HiddenTree returns the folded subtree without unfolding it.
func (g *GroupCell) HiddenTree() Cell { return g.hiddenTree }

func (g *GroupCell) Folded() bool { return g.hiddenTree != nil }

func (g *GroupCell) Copy() Cell {
	cp := NewGroupCell(g.gtype)
	g.copyInto(&cp.base)
	cp.editor = g.editor.Copy().(*EditorCell)
	cp.output = CopyList(g.output)
	cp.hiddenTree = CopyList(g.hiddenTree)
	if cp.output != nil {
		cp.adopt(cp.output)
	}
	if cp.hiddenTree != nil {
		cp.HideTree(cp.hiddenTree)
	}
	return cp
}

func (g *GroupCell) Children() []Cell {
	slots := []Cell{g.editor}
	if g.output != nil {
		slots = append(slots, g.output)
	}
	if g.hiddenTree != nil {
		slots = append(slots, g.hiddenTree)
	}
	return slots
}

func (g *GroupCell) Value() string { return g.EditableContent() }

func (g *GroupCell) Recalculate(mc *MeasureContext, fontsize int) {
	if g.gtype == GroupPagebreak {
		g.setSize(0, mc.Px(lineGap), 0)
		return
	}
	g.editor.Recalculate(mc, fontsize)
	w := g.editor.Width()
	h := g.editor.Height()
	if g.output != nil && !g.hidden {
		ow, oc, od := chainMetrics(g.output, mc, fontsize)
		if ow > w {
			w = ow
		}
		h += oc + od + mc.Px(lineGap)
	}
	g.setSize(w, h, g.editor.Center())
}

func (g *GroupCell) XML(parent *etree.Element) {
	el := parent.CreateElement("cell")
	switch g.gtype {
	case GroupSubsubsection:
		// saved as a deeper subsection for backward compatibility
		el.CreateAttr("type", GroupSubsection.String())
		el.CreateAttr("sectioning_level", "4")
	default:
		el.CreateAttr("type", g.gtype.String())
	}
	if g.hidden {
		el.CreateAttr("hide", "true")
	}
	switch g.gtype {
	case GroupPagebreak:
		// no payload
	case GroupCode:
		g.editor.XML(el.CreateElement("input"))
		if g.output != nil {
			out := el.CreateElement("output")
			ChainXML(g.output, out.CreateElement("mth"))
		}
	case GroupImage:
		g.editor.XML(el)
		ChainXML(g.output, el)
	default:
		g.editor.XML(el)
		if g.hiddenTree != nil {
			ChainXML(g.hiddenTree, el.CreateElement("fold"))
		}
	}
	g.xmlFinish(el)
}

func (g *GroupCell) String() string {
	var sb strings.Builder
	sb.WriteString(g.EditableContent())
	if g.output != nil {
		sb.WriteString("\n")
		sb.WriteString(ChainString(g.output))
	}
	return sb.String()
}

func (g *GroupCell) TeX() string {
	text := g.EditableContent()
	switch g.gtype {
	case GroupTitle:
		return "\\title{" + texEscape(text) + "}"
	case GroupSection:
		return "\\section{" + texEscape(text) + "}\\label{sec:" + slug.Make(text) + "}"
	case GroupSubsection:
		return "\\subsection{" + texEscape(text) + "}\\label{subsec:" + slug.Make(text) + "}"
	case GroupSubsubsection:
		return "\\subsubsection{" + texEscape(text) + "}\\label{subsubsec:" + slug.Make(text) + "}"
	case GroupPagebreak:
		return "\\pagebreak"
	case GroupText:
		return texEscape(text)
	default:
		var sb strings.Builder
		sb.WriteString(g.editor.TeX())
		if g.output != nil {
			sb.WriteString("\n\\[")
			sb.WriteString(ChainTeX(g.output))
			sb.WriteString("\\]")
		}
		return sb.String()
	}
}
