package cells

import (
	"strings"

	"github.com/beevik/etree"
)

// EditorCell holds the editable source text of a document block, stored as
// verbatim lines joined by newlines.
type EditorCell struct {
	base
	text string
}

func NewEditorCell() *EditorCell {
	c := &EditorCell{}
	c.init(c, TypeInput)
	return c
}

// Value returns the editable text.
func (c *EditorCell) Value() string { return c.text }

// SetValue replaces the editable text.
func (c *EditorCell) SetValue(text string) {
	c.text = text
	c.resetSize()
}

func (c *EditorCell) Copy() Cell {
	cp := NewEditorCell()
	c.copyInto(&cp.base)
	cp.text = c.text
	return cp
}

func (c *EditorCell) Recalculate(mc *MeasureContext, fontsize int) {
	w, h := 0, 0
	lines := strings.Split(c.text, "\n")
	for _, line := range lines {
		lw, lh := mc.Measurer.TextExtent(line, c.style, fontsize)
		if lw > w {
			w = lw
		}
		h += lh
	}
	pad := mc.Px(cellPadding)
	c.setSize(w+2*pad, h+2*pad, h/2+pad)
}

// editorTypeAttr maps the cell role onto the editor element's type attribute.
func (c *EditorCell) editorTypeAttr() string {
	switch c.ctype {
	case TypeText:
		return "text"
	case TypeTitle:
		return "title"
	case TypeSection:
		return "section"
	case TypeSubsection:
		return "subsection"
	default:
		return "input"
	}
}

// EditorTypeFor returns the cell role an editor element type attribute maps
// to. Unknown values keep the input role.
func EditorTypeFor(attr string) CellType {
	switch attr {
	case "text":
		return TypeText
	case "title":
		return TypeTitle
	case "section":
		return TypeSection
	case "subsection", "subsubsection":
		return TypeSubsection
	default:
		return TypeInput
	}
}

func (c *EditorCell) XML(parent *etree.Element) {
	el := parent.CreateElement("editor")
	el.CreateAttr("type", c.editorTypeAttr())
	for _, line := range strings.Split(c.text, "\n") {
		el.CreateElement("line").SetText(line)
	}
	c.xmlFinish(el)
}

func (c *EditorCell) String() string { return c.text }

func (c *EditorCell) TeX() string {
	return "\\begin{verbatim}\n" + c.text + "\n\\end{verbatim}"
}
