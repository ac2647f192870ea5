package parser

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"wmx/cells"
)

// parseCellTag builds a worksheet group from a cell element. The type
// attribute selects the group kind; unknown kinds drop the element.
func parseCellTag(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	hide := el.SelectAttrValue("hide", "false") == "true"

	typ := el.SelectAttrValue("type", "text")
	switch typ {
	case "code":
		return p.parseCodeGroup(el, ctx, hide)
	case "image":
		return p.parseImageGroup(el, ctx, hide)
	case "pagebreak":
		group := cells.NewGroupCell(cells.GroupPagebreak)
		group.Hide(hide)
		return group
	case "text":
		return p.parseTextGroup(el, ctx, cells.GroupText, hide)
	case "title":
		return p.parseTextGroup(el, ctx, cells.GroupTitle, hide)
	case "section":
		return p.parseTextGroup(el, ctx, cells.GroupSection, hide)
	case "subsection":
		gt := cells.GroupSubsection
		// deeper levels are stored as subsections with an explicit level
		if el.SelectAttrValue("sectioning_level", "") == "4" {
			gt = cells.GroupSubsubsection
		}
		return p.parseTextGroup(el, ctx, gt, hide)
	case "subsubsection":
		return p.parseTextGroup(el, ctx, cells.GroupSubsubsection, hide)
	}
	p.log.Warn("dropping group of unknown type", zap.String("type", typ))
	return nil
}

func (p *Parser) parseCodeGroup(el *etree.Element, ctx styleContext, hide bool) cells.Cell {
	group := cells.NewGroupCell(cells.GroupCode)
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "input":
			if editor := child.SelectElement("editor"); editor != nil {
				group.Editor().SetValue(p.parseEditor(editor).Value())
			}
		case "output":
			for _, out := range child.ChildElements() {
				group.AppendOutput(p.parseElement(out, ctx))
			}
		}
	}
	group.Hide(hide)
	return group
}

func (p *Parser) parseImageGroup(el *etree.Element, ctx styleContext, hide bool) cells.Cell {
	group := cells.NewGroupCell(cells.GroupImage)
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "editor":
			group.Editor().SetValue(p.parseEditor(child).Value())
		default:
			group.AppendOutput(p.parseElement(child, ctx))
		}
	}
	group.Hide(hide)
	return group
}

func (p *Parser) parseTextGroup(el *etree.Element, ctx styleContext, gt cells.GroupType, hide bool) cells.Cell {
	group := cells.NewGroupCell(gt)
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "editor":
			group.Editor().SetValue(p.parseEditor(child).Value())
		case "fold":
			// the folded subtree is a sibling chain of groups
			var head, tail cells.Cell
			for _, folded := range child.ChildElements() {
				cell := p.parseElement(folded, ctx)
				if cell == nil {
					continue
				}
				if head == nil {
					head = cell
				} else {
					tail.Append(cell)
				}
				tail = cells.LastCell(cell)
			}
			if head != nil {
				group.HideTree(head)
			}
		}
	}
	group.Hide(hide)
	return group
}
