package cells

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func textChain(values ...string) Cell {
	var head Cell
	for _, v := range values {
		c := NewTextCell(v)
		if head == nil {
			head = c
		} else {
			head.Append(c)
		}
	}
	return head
}

func TestChainLinks(t *testing.T) {
	head := textChain("a", "b", "c")

	if got := ChainLength(head); got != 3 {
		t.Fatalf("ChainLength = %d, want 3", got)
	}
	if got := LastCell(head).Value(); got != "c" {
		t.Errorf("LastCell value = %q, want %q", got, "c")
	}

	b := head.Next()
	if b == nil || b.Value() != "b" {
		t.Fatalf("Next() = %v, want cell b", b)
	}
	if b.Previous() != head {
		t.Error("Previous() of second cell is not head")
	}
	if LastCell(head).Next() != nil {
		t.Error("tail has a next sibling")
	}
}

func TestAppendNil(t *testing.T) {
	head := NewTextCell("a")
	head.Append(nil)
	if got := ChainLength(head); got != 1 {
		t.Errorf("ChainLength after appending nil = %d, want 1", got)
	}
}

func TestAppendChain(t *testing.T) {
	head := textChain("a", "b")
	head.Append(textChain("c", "d"))

	if got := ChainLength(head); got != 4 {
		t.Fatalf("ChainLength = %d, want 4", got)
	}
	if got := ChainString(head); got != "abcd" {
		t.Errorf("ChainString = %q, want %q", got, "abcd")
	}
}

func TestDetach(t *testing.T) {
	head := textChain("a", "b", "c")
	mid := head.Next()

	detached := mid.Detach()
	if detached != mid {
		t.Fatal("Detach did not return the detached cell")
	}
	if got := ChainString(head); got != "ac" {
		t.Errorf("chain after detach = %q, want %q", got, "ac")
	}
	if mid.Next() != nil || mid.Previous() != nil {
		t.Error("detached cell still linked")
	}
}

func TestCopyListIsIndependent(t *testing.T) {
	head := textChain("a", "b", "c")
	head.Next().SetHighlight(true)

	cp := CopyList(head)
	if got := ChainString(cp); got != "abc" {
		t.Fatalf("copied chain = %q, want %q", got, "abc")
	}
	if !cp.Next().Highlight() {
		t.Error("copy lost the highlight flag")
	}

	// mutating the copy must not touch the original
	cp.Next().(*TextCell).SetValue("X")
	if got := ChainString(head); got != "abc" {
		t.Errorf("original chain changed to %q after editing copy", got)
	}
}

func TestCopyDoesNotCarryLinks(t *testing.T) {
	head := textChain("a", "b")
	cp := head.Copy()
	if cp.Next() != nil || cp.Previous() != nil {
		t.Error("single-cell copy carries sibling links")
	}
}

func TestBuildDrawOrderSkipsHidden(t *testing.T) {
	head := textChain("a", "b", "c", "d")
	head.Next().SetHidden(true)

	visible := BuildDrawOrder(head)
	if len(visible) != 3 {
		t.Fatalf("draw order has %d cells, want 3", len(visible))
	}
	if visible[0] != head {
		t.Error("draw order does not start at head")
	}
	if head.NextToDraw().Value() != "c" {
		t.Errorf("NextToDraw skips to %q, want %q", head.NextToDraw().Value(), "c")
	}
	if visible[2].PreviousToDraw().Value() != "c" {
		t.Error("draw-order back link broken")
	}

	// structural chain is untouched
	if got := ChainLength(head); got != 4 {
		t.Errorf("sibling chain length = %d, want 4", got)
	}

	// unhiding and rebuilding restores the full view
	head.Next().SetHidden(false)
	if got := len(BuildDrawOrder(head)); got != 4 {
		t.Errorf("rebuilt draw order has %d cells, want 4", got)
	}
}

func TestRecalculateAndLineExtents(t *testing.T) {
	mc := NewMeasureContext()
	head := textChain("short", "x")

	RecalculateChain(head, mc, 12)
	if head.Width() <= 0 || head.Height() <= 0 {
		t.Fatalf("metrics not computed: w=%d h=%d", head.Width(), head.Height())
	}
	if head.Width() <= head.Next().Width() {
		t.Error("longer text is not wider")
	}
	if head.MaxCenter() < head.Center() {
		t.Error("MaxCenter below own center")
	}
	if head.MaxHeight() != head.MaxCenter()+head.MaxDrop() {
		t.Error("MaxHeight is not center plus drop")
	}
}

func TestMaxCenterStopsAtLineBreak(t *testing.T) {
	mc := NewMeasureContext()

	head := NewTextCell("a")
	frac := NewFracCell()
	frac.SetNum(NewTextCell("1"))
	frac.SetDenom(NewTextCell("2"))
	head.Append(frac)
	tail := NewTextCell("b")
	tail.ForceBreakLine(true)
	head.Append(tail)

	RecalculateChain(head, mc, 12)

	// the fraction is taller than plain text, the run includes it
	if head.MaxCenter() < frac.Center() {
		t.Errorf("run center %d below fraction center %d", head.MaxCenter(), frac.Center())
	}
	// the cell after the break starts its own run
	if tail.MaxCenter() != tail.Center() {
		t.Errorf("post-break run center = %d, want %d", tail.MaxCenter(), tail.Center())
	}
}

func TestInvalidation(t *testing.T) {
	mc := NewMeasureContext()

	frac := NewFracCell()
	frac.SetNum(NewTextCell("1"))
	frac.SetDenom(NewTextCell("2"))
	frac.Recalculate(mc, 12)
	if frac.Width() < 0 {
		t.Fatal("width not computed")
	}

	frac.InvalidateSizeInformation()
	if frac.Width() != -1 {
		t.Error("width cache survived invalidation")
	}
	if frac.Num().Width() != -1 {
		t.Error("child slot cache survived invalidation")
	}

	frac.Recalculate(mc, 12)
	if frac.Width() < 0 {
		t.Error("recalculation after invalidation failed")
	}
}

func TestBreakUpAndUnbreak(t *testing.T) {
	mc := NewMeasureContext()
	cell := NewTextCell("verylongproduct")
	cell.Recalculate(mc, 12)

	if !cell.BreakUp() {
		t.Fatal("first BreakUp reported no change")
	}
	if cell.BreakUp() {
		t.Error("second BreakUp reported a change")
	}
	if !cell.IsBroken() {
		t.Error("cell not marked broken")
	}
	if cell.Width() != -1 {
		t.Error("size cache survived BreakUp")
	}

	cell.Unbreak()
	if cell.IsBroken() {
		t.Error("cell still broken after Unbreak")
	}
}

func TestRectHitTests(t *testing.T) {
	mc := NewMeasureContext()
	cell := NewTextCell("abc")
	cell.Recalculate(mc, 12)
	cell.SetPosition(10, 20)

	r := cell.Rect()
	if !cell.ContainsPoint(r.X, r.Y) {
		t.Error("top-left corner not inside the cell")
	}
	if cell.ContainsPoint(r.X+r.Width, r.Y) {
		t.Error("right edge counted as inside")
	}
	inner := Rect{X: r.X, Y: r.Y, Width: 1, Height: 1}
	if !cell.ContainsRect(inner) {
		t.Error("unit rect at the corner not contained")
	}
	wide := Rect{X: r.X, Y: r.Y, Width: r.Width + 1, Height: r.Height}
	if cell.ContainsRect(wide) {
		t.Error("wider rect reported as contained")
	}
}

func TestChainStringHonorsForcedBreaks(t *testing.T) {
	head := textChain("a", "b")
	head.Next().ForceBreakLine(true)
	if got := ChainString(head); got != "a\nb" {
		t.Errorf("ChainString = %q, want %q", got, "a\nb")
	}
}

func serializeChain(t *testing.T, head Cell) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	root := doc.CreateElement("root")
	ChainXML(head, root)
	return root
}

func TestTextCellXML(t *testing.T) {
	t.Run("variable", func(t *testing.T) {
		c := NewTextCell("x")
		c.SetStyle(StyleVariable)
		root := serializeChain(t, c)
		el := root.SelectElement("v")
		if el == nil {
			t.Fatal("no v element written")
		}
		if el.Text() != "x" {
			t.Errorf("text = %q, want %q", el.Text(), "x")
		}
	})

	t.Run("hidden operator", func(t *testing.T) {
		c := NewTextCell("*")
		c.SetHidden(true)
		root := serializeChain(t, c)
		if root.SelectElement("h") == nil {
			t.Fatal("hidden cell not written as h element")
		}
	})

	t.Run("user label", func(t *testing.T) {
		c := NewTextCell("(result)")
		c.SetStyle(StyleUserLabel)
		root := serializeChain(t, c)
		el := root.SelectElement("lbl")
		if el == nil {
			t.Fatal("no lbl element written")
		}
		if el.SelectAttrValue("userdefined", "") != "yes" {
			t.Error("user label missing userdefined attribute")
		}
	})

	t.Run("altCopy attribute", func(t *testing.T) {
		c := NewTextCell("x")
		c.SetStyle(StyleVariable)
		c.SetAltCopyText("x_1")
		root := serializeChain(t, c)
		if got := root.SelectElement("v").SelectAttrValue("altCopy", ""); got != "x_1" {
			t.Errorf("altCopy = %q, want %q", got, "x_1")
		}
	})

	t.Run("truncated value round-trips verbatim", func(t *testing.T) {
		c := NewTextCell("123456789012345")
		c.SetStyle(StyleNumber)
		c.SetDisplayedText("123[9 digits]345")
		if !c.IsShortened() {
			t.Fatal("cell with distinct display text not reported shortened")
		}
		root := serializeChain(t, c)
		if got := root.SelectElement("n").Text(); got != "123456789012345" {
			t.Errorf("serialized value = %q, want the verbatim digits", got)
		}
	})
}

func TestFracCell(t *testing.T) {
	frac := NewFracCell()
	frac.SetNum(NewTextCell("a"))
	frac.SetDenom(NewTextCell("b"))

	if got := frac.String(); got != "(a)/(b)" {
		t.Errorf("String = %q, want %q", got, "(a)/(b)")
	}
	if got := frac.TeX(); !strings.Contains(got, "\\frac") {
		t.Errorf("TeX = %q, want a \\frac form", got)
	}

	root := serializeChain(t, frac)
	f := root.SelectElement("f")
	if f == nil {
		t.Fatal("no f element written")
	}
	if got := len(f.SelectElements("r")); got != 2 {
		t.Errorf("fraction has %d slots, want 2", got)
	}

	t.Run("choose style writes line attribute", func(t *testing.T) {
		frac.SetFracStyle(FracChoose)
		root := serializeChain(t, frac)
		if got := root.SelectElement("f").SelectAttrValue("line", ""); got != "no" {
			t.Errorf("line attribute = %q, want %q", got, "no")
		}
	})
}

func TestSumCellString(t *testing.T) {
	sum := NewSumCell()
	sum.SetSumStyle(SumLower)
	sum.SetUnder(NewTextCell("i in l"))
	sum.SetBase(NewTextCell("i"))

	if got := sum.String(); got != "lsum(i,i in l)" {
		t.Errorf("String = %q, want %q", got, "lsum(i,i in l)")
	}
}

func TestMatrCell(t *testing.T) {
	m := NewMatrCell()
	m.NewRow()
	m.AddNewCell(NewTextCell("1"))
	m.AddNewCell(NewTextCell("2"))
	m.NewRow()
	m.AddNewCell(NewTextCell("3"))
	m.AddNewCell(NewTextCell("4"))

	if m.Rows() != 2 || m.Cols() != 2 {
		t.Fatalf("shape = %dx%d, want 2x2", m.Rows(), m.Cols())
	}
	if got := m.Entry(1, 0).Value(); got != "3" {
		t.Errorf("Entry(1,0) = %q, want %q", got, "3")
	}
	if m.Entry(5, 5) != nil {
		t.Error("out-of-range entry is not nil")
	}

	root := serializeChain(t, m)
	tb := root.SelectElement("tb")
	if tb == nil {
		t.Fatal("no tb element written")
	}
	rows := tb.SelectElements("mtr")
	if len(rows) != 2 {
		t.Fatalf("serialized %d rows, want 2", len(rows))
	}
	if got := len(rows[0].SelectElements("mtd")); got != 2 {
		t.Errorf("first row has %d entries, want 2", got)
	}
}

func TestEditorCellXML(t *testing.T) {
	ed := NewEditorCell()
	ed.SetType(TypeInput)
	ed.SetValue("a:1;\nb:2;")

	root := serializeChain(t, ed)
	el := root.SelectElement("editor")
	if el == nil {
		t.Fatal("no editor element written")
	}
	if got := el.SelectAttrValue("type", ""); got != "input" {
		t.Errorf("type attribute = %q, want %q", got, "input")
	}
	lines := el.SelectElements("line")
	if len(lines) != 2 {
		t.Fatalf("serialized %d lines, want 2", len(lines))
	}
	if got := lines[1].Text(); got != "b:2;" {
		t.Errorf("second line = %q, want %q", got, "b:2;")
	}
}

func TestGroupCellOutput(t *testing.T) {
	g := NewGroupCell(GroupCode)
	g.SetEditableContent("1+1;")

	out := textChain("(%o1)", "2")
	g.AppendOutput(out)

	if g.Output() == nil {
		t.Fatal("output chain not attached")
	}
	for c := g.Output(); c != nil; c = c.Next() {
		if c.Group() != g {
			t.Errorf("output cell %q not adopted by the group", c.Value())
		}
	}

	g.AppendOutput(NewTextCell("done"))
	if got := ChainLength(g.Output()); got != 3 {
		t.Errorf("output chain length = %d, want 3", got)
	}

	g.RemoveOutput()
	if g.Output() != nil {
		t.Error("output survived RemoveOutput")
	}
}

func TestGroupCellFolding(t *testing.T) {
	section := NewGroupCell(GroupSection)
	sub := NewGroupCell(GroupText)
	sub.SetEditableContent("folded text")

	section.HideTree(sub)
	if !section.Folded() {
		t.Fatal("group not folded after HideTree")
	}
	if !sub.Hidden() {
		t.Error("folded subtree not marked hidden")
	}
	if sub.Group() != section {
		t.Error("folded subtree not back-referenced")
	}

	tree := section.UnhideTree()
	if tree != sub {
		t.Fatal("UnhideTree returned a different tree")
	}
	if section.Folded() {
		t.Error("group still folded after UnhideTree")
	}
	if sub.Hidden() {
		t.Error("subtree still hidden after UnhideTree")
	}
	if section.UnhideTree() != nil {
		t.Error("second UnhideTree returned a tree")
	}
}

func TestGroupCellXML(t *testing.T) {
	t.Run("code group", func(t *testing.T) {
		g := NewGroupCell(GroupCode)
		g.SetEditableContent("1+1;")
		g.AppendOutput(NewTextCell("2"))

		root := serializeChain(t, g)
		cell := root.SelectElement("cell")
		if cell == nil {
			t.Fatal("no cell element written")
		}
		if got := cell.SelectAttrValue("type", ""); got != "code" {
			t.Errorf("type = %q, want %q", got, "code")
		}
		input := cell.SelectElement("input")
		if input == nil || input.SelectElement("editor") == nil {
			t.Fatal("code group has no input editor")
		}
		output := cell.SelectElement("output")
		if output == nil || output.SelectElement("mth") == nil {
			t.Fatal("code group has no math output")
		}
	})

	t.Run("deep subsection compatibility", func(t *testing.T) {
		g := NewGroupCell(GroupSubsubsection)
		root := serializeChain(t, g)
		cell := root.SelectElement("cell")
		if got := cell.SelectAttrValue("type", ""); got != "subsection" {
			t.Errorf("type = %q, want %q", got, "subsection")
		}
		if got := cell.SelectAttrValue("sectioning_level", ""); got != "4" {
			t.Errorf("sectioning_level = %q, want %q", got, "4")
		}
	})

	t.Run("hidden group", func(t *testing.T) {
		g := NewGroupCell(GroupText)
		g.Hide(true)
		root := serializeChain(t, g)
		if got := root.SelectElement("cell").SelectAttrValue("hide", ""); got != "true" {
			t.Errorf("hide attribute = %q, want %q", got, "true")
		}
	})
}

func TestGroupCellCopy(t *testing.T) {
	g := NewGroupCell(GroupCode)
	g.SetEditableContent("x;")
	g.AppendOutput(NewTextCell("x"))

	cp := g.Copy().(*GroupCell)
	if cp.ID() == g.ID() {
		t.Error("copy shares the original's identity")
	}
	if cp.EditableContent() != "x;" {
		t.Error("copy lost the source text")
	}
	if cp.Output() == nil || cp.Output() == g.Output() {
		t.Error("copy shares the original's output chain")
	}
	if cp.Output().Group() != cp {
		t.Error("copied output not adopted by the copy")
	}
}

func TestIsOperator(t *testing.T) {
	op := NewTextCell("+")
	if !op.IsOperator() {
		t.Error("plus sign not recognized as operator")
	}
	word := NewTextCell("sin")
	if word.IsOperator() {
		t.Error("word recognized as operator")
	}
}

func TestTeXEscaping(t *testing.T) {
	c := NewTextCell("a_b%c")
	c.SetStyle(StyleString)
	tex := c.TeX()
	if strings.Contains(tex, "a_b%c") {
		t.Errorf("TeX output %q carries unescaped specials", tex)
	}
}
