package cells

import (
	"fmt"
	"strconv"
	"strings"
)

// treeWriter accumulates an indented structure dump.
type treeWriter struct {
	w *strings.Builder
}

func newTreeWriter() *treeWriter {
	return &treeWriter{w: &strings.Builder{}}
}

func (tw treeWriter) String() string {
	return tw.w.String()
}

func (tw treeWriter) Line(depth int, format string, args ...any) {
	for i := 0; i < depth; i++ {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}

// DumpTree renders the structure of a cell chain for inspection: one line
// per cell with its kind, flags and value, child slots indented below.
func DumpTree(head Cell) string {
	tw := newTreeWriter()
	dumpChain(tw, head, 0)
	return tw.String()
}

func dumpChain(tw *treeWriter, head Cell, depth int) {
	for c := head; c != nil; c = c.cellBase().next {
		dumpCell(tw, c, depth)
	}
}

func dumpCell(tw *treeWriter, c Cell, depth int) {
	label := kindOf(c)
	var flags []string
	if c.Hidden() {
		flags = append(flags, "hidden")
	}
	if c.Highlight() {
		flags = append(flags, "highlight")
	}
	if c.cellBase().ForcedBreak() {
		flags = append(flags, "break")
	}
	suffix := ""
	if len(flags) > 0 {
		suffix = " [" + strings.Join(flags, ",") + "]"
	}

	if v := c.Value(); v != "" {
		tw.Line(depth, "%s%s: %s", label, suffix, encodeText(v))
	} else {
		tw.Line(depth, "%s%s", label, suffix)
	}
	for _, child := range c.Children() {
		dumpChain(tw, child, depth+1)
	}
}

func kindOf(c Cell) string {
	switch v := c.(type) {
	case *GroupCell:
		return "group:" + v.GroupType().String()
	case *EditorCell:
		return "editor"
	case *TextCell:
		return "text"
	case *FracCell:
		return "frac"
	case *ExptCell:
		return "expt"
	case *SubCell:
		return "sub"
	case *SubSupCell:
		return "subsup"
	case *SqrtCell:
		return "sqrt"
	case *AbsCell:
		return "abs"
	case *ConjugateCell:
		return "conjugate"
	case *ParenCell:
		return "paren"
	case *LimitCell:
		return "limit"
	case *SumCell:
		return v.sumStyle.String()
	case *IntCell:
		return "integral"
	case *FunCell:
		return "function"
	case *AtCell:
		return "at"
	case *DiffCell:
		return "diff"
	case *MatrCell:
		return "matrix"
	case *ImgCell:
		return "image"
	case *SlideCell:
		return "slide"
	default:
		return "cell"
	}
}
