package cells

import (
	"strings"

	"github.com/beevik/etree"
)

// TextCell is a text leaf: a variable, number, function name, operator or
// plain text run. A numeric leaf may carry a shortened display form next to
// the verbatim value; the verbatim value is what round-trips.
type TextCell struct {
	base
	value     string
	displayed string
}

// NewTextCell creates a text leaf with the given payload.
func NewTextCell(value string) *TextCell {
	c := &TextCell{value: value, displayed: value}
	c.init(c, TypeDefault)
	return c
}

func (c *TextCell) Copy() Cell {
	cp := NewTextCell(c.value)
	c.copyInto(&cp.base)
	cp.displayed = c.displayed
	return cp
}

// Value returns the verbatim payload.
func (c *TextCell) Value() string { return c.value }

// SetValue replaces the payload and resets the display form.
func (c *TextCell) SetValue(v string) {
	c.value = v
	c.displayed = v
	c.resetSize()
}

// DisplayedText returns what layout and plain-text rendering show, which
// differs from Value only when a long numeric literal was shortened.
func (c *TextCell) DisplayedText() string { return c.displayed }

// SetDisplayedText installs a cosmetic display form. Serialization ignores it.
func (c *TextCell) SetDisplayedText(d string) {
	c.displayed = d
	c.resetSize()
}

// IsShortened reports whether the display form elides part of the value.
func (c *TextCell) IsShortened() bool { return c.displayed != c.value }

func (c *TextCell) IsOperator() bool {
	if len(c.value) != 1 {
		return false
	}
	return strings.ContainsAny(c.value, "+-*/^=<>,;:!#−")
}

func (c *TextCell) Recalculate(mc *MeasureContext, fontsize int) {
	fs := fontsize
	if c.exponent {
		fs = smaller(fontsize)
	}
	w, h := mc.Measurer.TextExtent(c.displayed, c.style, fs)
	c.setSize(w, h, h/2)
}

func (c *TextCell) XML(parent *etree.Element) {
	tag := c.style.leafTag()
	if c.hidden {
		tag = "h"
	}
	el := parent.CreateElement(tag)
	if c.style == StyleUserLabel {
		el.CreateAttr("userdefined", "yes")
	}
	if c.ctype == TypeError && c.style == StyleError {
		el.CreateAttr("type", "error")
	}
	el.SetText(c.value)
	c.xmlFinish(el)
}

func (c *TextCell) String() string {
	if c.altCopy != "" {
		return c.altCopy
	}
	return c.displayed
}

func (c *TextCell) TeX() string {
	// the verbatim value, never the shortened form
	v := texEscape(c.value)
	switch c.style {
	case StyleGreek, StyleSpecial:
		if name, ok := texGreek[c.value]; ok {
			return name
		}
		return v
	case StyleString:
		return "\\text{" + v + "}"
	case StyleFunction:
		return "\\operatorname{" + v + "}"
	default:
		return v
	}
}

// texEscape protects LaTeX metacharacters in literal text.
func texEscape(s string) string {
	return texReplacer.Replace(s)
}

var texReplacer = strings.NewReplacer(
	"\\", "\\backslash{}",
	"%", "\\%",
	"$", "\\$",
	"&", "\\&",
	"#", "\\#",
	"_", "\\_",
	"{", "\\{",
	"}", "\\}",
	"~", "\\sim{}",
	"−", "-",
)

var texGreek = map[string]string{
	"%alpha":   "\\alpha",
	"%beta":    "\\beta",
	"%gamma":   "\\gamma",
	"%delta":   "\\delta",
	"%epsilon": "\\varepsilon",
	"%zeta":    "\\zeta",
	"%eta":     "\\eta",
	"%theta":   "\\vartheta",
	"%lambda":  "\\lambda",
	"%mu":      "\\mu",
	"%pi":      "\\pi",
	"%rho":     "\\rho",
	"%sigma":   "\\sigma",
	"%tau":     "\\tau",
	"%phi":     "\\varphi",
	"%omega":   "\\omega",
	"%e":       "e",
	"%i":       "i",
	"inf":      "\\infty",
}
