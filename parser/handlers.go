package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"

	"wmx/cells"
)

// handlerFunc builds one cell (or a chain) from one element. Returning nil
// means the construct is malformed or unknown; the caller records the
// one-shot warning and moves on.
type handlerFunc func(p *Parser, el *etree.Element, ctx styleContext) cells.Cell

// handlers is the complete tag vocabulary of the worksheet format. Filled
// in init to let the handlers recurse through the table.
var handlers map[string]handlerFunc

func init() {
	handlers = map[string]handlerFunc{
		// text leaves
		"v":   textHandler(cells.StyleVariable),
		"n":   textHandler(cells.StyleNumber),
		"g":   textHandler(cells.StyleGreek),
		"s":   textHandler(cells.StyleSpecial),
		"fnm": textHandler(cells.StyleFunction),
		"st":  textHandler(cells.StyleString),
		"t":   parseOtherText,
		"h":   parseHiddenText,
		"lbl": parseLabel,

		// composites
		"f":  parseFrac,
		"e":  parseSup,
		"i":  parseSub,
		"ie": parseSubSup,
		"fn": parseFun,
		"q":  parseSqrt,
		"a":  parseAbs,
		"cj": parseConjugate,
		"p":  parseParen,
		"lm": parseLimit,
		"sm": parseSum,
		"in": parseInt,
		"at": parseAt,
		"d":  parseDiff,
		"tb": parseTable,

		// structure
		"r":      parsePassThrough,
		"hl":     parseHighlight,
		"mth":    parseLineWrapper,
		"line":   parseLineWrapper,
		"mspace": parseSpace,
		"ascii":  parseCharCode,

		// document level
		"img":    parseImg,
		"slide":  parseSlide,
		"editor": parseEditorTag,
		"cell":   parseCellTag,
	}
}

func textHandler(style cells.TextStyle) handlerFunc {
	return func(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
		return p.newText(el.Text(), style, ctx)
	}
}

func parseOtherText(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	style := cells.StyleDefault
	if el.SelectAttrValue("type", "") == "error" {
		style = cells.StyleError
	}
	return p.newText(el.Text(), style, ctx)
}

func parseHiddenText(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	cell := p.newText(el.Text(), cells.StyleDefault, ctx)
	cell.SetHidden(true)
	return cell
}

func parseLabel(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	style := cells.StyleLabel
	if el.SelectAttrValue("userdefined", "no") == "yes" {
		style = cells.StyleUserLabel
	}
	cell := p.newText(el.Text(), style, ctx)
	cell.ForceBreakLine(true)
	return cell
}

func parseCharCode(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	content := el.Text()
	if code, err := strconv.Atoi(strings.TrimSpace(content)); err == nil &&
		code >= 0 && code <= utf8.MaxRune && utf8.ValidRune(rune(code)) {
		content = string(rune(code))
	}
	cell := cells.NewTextCell(content)
	cell.SetType(ctx.style)
	cell.SetHighlight(ctx.highlight)
	return cell
}

func parseSpace(p *Parser, _ *etree.Element, ctx styleContext) cells.Cell {
	cell := cells.NewTextCell(" ")
	cell.SetType(ctx.style)
	return cell
}

func parsePassThrough(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	return p.parseTokens(el.Child, true, ctx)
}

func parseHighlight(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	ctx.highlight = true
	return p.parseTokens(el.Child, true, ctx)
}

// parseLineWrapper parses a block-level line: children as a chain with a
// forced leading break, a lone space cell when the line came out empty.
func parseLineWrapper(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	head := p.parseTokens(el.Child, true, ctx)
	if head == nil {
		head = cells.NewTextCell(" ")
		head.SetType(ctx.style)
	}
	head.ForceBreakLine(true)
	return head
}

func parseFrac(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	children := el.ChildElements()
	if len(children) < 2 {
		return nil
	}
	frac := cells.NewFracCell()
	frac.SetFracStyle(ctx.fracStyle)
	frac.SetHighlight(ctx.highlight)
	num := p.parseElement(children[0], ctx)
	denom := p.parseElement(children[1], ctx)
	if num == nil || denom == nil {
		return nil
	}
	frac.SetNum(num)
	frac.SetDenom(denom)
	if el.SelectAttrValue("line", "") == "no" {
		frac.SetFracStyle(cells.FracChoose)
	}
	if el.SelectAttrValue("diffstyle", "") == "yes" {
		frac.SetFracStyle(cells.FracDiff)
	}
	frac.SetType(ctx.style)
	frac.SetStyle(cells.StyleVariable)
	return frac
}

func parseSup(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	children := el.ChildElements()
	if len(children) < 2 {
		return nil
	}
	expt := cells.NewExptCell()
	if len(el.Attr) > 0 {
		expt.IsMatrix(true)
	}
	base := p.parseElement(children[0], ctx)
	power := p.parseElement(children[1], ctx)
	if base == nil || power == nil {
		return nil
	}
	power.SetExponentFlag()
	expt.SetBase(base)
	expt.SetPower(power)
	expt.SetType(ctx.style)
	expt.SetStyle(cells.StyleVariable)
	return expt
}

func parseSub(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	children := el.ChildElements()
	if len(children) < 2 {
		return nil
	}
	sub := cells.NewSubCell()
	base := p.parseElement(children[0], ctx)
	index := p.parseElement(children[1], ctx)
	if base == nil || index == nil {
		return nil
	}
	index.SetExponentFlag()
	sub.SetBase(base)
	sub.SetIndex(index)
	sub.SetType(ctx.style)
	sub.SetStyle(cells.StyleVariable)
	return sub
}

func parseSubSup(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	children := el.ChildElements()
	if len(children) < 3 {
		return nil
	}
	subsup := cells.NewSubSupCell()
	base := p.parseElement(children[0], ctx)
	index := p.parseElement(children[1], ctx)
	power := p.parseElement(children[2], ctx)
	if base == nil || index == nil || power == nil {
		return nil
	}
	index.SetExponentFlag()
	power.SetExponentFlag()
	subsup.SetBase(base)
	subsup.SetIndex(index)
	subsup.SetExponent(power)
	subsup.SetType(ctx.style)
	subsup.SetStyle(cells.StyleVariable)
	return subsup
}

func parseFun(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	children := el.ChildElements()
	if len(children) < 2 {
		return nil
	}
	fun := cells.NewFunCell()
	name := p.parseElement(children[0], ctx)
	arg := p.parseElement(children[1], ctx)
	if name == nil || arg == nil {
		return nil
	}
	fun.SetName(name)
	fun.SetArg(arg)
	fun.SetType(ctx.style)
	fun.SetStyle(cells.StyleVariable)
	return fun
}

func parseSqrt(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	cell := cells.NewSqrtCell()
	cell.SetInner(p.parseTokens(el.Child, true, ctx))
	cell.SetType(ctx.style)
	cell.SetStyle(cells.StyleVariable)
	cell.SetHighlight(ctx.highlight)
	return cell
}

func parseAbs(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	cell := cells.NewAbsCell()
	cell.SetInner(p.parseTokens(el.Child, true, ctx))
	cell.SetType(ctx.style)
	cell.SetStyle(cells.StyleVariable)
	cell.SetHighlight(ctx.highlight)
	return cell
}

func parseConjugate(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	cell := cells.NewConjugateCell()
	cell.SetInner(p.parseTokens(el.Child, true, ctx))
	cell.SetType(ctx.style)
	cell.SetStyle(cells.StyleVariable)
	cell.SetHighlight(ctx.highlight)
	return cell
}

func parseParen(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	cell := cells.NewParenCell()
	cell.SetInner(p.parseTokens(el.Child, true, ctx), ctx.style)
	cell.SetHighlight(ctx.highlight)
	cell.SetStyle(cells.StyleVariable)
	if len(el.Attr) > 0 {
		cell.SetPrint(false)
	}
	return cell
}

func parseLimit(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	children := el.ChildElements()
	if len(children) < 3 {
		return nil
	}
	limit := cells.NewLimitCell()
	name := p.parseElement(children[0], ctx)
	under := p.parseElement(children[1], ctx)
	base := p.parseElement(children[2], ctx)
	if name == nil || under == nil || base == nil {
		return nil
	}
	limit.SetName(name)
	limit.SetUnder(under)
	limit.SetBase(base)
	limit.SetType(ctx.style)
	limit.SetStyle(cells.StyleVariable)
	return limit
}

func parseSum(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	children := el.ChildElements()
	if len(children) < 3 {
		return nil
	}
	sum := cells.NewSumCell()
	typ := el.SelectAttrValue("type", "sum")
	switch typ {
	case "prod":
		sum.SetSumStyle(cells.SumProduct)
	case "lsum":
		sum.SetSumStyle(cells.SumLower)
	}
	sum.SetHighlight(ctx.highlight)
	under := p.parseElement(children[0], ctx)
	if under == nil {
		return nil
	}
	sum.SetUnder(under)
	if typ != "lsum" {
		over := p.parseElement(children[1], ctx)
		if over == nil {
			return nil
		}
		sum.SetOver(over)
	}
	base := p.parseElement(children[2], ctx)
	if base == nil {
		return nil
	}
	sum.SetBase(base)
	sum.SetType(ctx.style)
	sum.SetStyle(cells.StyleVariable)
	return sum
}

func parseInt(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	children := el.ChildElements()
	in := cells.NewIntCell()
	in.SetHighlight(ctx.highlight)
	if len(el.Attr) == 0 {
		// no attribute marks the definite form: lower, upper, base, variable
		if len(children) < 4 {
			return nil
		}
		in.SetIntStyle(cells.IntDefinite)
		under := p.parseElement(children[0], ctx)
		over := p.parseElement(children[1], ctx)
		base := p.parseElement(children[2], ctx)
		variable := p.parseElems(children[3:], ctx)
		if under == nil || over == nil || base == nil || variable == nil {
			return nil
		}
		in.SetUnder(under)
		in.SetOver(over)
		in.SetBase(base)
		in.SetVar(variable)
	} else {
		if len(children) < 2 {
			return nil
		}
		base := p.parseElement(children[0], ctx)
		variable := p.parseElems(children[1:], ctx)
		if base == nil || variable == nil {
			return nil
		}
		in.SetBase(base)
		in.SetVar(variable)
	}
	in.SetType(ctx.style)
	in.SetStyle(cells.StyleVariable)
	return in
}

func parseAt(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	children := el.ChildElements()
	if len(children) < 2 {
		return nil
	}
	at := cells.NewAtCell()
	at.SetHighlight(ctx.highlight)
	base := p.parseElement(children[0], ctx)
	index := p.parseElement(children[1], ctx)
	if base == nil || index == nil {
		return nil
	}
	at.SetBase(base)
	at.SetIndex(index)
	at.SetType(ctx.style)
	at.SetStyle(cells.StyleVariable)
	return at
}

func parseDiff(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	children := el.ChildElements()
	if len(children) < 2 {
		return nil
	}
	diff := cells.NewDiffCell()
	// the operator itself is set in derivative-fraction style; the change
	// must not leak past this child
	diffCtx := ctx
	diffCtx.fracStyle = cells.FracDiff
	op := p.parseElement(children[0], diffCtx)
	base := p.parseElems(children[1:], ctx)
	if op == nil || base == nil {
		return nil
	}
	diff.SetDiff(op)
	diff.SetBase(base)
	diff.SetType(ctx.style)
	diff.SetStyle(cells.StyleVariable)
	return diff
}

func parseTable(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	matrix := cells.NewMatrCell()
	matrix.SetHighlight(ctx.highlight)

	if el.SelectAttrValue("special", "false") == "true" {
		matrix.SetSpecialFlag(true)
	}
	if el.SelectAttrValue("inference", "false") == "true" {
		matrix.SetInferenceFlag(true)
		matrix.SetSpecialFlag(true)
	}
	if el.SelectAttrValue("colnames", "false") == "true" {
		matrix.ColNames(true)
	}
	if el.SelectAttrValue("rownames", "false") == "true" {
		matrix.RowNames(true)
	}

	for _, row := range el.ChildElements() {
		matrix.NewRow()
		for _, entry := range row.ChildElements() {
			matrix.AddNewCell(p.parseElement(entry, ctx))
		}
	}
	matrix.SetType(ctx.style)
	matrix.SetStyle(cells.StyleVariable)
	return matrix
}

func parseImg(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	fileName := strings.TrimSpace(el.Text())

	var img *cells.ImgCell
	if p.resolver != nil {
		// loading from a worksheet archive: nothing to delete on close
		img = cells.NewImgCell(fileName, false, p.resolver)
	} else if el.SelectAttrValue("del", "yes") != "no" {
		img = cells.NewImgCell(fileName, true, nil)
	} else {
		img = cells.NewImgCell(fileName, false, nil)
	}

	if el.SelectAttrValue("rect", "true") == "false" {
		img.DrawRectangle(false)
	}
	return img
}

func parseSlide(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	slide := cells.NewSlideCell(p.resolver)
	if fr := el.SelectAttrValue("fr", ""); fr != "" {
		if rate, err := strconv.Atoi(fr); err == nil {
			slide.SetFrameRate(rate)
		}
	}
	var frames []string
	for _, token := range strings.Split(el.Text(), ";") {
		if token = strings.TrimSpace(token); token != "" {
			frames = append(frames, token)
		}
	}
	slide.LoadImages(frames)
	return slide
}

func parseEditorTag(p *Parser, el *etree.Element, ctx styleContext) cells.Cell {
	return p.parseEditor(el)
}

// parseEditor builds an editor cell: role from the type attribute, text
// from the line children joined verbatim.
func (p *Parser) parseEditor(el *etree.Element) *cells.EditorCell {
	editor := cells.NewEditorCell()
	editor.SetType(cells.EditorTypeFor(el.SelectAttrValue("type", "input")))

	var lines []string
	for _, line := range el.ChildElements() {
		if line.Tag == "line" {
			lines = append(lines, line.Text())
		}
	}
	editor.SetValue(strings.Join(lines, "\n"))
	return editor
}
