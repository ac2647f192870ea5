// Package parser builds the in-memory cell tree from the tag-structured
// worksheet XML. It is a recursive-descent translator: one handler per tag,
// dispatching over an etree DOM, producing chained cells.
package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"wmx/cells"
	"wmx/config"
)

// TooLongMessage is the placeholder text substituted for an expression that
// exceeds the configured display-length cutoff.
const TooLongMessage = " << Expression too long to display! >>"

// Notifier receives user-facing parse warnings. The call is fire and
// forget: the parser never depends on the sink beyond delivering the
// message.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// Parser translates worksheet XML into cell trees. The display policy is
// captured at construction; the parser never consults global state.
type Parser struct {
	log      *zap.Logger
	notifier Notifier
	resolver cells.FileResolver

	digitCutoff  int
	lengthCutoff int
}

// New creates a parser. resolver hands embedded files to image cells and
// may be nil when the worksheet is not archive-backed; notifier may be nil
// when no warning sink exists.
func New(display config.DisplayConfig, resolver cells.FileResolver, notifier Notifier, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{
		log:          log,
		notifier:     notifier,
		resolver:     resolver,
		digitCutoff:  display.DigitCutoff(),
		lengthCutoff: display.LengthCutoff(),
	}
}

// styleContext is the ambient display state threaded through recursive
// parse calls. It travels by value: a handler that changes it for its
// children cannot leak the change to its siblings.
type styleContext struct {
	style     cells.CellType
	fracStyle cells.FracStyle
	highlight bool
}

// ParseDocument translates a whole worksheet document. The children of the
// root element are parsed as one chain; a nil document or a document
// without a root is an explicit failure.
func (p *Parser) ParseDocument(doc *etree.Document, style cells.CellType) (cells.Cell, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	ctx := styleContext{style: style}
	return p.parseTokens(root.Child, true, ctx), nil
}

var controlChars = regexp.MustCompile(`[[:cntrl:]]`)

// ParseLine translates one serialized expression, handed over as an XML
// fragment. Inputs at or over the configured cutoff (counted in characters)
// are not parsed at all: a single placeholder cell with a forced line break
// takes their place.
func (p *Parser) ParseLine(s string, style cells.CellType) (cells.Cell, error) {
	s = controlChars.ReplaceAllString(s, "�")

	if length := utf8.RuneCountInString(s); p.lengthCutoff > 0 && length >= p.lengthCutoff {
		p.log.Debug("Expression over display cutoff, substituting placeholder",
			zap.Int("length", length), zap.Int("cutoff", p.lengthCutoff))
		cell := cells.NewTextCell(TooLongMessage)
		cell.SetType(style)
		cell.ForceBreakLine(true)
		return cell, nil
	}

	// a serialized expression is a fragment with any number of top-level
	// elements, wrap it so the document has a single root
	doc := etree.NewDocument()
	if err := doc.ReadFromString("<WXML>" + s + "</WXML>"); err != nil {
		return nil, fmt.Errorf("unable to read expression: %w", err)
	}
	return p.ParseDocument(doc, style)
}

// parseTokens consumes a token sequence. With all set it parses every
// sibling and returns the chain head; otherwise it stops after the first
// produced cell. A handler yielding nil (malformed construct, unknown leaf)
// does not abort the pass: one warning is recorded for the whole call and
// parsing continues with the remaining siblings.
func (p *Parser) parseTokens(tokens []etree.Token, all bool, ctx styleContext) cells.Cell {
	var head, tail cells.Cell
	warn := all

	for _, tok := range tokens {
		var produced cells.Cell

		switch node := tok.(type) {
		case *etree.Element:
			if h, ok := handlers[node.Tag]; ok {
				produced = h(p, node, ctx)
			} else if len(node.Child) > 0 {
				// transparent pass-through: parse the children as if the
				// element were absent
				produced = p.parseTokens(node.Child, true, ctx)
			}
			if produced == nil {
				if warn {
					p.warnUnrecognized(node.Tag)
					warn = false
				}
				continue
			}
			if alt := node.SelectAttrValue("altCopy", ""); alt != "" {
				produced.SetAltCopyText(alt)
			}
		case *etree.CharData:
			if strings.TrimSpace(node.Data) == "" {
				continue
			}
			produced = p.newText(node.Data, cells.StyleDefault, ctx)
		default:
			continue
		}

		if head == nil {
			head = produced
		} else {
			tail.Append(produced)
		}
		tail = cells.LastCell(produced)

		if !all {
			break
		}
	}
	return head
}

// warnUnrecognized reports the one-shot unrecognized-tag warning to the
// log and the notification sink.
func (p *Parser) warnUnrecognized(tag string) {
	p.log.Warn("Unrecognized tag, part of the document will not be loaded correctly", zap.String("tag", tag))
	if p.notifier != nil {
		p.notifier.Notify(fmt.Sprintf("Parts of the document will not be loaded correctly: unknown tag %q.", tag))
	}
}

// parseElement parses a single element as one construct.
func (p *Parser) parseElement(el *etree.Element, ctx styleContext) cells.Cell {
	return p.parseTokens([]etree.Token{el}, false, ctx)
}

// parseElems parses a run of elements as one chain.
func (p *Parser) parseElems(els []*etree.Element, ctx styleContext) cells.Cell {
	tokens := make([]etree.Token, len(els))
	for i, el := range els {
		tokens[i] = el
	}
	return p.parseTokens(tokens, true, ctx)
}

// newText builds a text leaf the way every leaf tag does: style applied,
// highlight inherited, error style overriding the ambient cell role, and
// long numeric literals shortened for display only.
func (p *Parser) newText(content string, style cells.TextStyle, ctx styleContext) *cells.TextCell {
	cell := cells.NewTextCell(content)
	if style == cells.StyleError {
		cell.SetType(cells.TypeError)
	} else {
		cell.SetType(ctx.style)
	}
	cell.SetStyle(style)
	cell.SetHighlight(ctx.highlight)

	// display-only transforms; the verbatim content is what round-trips
	display := strings.ReplaceAll(content, "-", "−")
	if style == cells.StyleNumber {
		if short, ok := truncateNumber(display, p.digitCutoff); ok {
			display = short
		}
	}
	if display != content {
		cell.SetDisplayedText(display)
	}
	return cell
}
