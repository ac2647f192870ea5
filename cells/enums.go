package cells

import "fmt"

// CellType describes the visual role a cell plays in the worksheet: whether
// it is part of evaluator input, an output label, free-form text and so on.
// The role decides default fonts and whether the content travels to the
// evaluation engine.
type CellType int

const (
	TypeDefault CellType = iota
	TypeMainPrompt
	TypePrompt
	TypeLabel
	TypeInput
	TypeError
	TypeText
	TypeSubsection
	TypeSection
	TypeTitle
	TypeImage
	TypeSlide
	TypeGroup
)

func (t CellType) String() string {
	switch t {
	case TypeDefault:
		return "default"
	case TypeMainPrompt:
		return "main-prompt"
	case TypePrompt:
		return "prompt"
	case TypeLabel:
		return "label"
	case TypeInput:
		return "input"
	case TypeError:
		return "error"
	case TypeText:
		return "text"
	case TypeSubsection:
		return "subsection"
	case TypeSection:
		return "section"
	case TypeTitle:
		return "title"
	case TypeImage:
		return "image"
	case TypeSlide:
		return "slide"
	case TypeGroup:
		return "group"
	default:
		return fmt.Sprintf("CellType(%d)", int(t))
	}
}

// TextStyle selects the glyph style of a text leaf and doubles as the leaf
// tag selector in the worksheet XML vocabulary.
type TextStyle int

const (
	StyleDefault TextStyle = iota
	StyleVariable
	StyleNumber
	StyleFunction
	StyleGreek
	StyleSpecial
	StyleString
	StyleLabel
	StyleUserLabel
	StyleError
)

func (s TextStyle) String() string {
	switch s {
	case StyleDefault:
		return "default"
	case StyleVariable:
		return "variable"
	case StyleNumber:
		return "number"
	case StyleFunction:
		return "function"
	case StyleGreek:
		return "greek"
	case StyleSpecial:
		return "special"
	case StyleString:
		return "string"
	case StyleLabel:
		return "label"
	case StyleUserLabel:
		return "userlabel"
	case StyleError:
		return "error"
	default:
		return fmt.Sprintf("TextStyle(%d)", int(s))
	}
}

// leafTag returns the worksheet XML tag a text leaf of this style is saved
// under. Hidden text leaves use "h" regardless of style.
func (s TextStyle) leafTag() string {
	switch s {
	case StyleVariable:
		return "v"
	case StyleNumber:
		return "n"
	case StyleFunction:
		return "fnm"
	case StyleGreek:
		return "g"
	case StyleSpecial:
		return "s"
	case StyleString:
		return "st"
	case StyleLabel, StyleUserLabel:
		return "lbl"
	default:
		return "t"
	}
}

// FracStyle selects how a fraction is typeset.
type FracStyle int

const (
	FracNormal FracStyle = iota
	// FracChoose renders the two parts as a binomial coefficient, no line.
	FracChoose
	// FracDiff renders a derivative-style fraction.
	FracDiff
)

// IntStyle distinguishes definite from indefinite integrals.
type IntStyle int

const (
	IntIndefinite IntStyle = iota
	IntDefinite
)

// SumStyle selects between sum, product and the lower-bound-only sum.
type SumStyle int

const (
	SumSum SumStyle = iota
	SumProduct
	SumLower
)

func (s SumStyle) String() string {
	switch s {
	case SumProduct:
		return "prod"
	case SumLower:
		return "lsum"
	default:
		return "sum"
	}
}

// GroupType is the category of a foldable document block.
type GroupType int

const (
	GroupCode GroupType = iota
	GroupImage
	GroupPagebreak
	GroupText
	GroupTitle
	GroupSection
	GroupSubsection
	GroupSubsubsection
)

func (g GroupType) String() string {
	switch g {
	case GroupCode:
		return "code"
	case GroupImage:
		return "image"
	case GroupPagebreak:
		return "pagebreak"
	case GroupText:
		return "text"
	case GroupTitle:
		return "title"
	case GroupSection:
		return "section"
	case GroupSubsection:
		return "subsection"
	case GroupSubsubsection:
		return "subsubsection"
	default:
		return fmt.Sprintf("GroupType(%d)", int(g))
	}
}

// SectioningLevel returns the sectioning depth a block type is saved with.
// Only title and the section family carry one.
func (g GroupType) SectioningLevel() int {
	switch g {
	case GroupTitle:
		return 1
	case GroupSection:
		return 2
	case GroupSubsection:
		return 3
	case GroupSubsubsection:
		return 4
	default:
		return 0
	}
}

// editorType maps a block type to the type attribute of its editor element.
func (g GroupType) editorType() string {
	switch g {
	case GroupCode:
		return "input"
	case GroupTitle:
		return "title"
	case GroupSection:
		return "section"
	case GroupSubsection:
		return "subsection"
	case GroupSubsubsection:
		return "subsubsection"
	default:
		return "text"
	}
}
