package cells

import (
	"bytes"
	"image"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const defaultFrameRate = 2

// SlideCell is an animated image sequence: a list of frame files played at a
// configurable rate. Frames that fail to resolve stay in the list with an
// empty payload so the animation survives missing files.
type SlideCell struct {
	base
	resolver  FileResolver
	frames    []slideFrame
	frameRate int
}

type slideFrame struct {
	fileName   string
	data       []byte
	imgW, imgH int
}

func NewSlideCell(resolver FileResolver) *SlideCell {
	c := &SlideCell{resolver: resolver, frameRate: defaultFrameRate}
	c.init(c, TypeSlide)
	return c
}

// LoadImages resolves and appends the named frame files in order.
func (c *SlideCell) LoadImages(names []string) {
	resolver := c.resolver
	if resolver == nil {
		resolver = osResolver{}
	}
	for _, name := range names {
		frame := slideFrame{fileName: name}
		if data, err := resolver.ReadFile(name); err == nil {
			frame.data = data
			if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
				frame.imgW = cfg.Width
				frame.imgH = cfg.Height
			}
		}
		c.frames = append(c.frames, frame)
	}
}

func (c *SlideCell) Frames() int { return len(c.frames) }

func (c *SlideCell) FrameNames() []string {
	names := make([]string, len(c.frames))
	for i, f := range c.frames {
		names[i] = f.fileName
	}
	return names
}

func (c *SlideCell) FrameRate() int { return c.frameRate }

func (c *SlideCell) SetFrameRate(fr int) {
	if fr > 0 {
		c.frameRate = fr
	}
}

func (c *SlideCell) Copy() Cell {
	cp := NewSlideCell(c.resolver)
	c.copyInto(&cp.base)
	cp.frameRate = c.frameRate
	cp.frames = make([]slideFrame, len(c.frames))
	for i, f := range c.frames {
		cp.frames[i] = slideFrame{
			fileName: f.fileName,
			data:     append([]byte(nil), f.data...),
			imgW:     f.imgW,
			imgH:     f.imgH,
		}
	}
	return cp
}

func (c *SlideCell) Recalculate(mc *MeasureContext, fontsize int) {
	w, h := 0, 0
	for _, f := range c.frames {
		if f.imgW > w {
			w = f.imgW
		}
		if f.imgH > h {
			h = f.imgH
		}
	}
	if w == 0 || h == 0 {
		w, h = mc.Measurer.TextExtent("<ANIMATION>", c.style, fontsize)
	}
	if mc.MaxImageWidth > 0 && w > mc.MaxImageWidth {
		h = h * mc.MaxImageWidth / w
		w = mc.MaxImageWidth
	}
	pad := mc.Px(cellPadding)
	c.setSize(w+2*pad, h+2*pad, (h+2*pad)/2)
}

func (c *SlideCell) XML(parent *etree.Element) {
	el := parent.CreateElement("slide")
	if c.frameRate != defaultFrameRate {
		el.CreateAttr("fr", strconv.Itoa(c.frameRate))
	}
	el.SetText(strings.Join(c.FrameNames(), ";") + ";")
	c.xmlFinish(el)
}

func (c *SlideCell) String() string { return "" }

func (c *SlideCell) TeX() string {
	if len(c.frames) == 0 {
		return ""
	}
	return "\\includegraphics{" + c.frames[0].fileName + "}"
}
