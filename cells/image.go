package cells

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/beevik/etree"
	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// FileResolver resolves a file name to its bytes. Worksheet archives and the
// plain filesystem both implement it; ownership of the returned bytes is the
// resolver's concern.
type FileResolver interface {
	ReadFile(name string) ([]byte, error)
}

// osResolver reads from the local filesystem.
type osResolver struct{}

func (osResolver) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

// ImgCell is an embedded raster image. The payload may be unresolved (the
// referenced file is missing); layout then falls back to a placeholder box.
type ImgCell struct {
	base
	fileName   string
	deleteFile bool
	drawRect   bool
	data       []byte
	mime       string
	imgW, imgH int
}

// NewImgCell creates an image cell for fileName and attempts to load it
// through resolver (nil means the local filesystem). deleteFile marks the
// file as temporary, to be removed when the worksheet closes. A missing or
// undecodable file is tolerated: the cell keeps an empty payload.
func NewImgCell(fileName string, deleteFile bool, resolver FileResolver) *ImgCell {
	c := &ImgCell{fileName: fileName, deleteFile: deleteFile, drawRect: true}
	c.init(c, TypeImage)
	if resolver == nil {
		resolver = osResolver{}
	}
	if data, err := resolver.ReadFile(fileName); err == nil {
		c.setData(data)
	}
	return c
}

func (c *ImgCell) setData(data []byte) {
	c.data = data
	if t, err := filetype.Match(data); err == nil && t != filetype.Unknown {
		c.mime = t.MIME.Value
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		c.imgW = cfg.Width
		c.imgH = cfg.Height
	}
}

func (c *ImgCell) FileName() string   { return c.fileName }
func (c *ImgCell) DeleteFile() bool   { return c.deleteFile }
func (c *ImgCell) MimeType() string   { return c.mime }
func (c *ImgCell) Data() []byte       { return c.data }
func (c *ImgCell) Resolved() bool     { return len(c.data) > 0 }
func (c *ImgCell) DrawRectangle(v bool) { c.drawRect = v }
func (c *ImgCell) HasRectangle() bool { return c.drawRect }

// Bitmap decodes the payload and fits it into maxWidth preserving aspect
// ratio. maxWidth <= 0 returns the image unscaled.
func (c *ImgCell) Bitmap(maxWidth int) (image.Image, error) {
	if len(c.data) == 0 {
		return nil, fmt.Errorf("image %q: no payload", c.fileName)
	}
	img, _, err := image.Decode(bytes.NewReader(c.data))
	if err != nil {
		return nil, fmt.Errorf("image %q: %w", c.fileName, err)
	}
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Fit(img, maxWidth, img.Bounds().Dy(), imaging.Lanczos)
	}
	return img, nil
}

func (c *ImgCell) Copy() Cell {
	cp := &ImgCell{
		fileName:   c.fileName,
		deleteFile: c.deleteFile,
		drawRect:   c.drawRect,
		mime:       c.mime,
		imgW:       c.imgW,
		imgH:       c.imgH,
		data:       append([]byte(nil), c.data...),
	}
	cp.init(cp, TypeImage)
	c.copyInto(&cp.base)
	return cp
}

func (c *ImgCell) Recalculate(mc *MeasureContext, fontsize int) {
	w, h := c.imgW, c.imgH
	if w == 0 || h == 0 {
		// unresolved payload: placeholder box
		w, h = mc.Measurer.TextExtent("<IMAGE>", c.style, fontsize)
	}
	if mc.MaxImageWidth > 0 && w > mc.MaxImageWidth {
		h = h * mc.MaxImageWidth / w
		w = mc.MaxImageWidth
	}
	pad := mc.Px(cellPadding)
	c.setSize(w+2*pad, h+2*pad, (h+2*pad)/2)
}

func (c *ImgCell) XML(parent *etree.Element) {
	el := parent.CreateElement("img")
	if !c.deleteFile {
		el.CreateAttr("del", "no")
	}
	if !c.drawRect {
		el.CreateAttr("rect", "false")
	}
	el.SetText(c.fileName)
	c.xmlFinish(el)
}

func (c *ImgCell) String() string { return "" }

func (c *ImgCell) TeX() string {
	return "\\includegraphics{" + c.fileName + "}"
}
