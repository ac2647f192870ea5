// Package wxmx loads and saves whole worksheet documents: either a zip
// archive carrying content.xml plus embedded images, or a bare XML file.
package wxmx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"wmx/archive"
	"wmx/cells"
	"wmx/config"
	"wmx/parser"
)

const (
	contentName     = "content.xml"
	mimetypeName    = "mimetype"
	mimetypeContent = "text/x-wxmathml"
	rootTag         = "wxMaximaDocument"
)

// Document is one loaded worksheet: the cell tree plus, when the source was
// an archive, the resolver that hands embedded files to image cells.
type Document struct {
	Tree     cells.Cell
	Resolver *archive.Resolver
}

// Close releases the backing archive, if any.
func (d *Document) Close() error {
	if d.Resolver == nil {
		return nil
	}
	return d.Resolver.Close()
}

// Load opens a worksheet file and builds its cell tree. Archive inputs keep
// their resolver open so image cells can read embedded files lazily; the
// caller owns the returned document and must Close it.
func Load(path string, cfg *config.Config, notifier parser.Notifier, log *zap.Logger) (*Document, error) {
	zipped, err := isZipFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to check file type of %q: %w", path, err)
	}

	var (
		content  []byte
		resolver *archive.Resolver
	)
	if zipped {
		resolver, err = archive.Open(path)
		if err != nil {
			return nil, err
		}
		if !resolver.Has(contentName) {
			return nil, multierr.Append(
				fmt.Errorf("archive %q has no %s", path, contentName), resolver.Close())
		}
		content, err = resolver.ReadFile(contentName)
		if err != nil {
			return nil, multierr.Append(err, resolver.Close())
		}
	} else {
		content, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read %q: %w", path, err)
		}
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		if resolver != nil {
			err = multierr.Append(err, resolver.Close())
		}
		return nil, fmt.Errorf("unable to parse worksheet %q: %w", path, err)
	}

	var rsv cells.FileResolver
	if resolver != nil {
		rsv = resolver
	}
	p := parser.New(cfg.Display, rsv, notifier, log)
	tree, err := p.ParseDocument(doc, cells.TypeDefault)
	if err != nil {
		if resolver != nil {
			err = multierr.Append(err, resolver.Close())
		}
		return nil, err
	}
	return &Document{Tree: tree, Resolver: resolver}, nil
}

// Save writes the document as a worksheet archive: the uncompressed mimetype
// entry first, then content.xml serialized from the tree, then a walk over
// the source archive carrying every embedded file across.
func Save(doc *Document, path string, log *zap.Logger) (rerr error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		rerr = multierr.Append(rerr, f.Close())
	}()

	zw := zip.NewWriter(f)
	defer func() {
		rerr = multierr.Append(rerr, zw.Close())
	}()

	if err := writeMimetype(zw); err != nil {
		return fmt.Errorf("unable to write mimetype: %w", err)
	}
	if err := writeContent(zw, doc.Tree); err != nil {
		return fmt.Errorf("unable to write %s: %w", contentName, err)
	}
	if doc.Resolver == nil {
		return nil
	}

	// per-file failures are collected and reported together; only an
	// unreadable or unsafe source archive aborts the carry-over
	var errs error
	walkErr := archive.Walk(doc.Resolver.Path(), "", func(_ string, f *zip.File) error {
		name := f.FileHeader.Name
		if name == contentName || name == mimetypeName {
			return nil
		}
		rc, err := f.Open()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("unable to carry over %q: %w", name, err))
			return nil
		}
		data, err := io.ReadAll(rc)
		if cerr := rc.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("unable to carry over %q: %w", name, err))
			return nil
		}
		if err := writeDataToZip(zw, name, data); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("unable to write %q: %w", name, err))
			return nil
		}
		log.Debug("Carried over embedded file", zap.String("file", name))
		return nil
	})
	return multierr.Append(errs, walkErr)
}

// the mimetype entry goes in first and uncompressed so file type detection
// can read it from a fixed offset
func writeMimetype(zw *zip.Writer) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   mimetypeName,
		Method: zip.Store,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, mimetypeContent)
	return err
}

func writeContent(zw *zip.Writer, tree cells.Cell) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(rootTag)
	cells.ChainXML(tree, root)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	return writeDataToZip(zw, contentName, buf.Bytes())
}

func writeDataToZip(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

var zipMagic = []byte{'P', 'K', 0x03, 0x04}

func isZipFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	header := make([]byte, len(zipMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(header, zipMagic), nil
}
