package wxmx

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"wmx/cells"
	"wmx/config"
)

const testContent = `<?xml version="1.0" encoding="UTF-8"?>
<wxMaximaDocument version="1.5">
<cell type="code"><input><editor type="input"><line>1+1;</line></editor></input>
<output><mth><lbl>(%o1)</lbl><n>2</n></mth></output></cell>
<cell type="text"><editor type="text"><line>a note</line></editor></cell>
</wxMaximaDocument>
`

func writeTestArchive(t *testing.T, extra map[string][]byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "doc.wxmx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	w := zip.NewWriter(f)

	mt, err := w.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatalf("Failed to create mimetype entry: %v", err)
	}
	mt.Write([]byte("text/x-wxmathml"))

	cw, err := w.Create("content.xml")
	if err != nil {
		t.Fatalf("Failed to create content entry: %v", err)
	}
	cw.Write([]byte(testContent))

	for name, data := range extra {
		ew, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create entry %s: %v", name, err)
		}
		ew.Write(data)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finish archive: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close archive: %v", err)
	}
	return path
}

func TestLoadArchive(t *testing.T) {
	path := writeTestArchive(t, map[string][]byte{"image1.png": []byte("png data")})

	doc, err := Load(path, config.Defaults(), nil, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer doc.Close()

	if doc.Resolver == nil {
		t.Fatal("archive input did not keep a resolver")
	}
	if got := cells.ChainLength(doc.Tree); got != 2 {
		t.Fatalf("tree has %d groups, want 2", got)
	}

	code, ok := doc.Tree.(*cells.GroupCell)
	if !ok {
		t.Fatalf("first block is %T, want *GroupCell", doc.Tree)
	}
	if code.GroupType() != cells.GroupCode {
		t.Errorf("first block type = %v, want GroupCode", code.GroupType())
	}
	if got := code.EditableContent(); got != "1+1;" {
		t.Errorf("source text = %q, want %q", got, "1+1;")
	}
	if code.Output() == nil {
		t.Error("code block lost its output")
	}
}

func TestLoadBareXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xml")
	if err := os.WriteFile(path, []byte(testContent), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	doc, err := Load(path, config.Defaults(), nil, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer doc.Close()

	if doc.Resolver != nil {
		t.Error("bare XML input carries a resolver")
	}
	if got := cells.ChainLength(doc.Tree); got != 2 {
		t.Errorf("tree has %d groups, want 2", got)
	}
}

func TestLoadMissingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wxmx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	w := zip.NewWriter(f)
	ew, _ := w.Create("unrelated.txt")
	ew.Write([]byte("nothing"))
	w.Close()
	f.Close()

	if _, err := Load(path, config.Defaults(), nil, zaptest.NewLogger(t)); err == nil {
		t.Error("Expected error for archive without content.xml")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	log := zaptest.NewLogger(t)
	src := writeTestArchive(t, map[string][]byte{"image1.png": []byte("png data")})

	doc, err := Load(src, config.Defaults(), nil, log)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer doc.Close()

	dst := filepath.Join(t.TempDir(), "saved.wxmx")
	if err := Save(doc, dst, log); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	r, err := zip.OpenReader(dst)
	if err != nil {
		t.Fatalf("saved file is not a zip archive: %v", err)
	}
	defer r.Close()

	if len(r.File) == 0 {
		t.Fatal("saved archive is empty")
	}
	first := r.File[0]
	if first.Name != "mimetype" {
		t.Errorf("first entry = %s, want mimetype", first.Name)
	}
	if first.Method != zip.Store {
		t.Error("mimetype entry is compressed")
	}

	names := make(map[string]bool, len(r.File))
	for _, f := range r.File {
		names[f.Name] = true
	}
	for _, want := range []string{"mimetype", "content.xml", "image1.png"} {
		if !names[want] {
			t.Errorf("saved archive lacks %s", want)
		}
	}

	// the saved document must load back to the same structure
	saved, err := Load(dst, config.Defaults(), nil, log)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	defer saved.Close()
	if got, want := cells.ChainLength(saved.Tree), cells.ChainLength(doc.Tree); got != want {
		t.Errorf("reloaded tree has %d groups, want %d", got, want)
	}
}
