package archive

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeWorksheetZip creates a worksheet-shaped archive and returns its path.
func writeWorksheetZip(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.wxmx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	w := zip.NewWriter(f)
	for name, content := range entries {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create entry %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finish archive: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close archive: %v", err)
	}
	return path
}

func TestWalk(t *testing.T) {
	path := writeWorksheetZip(t, map[string]string{
		"mimetype":    "text/x-wxmathml",
		"content.xml": "<wxMaximaDocument/>",
		"image1.png":  "png one",
		"image2.png":  "png two",
	})

	t.Run("walk with image prefix", func(t *testing.T) {
		var visited []string
		err := Walk(path, "image", func(archive string, file *zip.File) error {
			if archive != path {
				t.Errorf("archive = %s, want %s", archive, path)
			}
			visited = append(visited, file.Name)
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if len(visited) != 2 {
			t.Errorf("visited %d files, want 2", len(visited))
		}
	})

	t.Run("walk with no matching prefix", func(t *testing.T) {
		var visited int
		err := Walk(path, "nonexistent/", func(archive string, file *zip.File) error {
			visited++
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if visited != 0 {
			t.Errorf("visited %d files, want 0", visited)
		}
	})

	t.Run("walk with empty prefix", func(t *testing.T) {
		var visited int
		err := Walk(path, "", func(archive string, file *zip.File) error {
			visited++
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if visited != 4 {
			t.Errorf("visited %d files, want 4", visited)
		}
	})

	t.Run("walkFn error stops the walk", func(t *testing.T) {
		stopErr := errors.New("stop walking")
		var visited int
		err := Walk(path, "image", func(archive string, file *zip.File) error {
			visited++
			return stopErr
		})
		if err != stopErr {
			t.Errorf("Walk() error = %v, want %v", err, stopErr)
		}
		if visited != 1 {
			t.Errorf("visited %d files, want 1 (early termination)", visited)
		}
	})
}

func TestWalk_InvalidArchive(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		err := Walk("/nonexistent/file.wxmx", "", func(archive string, file *zip.File) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("not an archive", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bogus.wxmx")
		if err := os.WriteFile(path, []byte("<wxMaximaDocument/>"), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
		err := Walk(path, "", func(archive string, file *zip.File) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for non-archive file")
		}
	})
}

func TestWalk_UnsafePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evil.wxmx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	w := zip.NewWriter(f)
	fw, err := w.CreateHeader(&zip.FileHeader{Name: "../escape.png"})
	if err != nil {
		t.Fatalf("Failed to create entry: %v", err)
	}
	fw.Write([]byte("payload"))
	w.Close()
	f.Close()

	err = Walk(path, "", func(archive string, file *zip.File) error {
		t.Errorf("walkFn called for unsafe entry %s", file.Name)
		return nil
	})
	if err == nil {
		t.Error("Expected error for entry with path traversal")
	}
}

func TestResolver(t *testing.T) {
	path := writeWorksheetZip(t, map[string]string{
		"mimetype":    "text/x-wxmathml",
		"content.xml": "<wxMaximaDocument/>",
		"image10.png": "frame ten",
		"image2.png":  "frame two",
	})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	if r.Path() != path {
		t.Errorf("Path() = %s, want %s", r.Path(), path)
	}

	t.Run("read existing entry", func(t *testing.T) {
		data, err := r.ReadFile("image2.png")
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(data) != "frame two" {
			t.Errorf("content = %q, want %q", data, "frame two")
		}
	})

	t.Run("read missing entry", func(t *testing.T) {
		if _, err := r.ReadFile("missing.png"); err == nil {
			t.Error("Expected error for missing entry")
		}
	})

	t.Run("read unsafe entry name", func(t *testing.T) {
		if _, err := r.ReadFile("../etc/passwd"); err == nil {
			t.Error("Expected error for unsafe entry name")
		}
	})

	t.Run("has", func(t *testing.T) {
		if !r.Has("content.xml") {
			t.Error("Has(content.xml) = false, want true")
		}
		if r.Has("missing.png") {
			t.Error("Has(missing.png) = true, want false")
		}
	})

	t.Run("list in natural order", func(t *testing.T) {
		names := r.List()
		if len(names) != 4 {
			t.Fatalf("List() returned %d names, want 4", len(names))
		}
		// numeric suffixes order numerically, not lexically
		i2, i10 := -1, -1
		for i, name := range names {
			switch name {
			case "image2.png":
				i2 = i
			case "image10.png":
				i10 = i
			}
		}
		if i2 < 0 || i10 < 0 || i2 > i10 {
			t.Errorf("List() = %v, want image2.png before image10.png", names)
		}
	})
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"relative file", "content.xml", true},
		{"nested file", "data/image1.png", true},
		{"absolute path", "/etc/passwd", false},
		{"windows rooted path", `\windows\system32`, false},
		{"parent traversal", "../escape.png", false},
		{"embedded traversal", "data/../../escape.png", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isSafePath(tc.path); got != tc.want {
				t.Errorf("isSafePath(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}
