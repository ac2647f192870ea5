package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap/zaptest"

	"wmx/config"
)

const testWorksheet = `<?xml version="1.0" encoding="UTF-8"?>
<wxMaximaDocument version="1.5">
<cell type="code">
<input>
<editor type="input">
<line>1+1;</line>
</editor>
</input>
<output>
<mth><lbl>(%o1) </lbl><n>2</n></mth>
</output>
</cell>
</wxMaximaDocument>
`

// testApp mirrors the command wiring of main with a test logger instead of
// the configured one.
func testApp(t *testing.T) (*cli.Command, context.Context) {
	t.Helper()
	ctx := context.WithValue(context.Background(), envKey, &env{
		cfg: config.Defaults(),
		log: zaptest.NewLogger(t),
	})
	app := &cli.Command{
		Name: appName,
		Commands: []*cli.Command{
			{
				Name:   "export",
				Action: runExport,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text"},
				},
			},
		},
	}
	return app, ctx
}

func TestExportTextSmoke(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "worksheet.xml")
	if err := os.WriteFile(src, []byte(testWorksheet), 0644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "out.txt")

	app, ctx := testApp(t)
	if err := app.Run(ctx, []string{appName, "export", "--format", "text", src, dst}); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "1+1;") {
		t.Errorf("exported text %q does not contain the input line", data)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "worksheet.xml")
	if err := os.WriteFile(src, []byte(testWorksheet), 0644); err != nil {
		t.Fatal(err)
	}

	app, ctx := testApp(t)
	err := app.Run(ctx, []string{appName, "export", "--format", "pdf", src})
	if err == nil || !strings.Contains(err.Error(), "unsupported output format") {
		t.Errorf("err = %v, want unsupported format error", err)
	}
}

func TestDeriveOutputPath(t *testing.T) {
	if got := deriveOutputPath("", "doc.wxmx"); got != "doc-out.wxmx" {
		t.Errorf("deriveOutputPath = %q, want %q", got, "doc-out.wxmx")
	}
	if got := deriveOutputPath("", "doc"); got != "doc-out" {
		t.Errorf("deriveOutputPath = %q, want %q", got, "doc-out")
	}
	if got := deriveOutputPath("given.xml", "doc.wxmx"); got != "given.xml" {
		t.Errorf("deriveOutputPath = %q, want the explicit destination", got)
	}
}
