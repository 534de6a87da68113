package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Hara602/folderSentry/internal/model"
	"github.com/Hara602/folderSentry/internal/report"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	ti := NewTypeInspector()

	tests := []struct {
		name       string
		file       string
		data       []byte
		realExt    string
		masquerade bool
	}{
		{"matching extension", "image.png", pngHeader, "png", false},
		{"masquerading as text", "notes.txt", pngHeader, "png", true},
		{"no extension", "blob", pngHeader, "png", false},
		{"plain text", "readme.md", []byte("# hello\n"), "unknown", false},
		{"empty file", "empty.bin", nil, "unknown", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ti.Inspect(writeFile(t, dir, tt.file, tt.data))
			if err != nil {
				t.Fatalf("Inspect: %v", err)
			}
			if res.RealExt != tt.realExt {
				t.Errorf("RealExt = %q, want %q", res.RealExt, tt.realExt)
			}
			if res.Masquerade != tt.masquerade {
				t.Errorf("Masquerade = %v, want %v", res.Masquerade, tt.masquerade)
			}
		})
	}
}

func TestInspectAllowedAlias(t *testing.T) {
	dir := t.TempDir()
	ti := NewTypeInspector()
	ti.Allow("png", "thumb")

	res, err := ti.Inspect(writeFile(t, dir, "cover.thumb", pngHeader))
	if err != nil {
		t.Fatal(err)
	}
	if res.Masquerade {
		t.Fatal("registered alias should not be flagged")
	}
}

func TestInspectMissingFile(t *testing.T) {
	_, err := NewTypeInspector().Inspect(filepath.Join(t.TempDir(), "nope.png"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAnnotator(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fake.txt", pngHeader)
	writeFile(t, dir, "real.png", pngHeader)

	var got model.TickReport
	a := &Annotator{
		Inspector: NewTypeInspector(),
		Next:      report.NotifierFunc(func(r model.TickReport) { got = r }),
	}
	in := model.TickReport{Dir: dir, Notices: []model.Notice{
		model.NewNotice("fake.txt"),
		model.UpdatedNotice("real.png"),
		model.NewNotice("vanished.doc"),
	}}
	a.Notify(in)

	if len(got.Notices) != 3 {
		t.Fatalf("got %d notices, want 3", len(got.Notices))
	}
	if n := got.Notices[0]; !n.Suspicious || n.FileType != "png" {
		t.Errorf("fake.txt = %+v, want suspicious png", n)
	}
	if n := got.Notices[1]; n.Suspicious || n.FileType != "png" || n.Kind != model.NoticeUpdated {
		t.Errorf("real.png = %+v", n)
	}
	if n := got.Notices[2]; n.Suspicious || n.FileType != "unknown" {
		t.Errorf("vanished.doc = %+v", n)
	}
	if in.Notices[0].FileType != "" {
		t.Error("annotator modified the caller's notices")
	}
}
