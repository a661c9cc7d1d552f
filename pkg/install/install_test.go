package install

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPackages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"windows11.0-kb5034123-x64_abc.msu",
		"ssu-22621.1_def.CAB",
		"notes.txt",
		"windows10.0-kb5034122-x86_ghi.msu",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("stub"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "extracted.msu"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := Packages(dir)
	if err != nil {
		t.Fatalf("Packages() error = %v", err)
	}

	want := []Package{
		{Path: filepath.Join(dir, "ssu-22621.1_def.CAB"), KB: ""},
		{Path: filepath.Join(dir, "windows10.0-kb5034122-x86_ghi.msu"), KB: "KB5034122"},
		{Path: filepath.Join(dir, "windows11.0-kb5034123-x64_abc.msu"), KB: "KB5034123"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Packages(). (-expected +got):\n%s", diff)
	}
}

func TestPackages_missingDir(t *testing.T) {
	if _, err := Packages(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Packages() error = nil, want error")
	}
}
