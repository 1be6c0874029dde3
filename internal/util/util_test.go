package util_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shelfsite/internal/util"
)

func TestSHA256Reader(t *testing.T) {
	// sha256("") is well known
	got, err := util.SHA256Reader(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	const want = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got != want {
		t.Errorf("SHA256('') = %q, want %q", got, want)
	}
}

func TestSHA256File_MissingFile(t *testing.T) {
	_, err := util.SHA256File("/no/such/file.bin")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.json")
	dst := filepath.Join(dir, "books", "top-5-reads", "dst.json")

	if err := os.WriteFile(src, []byte(`{"title": "Dune"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := util.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	srcSum, err := util.SHA256File(src)
	if err != nil {
		t.Fatal(err)
	}
	dstSum, err := util.SHA256File(dst)
	if err != nil {
		t.Fatal(err)
	}
	if srcSum != dstSum {
		t.Errorf("copy differs from source: %s vs %s", srcSum, dstSum)
	}
}

func TestCopyFile_MissingSrc(t *testing.T) {
	err := util.CopyFile("/no/src.json", filepath.Join(t.TempDir(), "dst.json"))
	if err == nil {
		t.Error("expected error copying missing file, got nil")
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "books", "covers")
	if err := util.EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if err := util.EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir second call: %v", err)
	}
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		t.Fatalf("stat %s: %v", dir, err)
	}
}
