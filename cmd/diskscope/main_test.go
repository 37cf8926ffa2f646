package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fenilsonani/diskscope/internal/junk"
	"github.com/fenilsonani/diskscope/internal/platform"
	"github.com/fenilsonani/diskscope/internal/reporter"
	"github.com/fenilsonani/diskscope/internal/testutil"
)

// run executes the root command with a config path that does not exist,
// so every run starts from defaults.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestScanCommandJSON(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateSizedFile("big.iso", 4096)
	f.CreateSizedFile("docs/notes.txt", 100)

	out, stderr, err := run(t, "scan", f.Path(""), "-f", "json", "--limit", "1")
	if err != nil {
		t.Fatalf("scan: %v (stderr %q)", err, stderr)
	}

	var view reporter.ScanView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if view.Summary.TotalFiles != 2 {
		t.Errorf("total_files = %d, want 2", view.Summary.TotalFiles)
	}
	if len(view.TopFiles) != 1 || !strings.HasSuffix(view.TopFiles[0].Path, "big.iso") {
		t.Errorf("top files = %+v, want only big.iso", view.TopFiles)
	}
}

func TestScanCommandOutputFile(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateSizedFile("a.bin", 10)
	target := filepath.Join(t.TempDir(), "report.yaml")

	out, stderr, err := run(t, "scan", f.Path(""), "-f", "yaml", "-o", target)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if out != "" {
		t.Errorf("stdout should stay empty when writing to a file, got %q", out)
	}
	if !strings.Contains(stderr, "Report saved to: "+target) {
		t.Errorf("stderr = %q", stderr)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "total_files: 1") {
		t.Errorf("report missing summary:\n%s", data)
	}
}

func TestDupesCommand(t *testing.T) {
	f := testutil.NewFixture(t)
	content := bytes.Repeat([]byte("duplicate"), 200)
	f.CreateFile("one/a.dat", content)
	f.CreateFile("two/b.dat", content)
	f.CreateFile("unique.dat", bytes.Repeat([]byte("u"), len(content)))

	out, _, err := run(t, "dupes", f.Path(""), "--min-size", "1", "--verify", "-f", "json")
	if err != nil {
		t.Fatalf("dupes: %v", err)
	}

	var view reporter.DuplicatesView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if !view.Verified || view.TotalGroups != 1 || len(view.Groups) != 1 {
		t.Fatalf("view = %+v, want one verified group", view)
	}
	if got := len(view.Groups[0].Files); got != 2 {
		t.Errorf("group has %d files, want 2", got)
	}
	if view.TotalWastedBytes != uint64(len(content)) {
		t.Errorf("wasted = %d, want %d", view.TotalWastedBytes, len(content))
	}
}

func TestUnsupportedFormat(t *testing.T) {
	_, _, err := run(t, "scan", t.TempDir(), "-f", "xml")
	if err == nil || !strings.Contains(err.Error(), "xml") {
		t.Errorf("err = %v, want unsupported format", err)
	}
}

func systemCacheRoot(t *testing.T, home string) string {
	t.Helper()
	info, err := platform.NewInfo(platform.Detect(), home, "")
	if err != nil {
		t.Skipf("junk locations unavailable: %v", err)
	}
	roots := junk.SystemCache.Roots(info)
	if len(roots) == 0 {
		t.Skip("no system cache root on this platform")
	}
	return roots[0]
}

func TestCleanCommand(t *testing.T) {
	home := t.TempDir()
	root := systemCacheRoot(t, home)
	if err := os.MkdirAll(filepath.Join(root, "app"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "app", "blob"), make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "index"), make([]byte, 1024), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("dry run keeps files", func(t *testing.T) {
		out, _, err := run(t, "clean", "system_cache", "--dry-run", "--home", home, "-f", "json")
		if err != nil {
			t.Fatalf("clean: %v", err)
		}

		var view reporter.CleanView
		if err := json.Unmarshal([]byte(out), &view); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		if !view.DryRun || view.DeletedCount != 2 || view.FreedBytes != 3072 {
			t.Errorf("view = %+v, want dry run of 2 entries and 3072 bytes", view)
		}
		if !testutil.Exists(filepath.Join(root, "index")) {
			t.Error("dry run removed a file")
		}
	})

	t.Run("force deletes and writes manifest", func(t *testing.T) {
		manifest := filepath.Join(t.TempDir(), "manifest.txt")
		out, _, err := run(t, "clean", "system_cache", "bogus", "--force", "--home", home, "--manifest", manifest, "-f", "json")
		if err != nil {
			t.Fatalf("clean: %v", err)
		}

		var view reporter.CleanView
		if err := json.Unmarshal([]byte(out), &view); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		if view.DryRun || view.DeletedCount != 2 || view.FreedBytes != 3072 {
			t.Errorf("view = %+v, want 2 entries and 3072 bytes freed", view)
		}
		if testutil.Exists(filepath.Join(root, "app")) || testutil.Exists(filepath.Join(root, "index")) {
			t.Error("entries survived a forced clean")
		}
		if !testutil.Exists(root) {
			t.Error("the category root itself must be kept")
		}

		data, err := os.ReadFile(manifest)
		if err != nil {
			t.Fatalf("read manifest: %v", err)
		}
		if !strings.Contains(string(data), filepath.Join(root, "index")) {
			t.Errorf("manifest missing removed entry:\n%s", data)
		}
	})
}

func TestCleanRequiresCategories(t *testing.T) {
	_, _, err := run(t, "clean", "--dry-run", "--home", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "--all") {
		t.Errorf("err = %v, want a hint about --all", err)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diskscope", "config.yaml")

	for i, want := range []string{"Created " + path, "already exists"} {
		var stdout bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&stdout)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"config", "init", "--config", path})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("init #%d: %v", i, err)
		}
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("init #%d output = %q, want %q", i, stdout.String(), want)
		}
	}

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "show", "--config", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("show: %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "# Config file: "+path) || strings.Contains(out, "Not found") {
		t.Errorf("show header wrong:\n%s", out)
	}
	if !strings.Contains(out, "stale_days: 90") {
		t.Errorf("show missing scan defaults:\n%s", out)
	}
}
