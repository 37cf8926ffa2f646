package junk

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/fenilsonani/diskscope/internal/config"
	"github.com/fenilsonani/diskscope/internal/platform"
	"github.com/fenilsonani/diskscope/internal/testutil"
)

// newTestInfo builds a Linux layout under a fixture home, with the shared
// temp directories moved inside the fixture as well.
func newTestInfo(t *testing.T, f *testutil.Fixture) *platform.Info {
	t.Helper()

	info, err := platform.NewInfo(platform.Linux, f.Path("home"), "tester")
	if err != nil {
		t.Fatalf("NewInfo() error = %v", err)
	}
	info.TempDirs = []string{f.Path("tmp"), f.Path("var-tmp")}
	return info
}

func newTestCategorizer(t *testing.T, f *testutil.Fixture, mutate func(*config.Config)) (*Categorizer, *platform.Info) {
	t.Helper()

	cfg := config.GetDefault()
	if mutate != nil {
		mutate(cfg)
	}
	info := newTestInfo(t, f)
	return New(cfg, info), info
}

func TestParseCategory(t *testing.T) {
	for _, c := range AllCategories {
		got, ok := ParseCategory(c.ID())
		if !ok || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.ID(), got, ok)
		}
		if c.Name() == "" || c.Description() == "" {
			t.Errorf("category %s has no name or description", c)
		}
	}

	if _, ok := ParseCategory("no_such_category"); ok {
		t.Error("ParseCategory accepted an unknown id")
	}
}

func TestCategoryRoots(t *testing.T) {
	info := &platform.Info{
		CacheDirs:        []string{"/c"},
		LogDirs:          []string{"/l"},
		TrashDirs:        []string{"/t"},
		TempDirs:         []string{"/tmp1", "/tmp2"},
		DerivedDataDirs:  []string{"/d"},
		PackageCacheDirs: []string{"/p"},
	}

	tests := []struct {
		category Category
		expected int
	}{
		{SystemCache, 1},
		{AppLogs, 1},
		{Trash, 1},
		{TempFiles, 2},
		{DerivedData, 1},
		{PackageCaches, 1},
		{Category(42), 0},
	}

	for _, tt := range tests {
		if got := tt.category.Roots(info); len(got) != tt.expected {
			t.Errorf("%v.Roots() = %v, want %d roots", tt.category, got, tt.expected)
		}
	}
}

func TestScanEmptyEnvironment(t *testing.T) {
	f := testutil.NewFixture(t)
	c, info := newTestCategorizer(t, f, nil)

	for _, dir := range append(append(info.CacheDirs, info.LogDirs...), info.TrashDirs...) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	reports, err := c.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []Category{SystemCache, AppLogs, Trash, TempFiles}
	if len(reports) != len(want) {
		t.Fatalf("got %d categories, want %d: %+v", len(reports), len(want), reports)
	}
	for i, r := range reports {
		if r.Size != 0 {
			t.Errorf("%s size = %d, want 0", r.Category, r.Size)
		}
		if r.Category != want[i] {
			t.Errorf("position %d = %s, want %s", i, r.Category, want[i])
		}
	}
}

func TestScanSizesAndSorts(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("home/.cache/app/data.db", make([]byte, 100))
	f.CreateFile("home/.cache/app/nested/more.db", make([]byte, 50))
	f.CreateFile("home/.cache/top.bin", make([]byte, 10))
	f.CreateFile("home/.local/share/logs/server.log", make([]byte, 400))
	f.CreateFile("tmp/scratch", make([]byte, 5))
	f.CreateFile("var-tmp/other", make([]byte, 7))
	f.CreateFile("home/.npm/_cacache/index", make([]byte, 1000))

	c, _ := newTestCategorizer(t, f, nil)
	reports, err := c.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []struct {
		category Category
		size     uint64
		items    int
	}{
		{PackageCaches, 1000, 1},
		{AppLogs, 400, 1},
		{SystemCache, 160, 2},
		{TempFiles, 12, 2},
		{Trash, 0, 0},
	}

	if len(reports) != len(want) {
		t.Fatalf("got %d categories, want %d: %+v", len(reports), len(want), reports)
	}
	for i, w := range want {
		r := reports[i]
		if r.Category != w.category || r.Size != w.size || len(r.Items) != w.items {
			t.Errorf("position %d = %s size %d items %d, want %s size %d items %d",
				i, r.Category, r.Size, len(r.Items), w.category, w.size, w.items)
		}
	}

	cache := reports[2]
	if cache.Items[0].Path != f.Path("home/.cache/app") || cache.Items[0].Size != 150 {
		t.Errorf("largest cache item = %+v, want the app directory at 150 bytes", cache.Items[0])
	}
}

func TestScanHonoursConfigToggles(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("home/.npm/_cacache/index", make([]byte, 1000))
	f.CreateFile("home/.android/build-cache/x", make([]byte, 10))

	c, _ := newTestCategorizer(t, f, func(cfg *config.Config) {
		cfg.Junk.IncludePackageCaches = false
	})

	reports, err := c.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	for _, r := range reports {
		if r.Category == PackageCaches {
			t.Error("package caches listed although disabled")
		}
	}
	if reports[0].Category != DerivedData {
		t.Errorf("first category = %s, want derived_data", reports[0].Category)
	}
}

func TestCleanNoCategories(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("home/.cache/keep", []byte("x"))
	c, _ := newTestCategorizer(t, f, nil)

	for _, ids := range [][]string{nil, {}, {"no_such_category"}} {
		result, err := c.Clean(context.Background(), ids)
		if err != nil {
			t.Fatalf("Clean(%v) error = %v", ids, err)
		}
		if result.FreedBytes != 0 || result.DeletedCount != 0 || len(result.Errors) != 0 {
			t.Errorf("Clean(%v) = %+v, want zero result", ids, result)
		}
	}
	f.AssertFileExists(f.Path("home/.cache/keep"))
}

func TestCleanDeletesTopLevelEntries(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("home/.cache/app/a", make([]byte, 30))
	f.CreateFile("home/.cache/app/deep/b", make([]byte, 70))
	f.CreateFile("home/.cache/loose", make([]byte, 5))
	logFile := f.CreateFile("home/.local/share/logs/keep.log", make([]byte, 9))

	c, info := newTestCategorizer(t, f, nil)
	result, err := c.Clean(context.Background(), []string{"system_cache", "system_cache", "bogus"})
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if result.DeletedCount != 2 || result.FreedBytes != 105 {
		t.Errorf("result = %+v, want 2 entries and 105 bytes", result)
	}
	f.AssertFileNotExists(f.Path("home/.cache/app"))
	f.AssertFileNotExists(f.Path("home/.cache/loose"))
	f.AssertFileExists(info.CacheDirs[0])
	f.AssertFileExists(logFile)
}

func TestCleanIgnoresDisabledCategory(t *testing.T) {
	f := testutil.NewFixture(t)
	build := f.CreateFile("home/.android/build-cache/proj/out.bin", make([]byte, 100))
	npm := f.CreateFile("home/.npm/_cacache/index", make([]byte, 10))

	c, _ := newTestCategorizer(t, f, func(cfg *config.Config) {
		cfg.Junk.IncludeDerivedData = false
		cfg.Junk.IncludePackageCaches = false
	})

	for _, id := range []string{"derived_data", "package_caches"} {
		if _, ok := c.Lookup(id); ok {
			t.Errorf("Lookup(%q) found a disabled category", id)
		}
	}
	if _, ok := c.Lookup("system_cache"); !ok {
		t.Error("Lookup(system_cache) should find an enabled category")
	}

	result, err := c.Clean(context.Background(), []string{"derived_data", "package_caches"})
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if result.DeletedCount != 0 || result.FreedBytes != 0 {
		t.Errorf("result = %+v, want zero result", result)
	}
	f.AssertFileExists(build)
	f.AssertFileExists(npm)
}

func TestCleanDryRun(t *testing.T) {
	f := testutil.NewFixture(t)
	kept := f.CreateFile("home/.local/share/Trash/files/old.iso", make([]byte, 64))

	c, _ := newTestCategorizer(t, f, func(cfg *config.Config) { cfg.DryRun = true })
	result, err := c.Clean(context.Background(), []string{"trash"})
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if !result.DryRun || result.DeletedCount != 1 || result.FreedBytes != 64 {
		t.Errorf("result = %+v, want dry run of one 64 byte entry", result)
	}
	f.AssertFileExists(kept)
}

func TestCleanCapsErrors(t *testing.T) {
	testutil.SkipIfRoot(t)

	f := testutil.NewFixture(t)
	for i := 0; i < 12; i++ {
		f.CreateFile(fmt.Sprintf("tmp/stuck-%02d", i), []byte("x"))
	}
	f.CreateFile("var-tmp/free", []byte("abcd"))

	tmp := f.Path("tmp")
	if err := os.Chmod(tmp, 0555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(tmp, 0755) })

	c, _ := newTestCategorizer(t, f, nil)
	result, err := c.Clean(context.Background(), []string{"temp_files"})
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if len(result.Errors) != 10 || result.ErrorCount != 12 {
		t.Errorf("errors kept %d of %d, want 10 of 12", len(result.Errors), result.ErrorCount)
	}
	if result.DeletedCount != 1 || result.FreedBytes != 4 {
		t.Errorf("result = %+v, want the free entry deleted", result)
	}
}

func TestScanCancelled(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("home/.cache/a", []byte("x"))
	c, _ := newTestCategorizer(t, f, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Scan(ctx); err == nil {
		t.Error("Scan() with a cancelled context should fail")
	}
}
