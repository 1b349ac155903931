package walker

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// testdataDir returns the absolute path to the testdata/site directory.
func testdataDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to determine test file location")
	}
	root := filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "site")
	abs, err := filepath.Abs(root)
	if err != nil {
		t.Fatalf("resolve testdata path: %v", err)
	}
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		t.Fatalf("testdata dir does not exist: %s", abs)
	}
	return abs
}

func relPaths(pages []Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.RelPath
	}
	return out
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalk_BasicTraversal(t *testing.T) {
	pages, err := Walk(Config{RootDir: testdataDir(t)})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	want := []string{"blog/launch.md", "drafts/wip.md", "index.html"}
	if diff := cmp.Diff(want, relPaths(pages)); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
	for _, p := range pages {
		if !filepath.IsAbs(p.Path) {
			t.Errorf("Path %q is not absolute", p.Path)
		}
		if p.Size == 0 {
			t.Errorf("%s: Size = 0", p.RelPath)
		}
	}
}

func TestWalk_IncludeExclude(t *testing.T) {
	dir := testdataDir(t)

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{"markdown only", []string{"**/*.md"}, nil, []string{"blog/launch.md", "drafts/wip.md"}},
		{"exclude drafts", nil, []string{"drafts/**"}, []string{"blog/launch.md", "index.html"}},
		{"base name match", []string{"index.html"}, nil, []string{"index.html"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := Walk(Config{RootDir: dir, Include: tt.include, Exclude: tt.exclude})
			if err != nil {
				t.Fatalf("Walk() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, relPaths(pages)); diff != "" {
				t.Errorf("pages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	if _, err := Walk(Config{RootDir: filepath.Join(t.TempDir(), "nope")}); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestWalk_SkipsBinaryFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "readme.md", "# Hello")
	writeFile(t, tmpDir, "broken.html", "<p>\x00\x00</p>")

	pages, err := Walk(Config{RootDir: tmpDir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if diff := cmp.Diff([]string{"readme.md"}, relPaths(pages)); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_SkipsLargeFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "small.html", "<p>small</p>")
	big := make([]byte, 200)
	for i := range big {
		big[i] = 'A'
	}
	writeFile(t, tmpDir, "big.html", string(big))

	pages, err := Walk(Config{RootDir: tmpDir, MaxFileSize: 100})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if diff := cmp.Diff([]string{"small.html"}, relPaths(pages)); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_DefaultExcludeDirs(t *testing.T) {
	tmpDir := t.TempDir()
	for _, dir := range []string{"node_modules", ".git", "vendor", ".socialite"} {
		writeFile(t, tmpDir, dir+"/page.html", "<p>x</p>")
	}
	writeFile(t, tmpDir, "app.html", "<p>app</p>")

	pages, err := Walk(Config{RootDir: tmpDir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if diff := cmp.Diff([]string{"app.html"}, relPaths(pages)); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_Gitignore(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, ".gitignore", "# generated\n*.draft.md\npublic/\n")
	writeFile(t, tmpDir, "post.md", "# Post")
	writeFile(t, tmpDir, "post.draft.md", "# Draft")
	writeFile(t, tmpDir, "public/index.html", "<p>built</p>")

	pages, err := Walk(Config{RootDir: tmpDir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if diff := cmp.Diff([]string{"post.md"}, relPaths(pages)); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
}

func TestIsPage(t *testing.T) {
	tests := map[string]bool{
		"index.html":    true,
		"INDEX.HTM":     true,
		"post.md":       true,
		"post.markdown": true,
		"style.css":     false,
		"README":        false,
	}
	for name, want := range tests {
		if got := IsPage(name); got != want {
			t.Errorf("IsPage(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestMatchesInclude(t *testing.T) {
	if !MatchesInclude("a/b.html", nil) {
		t.Error("empty include should match everything")
	}
	if !MatchesInclude("blog/2024/post.md", []string{"blog/**/*.md"}) {
		t.Error("expected doublestar match")
	}
	if MatchesInclude("docs/post.md", []string{"blog/**"}) {
		t.Error("unexpected match")
	}
}

func TestMatchesExclude(t *testing.T) {
	if MatchesExclude("a/b.html", nil) {
		t.Error("empty exclude should match nothing")
	}
	if !MatchesExclude("drafts/x.md", []string{"drafts/**"}) {
		t.Error("expected match")
	}
}
