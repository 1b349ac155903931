package render

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/ziadkadry99/socialite/internal/walker"
)

func siteDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to determine test file location")
	}
	return filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "site")
}

func TestBatchRun(t *testing.T) {
	pages, err := walker.Walk(walker.Config{RootDir: siteDir(t)})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	out := t.TempDir()

	var (
		mu    sync.Mutex
		calls int
	)
	b := &Batch{
		Renderer:    newRenderer(t),
		OutputDir:   out,
		Options:     Options{AssumeReady: true},
		Concurrency: 2,
		OnProgress: func(done, total int, rel string) {
			mu.Lock()
			calls++
			mu.Unlock()
		},
	}
	res := b.Run(context.Background(), pages)

	if len(res.Errors) != 0 {
		t.Fatalf("errors: %v", res.Errors)
	}
	if len(res.Pages) != len(pages) || calls != len(pages) {
		t.Fatalf("pages = %d, progress calls = %d, want %d", len(res.Pages), calls, len(pages))
	}

	launch := filepath.Join(out, "blog", "launch.html")
	data, err := os.ReadFile(launch)
	if err != nil {
		t.Fatalf("reading %s: %v", launch, err)
	}
	if !strings.Contains(string(data), "twitter-share-button") || !strings.Contains(string(data), `type="IN/Share"`) {
		t.Errorf("launch page not activated:\n%s", data)
	}
	if res.Pages[0].RelPath != "blog/launch.md" || res.Pages[0].OutPath != launch {
		t.Errorf("first page = %+v", res.Pages[0])
	}
	if _, err := os.Stat(filepath.Join(out, "index.html")); err != nil {
		t.Errorf("index.html not written: %v", err)
	}
}

func TestBatchCollectsErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "ok.html")
	if err := os.WriteFile(good, []byte("<p>ok</p>"), 0o644); err != nil {
		t.Fatal(err)
	}
	pages := []walker.Page{
		{Path: good, RelPath: "ok.html"},
		{Path: filepath.Join(dir, "gone.html"), RelPath: "gone.html"},
	}

	b := &Batch{Renderer: newRenderer(t), OutputDir: filepath.Join(dir, "out")}
	res := b.Run(context.Background(), pages)

	if len(res.Pages) != 1 || len(res.Errors) != 1 {
		t.Errorf("pages = %d, errors = %d, want 1 and 1", len(res.Pages), len(res.Errors))
	}
}

func TestBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := &Batch{Renderer: newRenderer(t), OutputDir: t.TempDir()}
	res := b.Run(ctx, []walker.Page{{Path: "x.html", RelPath: "x.html"}})
	if len(res.Errors) != 1 {
		t.Errorf("errors = %d, want 1", len(res.Errors))
	}
}
