package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ziadkadry99/socialite/internal/walker"
)

// ProgressFunc is called after each page, with the number done so far.
type ProgressFunc func(done, total int, relPath string)

// PageResult is one page written by a batch.
type PageResult struct {
	RelPath string
	OutPath string
	Result  *Result
}

// BatchResult holds collected results and errors from a batch.
type BatchResult struct {
	Pages  []PageResult
	Errors []error
}

// Batch renders many pages concurrently and writes them under OutputDir.
type Batch struct {
	Renderer    *Renderer
	OutputDir   string
	Options     Options
	Concurrency int
	OnProgress  ProgressFunc
}

// Run renders pages and writes each to OutputDir at its OutputPath.
// Failures are collected per page; results are sorted by path.
func (b *Batch) Run(ctx context.Context, pages []walker.Page) *BatchResult {
	total := len(pages)
	result := &BatchResult{}
	if total == 0 {
		return result
	}

	concurrency := b.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	sem := make(chan struct{}, concurrency)
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		done int64
	)
	progress := func(rel string) {
		n := atomic.AddInt64(&done, 1)
		if b.OnProgress != nil {
			b.OnProgress(int(n), total, rel)
		}
	}

	for _, page := range pages {
		select {
		case <-ctx.Done():
			mu.Lock()
			result.Errors = append(result.Errors, fmt.Errorf("render %s: %w", page.RelPath, ctx.Err()))
			mu.Unlock()
			progress(page.RelPath)
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(p walker.Page) {
			defer wg.Done()
			defer func() { <-sem }()

			pr, err := b.renderPage(ctx, p)
			mu.Lock()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("render %s: %w", p.RelPath, err))
			} else {
				result.Pages = append(result.Pages, *pr)
			}
			mu.Unlock()
			progress(p.RelPath)
		}(page)
	}
	wg.Wait()

	sort.Slice(result.Pages, func(i, j int) bool { return result.Pages[i].RelPath < result.Pages[j].RelPath })
	return result
}

func (b *Batch) renderPage(ctx context.Context, p walker.Page) (*PageResult, error) {
	src, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, err
	}

	res, err := b.Renderer.Render(ctx, Page{Path: p.RelPath, Source: src}, b.Options)
	if err != nil {
		return nil, err
	}

	out := filepath.Join(b.OutputDir, filepath.FromSlash(OutputPath(p.RelPath)))
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(out, res.HTML, 0o644); err != nil {
		return nil, err
	}
	return &PageResult{RelPath: p.RelPath, OutPath: out, Result: res}, nil
}
