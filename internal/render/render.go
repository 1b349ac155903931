package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/ziadkadry99/socialite/internal/activity"
	"github.com/ziadkadry99/socialite/internal/dom"
	"github.com/ziadkadry99/socialite/internal/engine"
	"github.com/ziadkadry99/socialite/internal/registry"
	"github.com/ziadkadry99/socialite/internal/settings"
)

// ErrUnsupportedFormat is returned for pages that are neither HTML nor
// Markdown.
var ErrUnsupportedFormat = errors.New("unsupported page format")

// Format is the source format of a page.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// FormatOf derives a page format from its file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return FormatHTML, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// OutputPath maps a page path to the path of its rendered HTML.
func OutputPath(p string) string {
	ext := filepath.Ext(p)
	switch strings.ToLower(ext) {
	case ".md", ".markdown":
		return strings.TrimSuffix(p, ext) + ".html"
	}
	return p
}

// Page is one source document.
type Page struct {
	// Path identifies the page; it also names Markdown pages that have
	// no heading.
	Path   string
	Format Format
	Source []byte
}

// Options tune a single render.
type Options struct {
	// ProcessOnly prepares widget markup without initialising widgets
	// or appending network scripts.
	ProcessOnly bool
	// AssumeReady reports every appended network script as loaded, so
	// instances come out activated.
	AssumeReady bool
	// Scope is the id of the element to limit discovery to.
	Scope string
	// Widget forces the widget for every discovered element.
	Widget string
}

// Result is a rendered page.
type Result struct {
	HTML      []byte
	Mode      activity.Mode
	Instances int
	Activated int
	Networks  []string
	Events    []activity.Event
}

// Activity converts the result into an activity log entry for page.
func (r *Result) Activity(page string) *activity.Render {
	return &activity.Render{
		Page:      page,
		Mode:      r.Mode,
		Instances: r.Instances,
		Networks:  r.Networks,
		Events:    r.Events,
	}
}

// Renderer runs pages through a fresh coordinator each. It is safe for
// concurrent use.
type Renderer struct {
	reg      *registry.Registry
	settings *settings.Settings
	marker   string
	logger   *slog.Logger
	md       goldmark.Markdown
	tmpl     *template.Template
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger handed to each coordinator.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMarkerClass overrides the discovery class.
func WithMarkerClass(cn string) Option {
	return func(r *Renderer) { r.marker = cn }
}

// New creates a renderer over the given registry and settings.
func New(reg *registry.Registry, s *settings.Settings, opts ...Option) *Renderer {
	r := &Renderer{
		reg:      reg,
		settings: s,
		logger:   slog.Default(),
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			// Widget markup is raw HTML inside the Markdown.
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
		tmpl: template.Must(template.New("page").Parse(pageTemplate)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render parses page, activates its widgets and serialises the result.
func (r *Renderer) Render(ctx context.Context, page Page, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := r.parse(page)
	if err != nil {
		return nil, err
	}

	rec := activity.NewRecorder()
	c := engine.New(doc, r.reg,
		engine.WithLogger(r.logger.With("page", page.Path)),
		engine.WithObserver(rec),
		engine.WithMarkerClass(r.marker),
		engine.WithSettings(r.settings),
	)

	load := engine.LoadOptions{Widget: opts.Widget, ProcessOnly: opts.ProcessOnly}
	if opts.Scope != "" {
		load.Scope = doc.ElementByID(opts.Scope)
		if load.Scope == nil {
			return nil, fmt.Errorf("rendering %s: no element with id %q", page.Path, opts.Scope)
		}
	}
	c.Enqueue(func(c *engine.Coordinator) { c.Load(load) })
	c.Start()

	if opts.AssumeReady && !opts.ProcessOnly {
		for _, name := range c.AppendedNetworks() {
			c.ScriptLoaded(name)
		}
	}

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", page.Path, err)
	}

	res := &Result{
		HTML:      buf.Bytes(),
		Mode:      activity.ModeLoad,
		Instances: len(c.Instances()),
		Networks:  c.AppendedNetworks(),
		Events:    rec.Events(),
	}
	if opts.ProcessOnly {
		res.Mode = activity.ModeProcess
	}
	for _, inst := range c.Instances() {
		if inst.Loaded {
			res.Activated++
		}
	}
	if res.Networks == nil {
		res.Networks = []string{}
	}
	return res, nil
}

func (r *Renderer) parse(page Page) (*dom.Document, error) {
	format := page.Format
	if format == "" {
		f, err := FormatOf(page.Path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	var src []byte
	switch format {
	case FormatHTML:
		src = page.Source
	case FormatMarkdown:
		out, err := r.markdown(page)
		if err != nil {
			return nil, err
		}
		src = out
	default:
		return nil, fmt.Errorf("%s: %w", page.Path, ErrUnsupportedFormat)
	}

	doc, err := dom.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", page.Path, err)
	}
	return doc, nil
}

// markdown converts a Markdown page into a full HTML document.
func (r *Renderer) markdown(page Page) ([]byte, error) {
	var body bytes.Buffer
	if err := r.md.Convert(page.Source, &body); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	var out bytes.Buffer
	err := r.tmpl.Execute(&out, pageData{
		Title:   extractTitle(string(page.Source), page.Path),
		Content: template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("executing page template: %w", err)
	}
	return out.Bytes(), nil
}

type pageData struct {
	Title   string
	Content template.HTML
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Content}}
</body>
</html>
`

func extractTitle(content, path string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
