package engine

import (
	"log/slog"

	"github.com/ziadkadry99/socialite/internal/dom"
	"github.com/ziadkadry99/socialite/internal/instance"
	"github.com/ziadkadry99/socialite/internal/loader"
	"github.com/ziadkadry99/socialite/internal/model"
	"github.com/ziadkadry99/socialite/internal/registry"
	"github.com/ziadkadry99/socialite/internal/settings"
)

// Observer receives instance and network lifecycle events.
type Observer interface {
	loader.Observer
	InstanceCreated(inst *model.Instance)
	InstanceInitialized(inst *model.Instance)
	InstanceActivated(inst *model.Instance)
}

// LoadOptions selects what Load works on.
type LoadOptions struct {
	// Scope limits discovery to its descendants; nil means the whole
	// document.
	Scope *dom.Element
	// Elements are loaded directly, in order. A nil slice triggers
	// discovery by marker class within Scope.
	Elements []*dom.Element
	// Widget names the widget explicitly; an unknown name falls back to
	// class resolution.
	Widget string
	// OnLoaded runs after an instance initialised by this call activates.
	OnLoaded func(el *dom.Element)
	// ProcessOnly restructures markup but neither initialises widgets
	// nor loads networks.
	ProcessOnly bool
}

// Coordinator activates widgets on one document.
type Coordinator struct {
	doc      *dom.Document
	reg      *registry.Registry
	settings *settings.Settings
	store    *instance.Store
	loader   *loader.Loader
	marker   string
	logger   *slog.Logger
	observer Observer

	initializing map[*model.Instance]bool

	queue   []func(*Coordinator)
	started bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver sets the lifecycle observer.
func WithObserver(o Observer) Option {
	return func(c *Coordinator) { c.observer = o }
}

// WithMarkerClass overrides the discovery class (default "socialite").
func WithMarkerClass(cn string) Option {
	return func(c *Coordinator) {
		if cn != "" {
			c.marker = cn
		}
	}
}

// WithSettings shares a settings object with the coordinator.
func WithSettings(s *settings.Settings) Option {
	return func(c *Coordinator) {
		if s != nil {
			c.settings = s
		}
	}
}

// New creates a coordinator for doc using the widgets in reg.
func New(doc *dom.Document, reg *registry.Registry, opts ...Option) *Coordinator {
	c := &Coordinator{
		doc:          doc,
		reg:          reg,
		store:        instance.NewStore(),
		marker:       instance.MarkerClass,
		logger:       slog.Default(),
		initializing: make(map[*model.Instance]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.settings == nil {
		c.settings = settings.NewDefault()
	}

	lopts := []loader.Option{loader.WithLogger(c.logger)}
	if c.observer != nil {
		lopts = append(lopts, loader.WithObserver(c.observer))
	}
	c.loader = loader.New(doc, c.activateNetwork, lopts...)
	return c
}

// Document returns the page being coordinated.
func (c *Coordinator) Document() *dom.Document { return c.doc }

// Registry returns the widget registry.
func (c *Coordinator) Registry() *registry.Registry { return c.reg }

// Settings returns the settings in use.
func (c *Coordinator) Settings() *settings.Settings { return c.settings }

// Load discovers, processes and, unless ProcessOnly is set, initialises
// and activates widget instances.
func (c *Coordinator) Load(opts LoadOptions) {
	els := opts.Elements
	if els == nil {
		els = c.discover(opts.Scope)
	}
	for _, el := range els {
		if el == nil {
			continue
		}
		c.loadElement(el, opts)
	}
}

// Activate loads a single element.
func (c *Coordinator) Activate(el *dom.Element, widget string, onLoaded func(*dom.Element)) {
	if el == nil {
		return
	}
	c.Load(LoadOptions{Elements: []*dom.Element{el}, Widget: widget, OnLoaded: onLoaded})
}

// Process prepares markup without initialising widgets or appending any
// network script.
func (c *Coordinator) Process(scope *dom.Element, els []*dom.Element, widget string) {
	c.Load(LoadOptions{Scope: scope, Elements: els, Widget: widget, ProcessOnly: true})
}

func (c *Coordinator) discover(scope *dom.Element) []*dom.Element {
	if scope != nil && c.doc.Contains(scope) {
		return scope.ElementsByClass(c.marker)
	}
	return c.doc.ElementsByClass(c.marker)
}

func (c *Coordinator) loadElement(el *dom.Element, opts LoadOptions) {
	inst, known := c.store.Lookup(el)
	switch {
	case known && inst == nil:
		c.logger.Debug("Element marker matches no instance.", "tag", el.Tag(), "marker", el.GetAttr(instance.IDAttr))
		return
	case !known:
		// An outer widget may have replaced this element since discovery.
		if !c.doc.Contains(el) {
			c.logger.Debug("Skipping detached element.", "tag", el.Tag(), "class", el.ClassName())
			return
		}
		w, ok := Resolve(c.reg, el, opts.Widget).Widget()
		if !ok {
			c.logger.Debug("No widget for element.", "tag", el.Tag(), "class", el.ClassName())
			return
		}
		inst = c.store.FindOrCreate(el, w)
		if c.observer != nil {
			c.observer.InstanceCreated(inst)
		}
	}
	if opts.ProcessOnly {
		return
	}

	w := inst.Widget
	if !inst.Init {
		inst.Init = true
		inst.OnLoaded = opts.OnLoaded
		if c.observer != nil {
			c.observer.InstanceInitialized(inst)
		}
		if w.Init != nil {
			c.initializing[inst] = true
			w.Init(inst)
			delete(c.initializing, inst)
		}
	}

	n := w.Network
	if !c.loader.Appended(n) {
		c.loader.EnsureAppended(n)
		return
	}
	if c.loader.Loaded(n) {
		c.ActivateInstance(inst)
	}
}

// ActivateInstance completes an instance: it runs the widget's activate
// hook, marks the container loaded and calls the completion callback.
// It reports whether this call activated the instance.
func (c *Coordinator) ActivateInstance(inst *model.Instance) bool {
	if inst == nil || inst.Loaded || !inst.Init || c.initializing[inst] {
		return false
	}
	inst.Loaded = true
	if inst.Widget.Activate != nil {
		inst.Widget.Activate(inst)
	}
	inst.El.AddClass(instance.LoadedClass)
	c.logger.Debug("Activated instance.", "widget", inst.Widget.Name, "uid", inst.UID)
	if c.observer != nil {
		c.observer.InstanceActivated(inst)
	}
	if inst.OnLoaded != nil {
		inst.OnLoaded(inst.El)
	}
	return true
}

// ActivateAll activates every initialised instance of the named network.
func (c *Coordinator) ActivateAll(network string) {
	if n := c.reg.Network(network); n != nil {
		c.activateNetwork(n)
	}
}

func (c *Coordinator) activateNetwork(n *model.Network) {
	for _, inst := range c.store.All() {
		if inst.Init && inst.Widget.Network == n {
			c.ActivateInstance(inst)
		}
	}
}

// NetworkReady reports whether the named network has loaded on this page.
func (c *Coordinator) NetworkReady(network string) bool {
	n := c.reg.Network(network)
	return n != nil && c.loader.Loaded(n)
}

// NetworkAppended reports whether the named network's script was added.
func (c *Coordinator) NetworkAppended(network string) bool {
	n := c.reg.Network(network)
	return n != nil && c.loader.Appended(n)
}

// Ready returns the named network's current readiness signal, or nil.
func (c *Coordinator) Ready(network string) *loader.Signal {
	n := c.reg.Network(network)
	if n == nil {
		return nil
	}
	return c.loader.Ready(n)
}

// ScriptEvent forwards a script load notification with the given ready
// state. It reports whether the network became ready.
func (c *Coordinator) ScriptEvent(network, readyState string) bool {
	return c.loader.ScriptEvent(c.reg.Network(network), readyState)
}

// ScriptLoaded reports the network's script as fully loaded.
func (c *Coordinator) ScriptLoaded(network string) bool {
	return c.ScriptEvent(network, "complete")
}

// RemoveNetwork detaches a loaded network's script.
func (c *Coordinator) RemoveNetwork(network string) bool {
	return c.loader.Remove(c.reg.Network(network))
}

// ReloadNetwork removes and re-appends a loaded network's script, for
// third-party scripts that came up half-initialised.
func (c *Coordinator) ReloadNetwork(network string) bool {
	return c.loader.Reload(c.reg.Network(network))
}

// AppendedNetworks lists the networks currently appended, in the order
// they were first requested.
func (c *Coordinator) AppendedNetworks() []string {
	var out []string
	for _, n := range c.loader.Networks() {
		if c.loader.Appended(n) {
			out = append(out, n.Name)
		}
	}
	return out
}

// Instances returns the page's instances in creation order.
func (c *Coordinator) Instances() []*model.Instance { return c.store.All() }

// Instance returns the instance with the given id, or nil.
func (c *Coordinator) Instance(uid int) *model.Instance { return c.store.Get(uid) }
