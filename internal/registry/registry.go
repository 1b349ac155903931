// Package registry stores the networks and widgets a coordinator can
// activate. It is configured once at start-up and then read, possibly
// from many pages at the same time.
package registry

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/ziadkadry99/socialite/internal/model"
)

// Registry maps network and widget names to their definitions.
type Registry struct {
	mu       sync.RWMutex
	networks map[string]*model.Network
	widgets  map[string]*model.Widget
	// order keeps widget registration order for short-name lookups.
	order  []*model.Widget
	logger *slog.Logger
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		networks: make(map[string]*model.Network),
		widgets:  make(map[string]*model.Widget),
		logger:   slog.Default(),
	}
}

// SetLogger replaces the logger used for registration diagnostics.
func (r *Registry) SetLogger(l *slog.Logger) {
	if l != nil {
		r.logger = l
	}
}

// RegisterNetwork adds a network. Registering an existing name extends
// it instead: only fields the network does not have yet are taken from
// cfg, script attributes are merged key by key, and its widgets are kept.
func (r *Registry) RegisterNetwork(name string, cfg model.NetworkConfig) *model.Network {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n, ok := r.networks[name]; ok {
		extendNetwork(n, cfg)
		r.logger.Debug("Extended network.", "network", name)
		return n
	}

	n := &model.Network{
		Name:    name,
		Script:  cfg.Script.Clone(),
		Append:  cfg.Append,
		Onload:  cfg.Onload,
		Widgets: make(map[string]*model.Widget),
	}
	r.networks[name] = n
	r.logger.Debug("Registered network.", "network", name)
	return n
}

func extendNetwork(n *model.Network, cfg model.NetworkConfig) {
	if n.Append == nil {
		n.Append = cfg.Append
	}
	if n.Onload == nil {
		n.Onload = cfg.Onload
	}
	if cfg.Script == nil {
		return
	}
	if n.Script == nil {
		n.Script = cfg.Script.Clone()
		return
	}
	if n.Script.Src == "" {
		n.Script.Src = cfg.Script.Src
	}
	for _, a := range cfg.Script.Attrs {
		if n.Script.Attr(a.Key) == "" {
			n.Script.Attrs = append(n.Script.Attrs, a)
		}
	}
}

// RegisterWidget adds a widget to an existing network. It returns nil
// when the network is unknown or the composite name is already taken;
// the first registration wins.
func (r *Registry) RegisterWidget(network, short string, cfg model.WidgetConfig) *model.Widget {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := model.CompositeName(network, short)
	n, ok := r.networks[network]
	if !ok {
		r.logger.Debug("Ignoring widget for unknown network.", "network", network, "widget", name)
		return nil
	}
	if _, exists := r.widgets[name]; exists {
		r.logger.Debug("Ignoring duplicate widget.", "widget", name)
		return nil
	}

	params := make(map[string]string, len(cfg.Params))
	for k, v := range cfg.Params {
		params[k] = v
	}
	w := &model.Widget{
		Name:     name,
		Short:    short,
		Network:  n,
		Init:     cfg.Init,
		Activate: cfg.Activate,
		Process:  cfg.Process,
		Params:   params,
	}
	n.Widgets[short] = w
	r.widgets[name] = w
	r.order = append(r.order, w)
	r.logger.Debug("Registered widget.", "widget", name)
	return w
}

// Network returns the named network, or nil.
func (r *Registry) Network(name string) *model.Network {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.networks[name]
}

// Widget returns the widget with the given composite name, or nil.
func (r *Registry) Widget(name string) *model.Widget {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.widgets[name]
}

// LookupByClassList finds the widget named by a class token. Composite
// names are tried first in token order, then short names in widget
// registration order.
func (r *Registry) LookupByClassList(classes []string) *model.Widget {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range classes {
		if w, ok := r.widgets[c]; ok {
			return w
		}
	}
	for _, c := range classes {
		for _, w := range r.order {
			if w.Short == c {
				return w
			}
		}
	}
	return nil
}

// Networks returns all networks sorted by name.
func (r *Registry) Networks() []*model.Network {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Network, 0, len(r.networks))
	for _, n := range r.networks {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Widgets returns all widgets in registration order.
func (r *Registry) Widgets() []*model.Widget {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Widget, len(r.order))
	copy(out, r.order)
	return out
}
