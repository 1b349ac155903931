// Package loader appends each network's external script to a page at
// most once and turns the script's readiness into an activation
// broadcast for the instances waiting on it.
//
// Per network the loader moves through
//
//	unappended -> appended -> loaded
//
// and Remove takes a loaded network back to unappended. Every append arms
// a fresh readiness Signal; reload never reuses the old one.
package loader

import (
	"log/slog"
	"strings"

	"github.com/ziadkadry99/socialite/internal/dom"
	"github.com/ziadkadry99/socialite/internal/model"
)

// FanOut activates the pending instances of a network.
type FanOut func(n *model.Network)

// Observer is told about network state changes.
type Observer interface {
	NetworkAppended(network string)
	NetworkLoaded(network string)
	NetworkRemoved(network string)
}

type state struct {
	appended bool
	loaded   bool
	el       *dom.Element
	script   *model.Script
	ready    *Signal
}

// Loader tracks network scripts for one document. It is driven from the
// goroutine that owns the document.
type Loader struct {
	doc      *dom.Document
	fanOut   FanOut
	states   map[string]*state
	order    []*model.Network
	logger   *slog.Logger
	observer Observer
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithObserver sets the observer notified of state changes.
func WithObserver(o Observer) Option {
	return func(ld *Loader) { ld.observer = o }
}

// New creates a loader for doc. fanOut is called whenever a network
// becomes ready and its onload hook does not veto activation.
func New(doc *dom.Document, fanOut FanOut, opts ...Option) *Loader {
	l := &Loader{
		doc:    doc,
		fanOut: fanOut,
		states: make(map[string]*state),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) state(n *model.Network) *state {
	st, ok := l.states[n.Name]
	if !ok {
		st = &state{}
		l.states[n.Name] = st
		l.order = append(l.order, n)
	}
	return st
}

// EnsureAppended adds the network's script to the page unless it has
// already been appended.
func (l *Loader) EnsureAppended(n *model.Network) {
	if n == nil {
		return
	}
	st := l.state(n)
	if st.appended {
		return
	}
	st.ready = NewSignal()
	st.script = n.Script.Clone()

	if n.Append != nil {
		ac := &model.AppendContext{Network: n, Document: l.doc, Script: st.script}
		if !n.Append(ac) {
			st.appended, st.loaded = true, true
			st.ready.Resolve()
			l.logger.Debug("Network available without script.", "network", n.Name)
			l.notifyAppended(n)
			l.notifyLoaded(n)
			l.fanOut(n)
			return
		}
	}

	if st.script != nil && st.script.Src != "" {
		el := dom.NewElement("script")
		el.SetAttr("src", st.script.Src)
		for _, a := range st.script.Attrs {
			el.SetAttr(a.Key, a.Val)
		}
		el.SetAttr("async", "")
		st.el = el
		if body := l.doc.Body(); body != nil {
			body.AppendChild(el)
		}
	}

	ready := st.ready
	ready.Subscribe(func() {
		if st.ready != ready {
			return
		}
		st.loaded = true
		l.logger.Debug("Network script ready.", "network", n.Name)
		l.notifyLoaded(n)
		if n.Onload != nil && !n.Onload(n) {
			l.logger.Debug("Network onload vetoed activation.", "network", n.Name)
			return
		}
		l.fanOut(n)
	})

	st.appended = true
	l.logger.Debug("Appended network script.", "network", n.Name, "src", scriptSrc(st.script))
	l.notifyAppended(n)
}

// IsReadyState reports whether a script readyState counts as loaded:
// empty (plain load events), "loaded" or "complete".
func IsReadyState(rs string) bool {
	return rs == "" || strings.HasPrefix(rs, "loaded") || strings.HasPrefix(rs, "complete")
}

// ScriptEvent delivers a load or readystatechange notification for the
// network's script. Only the first notification with a ready state
// counts; it reports whether this call made the network ready.
func (l *Loader) ScriptEvent(n *model.Network, readyState string) bool {
	if n == nil || !IsReadyState(readyState) {
		return false
	}
	st, ok := l.states[n.Name]
	if !ok || !st.appended || st.ready == nil {
		return false
	}
	return st.ready.Resolve()
}

// Remove detaches a loaded network's script and resets its state. It
// reports false, changing nothing, when the network is not loaded.
func (l *Loader) Remove(n *model.Network) bool {
	if n == nil {
		return false
	}
	st, ok := l.states[n.Name]
	if !ok || !st.loaded {
		return false
	}
	if st.el != nil {
		st.el.Remove()
	}
	st.el = nil
	st.appended, st.loaded = false, false
	l.logger.Debug("Removed network script.", "network", n.Name)
	if l.observer != nil {
		l.observer.NetworkRemoved(n.Name)
	}
	return true
}

// Reload removes and re-appends a loaded network. It reports whether a
// reload happened.
func (l *Loader) Reload(n *model.Network) bool {
	if !l.Remove(n) {
		return false
	}
	l.EnsureAppended(n)
	return true
}

// Appended reports whether the network's script is on the page.
func (l *Loader) Appended(n *model.Network) bool {
	st, ok := l.states[n.Name]
	return ok && st.appended
}

// Loaded reports whether the network is ready.
func (l *Loader) Loaded(n *model.Network) bool {
	st, ok := l.states[n.Name]
	return ok && st.loaded
}

// Ready returns the network's current readiness signal, or nil if it
// has never been appended.
func (l *Loader) Ready(n *model.Network) *Signal {
	st, ok := l.states[n.Name]
	if !ok {
		return nil
	}
	return st.ready
}

// Networks returns the networks the loader has seen, in first-append
// order.
func (l *Loader) Networks() []*model.Network {
	out := make([]*model.Network, len(l.order))
	copy(out, l.order)
	return out
}

func (l *Loader) notifyAppended(n *model.Network) {
	if l.observer != nil {
		l.observer.NetworkAppended(n.Name)
	}
}

func (l *Loader) notifyLoaded(n *model.Network) {
	if l.observer != nil {
		l.observer.NetworkLoaded(n.Name)
	}
}

func scriptSrc(s *model.Script) string {
	if s == nil {
		return ""
	}
	return s.Src
}
