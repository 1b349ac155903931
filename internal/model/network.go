package model

import (
	"strings"

	"github.com/ziadkadry99/socialite/internal/dom"
)

// Attr is an ordered script attribute.
type Attr struct {
	Key string
	Val string
}

// Script describes the external resource a network loads. Src may hold
// {{placeholder}} tokens that an Append hook fills in per page.
type Script struct {
	Src   string
	Attrs []Attr
}

// Clone returns a deep copy so per-page hooks can edit it freely.
func (s *Script) Clone() *Script {
	if s == nil {
		return nil
	}
	c := &Script{Src: s.Src, Attrs: make([]Attr, len(s.Attrs))}
	copy(c.Attrs, s.Attrs)
	return c
}

// Attr returns the named attribute value.
func (s *Script) Attr(key string) string {
	for _, a := range s.Attrs {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Expand replaces {{key}} with val in Src.
func (s *Script) Expand(key, val string) {
	s.Src = strings.ReplaceAll(s.Src, "{{"+key+"}}", val)
}

// AppendContext is handed to a network's Append hook while its script
// is being added to a page.
type AppendContext struct {
	Network  *Network
	Document *dom.Document
	// Script is a per-page copy of the network's descriptor.
	Script *Script
}

// AppendFunc prepares the page for a network's script. Returning false
// means the network is already available and counts as loaded without
// inserting the script element.
type AppendFunc func(ac *AppendContext) bool

// OnloadFunc runs once the network's script reports ready. Returning
// false vetoes the automatic activation of pending instances.
type OnloadFunc func(n *Network) bool

// Network is a third-party provider with one external script.
type Network struct {
	Name   string
	Script *Script
	Append AppendFunc
	Onload OnloadFunc
	// Widgets maps short names to the widgets this network owns.
	Widgets map[string]*Widget
}

// NetworkConfig carries the optional parts of a network registration.
type NetworkConfig struct {
	Script *Script
	Append AppendFunc
	Onload OnloadFunc
}
