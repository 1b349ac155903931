package model

import "github.com/ziadkadry99/socialite/internal/dom"

// Instance is one discovered widget element on a page.
type Instance struct {
	// El is the container element; it replaces the discovered one when
	// the generic transform runs.
	El     *dom.Element
	UID    int
	Widget *Widget
	// Inner is a secondary element a widget's hooks keep hold of, such
	// as the wrapped source of an embed.
	Inner *dom.Element
	// Init is set once the widget's Init hook has been called.
	Init bool
	// Loaded is set once activation completed. It never resets.
	Loaded bool
	// OnLoaded is the completion callback of the Load call that
	// initialised the instance.
	OnLoaded func(el *dom.Element)
}

// NetworkName returns the name of the owning network.
func (i *Instance) NetworkName() string {
	if i.Widget == nil || i.Widget.Network == nil {
		return ""
	}
	return i.Widget.Network.Name
}
