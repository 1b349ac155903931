package engine

import (
	"github.com/ziadkadry99/socialite/internal/dom"
	"github.com/ziadkadry99/socialite/internal/model"
	"github.com/ziadkadry99/socialite/internal/registry"
)

// WidgetRef is the outcome of resolving an element to a widget: either
// a widget or nothing.
type WidgetRef struct {
	widget *model.Widget
	// ByClass is set when the widget came from the element's classes
	// rather than an explicit name.
	ByClass bool
}

// Widget returns the resolved widget and whether there was one.
func (r WidgetRef) Widget() (*model.Widget, bool) {
	return r.widget, r.widget != nil
}

// Resolve picks the widget for el: the explicitly named widget when it
// is registered, otherwise the first widget named by one of el's classes.
func Resolve(reg *registry.Registry, el *dom.Element, name string) WidgetRef {
	if name != "" {
		if w := reg.Widget(name); w != nil {
			return WidgetRef{widget: w}
		}
	}
	if w := reg.LookupByClassList(el.Classes()); w != nil {
		return WidgetRef{widget: w, ByClass: true}
	}
	return WidgetRef{}
}
