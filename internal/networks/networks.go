// Package networks provides the built-in social networks and their
// widgets: Facebook, Twitter, Google+ and LinkedIn.
package networks

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ziadkadry99/socialite/internal/dom"
	"github.com/ziadkadry99/socialite/internal/registry"
	"github.com/ziadkadry99/socialite/internal/settings"
)

// Installer registers one network and its widgets.
type Installer func(reg *registry.Registry, s *settings.Settings)

var builtins = []struct {
	name    string
	install Installer
}{
	{"facebook", installFacebook},
	{"twitter", installTwitter},
	{"googleplus", installGooglePlus},
	{"linkedin", installLinkedIn},
}

// Names lists the built-in networks in installation order.
func Names() []string {
	out := make([]string, len(builtins))
	for i, b := range builtins {
		out[i] = b.name
	}
	return out
}

// Install registers the named built-in networks, or all of them when no
// names are given.
func Install(reg *registry.Registry, s *settings.Settings, names ...string) error {
	if len(names) == 0 {
		names = Names()
	}
	for _, name := range names {
		found := false
		for _, b := range builtins {
			if b.name == name {
				b.install(reg, s)
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown network %q: must be one of %s", name, strings.Join(Names(), ", "))
		}
	}
	return nil
}

// EventBinding maps a settings key holding a handler name to the vendor
// event it subscribes to.
type EventBinding struct {
	Setting string
	Event   string
}

// EventTable lists, per network, which settings keys name event handlers
// and the vendor event each one is bound to.
var EventTable = map[string][]EventBinding{
	"facebook": {
		{Setting: "onlike", Event: "edge.create"},
		{Setting: "onunlike", Event: "edge.remove"},
		{Setting: "onsend", Event: "message.send"},
	},
	"twitter": {
		{Setting: "onclick", Event: "click"},
		{Setting: "ontweet", Event: "tweet"},
		{Setting: "onretweet", Event: "retweet"},
		{Setting: "onfavorite", Event: "favorite"},
		{Setting: "onfollow", Event: "follow"},
	},
	"googleplus": {
		{Setting: "onstartinteraction", Event: "onstartinteraction"},
		{Setting: "onendinteraction", Event: "onendinteraction"},
		{Setting: "callback", Event: "callback"},
	},
}

// boundHandlers returns the event bindings whose setting names a handler.
func boundHandlers(s *settings.Settings, network string) []EventBinding {
	var out []EventBinding
	for _, b := range EventTable[network] {
		if fn := s.String(network, b.Setting); fn != "" {
			out = append(out, EventBinding{Setting: fn, Event: b.Event})
		}
	}
	return out
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// inlineScript returns a script element holding code.
func inlineScript(code string) *dom.Element {
	el := dom.NewElement("script")
	el.SetText(code)
	return el
}

// pageLoads reports whether the document already references a script
// whose src contains fragment or whose id equals id.
func pageLoads(doc *dom.Document, id, fragment string) bool {
	if id != "" {
		if el := doc.ElementByID(id); el != nil && el.Tag() == "script" {
			return true
		}
	}
	if fragment == "" {
		return false
	}
	for _, s := range doc.ElementsByTag("script") {
		if strings.Contains(s.GetAttr("src"), fragment) {
			return true
		}
	}
	return false
}
