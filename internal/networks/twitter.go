package networks

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/socialite/internal/dom"
	"github.com/ziadkadry99/socialite/internal/instance"
	"github.com/ziadkadry99/socialite/internal/model"
	"github.com/ziadkadry99/socialite/internal/registry"
	"github.com/ziadkadry99/socialite/internal/settings"
)

const twitterScriptID = "twitter-wjs"

// https://dev.twitter.com/docs/tweet-button/
func installTwitter(reg *registry.Registry, s *settings.Settings) {
	reg.RegisterNetwork("twitter", model.NetworkConfig{
		Script: &model.Script{
			Src: "//platform.twitter.com/widgets.js",
			Attrs: []model.Attr{
				{Key: "id", Val: twitterScriptID},
				{Key: "charset", Val: "utf-8"},
			},
		},
		Append: func(ac *model.AppendContext) bool {
			if pageLoads(ac.Document, twitterScriptID, "platform.twitter.com/widgets.js") {
				return false
			}
			if body := ac.Document.Body(); body != nil {
				body.AppendChild(inlineScript(twitterBootstrap(s)))
			}
			return true
		},
	})

	button := model.WidgetConfig{
		Init: func(inst *model.Instance) {
			el := dom.NewElement("a")
			el.SetClassName(inst.Widget.Name + "-button")
			dom.CopyDataAttributes(inst.El, el, false, false)
			el.SetAttr("href", inst.El.GetAttr(instance.DefaultHref))
			lang := inst.El.GetAttr("data-lang")
			if lang == "" {
				lang = s.String("twitter", "lang")
			}
			el.SetAttr("data-lang", lang)
			inst.El.AppendChild(el)
		},
	}
	for _, short := range []string{"share", "follow", "hashtag", "mention"} {
		reg.RegisterWidget("twitter", short, button)
	}

	reg.RegisterWidget("twitter", "embed", model.WidgetConfig{
		Process: func(inst *model.Instance) bool {
			inner := inst.El
			if inner.GetAttr("data-lang") == "" {
				inner.SetAttr("data-lang", s.String("twitter", "lang"))
			}
			box := dom.NewElement("div")
			box.SetClassName(inner.ClassName())
			inner.SetClassName("")
			inner.ReplaceWith(box)
			box.AppendChild(inner)
			inst.Inner = inner
			inst.El = box
			return false
		},
		Init: func(inst *model.Instance) {
			if inst.Inner != nil {
				inst.Inner.SetClassName("twitter-tweet")
			}
		},
	})
}

// twitterBootstrap installs the twttr.ready queue and binds configured
// event handlers once widgets.js is up.
func twitterBootstrap(s *settings.Settings) string {
	var sb strings.Builder
	sb.WriteString("window.twttr = window.twttr || (function(t) { t = {_e: [], ready: function(f) { t._e.push(f); }}; return t; }());\n")
	sb.WriteString("window.twttr.ready(function(twttr) {\n")
	for _, b := range boundHandlers(s, "twitter") {
		fmt.Fprintf(&sb, "  twttr.events.bind(%s, window[%s]);\n", jsString(b.Event), jsString(b.Setting))
	}
	sb.WriteString("});")
	return sb.String()
}
