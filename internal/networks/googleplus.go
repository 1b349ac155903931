package networks

import (
	"encoding/json"
	"fmt"

	"github.com/ziadkadry99/socialite/internal/dom"
	"github.com/ziadkadry99/socialite/internal/model"
	"github.com/ziadkadry99/socialite/internal/registry"
	"github.com/ziadkadry99/socialite/internal/settings"
)

// GapiParamsAttr carries the explicit render parameters for gapi.
const GapiParamsAttr = "data-gapi-params"

// https://developers.google.com/+/plugins/+1button/
func installGooglePlus(reg *registry.Registry, s *settings.Settings) {
	reg.RegisterNetwork("googleplus", model.NetworkConfig{
		Script: &model.Script{Src: "//apis.google.com/js/plusone.js"},
		Append: func(ac *model.AppendContext) bool {
			if pageLoads(ac.Document, "", "apis.google.com/js/plusone.js") {
				return false
			}
			cfg, _ := json.Marshal(map[string]string{
				"lang":      s.String("googleplus", "lang"),
				"parsetags": "explicit",
			})
			if body := ac.Document.Body(); body != nil {
				body.AppendChild(inlineScript(fmt.Sprintf("window.___gcfg = %s;", cfg)))
			}
			return true
		},
	})

	initWidget := func(inst *model.Instance) {
		el := dom.NewElement("div")
		el.SetClassName("g-" + inst.Widget.Param("gtype"))
		dom.CopyDataAttributes(inst.El, el, false, false)
		inst.El.AppendChild(el)
		inst.Inner = el
	}
	activate := func(inst *model.Instance) {
		if inst.Inner == nil {
			return
		}
		params := make(map[string]string)
		for k, v := range dom.DataMap(inst.El, true) {
			params[k] = v
		}
		for _, b := range boundHandlers(s, "googleplus") {
			params[b.Event] = b.Setting
		}
		raw, err := json.Marshal(params)
		if err != nil {
			return
		}
		inst.Inner.SetAttr(GapiParamsAttr, string(raw))
	}

	for _, w := range []struct{ short, gtype string }{
		{"one", "plusone"},
		{"share", "plus"},
		{"badge", "plus"},
	} {
		reg.RegisterWidget("googleplus", w.short, model.WidgetConfig{
			Init:     initWidget,
			Activate: activate,
			Params:   map[string]string{"gtype": w.gtype},
		})
	}
}
