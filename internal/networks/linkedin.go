package networks

import (
	"github.com/ziadkadry99/socialite/internal/dom"
	"github.com/ziadkadry99/socialite/internal/model"
	"github.com/ziadkadry99/socialite/internal/registry"
	"github.com/ziadkadry99/socialite/internal/settings"
)

// http://developer.linkedin.com/plugins/share-button/
func installLinkedIn(reg *registry.Registry, _ *settings.Settings) {
	reg.RegisterNetwork("linkedin", model.NetworkConfig{
		Script: &model.Script{Src: "//platform.linkedin.com/in.js"},
	})

	initWidget := func(inst *model.Instance) {
		el := dom.NewElement("script")
		el.SetAttr("type", "IN/"+inst.Widget.Param("intype"))
		dom.CopyDataAttributes(inst.El, el, false, false)
		inst.El.AppendChild(el)
	}
	reg.RegisterWidget("linkedin", "share", model.WidgetConfig{Init: initWidget, Params: map[string]string{"intype": "Share"}})
	reg.RegisterWidget("linkedin", "recommend", model.WidgetConfig{Init: initWidget, Params: map[string]string{"intype": "RecommendProduct"}})
}
