package networks

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/socialite/internal/dom"
	"github.com/ziadkadry99/socialite/internal/model"
	"github.com/ziadkadry99/socialite/internal/registry"
	"github.com/ziadkadry99/socialite/internal/settings"
)

// http://developers.facebook.com/docs/reference/plugins/like/
func installFacebook(reg *registry.Registry, s *settings.Settings) {
	reg.RegisterNetwork("facebook", model.NetworkConfig{
		Script: &model.Script{
			Src:   "//connect.facebook.net/{{language}}/all.js",
			Attrs: []model.Attr{{Key: "id", Val: "facebook-jssdk"}},
		},
		Append: func(ac *model.AppendContext) bool {
			body := ac.Document.Body()
			if ac.Document.ElementByID("fb-root") == nil && body != nil {
				root := dom.NewElement("div")
				root.SetAttr("id", "fb-root")
				body.AppendChild(root)
			}
			ac.Script.Expand("language", s.String("facebook", "lang"))
			if body != nil {
				body.AppendChild(inlineScript(facebookBootstrap(s)))
			}
			return true
		},
	})

	reg.RegisterWidget("facebook", "like", model.WidgetConfig{
		Init: func(inst *model.Instance) {
			el := dom.NewElement("div")
			el.SetClassName("fb-like")
			dom.CopyDataAttributes(inst.El, el, false, false)
			inst.El.AppendChild(el)
		},
	})
}

func facebookBootstrap(s *settings.Settings) string {
	var sb strings.Builder
	sb.WriteString("window.fbAsyncInit = function() {\n")
	appID := s.String("facebook", "appId")
	if appID == "" {
		sb.WriteString("  FB.init({appId: null, xfbml: true});\n")
	} else {
		fmt.Fprintf(&sb, "  FB.init({appId: %s, xfbml: true});\n", jsString(appID))
	}
	for _, b := range boundHandlers(s, "facebook") {
		fmt.Fprintf(&sb, "  FB.Event.subscribe(%s, window[%s]);\n", jsString(b.Event), jsString(b.Setting))
	}
	sb.WriteString("};")
	return sb.String()
}
