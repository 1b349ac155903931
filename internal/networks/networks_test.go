package networks

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ziadkadry99/socialite/internal/dom"
	"github.com/ziadkadry99/socialite/internal/engine"
	"github.com/ziadkadry99/socialite/internal/registry"
	"github.com/ziadkadry99/socialite/internal/settings"
)

func setupPage(t *testing.T, body string, overrides map[string]any) *engine.Coordinator {
	t.Helper()
	doc, err := dom.ParseString("<html><head></head><body>" + body + "</body></html>")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	s := settings.NewDefault()
	if err := s.Setup(overrides); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	reg := registry.New()
	if err := Install(reg, s); err != nil {
		t.Fatalf("Install: %v", err)
	}
	return engine.New(doc, reg, engine.WithSettings(s))
}

func scriptBySrc(doc *dom.Document, fragment string) *dom.Element {
	for _, s := range doc.ElementsByTag("script") {
		if strings.Contains(s.GetAttr("src"), fragment) {
			return s
		}
	}
	return nil
}

func inlineScripts(doc *dom.Document) string {
	var sb strings.Builder
	for _, s := range doc.ElementsByTag("script") {
		if s.GetAttr("src") == "" {
			sb.WriteString(s.Text())
		}
	}
	return sb.String()
}

func TestInstallUnknown(t *testing.T) {
	if err := Install(registry.New(), settings.NewDefault(), "myspace"); err == nil {
		t.Fatal("expected error for unknown network")
	}
}

func TestInstallSubset(t *testing.T) {
	reg := registry.New()
	if err := Install(reg, settings.NewDefault(), "linkedin"); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if len(reg.Networks()) != 1 || reg.Widget("linkedin-share") == nil {
		t.Errorf("networks = %v", reg.Networks())
	}
}

func TestFacebookLike(t *testing.T) {
	c := setupPage(t,
		`<div class="socialite facebook-like" data-href="http://example.com/" data-send="false">Like</div>`,
		map[string]any{"facebook": map[string]any{"appId": "42", "onlike": "trackLike"}},
	)
	c.Load(engine.LoadOptions{})
	doc := c.Document()

	script := scriptBySrc(doc, "connect.facebook.net")
	if script == nil {
		t.Fatal("facebook script not appended")
	}
	if got := script.GetAttr("src"); got != "//connect.facebook.net/en_GB/all.js" {
		t.Errorf("src = %q", got)
	}
	if script.GetAttr("id") != "facebook-jssdk" {
		t.Errorf("id = %q", script.GetAttr("id"))
	}
	if doc.ElementByID("fb-root") == nil {
		t.Error("fb-root missing")
	}
	boot := inlineScripts(doc)
	if !strings.Contains(boot, `FB.init({appId: "42", xfbml: true})`) {
		t.Errorf("bootstrap missing FB.init:\n%s", boot)
	}
	if !strings.Contains(boot, `FB.Event.subscribe("edge.create", window["trackLike"])`) {
		t.Errorf("bootstrap missing like subscription:\n%s", boot)
	}

	like := doc.ElementsByClass("fb-like")
	if len(like) != 1 || like[0].GetAttr("data-href") != "http://example.com/" {
		t.Errorf("fb-like markup = %v", like)
	}
}

func TestTwitterShare(t *testing.T) {
	c := setupPage(t,
		`<a class="socialite twitter-share" href="http://twitter.com/share" data-text="Hello" data-lang="fr">Tweet</a>
		 <a class="socialite twitter-follow" href="http://twitter.com/me">Follow</a>`,
		map[string]any{"twitter": map[string]any{"onclick": "clicked"}},
	)
	c.Load(engine.LoadOptions{})
	doc := c.Document()

	share := doc.ElementsByClass("twitter-share-button")
	if len(share) != 1 {
		t.Fatalf("share buttons = %d, want 1", len(share))
	}
	if share[0].GetAttr("href") != "http://twitter.com/share" || share[0].GetAttr("data-lang") != "fr" {
		t.Errorf("share attrs = %v", share[0].Attrs())
	}
	follow := doc.ElementsByClass("twitter-follow-button")
	if len(follow) != 1 || follow[0].GetAttr("data-lang") != "en" {
		t.Errorf("follow markup = %v", follow)
	}
	if s := scriptBySrc(doc, "platform.twitter.com"); s == nil || s.GetAttr("charset") != "utf-8" {
		t.Error("twitter script missing or without charset")
	}
	if boot := inlineScripts(doc); !strings.Contains(boot, `twttr.events.bind("click", window["clicked"])`) {
		t.Errorf("bootstrap missing click binding:\n%s", boot)
	}
}

func TestTwitterAlreadyOnPage(t *testing.T) {
	c := setupPage(t,
		`<script id="twitter-wjs" src="//platform.twitter.com/widgets.js"></script>
		 <a class="socialite twitter-share" href="http://twitter.com/share">Tweet</a>`,
		nil,
	)
	c.Load(engine.LoadOptions{})

	if !c.NetworkReady("twitter") {
		t.Error("twitter not treated as loaded")
	}
	if n := len(c.Document().ElementsByTag("script")); n != 1 {
		t.Errorf("scripts = %d, want only the page's own", n)
	}
	if inst := c.Instances()[0]; !inst.Loaded {
		t.Error("instance not activated")
	}
}

func TestTwitterEmbed(t *testing.T) {
	c := setupPage(t,
		`<blockquote class="socialite twitter-embed"><p>tweet text</p></blockquote>`,
		nil,
	)
	c.Load(engine.LoadOptions{})

	inst := c.Instances()[0]
	if inst.Inner == nil || inst.Inner.Tag() != "blockquote" {
		t.Fatal("embed did not keep the blockquote")
	}
	if inst.Inner.ClassName() != "twitter-tweet" {
		t.Errorf("inner class = %q", inst.Inner.ClassName())
	}
	if inst.Inner.GetAttr("data-lang") != "en" {
		t.Errorf("inner data-lang = %q", inst.Inner.GetAttr("data-lang"))
	}
	if !inst.Inner.Parent().Same(inst.El) {
		t.Error("blockquote not wrapped by the instance container")
	}
	if !strings.Contains(inst.Inner.Text(), "tweet text") {
		t.Error("embed content lost")
	}
}

func TestGooglePlusActivation(t *testing.T) {
	c := setupPage(t,
		`<div class="socialite googleplus-one" data-href="http://example.com/" data-size="medium">+1</div>`,
		map[string]any{"googleplus": map[string]any{"callback": "plused"}},
	)
	c.Load(engine.LoadOptions{})
	doc := c.Document()

	if boot := inlineScripts(doc); !strings.Contains(boot, `"parsetags":"explicit"`) || !strings.Contains(boot, `"lang":"en-GB"`) {
		t.Errorf("___gcfg missing settings:\n%s", boot)
	}
	g := doc.ElementsByClass("g-plusone")
	if len(g) != 1 {
		t.Fatalf("g-plusone elements = %d", len(g))
	}
	if _, ok := g[0].Attr(GapiParamsAttr); ok {
		t.Error("render params written before activation")
	}

	c.ScriptLoaded("googleplus")

	var params map[string]string
	if err := json.Unmarshal([]byte(g[0].GetAttr(GapiParamsAttr)), &params); err != nil {
		t.Fatalf("params: %v", err)
	}
	if params["href"] != "http://example.com/" || params["size"] != "medium" || params["callback"] != "plused" {
		t.Errorf("params = %v", params)
	}
}

func TestGooglePlusAlreadyLoaded(t *testing.T) {
	c := setupPage(t,
		`<script src="https://apis.google.com/js/plusone.js"></script>
		 <div class="socialite googleplus-badge" data-href="http://example.com/">badge</div>`,
		nil,
	)
	c.Load(engine.LoadOptions{})
	if !c.NetworkReady("googleplus") || !c.Instances()[0].Loaded {
		t.Error("googleplus not activated synchronously")
	}
}

func TestLinkedIn(t *testing.T) {
	c := setupPage(t, `<div class="socialite linkedin-recommend" data-url="http://example.com/">in</div>`, nil)
	c.Load(engine.LoadOptions{})
	doc := c.Document()

	var in *dom.Element
	for _, s := range doc.ElementsByTag("script") {
		if s.GetAttr("type") == "IN/RecommendProduct" {
			in = s
		}
	}
	if in == nil || in.GetAttr("data-url") != "http://example.com/" {
		t.Errorf("IN script = %v", in)
	}
	if scriptBySrc(doc, "platform.linkedin.com/in.js") == nil {
		t.Error("linkedin script not appended")
	}
}

func TestEventTableShape(t *testing.T) {
	for network, bindings := range EventTable {
		seen := map[string]bool{}
		for _, b := range bindings {
			if b.Setting == "" || b.Event == "" {
				t.Errorf("%s: empty binding %+v", network, b)
			}
			if seen[b.Setting] {
				t.Errorf("%s: duplicate setting %q", network, b.Setting)
			}
			seen[b.Setting] = true
		}
	}
}
