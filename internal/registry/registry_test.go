package registry

import (
	"sync"
	"testing"

	"github.com/ziadkadry99/socialite/internal/model"
)

func demoScript() *model.Script {
	return &model.Script{
		Src:   "//cdn.example.com/demo.js",
		Attrs: []model.Attr{{Key: "id", Val: "demo-js"}},
	}
}

func TestRegisterWidgetUnknownNetwork(t *testing.T) {
	r := New()
	if w := r.RegisterWidget("nope", "x", model.WidgetConfig{}); w != nil {
		t.Fatalf("expected nil widget for unknown network, got %q", w.Name)
	}
	if len(r.Widgets()) != 0 {
		t.Errorf("expected no widgets, got %d", len(r.Widgets()))
	}
}

func TestRegisterWidgetStoresBothMaps(t *testing.T) {
	r := New()
	n := r.RegisterNetwork("demo", model.NetworkConfig{Script: demoScript()})

	w := r.RegisterWidget("demo", "x", model.WidgetConfig{Params: map[string]string{"type": "X"}})
	if w == nil {
		t.Fatal("RegisterWidget returned nil")
	}
	if w.Name != "demo-x" {
		t.Errorf("Name = %q, want %q", w.Name, "demo-x")
	}
	if w.Network != n {
		t.Error("widget does not point back at its network")
	}
	if n.Widgets["x"] != w {
		t.Error("widget missing from network's nested map")
	}
	if r.Widget("demo-x") != w {
		t.Error("widget missing from flat map")
	}
	if w.Param("type") != "X" {
		t.Errorf("Param(type) = %q, want %q", w.Param("type"), "X")
	}
}

func TestRegisterWidgetDuplicateKeepsFirst(t *testing.T) {
	r := New()
	r.RegisterNetwork("demo", model.NetworkConfig{})
	first := r.RegisterWidget("demo", "x", model.WidgetConfig{Params: map[string]string{"v": "1"}})
	if dup := r.RegisterWidget("demo", "x", model.WidgetConfig{Params: map[string]string{"v": "2"}}); dup != nil {
		t.Fatal("duplicate registration should be rejected")
	}
	if got := r.Widget("demo-x"); got != first || got.Param("v") != "1" {
		t.Errorf("first registration did not win")
	}
}

func TestRegisterNetworkTwiceExtends(t *testing.T) {
	r := New()
	n := r.RegisterNetwork("demo", model.NetworkConfig{Script: demoScript()})
	r.RegisterWidget("demo", "x", model.WidgetConfig{})

	called := false
	again := r.RegisterNetwork("demo", model.NetworkConfig{
		Script: &model.Script{
			Src:   "//other.example.com/ignored.js",
			Attrs: []model.Attr{{Key: "id", Val: "ignored"}, {Key: "charset", Val: "utf-8"}},
		},
		Onload: func(*model.Network) bool { called = true; return true },
	})

	if again != n {
		t.Fatal("second registration replaced the network")
	}
	if n.Script.Src != "//cdn.example.com/demo.js" {
		t.Errorf("Src overwritten: %q", n.Script.Src)
	}
	if n.Script.Attr("id") != "demo-js" {
		t.Errorf("id overwritten: %q", n.Script.Attr("id"))
	}
	if n.Script.Attr("charset") != "utf-8" {
		t.Errorf("charset not merged: %q", n.Script.Attr("charset"))
	}
	if n.Onload == nil {
		t.Fatal("missing hook not filled in")
	}
	n.Onload(n)
	if !called {
		t.Error("merged onload hook not the supplied one")
	}
	if n.Widgets["x"] == nil {
		t.Error("existing widgets lost on re-registration")
	}
}

func TestLookupByClassList(t *testing.T) {
	r := New()
	r.RegisterNetwork("twitter", model.NetworkConfig{})
	r.RegisterNetwork("googleplus", model.NetworkConfig{})
	tw := r.RegisterWidget("twitter", "share", model.WidgetConfig{})
	gp := r.RegisterWidget("googleplus", "share", model.WidgetConfig{})
	one := r.RegisterWidget("googleplus", "one", model.WidgetConfig{})

	tests := []struct {
		name    string
		classes []string
		want    *model.Widget
	}{
		{"composite", []string{"socialite", "googleplus-share"}, gp},
		{"composite beats earlier short", []string{"share", "googleplus-one"}, one},
		{"short uses registration order", []string{"socialite", "share"}, tw},
		{"none", []string{"socialite", "button"}, nil},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.LookupByClassList(tt.classes); got != tt.want {
				t.Errorf("LookupByClassList(%v) = %v, want %v", tt.classes, got, tt.want)
			}
		})
	}
}

func TestNetworksSorted(t *testing.T) {
	r := New()
	for _, name := range []string{"twitter", "facebook", "linkedin"} {
		r.RegisterNetwork(name, model.NetworkConfig{})
	}
	got := r.Networks()
	want := []string{"facebook", "linkedin", "twitter"}
	for i, n := range got {
		if n.Name != want[i] {
			t.Errorf("Networks()[%d] = %q, want %q", i, n.Name, want[i])
		}
	}
}

func TestConcurrentLookups(t *testing.T) {
	r := New()
	r.RegisterNetwork("demo", model.NetworkConfig{})
	r.RegisterWidget("demo", "x", model.WidgetConfig{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if r.LookupByClassList([]string{"demo-x"}) == nil {
					t.Error("lookup failed under concurrency")
					return
				}
				_ = r.Networks()
			}
		}()
	}
	wg.Wait()
}
