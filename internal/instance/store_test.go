package instance

import (
	"testing"

	"github.com/ziadkadry99/socialite/internal/dom"
	"github.com/ziadkadry99/socialite/internal/model"
)

func setupPage(t *testing.T, body string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString("<html><body>" + body + "</body></html>")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	return doc
}

func demoWidget() *model.Widget {
	n := &model.Network{Name: "demo", Widgets: map[string]*model.Widget{}}
	w := &model.Widget{Name: "demo-x", Short: "x", Network: n}
	n.Widgets["x"] = w
	return w
}

func TestFindOrCreateWrapsLink(t *testing.T) {
	doc := setupPage(t, `<p><a class="socialite demo-x" href="http://example.com/" data-text="hi" title="t">go</a></p>`)
	el := doc.ElementsByClass("demo-x")[0]
	s := NewStore()

	inst := s.FindOrCreate(el, demoWidget())
	if inst == nil {
		t.Fatal("FindOrCreate returned nil")
	}
	if inst.UID != 0 {
		t.Errorf("UID = %d, want 0", inst.UID)
	}
	if inst.El.Same(el) {
		t.Fatal("expected the link to be replaced by a container")
	}
	if doc.Contains(el) {
		t.Error("original link still in document")
	}
	if !doc.Contains(inst.El) {
		t.Error("container not attached")
	}
	if inst.El.Tag() != "div" {
		t.Errorf("container tag = %q, want div", inst.El.Tag())
	}
	if got := inst.El.GetAttr("data-text"); got != "hi" {
		t.Errorf("data-text = %q, want %q", got, "hi")
	}
	if got := inst.El.GetAttr(DefaultHref); got != "http://example.com/" {
		t.Errorf("%s = %q", DefaultHref, got)
	}
	if got := inst.El.GetAttr("title"); got != "" {
		t.Errorf("non-data attribute copied: title=%q", got)
	}
	if got := inst.El.GetAttr(IDAttr); got != "0" {
		t.Errorf("%s = %q, want %q", IDAttr, got, "0")
	}
	if got := inst.El.ClassName(); got != "socialite demo-x socialite-instance" {
		t.Errorf("class = %q", got)
	}
}

func TestFindOrCreateKeepsExistingDefaultHref(t *testing.T) {
	doc := setupPage(t, `<a class="demo-x" href="/a" data-default-href="/b">go</a>`)
	inst := NewStore().FindOrCreate(doc.ElementsByClass("demo-x")[0], demoWidget())
	if got := inst.El.GetAttr(DefaultHref); got != "/b" {
		t.Errorf("%s = %q, want %q", DefaultHref, got, "/b")
	}
}

func TestFindOrCreateIsIdempotent(t *testing.T) {
	doc := setupPage(t, `<div class="socialite demo-x">x</div>`)
	s := NewStore()
	w := demoWidget()

	first := s.FindOrCreate(doc.ElementsByClass("demo-x")[0], w)
	again := s.FindOrCreate(doc.ElementsByClass("demo-x")[0], w)
	if first != again {
		t.Error("second discovery created a new instance")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	if s.Get(first.UID) != first {
		t.Error("Get did not return the instance")
	}
}

func TestFindOrCreateSourceHandle(t *testing.T) {
	doc := setupPage(t, `<a class="socialite demo-x" href="/x">x</a>`)
	src := doc.ElementsByClass("demo-x")[0]
	s := NewStore()
	w := demoWidget()

	first := s.FindOrCreate(src, w)
	if doc.Contains(src) {
		t.Fatal("source still attached after wrap")
	}
	if again := s.FindOrCreate(src, w); again != first {
		t.Error("source handle created a second instance")
	}
	if got, ok := s.Lookup(first.El); !ok || got != first {
		t.Error("Lookup(container) did not find the instance")
	}
	if _, ok := s.Lookup(dom.NewElement("div")); ok {
		t.Error("Lookup of an unrelated element reported an identity")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestFindOrCreateUnknownMarker(t *testing.T) {
	doc := setupPage(t, `<div class="demo-x" data-socialite="42">x</div>`)
	s := NewStore()
	if inst := s.FindOrCreate(doc.ElementsByClass("demo-x")[0], demoWidget()); inst != nil {
		t.Errorf("expected nil for unmatched marker, got uid %d", inst.UID)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestFindOrCreateProcessHook(t *testing.T) {
	doc := setupPage(t, `<blockquote class="socialite demo-x" data-id="9">q</blockquote>`)
	src := doc.ElementsByClass("demo-x")[0]
	w := demoWidget()

	var processed bool
	w.Process = func(inst *model.Instance) bool {
		processed = true
		inst.Inner = inst.El
		box := dom.NewElement("div")
		inst.El.ReplaceWith(box)
		box.AppendChild(inst.Inner)
		inst.El = box
		return false
	}

	inst := NewStore().FindOrCreate(src, w)
	if !processed {
		t.Fatal("process hook not called")
	}
	if !inst.Inner.Same(src) {
		t.Error("Inner is not the source element")
	}
	if !inst.Inner.Parent().Same(inst.El) {
		t.Error("source not wrapped by the container")
	}
	if inst.El.GetAttr("data-id") != "" {
		t.Error("generic wrap ran although process returned false")
	}
	if inst.El.GetAttr(IDAttr) != "0" {
		t.Error("identity marker missing on processed container")
	}
}

func TestUIDsIncrease(t *testing.T) {
	doc := setupPage(t, `<div class="demo-x">1</div><div class="demo-x">2</div><div class="demo-x">3</div>`)
	s := NewStore()
	w := demoWidget()
	for i, el := range doc.ElementsByClass("demo-x") {
		if inst := s.FindOrCreate(el, w); inst.UID != i {
			t.Errorf("instance %d got UID %d", i, inst.UID)
		}
	}
	all := s.All()
	if len(all) != 3 || all[2].UID != 2 {
		t.Errorf("All() = %v", all)
	}
}
