// Package instance tracks the widget instances discovered on one page.
package instance

import (
	"strconv"
	"strings"

	"github.com/ziadkadry99/socialite/internal/dom"
	"github.com/ziadkadry99/socialite/internal/model"
	"golang.org/x/net/html"
)

// Markup written onto instance containers.
const (
	IDAttr        = "data-socialite"
	MarkerClass   = "socialite"
	InstanceClass = "socialite-instance"
	LoadedClass   = "socialite-loaded"
	DefaultHref   = "data-default-href"
)

// Store owns the instances of a single page. It is not safe for
// concurrent use.
type Store struct {
	next      int
	instances []*model.Instance
	byID      map[int]*model.Instance
	// byNode holds both the discovered node and the container it became.
	byNode map[*html.Node]*model.Instance
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		byID:   make(map[int]*model.Instance),
		byNode: make(map[*html.Node]*model.Instance),
	}
}

// Lookup finds the instance bound to el, either as the element that was
// discovered or as the container that replaced it. The second result
// reports whether el carries an identity at all; an identity marker that
// matches no instance yields nil, true.
func (s *Store) Lookup(el *dom.Element) (*model.Instance, bool) {
	if inst, ok := s.byNode[el.Node()]; ok {
		return inst, true
	}
	if raw, ok := el.Attr(IDAttr); ok {
		if uid, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			return s.byID[uid], true
		}
	}
	return nil, false
}

// FindOrCreate returns the instance already bound to el, or binds a new
// one. An element carrying an identity marker that matches no instance
// yields nil.
func (s *Store) FindOrCreate(el *dom.Element, w *model.Widget) *model.Instance {
	if inst, ok := s.Lookup(el); ok {
		return inst
	}
	return s.create(el, w)
}

func (s *Store) create(el *dom.Element, w *model.Widget) *model.Instance {
	inst := &model.Instance{
		El:     el,
		UID:    s.next,
		Widget: w,
	}
	s.next++
	s.instances = append(s.instances, inst)
	s.byID[inst.UID] = inst

	proceed := true
	if w.Process != nil {
		proceed = w.Process(inst)
	}
	if proceed {
		Wrap(inst)
	}
	inst.El.SetAttr(IDAttr, strconv.Itoa(inst.UID))
	inst.El.SetClassName(MarkerClass + " " + w.Name + " " + InstanceClass)
	s.byNode[el.Node()] = inst
	s.byNode[inst.El.Node()] = inst
	return inst
}

// Wrap swaps the instance's element for a fresh div that carries the
// original classes and data-* attributes. Links keep their target as
// data-default-href so third-party scripts do not pick them up.
func Wrap(inst *model.Instance) {
	src := inst.El
	box := dom.NewElement("div")
	box.SetClassName(src.ClassName())
	dom.CopyDataAttributes(src, box, false, false)
	if src.Tag() == "a" && src.GetAttr(DefaultHref) == "" {
		box.SetAttr(DefaultHref, src.GetAttr("href"))
	}
	src.ReplaceWith(box)
	inst.El = box
}

// Get returns the instance with the given id, or nil.
func (s *Store) Get(uid int) *model.Instance {
	return s.byID[uid]
}

// All returns the instances in creation order.
func (s *Store) All() []*model.Instance {
	out := make([]*model.Instance, len(s.instances))
	copy(out, s.instances)
	return out
}

// Len returns the number of instances.
func (s *Store) Len() int { return len(s.instances) }
