package activity

import (
	"github.com/ziadkadry99/socialite/internal/engine"
	"github.com/ziadkadry99/socialite/internal/model"
)

var _ engine.Observer = (*Recorder)(nil)

// Recorder collects coordinator lifecycle events in the order they
// happen. It is attached to a single page's coordinator and is not
// safe for concurrent use.
type Recorder struct {
	events []Event
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Events returns the recorded events, numbered from 1.
func (r *Recorder) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many events of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() { r.events = nil }

func (r *Recorder) add(e Event) {
	e.Seq = len(r.events) + 1
	r.events = append(r.events, e)
}

func (r *Recorder) instance(kind Kind, inst *model.Instance) {
	uid := inst.UID
	e := Event{Kind: kind, Network: inst.NetworkName(), InstanceUID: &uid}
	if inst.Widget != nil {
		e.Widget = inst.Widget.Name
	}
	r.add(e)
}

func (r *Recorder) InstanceCreated(inst *model.Instance) {
	r.instance(KindInstanceCreated, inst)
}

func (r *Recorder) InstanceInitialized(inst *model.Instance) {
	r.instance(KindInstanceInitialized, inst)
}

func (r *Recorder) InstanceActivated(inst *model.Instance) {
	r.instance(KindInstanceActivated, inst)
}

func (r *Recorder) NetworkAppended(network string) {
	r.add(Event{Kind: KindNetworkAppended, Network: network})
}

func (r *Recorder) NetworkLoaded(network string) {
	r.add(Event{Kind: KindNetworkLoaded, Network: network})
}

func (r *Recorder) NetworkRemoved(network string) {
	r.add(Event{Kind: KindNetworkRemoved, Network: network})
}
