package activity

import "time"

// Kind identifies a lifecycle transition.
type Kind string

const (
	KindInstanceCreated     Kind = "instance_created"
	KindInstanceInitialized Kind = "instance_initialized"
	KindInstanceActivated   Kind = "instance_activated"
	KindNetworkAppended     Kind = "network_appended"
	KindNetworkLoaded       Kind = "network_loaded"
	KindNetworkRemoved      Kind = "network_removed"
)

// Mode is how a page was rendered.
type Mode string

const (
	ModeLoad    Mode = "load"
	ModeProcess Mode = "process"
)

// Event is one lifecycle transition observed while rendering a page.
type Event struct {
	ID       string `json:"id"`
	RenderID string `json:"render_id"`
	Seq      int    `json:"seq"`
	Kind     Kind   `json:"kind"`
	Network  string `json:"network,omitempty"`
	Widget   string `json:"widget,omitempty"`
	// InstanceUID is nil for network events.
	InstanceUID *int `json:"instance_uid,omitempty"`
}

// Render is a single page render and the events it produced.
type Render struct {
	ID         string    `json:"id"`
	Page       string    `json:"page"`
	Mode       Mode      `json:"mode"`
	Instances  int       `json:"instances"`
	Networks   []string  `json:"networks"`
	RenderedAt time.Time `json:"rendered_at"`
	Events     []Event   `json:"events,omitempty"`
}
