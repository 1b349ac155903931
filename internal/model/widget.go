package model

// Hook is a widget lifecycle callback.
type Hook func(inst *Instance)

// ProcessFunc restructures an instance's markup before anything else
// touches it. Returning false skips the generic wrapping transform.
type ProcessFunc func(inst *Instance) bool

// Widget is a kind of embeddable element provided by a network.
type Widget struct {
	// Name is "<network>-<short>" and is globally unique.
	Name     string
	Short    string
	Network  *Network
	Init     Hook
	Activate Hook
	Process  ProcessFunc
	// Params is free-form per-widget data for shared hooks
	// (e.g. the third-party type a generic init should emit).
	Params map[string]string
}

// WidgetConfig carries the hooks of a widget registration.
type WidgetConfig struct {
	Init     Hook
	Activate Hook
	Process  ProcessFunc
	Params   map[string]string
}

// Param returns a widget parameter.
func (w *Widget) Param(key string) string {
	return w.Params[key]
}

// CompositeName joins a network and short widget name.
func CompositeName(network, short string) string {
	return network + "-" + short
}
