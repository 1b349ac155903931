// Package engine drives widget activation for a single page.
//
// A Coordinator finds elements carrying the marker class (or the
// elements it is handed), resolves each to a registered widget, binds an
// instance to it, runs the widget's init hook and asks the loader for the
// owning network's script. Instances become active either immediately,
// when their network is already loaded, or later when the network's
// script reports ready and the loader fans out.
//
// For every instance Init runs before Activate, and Activate runs at
// most once.
//
// # Threading
//
// A Coordinator is owned by one goroutine at a time. Hooks may call back
// into it (a widget's init may activate its own instance, for example),
// so it does not lock. The Registry and Settings it reads are shared and
// safe for concurrent use.
package engine
