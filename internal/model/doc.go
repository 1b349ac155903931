// Package model holds the shared vocabulary of the coordinator: networks
// that own an external script, the widgets they provide, and the
// per-page instances created when widget markup is discovered.
//
// Networks and widgets are configured once and then only read. Instances
// are owned by a single page and mutated by its coordinator.
package model
