// Package module defines the contract a wired pipeline module exposes and
// the port resolution used by main during bootstrap
package module

import "reflect"

// Module is the surface main needs from a wired module: a name for logs and
// a bundle of ports for cross wiring
type Module interface {
	Ports() any
	Name() string
}

// PortsOf extracts a port of type T from a module's Ports() bundle. The
// bundle may be the port itself, or a struct whose exported fields carry the
// ports (the ingest module's Ports struct shape)
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	bundle := m.Ports()
	if bundle == nil {
		return zero, false
	}
	if p, ok := bundle.(T); ok {
		return p, true
	}
	v := reflect.ValueOf(bundle)
	if v.Kind() != reflect.Struct {
		return zero, false
	}
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if !f.CanInterface() {
			continue
		}
		if p, ok := f.Interface().(T); ok {
			return p, true
		}
	}
	return zero, false
}

// MustPortsOf panics when the module does not expose a T port; bootstrap
// wiring failures should stop the process immediately
func MustPortsOf[T any](m Module) T {
	p, ok := PortsOf[T](m)
	if !ok {
		panic("module " + m.Name() + " does not expose the requested port")
	}
	return p
}
