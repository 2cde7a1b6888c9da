package module

import (
	"testing"

	"claimscout/internal/platform/testkit"
)

type runnerPort interface{ Go() string }

type stubRunner struct{}

func (stubRunner) Go() string { return "ran" }

type portBundle struct {
	Runner runnerPort
	Extra  int
}

type stubModule struct{ ports any }

func (m stubModule) Ports() any   { return m.ports }
func (m stubModule) Name() string { return "stub" }

func TestPortsOf_StructFieldResolution(t *testing.T) {
	m := stubModule{ports: portBundle{Runner: stubRunner{}}}
	r, ok := PortsOf[runnerPort](m)
	if !ok {
		t.Fatal("expected the Runner field to resolve")
	}
	if r.Go() != "ran" {
		t.Fatal("resolved the wrong port")
	}
}

func TestPortsOf_DirectBundle(t *testing.T) {
	m := stubModule{ports: stubRunner{}}
	if _, ok := PortsOf[runnerPort](m); !ok {
		t.Fatal("a bundle that is the port itself must resolve")
	}
}

func TestPortsOf_MissingPort(t *testing.T) {
	m := stubModule{ports: portBundle{}}
	if _, ok := PortsOf[runnerPort](m); ok {
		t.Fatal("a nil port field must not resolve")
	}
	if _, ok := PortsOf[runnerPort](stubModule{}); ok {
		t.Fatal("a nil bundle must not resolve")
	}
}

func TestMustPortsOf_PanicsWhenAbsent(t *testing.T) {
	testkit.MustPanic(t, func() {
		MustPortsOf[runnerPort](stubModule{ports: portBundle{}})
	})
}
