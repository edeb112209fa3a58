// Package registry defines the closed set of component kinds a UI tree may contain.
//
// The registry is the only admission control for tree nodes: the generator checks
// every component request against it before attaching a node, and the validator
// checks every node of a finished tree.
package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ErrInvalidComponent indicates a component kind outside the registry.
var ErrInvalidComponent = errors.New("invalid component")

// Kind is a UI component kind.
type Kind string

// Registered kinds.
const (
	Button  Kind = "Button"
	Card    Kind = "Card"
	Input   Kind = "Input"
	Table   Kind = "Table"
	Modal   Kind = "Modal"
	Sidebar Kind = "Sidebar"
	Navbar  Kind = "Navbar"
	Chart   Kind = "Chart"
)

// all is ordered the way the kinds are listed in error messages and the CLI.
var all = []Kind{Button, Card, Input, Table, Modal, Sidebar, Navbar, Chart}

// All returns every registered kind in registry order.
func All() []Kind {
	out := make([]Kind, len(all))
	copy(out, all)
	return out
}

// Names returns the registered kind names in registry order.
func Names() []string {
	names := make([]string, len(all))
	for i, k := range all {
		names[i] = string(k)
	}
	return names
}

// Valid reports whether k is a registered kind.
func (k Kind) Valid() bool {
	switch k {
	case Button, Card, Input, Table, Modal, Sidebar, Navbar, Chart:
		return true
	default:
		return false
	}
}

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// Check returns an error wrapping ErrInvalidComponent if k is not registered.
func Check(k Kind) error {
	if k.Valid() {
		return nil
	}
	msg := fmt.Sprintf("%s: %s. Allowed: %s", ErrInvalidComponent.Error(), k, strings.Join(Names(), ", "))
	if s := Suggest(string(k)); s != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", s)
	}
	return &componentError{kind: k, msg: msg}
}

// Parse converts a name to a Kind, rejecting unregistered names.
// Matching is exact; "button" is not a registered kind.
func Parse(name string) (Kind, error) {
	k := Kind(name)
	if err := Check(k); err != nil {
		return "", err
	}
	return k, nil
}

// Suggest returns the registered kind closest to name, or "" if none is close.
func Suggest(name string) string {
	if name == "" {
		return ""
	}
	best, bestDist := "", -1
	for _, k := range all {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(string(k)))
		if bestDist < 0 || d < bestDist {
			best, bestDist = string(k), d
		}
	}
	// Allow roughly one edit per three characters.
	if bestDist > len(best)/3 {
		return ""
	}
	return best
}

// componentError carries the offending kind alongside the formatted message.
type componentError struct {
	kind Kind
	msg  string
}

func (e *componentError) Error() string { return e.msg }

func (e *componentError) Unwrap() error { return ErrInvalidComponent }

// InvalidKind extracts the offending kind from an error produced by Check.
func InvalidKind(err error) (Kind, bool) {
	var ce *componentError
	if errors.As(err, &ce) {
		return ce.kind, true
	}
	return "", false
}
