package selection

import (
	"github.com/arthur-debert/modselect/pkg/registry"
)

// ImportEvent is the read-only notification fired after one call site's
// selection is computed, before the entry is returned. Listeners receive
// it synchronously; their return values and panics are not consumed by
// the engine.
type ImportEvent struct {
	Configurations []string
	Exclusions     []string
}

// Listener observes import events. Typical uses are diagnostics and
// condition-evaluation reports.
type Listener interface {
	// Name returns the unique name of this listener
	Name() string

	// OnImport is called once per computed selection entry
	OnImport(event ImportEvent)
}

// listenerRegistry holds globally registered listeners in registration order.
var listenerRegistry = registry.New[Listener]()

// RegisterListener adds a listener notified for every computed entry.
func RegisterListener(l Listener) error {
	return listenerRegistry.Register(l.Name(), l)
}

// RegisteredListeners returns the global listeners in registration order.
func RegisteredListeners() []Listener {
	return listenerRegistry.Items()
}

// ResetListeners clears the global listener registry. Intended for tests
// and for the start of a new assembly pass.
func ResetListeners() {
	listenerRegistry.Clear()
}

// ListenerFunc adapts a plain function to the Listener interface.
type ListenerFunc struct {
	ListenerName string
	Func         func(event ImportEvent)
}

// Name returns the unique name of this listener
func (l ListenerFunc) Name() string {
	return l.ListenerName
}

// OnImport is called once per computed selection entry
func (l ListenerFunc) OnImport(event ImportEvent) {
	l.Func(event)
}
