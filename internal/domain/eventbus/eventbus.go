package eventbus

import (
	evbus "github.com/asaskevich/EventBus"
)

// Bus re-exports the EventBus interface so subscribers do not import the
// library directly.
type Bus = evbus.Bus

// New creates an event bus. Each client instance owns its bus; there is no
// process-wide singleton so tests can run isolated instances.
func New() Bus {
	return evbus.New()
}
