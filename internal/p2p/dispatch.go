package p2p

import (
	"github.com/sirupsen/logrus"
)

// Handler processes one decoded envelope from a given peer id. Handlers
// return an error only for logging; dispatch never propagates it further
// (spec.md §7: "P2P dispatch swallows exceptions per-message so a bad
// peer cannot poison other handlers").
type Handler func(peerID string, env Envelope) error

// Dispatcher routes envelopes to registered per-type handlers.
type Dispatcher struct {
	log      *logrus.Logger
	handlers map[Type]Handler
}

// NewDispatcher constructs an empty Dispatcher that logs through log,
// matching internal/node's structured-logging convention for every other
// subsystem (spec.md §7, SPEC_FULL.md §2).
func NewDispatcher(log *logrus.Logger) *Dispatcher {
	return &Dispatcher{log: log, handlers: make(map[Type]Handler)}
}

// On registers a handler for a message type, replacing any prior one.
func (d *Dispatcher) On(kind Type, h Handler) {
	d.handlers[kind] = h
}

// Dispatch routes env to its registered handler. A panic inside the
// handler or a returned error is recovered/logged, never propagated,
// matching the per-message isolation spec.md §7 requires.
func (d *Dispatcher) Dispatch(peerID string, env Envelope) {
	h, ok := d.handlers[env.Kind]
	if !ok {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.WithFields(logrus.Fields{"kind": env.Kind, "peer": peerID}).Errorf("handler panicked: %v", r)
		}
	}()

	if err := h(peerID, env); err != nil {
		d.log.WithFields(logrus.Fields{"kind": env.Kind, "peer": peerID}).WithError(err).Warn("handler returned error")
	}
}
