package events

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/syntax-syndicate/modality/internal/logger"
)

// Event kinds published by the dialog layer.
const (
	KindDialogOpened    = "dialog.opened"
	KindDialogClosed    = "dialog.closed"
	KindConfirmArmed    = "confirm.armed"
	KindConfirmFired    = "confirm.fired"
	KindFormSubmitted   = "form.submitted"
	KindWizardStep      = "wizard.step"
	KindWizardCompleted = "wizard.completed"
	KindWizardRejected  = "wizard.rejected"
)

const subjectPrefix = "modality.events."

// Event is one dialog lifecycle notification.
type Event struct {
	Kind   string    `json:"kind"`
	Source string    `json:"source"` // dialog title or component name
	Detail string    `json:"detail,omitempty"`
	Time   time.Time `json:"time"`
}

// Bus is an in-process pub/sub bus for dialog lifecycle events, backed by an
// embedded NATS server with networking disabled. Core NATS only: events are
// ephemeral notifications, nothing needs replay or persistence.
type Bus struct {
	ns *server.Server
	nc *nats.Conn
}

// NewBus starts the embedded server and opens the in-process connection.
func NewBus() (*Bus, error) {
	ns, err := server.NewServer(&server.Options{
		DontListen: true, // no network ports, in-process only
	})
	if err != nil {
		logger.Error("Failed to create event bus server: %v", err)
		return nil, err
	}

	go ns.Start()
	if !ns.ReadyForConnections(4 * time.Second) {
		ns.Shutdown()
		return nil, errors.New("event bus server failed to start within timeout")
	}

	nc, err := nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		logger.Error("Failed to connect to event bus: %v", err)
		ns.Shutdown()
		return nil, err
	}

	logger.Debug("Event bus ready")
	return &Bus{ns: ns, nc: nc}, nil
}

// Publish emits one event. Kind becomes the subject suffix, so subscribers
// can use NATS wildcards ("dialog.*", ">") to slice the stream.
func (b *Bus) Publish(kind, source, detail string) error {
	evt := Event{
		Kind:   kind,
		Source: source,
		Detail: detail,
		Time:   time.Now(),
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.nc.Publish(subjectPrefix+kind, data)
}

// Subscribe delivers every event matching pattern (a NATS subject pattern
// relative to the bus prefix, e.g. "dialog.*" or ">") to fn. Delivery runs
// on the connection's callback goroutine; fn must not block.
func (b *Bus) Subscribe(pattern string, fn func(Event)) (*nats.Subscription, error) {
	return b.nc.Subscribe(subjectPrefix+pattern, func(msg *nats.Msg) {
		var evt Event
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			logger.Warn("Dropping malformed event on %s: %v", msg.Subject, err)
			return
		}
		fn(evt)
	})
}

// Close drains the connection and shuts the server down. Both steps are
// bounded so a wedged connection cannot hang process exit.
func (b *Bus) Close() error {
	if b.nc != nil {
		drained := make(chan error, 1)
		go func() { drained <- b.nc.Drain() }()
		select {
		case err := <-drained:
			if err != nil {
				logger.Warn("Event bus drain failed, forcing close: %v", err)
				b.nc.Close()
			}
		case <-time.After(2 * time.Second):
			logger.Warn("Event bus drain timed out, forcing close")
			b.nc.Close()
		}
		b.nc = nil
	}

	if b.ns != nil {
		b.ns.Shutdown()
		done := make(chan struct{})
		go func() {
			b.ns.WaitForShutdown()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			return errors.New("event bus server shutdown timed out")
		}
		b.ns = nil
	}
	return nil
}
