package events

// Module lifecycle events published by the activation service and consumed
// by the audit and notification sinks.

type ModuleActivated struct {
	TenantID   uint   `json:"tenant_id"`
	ModuleName string `json:"module_name"`
	Version    string `json:"version"`
}

type ModuleDeactivated struct {
	TenantID   uint   `json:"tenant_id"`
	ModuleName string `json:"module_name"`
	UserID     int    `json:"user_id"`
}

// ModuleActivationFailed reports what actually ran before the failure.
// CompletedSteps reflects execution order, not the rollback.
type ModuleActivationFailed struct {
	TenantID       uint     `json:"tenant_id"`
	ModuleName     string   `json:"module_name"`
	Error          string   `json:"error"`
	CompletedSteps []string `json:"completed_steps"`
	RolledBack     bool     `json:"rolled_back"`
	UserID         int      `json:"user_id"`
}

// Sink receives published events. Sinks must not fail the publishing
// operation; delivery problems are their own to log.
type Sink interface {
	Handle(event interface{})
}

// Dispatcher fans events out to its sinks in registration order.
type Dispatcher struct {
	sinks []Sink
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

func (d *Dispatcher) Register(sink Sink) {
	d.sinks = append(d.sinks, sink)
}

func (d *Dispatcher) Publish(event interface{}) {
	for _, sink := range d.sinks {
		sink.Handle(event)
	}
}
