// internal/domain/order/projector.go
package order

// progression is the fixed five-stage delivery sequence shown on the
// progress indicator.
var progression = []Status{
	StatusNotProcessed,
	StatusProcessing,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
}

// Projection maps a status onto the progress indicator. StepIndex is
// the 0-4 position within the delivery progression; steps at or below
// it render as completed. Terminal exceptions (Cancelled, Returned and
// anything unrecognized) carry no position and StepIndex is -1.
type Projection struct {
	StepIndex           int  `json:"step_index"`
	IsTerminalException bool `json:"is_terminal_exception"`
}

// Steps returns the delivery progression in display order
func Steps() []Status {
	steps := make([]Status, len(progression))
	copy(steps, progression)
	return steps
}

// Project maps the current status onto the five-step progress bar
func Project(current Status) Projection {
	for i, step := range progression {
		if step == current {
			return Projection{StepIndex: i}
		}
	}
	return Projection{StepIndex: -1, IsTerminalException: true}
}
