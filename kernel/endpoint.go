package kernel

// Endpoint identifies a message destination.
type Endpoint uint8

const (
	EPKernel Endpoint = iota
	EPLogger
	EPConsoleIn
	EPConsoleOut

	endpointCount
)

func (e Endpoint) String() string {
	switch e {
	case EPKernel:
		return "kernel"
	case EPLogger:
		return "logger"
	case EPConsoleIn:
		return "console-in"
	case EPConsoleOut:
		return "console-out"
	default:
		return "invalid"
	}
}

// Valid reports whether e names a mailbox owned by the System.
func (e Endpoint) Valid() bool { return e < endpointCount }
