package verify

import "time"

// Phase is the step a command has reached.
type Phase uint8

const (
	PhaseQueued Phase = iota
	PhaseRunning
	PhaseChecking
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseQueued:
		return "queued"
	case PhaseRunning:
		return "running"
	case PhaseChecking:
		return "checking"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Event reports progress of one command. Status and Elapsed are set only
// with PhaseDone.
type Event struct {
	Index   int
	Command string
	Phase   Phase
	Status  Status
	Elapsed time.Duration
}

// Sink consumes progress events.
type Sink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(s Sink, evt Event) {
	if s != nil {
		s.OnEvent(evt)
	}
}

type teeSink []Sink

func (t teeSink) OnEvent(evt Event) {
	for _, s := range t {
		s.OnEvent(evt)
	}
}

// Tee returns a Sink forwarding every event to each non-nil sink in order.
func Tee(sinks ...Sink) Sink {
	out := make(teeSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
