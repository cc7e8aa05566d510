package inspector

// QueueLen is the number of documents visible in the queue.
const QueueLen = 5

// Gauge bounds for the timer and fever meters.
const (
	GaugeMin = 0.0
	GaugeMax = 100.0
)

// Status is the inspector's current stamp.
type Status int

const (
	StatusApprove Status = iota
	StatusReject
)

// String returns the status name.
func (s Status) String() string {
	if s == StatusReject {
		return "reject"
	}
	return "approve"
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusApprove {
		return StatusReject
	}
	return StatusApprove
}

// State is the complete game state. It is a plain value: Rules.Update takes
// one and returns the next.
type State struct {
	Score       int
	Combo       int
	MaxCombo    int
	Time        float64 // 0..100
	Fever       float64 // 0..100
	FeverActive bool
	Status      Status
	Queue       [QueueLen]Item

	// Processing is set from an approve until its queue shift completes.
	Processing bool
	Paused     bool
	Active     bool
	Over       bool

	Ticks       int
	LastOutcome Outcome
}

// Head returns the document being inspected.
func (s State) Head() Item {
	return s.Queue[0]
}
