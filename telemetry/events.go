// Package telemetry provides interaction events, per-generation statistics,
// bookmarking and experiment output.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventApproach EventType = iota
	EventPollination
	EventGeneration
)

func (t EventType) String() string {
	switch t {
	case EventApproach:
		return "approach"
	case EventPollination:
		return "pollination"
	case EventGeneration:
		return "generation"
	default:
		return "unknown"
	}
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType
	Tick     int64
	FlowerID int

	// Optional fields depending on event type
	Species     string  // approach
	Success     bool    // pollination
	ReachOK     bool    // pollination
	ContactProb float64 // pollination
	WindPenalty float64 // pollination
	Intensity   float64 // pollination: particle burst strength
	Generation  int     // generation
	EliteCount  int     // generation
}

// NewApproachEvent creates an approach-started event.
func NewApproachEvent(tick int64, flowerID int, species string) Event {
	return Event{
		Type:     EventApproach,
		Tick:     tick,
		FlowerID: flowerID,
		Species:  species,
	}
}

// NewPollinationEvent creates a probe outcome event.
func NewPollinationEvent(tick int64, flowerID int, success, reachOK bool, contactProb, windPenalty, intensity float64) Event {
	return Event{
		Type:        EventPollination,
		Tick:        tick,
		FlowerID:    flowerID,
		Success:     success,
		ReachOK:     reachOK,
		ContactProb: contactProb,
		WindPenalty: windPenalty,
		Intensity:   intensity,
	}
}

// NewGenerationEvent creates a generation-advanced event.
func NewGenerationEvent(tick int64, generation, eliteCount int) Event {
	return Event{
		Type:       EventGeneration,
		Tick:       tick,
		Generation: generation,
		EliteCount: eliteCount,
	}
}

// EventBuffer queues events until the host drains them. A nil buffer
// discards events.
type EventBuffer struct {
	events []Event
}

// Push appends an event.
func (b *EventBuffer) Push(e Event) {
	if b == nil {
		return
	}
	b.events = append(b.events, e)
}

// Len returns the number of queued events.
func (b *EventBuffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.events)
}

// Drain returns the queued events and empties the buffer.
func (b *EventBuffer) Drain() []Event {
	if b == nil || len(b.events) == 0 {
		return nil
	}
	out := b.events
	b.events = nil
	return out
}
