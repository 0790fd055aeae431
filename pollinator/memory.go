package pollinator

import "github.com/pthm-cable/bloom/components"

// Reinforcement per interaction. Successes reinforce far faster than
// failures.
const (
	successBoost = 0.2
	failureBoost = 0.05
)

// memory maps flower ids to learned affinity in [0, 1].
type memory map[int]float64

func newMemory() memory {
	return make(memory)
}

func (m memory) remember(id int, success bool) {
	delta := failureBoost
	if success {
		delta = successBoost
	}
	m[id] = components.Clamp01(m[id] + delta)
}

func (m memory) affinity(id int) float64 {
	return m[id]
}

func (m memory) clear() {
	clear(m)
}
