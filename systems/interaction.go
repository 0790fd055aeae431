package systems

import (
	"errors"
	"math/rand"

	"github.com/pthm-cable/bloom/components"
	"github.com/pthm-cable/bloom/environment"
	"github.com/pthm-cable/bloom/flora"
	"github.com/pthm-cable/bloom/pollinator"
	"github.com/pthm-cable/bloom/telemetry"
)

// ErrNoTarget is returned by BeginApproach when no flower can be targeted.
var ErrNoTarget = errors.New("no flower to target")

// Phase is the interaction cycle state.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseApproach
	PhaseProbe
	PhaseResult
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseApproach:
		return "approach"
	case PhaseProbe:
		return "probe"
	case PhaseResult:
		return "result"
	default:
		return "unknown"
	}
}

// Event intensities handed to particle consumers.
const (
	successIntensity = 2.0
	failureIntensity = 0.8
)

// TickContext carries the simulation state a system operates on.
type TickContext struct {
	Field      *Field
	Pollinator *pollinator.Pollinator
	Env        *environment.Environment
	Rng        *rand.Rand
	Events     *telemetry.EventBuffer
}

// ControllerParams tunes the interaction cycle.
type ControllerParams struct {
	ProximityThreshold float64
	ResultDwellTicks   int
}

// DefaultControllerParams returns the stock cycle tuning.
func DefaultControllerParams() ControllerParams {
	return ControllerParams{
		ProximityThreshold: 22,
		ResultDwellTicks:   120,
	}
}

// InteractionController sequences approach, probe and result for the
// single active pollinator.
type InteractionController struct {
	params ControllerParams

	phase     Phase
	dwell     int
	last      flora.Result
	hasResult bool
	message   string
}

// NewInteractionController creates an idle controller.
func NewInteractionController(params ControllerParams) *InteractionController {
	return &InteractionController{params: params}
}

// Phase returns the current cycle state.
func (ic *InteractionController) Phase() Phase { return ic.phase }

// LastResult returns the most recent probe result.
func (ic *InteractionController) LastResult() (flora.Result, bool) {
	return ic.last, ic.hasResult
}

// Message returns the current status line.
func (ic *InteractionController) Message() string { return ic.message }

// SetMessage replaces the status line.
func (ic *InteractionController) SetMessage(msg string) { ic.message = msg }

// BeginApproach picks the best flower and launches the pollinator at it.
// It may be called from any phase and restarts the cycle. With no
// candidate the controller stays idle and ErrNoTarget is returned.
func (ic *InteractionController) BeginApproach(ctx *TickContext) error {
	p := ctx.Pollinator
	target := p.PickTarget(ctx.Field.Flowers(), ctx.Env.TimeOfDay, ctx.Field.Params().Width)
	if target == nil {
		return ErrNoTarget
	}

	p.PrepareApproach(ctx.Rng)
	ic.phase = PhaseApproach
	ic.dwell = 0
	ic.message = ""

	ctx.Events.Push(telemetry.NewApproachEvent(ctx.Env.Tick(), target.ID, p.Species()))
	return nil
}

// Step advances the cycle by one tick.
func (ic *InteractionController) Step(ctx *TickContext) {
	switch ic.phase {
	case PhaseApproach:
		f, ok := ctx.Field.Lookup(ctx.Pollinator.TargetFlower())
		if !ok {
			ic.Reset(ctx.Pollinator)
			return
		}
		guide := f.GuidePoint()
		ctx.Pollinator.SetTarget(guide)
		if components.Dist(ctx.Pollinator.Pos, guide) < ic.params.ProximityThreshold {
			ic.phase = PhaseProbe
		}

	case PhaseProbe:
		f, ok := ctx.Field.Lookup(ctx.Pollinator.TargetFlower())
		if !ok {
			ic.Reset(ctx.Pollinator)
			return
		}
		res := f.TryPollination(ctx.Pollinator, ctx.Env.Wind, ctx.Env.TimeOfDay, ctx.Rng)
		ic.last = res
		ic.hasResult = true
		ic.message = flora.Explain(res)
		ic.phase = PhaseResult
		ic.dwell = 0

		intensity := failureIntensity
		if res.Success {
			intensity = successIntensity
		}
		ctx.Events.Push(telemetry.NewPollinationEvent(ctx.Env.Tick(), res.FlowerID, res.Success, res.ReachOK,
			res.ContactProb, res.WindPenalty, intensity))

	case PhaseResult:
		ic.dwell++
		if ic.dwell >= ic.params.ResultDwellTicks {
			ctx.Pollinator.ClearTarget()
			ic.phase = PhaseIdle
			ic.dwell = 0
		}
	}
}

// Reset cancels any in-flight interaction and returns to idle.
func (ic *InteractionController) Reset(p *pollinator.Pollinator) {
	ic.phase = PhaseIdle
	ic.dwell = 0
	if p != nil {
		p.ClearTarget()
	}
}
