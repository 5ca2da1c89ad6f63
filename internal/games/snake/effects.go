package snake

import "time"

// EffectRules holds the tunables of the timed effects.
type EffectRules struct {
	SpeedUpDuration  time.Duration
	SpeedUpDelta     time.Duration // subtracted from the interval
	SpeedUpFloor     time.Duration // fastest interval a boost may reach
	SlowDownDuration time.Duration
	SlowDownDelta    time.Duration // added to the interval

	DoublePointsDuration   time.Duration
	DoublePointsMultiplier int

	InvincibleDuration time.Duration
}

// DefaultEffectRules returns the stock effect tuning.
func DefaultEffectRules() EffectRules {
	return EffectRules{
		SpeedUpDuration:        5 * time.Second,
		SpeedUpDelta:           60 * time.Millisecond,
		SpeedUpFloor:           50 * time.Millisecond,
		SlowDownDuration:       5 * time.Second,
		SlowDownDelta:          100 * time.Millisecond,
		DoublePointsDuration:   10 * time.Second,
		DoublePointsMultiplier: 2,
		InvincibleDuration:     8 * time.Second,
	}
}

// EffectState is the per-effect record. Remaining > 0 iff Active.
// Saved holds the interval in force before a speed effect began.
type EffectState struct {
	Active    bool
	Remaining time.Duration
	Saved     time.Duration
}

// ActiveEffect is a view of one running effect for renderers.
type ActiveEffect struct {
	Effect    Effect
	Remaining time.Duration
}

// Delta is the outcome of applying or advancing effects.
type Delta struct {
	Interval        time.Duration
	IntervalChanged bool
	Multiplier      int
	Invincible      bool
}

// effectHandler is the behavior of one timed effect.
// start runs on the rising edge and returns the new interval.
// expire runs when the timer runs out and returns the new interval.
type effectHandler struct {
	duration func(EffectRules) time.Duration
	start    func(fx *Effects, current time.Duration) time.Duration
	expire   func(fx *Effects, current time.Duration) time.Duration
}

func keepInterval(_ *Effects, current time.Duration) time.Duration { return current }

var effectHandlers = map[Effect]effectHandler{
	EffectSpeedUp: {
		duration: func(r EffectRules) time.Duration { return r.SpeedUpDuration },
		start: func(fx *Effects, current time.Duration) time.Duration {
			base := fx.takeBaseline(EffectSpeedUp, current)
			return max(fx.rules.SpeedUpFloor, base-fx.rules.SpeedUpDelta)
		},
		expire: restoreBaseline(EffectSpeedUp),
	},
	EffectSlowDown: {
		duration: func(r EffectRules) time.Duration { return r.SlowDownDuration },
		start: func(fx *Effects, current time.Duration) time.Duration {
			base := fx.takeBaseline(EffectSlowDown, current)
			return base + fx.rules.SlowDownDelta
		},
		expire: restoreBaseline(EffectSlowDown),
	},
	EffectDoublePoints: {
		duration: func(r EffectRules) time.Duration { return r.DoublePointsDuration },
		start:    keepInterval,
		expire:   keepInterval,
	},
	EffectInvincible: {
		duration: func(r EffectRules) time.Duration { return r.InvincibleDuration },
		start:    keepInterval,
		expire:   keepInterval,
	},
}

func restoreBaseline(e Effect) func(*Effects, time.Duration) time.Duration {
	return func(fx *Effects, _ time.Duration) time.Duration {
		saved := fx.states[e].Saved
		fx.states[e].Saved = 0
		return saved
	}
}

// Effects is the registry of timed effects for one game.
type Effects struct {
	rules  EffectRules
	states [effectCount]EffectState
}

// NewEffects creates a registry with every effect inactive.
func NewEffects(rules EffectRules) *Effects {
	return &Effects{rules: rules}
}

// Reset deactivates every effect.
func (fx *Effects) Reset() {
	fx.states = [effectCount]EffectState{}
}

// State returns the record for e.
func (fx *Effects) State(e Effect) EffectState {
	if e < 0 || e >= effectCount {
		return EffectState{}
	}
	return fx.states[e]
}

// Active reports whether e is running.
func (fx *Effects) Active(e Effect) bool {
	return fx.State(e).Active
}

// Multiplier returns the current score multiplier.
func (fx *Effects) Multiplier() int {
	if fx.states[EffectDoublePoints].Active && fx.rules.DoublePointsMultiplier > 0 {
		return fx.rules.DoublePointsMultiplier
	}
	return 1
}

// Invincible reports whether self-collision is suppressed.
func (fx *Effects) Invincible() bool {
	return fx.states[EffectInvincible].Active
}

// SpeedAltered reports whether a speed effect currently owns the interval.
func (fx *Effects) SpeedAltered() bool {
	for e := Effect(0); e < effectCount; e++ {
		if e.AltersSpeed() && fx.states[e].Active {
			return true
		}
	}
	return false
}

// List returns the running effects in enum order.
func (fx *Effects) List() []ActiveEffect {
	var out []ActiveEffect
	for e := Effect(0); e < effectCount; e++ {
		if fx.states[e].Active {
			out = append(out, ActiveEffect{Effect: e, Remaining: fx.states[e].Remaining})
		}
	}
	return out
}

// Apply activates e against the current interval. An effect that is already
// running only has its timer refreshed; its interval change and saved
// baseline are left alone.
func (fx *Effects) Apply(e Effect, current time.Duration) Delta {
	if !e.Timed() {
		return fx.delta(current, current)
	}

	h := effectHandlers[e]
	d := h.duration(fx.rules)
	if d <= 0 {
		return fx.delta(current, current)
	}
	st := &fx.states[e]
	st.Remaining = d
	if st.Active {
		return fx.delta(current, current)
	}

	next := h.start(fx, current)
	st.Active = true
	return fx.delta(current, next)
}

// Advance counts every running effect down by elapsed and expires those that
// reach zero. It returns the resulting interval and the expired effects in
// enum order.
func (fx *Effects) Advance(elapsed, current time.Duration) (Delta, []Effect) {
	next := current
	var expired []Effect
	for e := Effect(0); e < effectCount; e++ {
		st := &fx.states[e]
		if !st.Active {
			continue
		}
		st.Remaining -= elapsed
		if st.Remaining > 0 {
			continue
		}
		st.Active = false
		st.Remaining = 0
		next = effectHandlers[e].expire(fx, next)
		expired = append(expired, e)
	}
	return fx.delta(current, next), expired
}

// takeBaseline records the interval a speed effect will restore on expiry.
// Speed effects exclude each other: starting one cancels the other and
// inherits its baseline, so expiry always returns to the interval in force
// before any speed effect began.
func (fx *Effects) takeBaseline(e Effect, current time.Duration) time.Duration {
	base := current
	other := EffectSlowDown
	if e == EffectSlowDown {
		other = EffectSpeedUp
	}
	if o := &fx.states[other]; o.Active {
		base = o.Saved
		*o = EffectState{}
	}
	fx.states[e].Saved = base
	return base
}

func (fx *Effects) delta(before, after time.Duration) Delta {
	return Delta{
		Interval:        after,
		IntervalChanged: after != before,
		Multiplier:      fx.Multiplier(),
		Invincible:      fx.Invincible(),
	}
}
