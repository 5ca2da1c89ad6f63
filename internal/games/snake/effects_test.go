package snake

import (
	"reflect"
	"testing"
	"time"
)

const ms = time.Millisecond

func TestSpeedUpBaseline(t *testing.T) {
	fx := NewEffects(DefaultEffectRules())

	d := fx.Apply(EffectSpeedUp, 200*ms)
	if d.Interval != 140*ms || !d.IntervalChanged {
		t.Fatalf("apply: %+v, want 140ms changed", d)
	}

	// Refresh does not compound or move the baseline.
	fx.Advance(1000*ms, 140*ms)
	d = fx.Apply(EffectSpeedUp, 140*ms)
	if d.Interval != 140*ms || d.IntervalChanged {
		t.Errorf("refresh: %+v, want unchanged 140ms", d)
	}
	st := fx.State(EffectSpeedUp)
	if st.Saved != 200*ms || st.Remaining != 5000*ms {
		t.Errorf("state after refresh %+v", st)
	}

	d, expired := fx.Advance(4999*ms, 140*ms)
	if len(expired) != 0 || d.Interval != 140*ms {
		t.Fatalf("expired early: %v %+v", expired, d)
	}
	d, expired = fx.Advance(1*ms, 140*ms)
	if !reflect.DeepEqual(expired, []Effect{EffectSpeedUp}) {
		t.Fatalf("expired = %v", expired)
	}
	if d.Interval != 200*ms || !d.IntervalChanged {
		t.Errorf("restore: %+v, want 200ms", d)
	}
	if fx.SpeedAltered() {
		t.Error("speed should no longer be altered")
	}
}

func TestSpeedUpFloor(t *testing.T) {
	fx := NewEffects(DefaultEffectRules())
	d := fx.Apply(EffectSpeedUp, 80*ms)
	if d.Interval != 50*ms {
		t.Errorf("interval = %v, want floor 50ms", d.Interval)
	}
	d, _ = fx.Advance(5*time.Second, d.Interval)
	if d.Interval != 80*ms {
		t.Errorf("restored = %v, want 80ms", d.Interval)
	}
}

func TestSlowDown(t *testing.T) {
	fx := NewEffects(DefaultEffectRules())
	d := fx.Apply(EffectSlowDown, 150*ms)
	if d.Interval != 250*ms {
		t.Fatalf("interval = %v, want 250ms", d.Interval)
	}
	d, _ = fx.Advance(5*time.Second, d.Interval)
	if d.Interval != 150*ms {
		t.Errorf("restored = %v, want 150ms", d.Interval)
	}
}

func TestSpeedEffectsExcludeEachOther(t *testing.T) {
	tests := []struct {
		name        string
		first       Effect
		second      Effect
		wantDuring  time.Duration
		wantPrimary Effect
	}{
		{"slow after boost", EffectSpeedUp, EffectSlowDown, 300 * ms, EffectSlowDown},
		{"boost after slow", EffectSlowDown, EffectSpeedUp, 140 * ms, EffectSpeedUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := NewEffects(DefaultEffectRules())
			d := fx.Apply(tt.first, 200*ms)
			d, _ = fx.Advance(1*time.Second, d.Interval)
			d = fx.Apply(tt.second, d.Interval)

			if d.Interval != tt.wantDuring {
				t.Errorf("interval = %v, want %v", d.Interval, tt.wantDuring)
			}
			if fx.Active(tt.first) {
				t.Errorf("%s should have been cancelled", tt.first)
			}
			if got := fx.State(tt.wantPrimary).Saved; got != 200*ms {
				t.Errorf("baseline = %v, want 200ms", got)
			}

			d, expired := fx.Advance(5*time.Second, d.Interval)
			if d.Interval != 200*ms {
				t.Errorf("restored = %v, want 200ms", d.Interval)
			}
			if !reflect.DeepEqual(expired, []Effect{tt.second}) {
				t.Errorf("expired = %v", expired)
			}
		})
	}
}

func TestFlagEffects(t *testing.T) {
	fx := NewEffects(DefaultEffectRules())

	d := fx.Apply(EffectDoublePoints, 200*ms)
	if d.Multiplier != 2 || d.IntervalChanged {
		t.Errorf("double points delta %+v", d)
	}
	d = fx.Apply(EffectInvincible, 200*ms)
	if !d.Invincible {
		t.Error("expected invincible")
	}

	fx.Advance(8*time.Second, 200*ms)
	if fx.Invincible() {
		t.Error("invincible should expire after 8s")
	}
	if fx.Multiplier() != 2 {
		t.Error("double points should outlast invincible")
	}
	_, expired := fx.Advance(2*time.Second, 200*ms)
	if !reflect.DeepEqual(expired, []Effect{EffectDoublePoints}) {
		t.Errorf("expired = %v", expired)
	}
	if fx.Multiplier() != 1 {
		t.Errorf("multiplier = %d, want 1", fx.Multiplier())
	}
}

func TestInstantEffectsAreNoops(t *testing.T) {
	fx := NewEffects(DefaultEffectRules())
	for _, e := range []Effect{EffectNone, EffectShrink} {
		d := fx.Apply(e, 200*ms)
		if d.IntervalChanged || d.Interval != 200*ms {
			t.Errorf("%s changed interval: %+v", e, d)
		}
	}
	if len(fx.List()) != 0 {
		t.Errorf("unexpected active effects %v", fx.List())
	}
}

func TestEffectKinds(t *testing.T) {
	tests := []struct {
		effect      Effect
		timed       bool
		altersSpeed bool
	}{
		{EffectNone, false, false},
		{EffectSpeedUp, true, true},
		{EffectSlowDown, true, true},
		{EffectDoublePoints, true, false},
		{EffectShrink, false, false},
		{EffectInvincible, true, false},
		{Effect(99), false, false},
	}

	for _, tt := range tests {
		if got := tt.effect.Timed(); got != tt.timed {
			t.Errorf("%s.Timed() = %v, want %v", tt.effect, got, tt.timed)
		}
		if got := tt.effect.AltersSpeed(); got != tt.altersSpeed {
			t.Errorf("%s.AltersSpeed() = %v, want %v", tt.effect, got, tt.altersSpeed)
		}
		if _, ok := effectHandlers[tt.effect]; ok != tt.timed {
			t.Errorf("%s: handler registered = %v, want %v", tt.effect, ok, tt.timed)
		}
	}

	fx := NewEffects(DefaultEffectRules())
	if d := fx.Apply(Effect(99), 200*ms); d.IntervalChanged || len(fx.List()) != 0 {
		t.Errorf("unknown effect should be ignored, got %+v", d)
	}
}

func TestRemainingPositiveIffActive(t *testing.T) {
	fx := NewEffects(DefaultEffectRules())
	fx.Apply(EffectSpeedUp, 200*ms)
	fx.Apply(EffectDoublePoints, 200*ms)
	fx.Apply(EffectInvincible, 200*ms)

	for elapsed := 0; elapsed < 12000; elapsed += 700 {
		fx.Advance(700*ms, 140*ms)
		for e := Effect(0); e < effectCount; e++ {
			st := fx.State(e)
			if st.Active != (st.Remaining > 0) {
				t.Fatalf("%s: active=%v remaining=%v", e, st.Active, st.Remaining)
			}
		}
	}
}
