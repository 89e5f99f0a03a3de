package gesture

import "testing"

type step struct {
	yaw, pitch float64
	dt         float64
}

var (
	left  = step{yaw: -5, dt: 0.1}
	right = step{yaw: 5, dt: 0.1}
	up    = step{pitch: -5, dt: 0.1}
	down  = step{pitch: 5, dt: 0.1}
	still = step{dt: 0.1}
)

func feed(r *Recognizer, steps ...step) []Gesture {
	out := make([]Gesture, len(steps))
	for i, s := range steps {
		out[i] = r.Tick(s.yaw, s.pitch, s.dt)
	}
	return out
}

func TestShakeOnFinalTick(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	got := feed(r, left, still, right, still, left)

	for i, g := range got[:4] {
		if g != NoGesture {
			t.Errorf("tick %d: expected no gesture, got %s", i, g)
		}
	}
	if got[4] != Shake {
		t.Errorf("expected shake on final tick, got %s", got[4])
	}
	if !r.JustGestured(Shake) {
		t.Error("JustGestured(Shake) should be true on the recognizing tick")
	}
}

func TestShakeRight(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	got := feed(r, right, still, left, still, right)
	if got[4] != Shake {
		t.Errorf("expected shake, got %s", got[4])
	}
}

func TestNodWithMultiTickSegments(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	half := func(s step) step { s.dt = 0.05; return s }

	got := feed(r,
		half(up), half(up),
		half(still), half(still),
		half(down), half(down),
		half(still),
		half(up),
	)
	if got[len(got)-1] != Nod {
		t.Errorf("expected nod, got %v", got)
	}
}

func TestSegmentOverBoundBreaksMatch(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	// the first up segment accumulates 0.3s after its opening tick
	got := feed(r, up, up, up, up, still, down, still, up)
	for i, g := range got {
		if g != NoGesture {
			t.Errorf("tick %d: expected no gesture, got %s", i, g)
		}
	}

	hist := r.History()
	first := hist[len(hist)-5]
	if first.Direction != Up || first.Duration <= DefaultGestureDurationThreshold {
		t.Fatalf("expected a long up segment, got %v", first)
	}
}

func TestSegmentWithinBoundMatches(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	got := feed(r, up, up, still, down, still, up)
	if got[len(got)-1] != Nod {
		t.Errorf("expected nod, got %s", got[len(got)-1])
	}
}

func TestHeldMiddleSegmentBreaksMatch(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	got := feed(r, left, still, still, still, still, right, still, left)
	if got[len(got)-1] != NoGesture {
		t.Errorf("expected no gesture with a 0.3s pause, got %s", got[len(got)-1])
	}
}

func TestHistoryLengthGrowsWithDirectionChanges(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	dirs := []step{left, right}
	for n := 1; n <= 25; n++ {
		r.Tick(dirs[n%2].yaw, 0, 0.01)
		want := min(n+1, HistoryCapacity)
		if got := len(r.History()); got != want {
			t.Fatalf("after %d changes: expected history length %d, got %d", n, want, got)
		}
	}
}

func TestUnchangedDirectionAccumulates(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	feed(r, left, left, left)

	hist := r.History()
	if len(hist) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(hist))
	}
	tail := hist[1]
	if tail.Direction != Left {
		t.Errorf("expected left tail, got %s", tail.Direction)
	}
	if tail.Duration < 0.2-1e-9 || tail.Duration > 0.2+1e-9 {
		t.Errorf("expected tail duration 0.2, got %v", tail.Duration)
	}
}

func TestNegativeDtIsClamped(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	r.Tick(0, 0, -1)
	if d := r.History()[0].Duration; d != 0 {
		t.Errorf("negative dt should not change duration, got %v", d)
	}
}

func TestJustGesturedIsEdgeTriggered(t *testing.T) {
	// two-segment patterns let the same gesture fire on back to back ticks
	r := NewRecognizer(DefaultConfig(), WithTemplates(
		Bounded("rl", Shake, 1, Right, Left),
		Bounded("lr", Shake, 1, Left, Right),
	))

	r.Tick(-5, 0, 0.1)
	if r.Tick(5, 0, 0.1) != Shake {
		t.Fatal("expected shake")
	}
	if !r.JustGestured(Shake) {
		t.Error("first shake tick should be an edge")
	}

	if r.Tick(-5, 0, 0.1) != Shake {
		t.Fatal("expected shake again")
	}
	if r.JustGestured(Shake) {
		t.Error("repeated shake without a gap should not be an edge")
	}

	r.Tick(-5, 0, 0.1)
	if r.JustGestured(Shake) {
		t.Error("no gesture this tick")
	}
	r.Tick(5, 0, 0.1)
	if !r.JustGestured(Shake) {
		t.Error("shake after a gap should be an edge")
	}
}

func TestTemplateOrderBreaksTies(t *testing.T) {
	r := NewRecognizer(DefaultConfig(), WithTemplates(
		Bounded("first", Nod, 1, Left),
		Bounded("second", Shake, 1, Left),
	))
	if got := r.Tick(-5, 0, 0.1); got != Nod {
		t.Errorf("expected earlier template to win, got %s", got)
	}
}

func TestSubLengthHistoryNeverMatches(t *testing.T) {
	r := NewRecognizer(DefaultConfig(), WithTemplates(
		Bounded("long", Shake, 1, Left, None, Left, None, Left, None, Left, None, Left, None, Left),
	))
	for i := 0; i < 30; i++ {
		dx := -5.0
		if i%2 == 1 {
			dx = 0
		}
		if g := r.Tick(dx, 0, 0.01); g != NoGesture {
			t.Fatalf("pattern longer than history matched at tick %d", i)
		}
	}
}

func TestNodDownIsOptIn(t *testing.T) {
	seq := []step{down, still, up, still, down}

	r := NewRecognizer(DefaultConfig())
	if got := feed(r, seq...); got[4] != NoGesture {
		t.Errorf("nod-down should be disabled by default, got %s", got[4])
	}

	cfg := DefaultConfig()
	cfg.NodDown = true
	r = NewRecognizer(cfg)
	if got := feed(r, seq...); got[4] != Nod {
		t.Errorf("expected nod with nod-down enabled, got %s", got[4])
	}
}

func TestTemplatesAreImmutable(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	ts := r.Templates()
	p := ts[0].Pattern()
	p[0].Direction = Up

	if r.Templates()[0].Pattern()[0].Direction != Left {
		t.Error("mutating a returned pattern changed the template")
	}
	if ts[0].Name() != "shake-left" || ts[0].Len() != 5 {
		t.Errorf("unexpected first template %s/%d", ts[0].Name(), ts[0].Len())
	}
}

func TestReset(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	feed(r, left, still, right, still, left)
	r.Reset()

	if len(r.History()) != 1 {
		t.Errorf("expected a single sample after reset, got %d", len(r.History()))
	}
	if r.Current() != NoGesture || r.JustGestured(Shake) {
		t.Error("reset should clear gesture state")
	}
}

func TestParseGesture(t *testing.T) {
	for _, g := range []Gesture{NoGesture, Shake, Nod} {
		parsed, err := ParseGesture(g.String())
		if err != nil || parsed != g {
			t.Errorf("round trip failed for %s: %v %v", g, parsed, err)
		}
	}
	if _, err := ParseGesture("wave"); err == nil {
		t.Error("expected error for unknown gesture")
	}
}
