package input

import "math"

// Source yields one raw axis sample per tick. ok is false once the source is
// exhausted.
type Source interface {
	Next() (x, y float64, ok bool)
}

// Player replays a trace at a fixed timestep. Each segment lasts
// round(duration/dt) ticks, and at least one.
type Player struct {
	trace   *Trace
	ticks   []int
	seg     int
	tick    int
	current string
}

func NewPlayer(t *Trace, dt float64) *Player {
	p := &Player{trace: t, ticks: make([]int, len(t.Segments))}
	for i, s := range t.Segments {
		n := 1
		if dt > 0 {
			n = int(math.Round(s.Duration / dt))
		}
		p.ticks[i] = max(n, 1)
	}
	return p
}

func (p *Player) Next() (float64, float64, bool) {
	for p.seg < len(p.ticks) && p.tick >= p.ticks[p.seg] {
		p.seg++
		p.tick = 0
	}
	if p.seg >= len(p.ticks) {
		p.current = ""
		return 0, 0, false
	}
	s := p.trace.Segments[p.seg]
	p.tick++
	p.current = s.Label
	return s.X, s.Y, true
}

// Label is the label of the segment returned by the last Next call.
func (p *Player) Label() string { return p.current }

// TotalTicks is the number of samples the player will produce.
func (p *Player) TotalTicks() int {
	n := 0
	for _, t := range p.ticks {
		n += t
	}
	return n
}

// Keyboard turns discrete key presses into short bursts of axis input.
type Keyboard struct {
	x, y      float64
	remaining int
}

func NewKeyboard() *Keyboard { return &Keyboard{} }

// Press holds (x, y) for the next ticks samples, replacing any burst in
// progress.
func (k *Keyboard) Press(x, y float64, ticks int) {
	k.x, k.y, k.remaining = x, y, ticks
}

// Next never runs dry; with no burst active it reports a still head.
func (k *Keyboard) Next() (float64, float64, bool) {
	if k.remaining <= 0 {
		return 0, 0, true
	}
	k.remaining--
	return k.x, k.y, true
}
