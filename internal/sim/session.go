package sim

import (
	"github.com/rs/zerolog"

	"github.com/san-kum/headsim/internal/config"
	"github.com/san-kum/headsim/internal/gesture"
	"github.com/san-kum/headsim/internal/interaction"
	"github.com/san-kum/headsim/internal/scene"
	"github.com/san-kum/headsim/internal/selection"
)

// Session wires a camera rig, recognizer, orchestrator and world into one
// steppable unit. Each Step feeds one raw axis sample through the whole
// pipeline.
type Session struct {
	cfg   *config.Config
	rig   *scene.CameraRig
	rec   *gesture.Recognizer
	orch  *interaction.Orchestrator
	world *scene.World
	log   zerolog.Logger

	step    int
	time    float64
	pending gesture.Gesture
	events  []GestureEvent
}

func NewSession(cfg *config.Config, log zerolog.Logger) *Session {
	s := &Session{cfg: cfg, log: log}
	s.rig = cfg.NewCameraRig()
	s.rec = gesture.NewRecognizer(cfg.GestureConfig(),
		gesture.WithLogger(log.With().Str("component", "recognizer").Logger()))
	s.world = scene.NewWorld(cfg.SceneConfig(), log.With().Str("component", "scene").Logger())
	s.orch = s.newOrchestrator()
	return s
}

func (s *Session) newOrchestrator() *interaction.Orchestrator {
	return interaction.New(s.cfg.InteractionConfig(), s.rec, s.rig, s.world,
		interaction.WithLogger(s.log.With().Str("component", "interaction").Logger()),
		interaction.WithGestureHook(s.onGesture),
	)
}

func (s *Session) onGesture(g gesture.Gesture) {
	s.pending = g
	s.events = append(s.events, GestureEvent{
		Step:    s.step,
		Time:    s.time,
		Gesture: g,
		Target:  targetName(s.orch.Target()),
	})
}

// Step advances the session by dt using one raw axis sample.
func (s *Session) Step(rawX, rawY, dt float64) Frame {
	s.pending = gesture.NoGesture
	s.time += dt

	dYaw, dPitch := s.rig.Apply(rawX, rawY)
	s.orch.Tick(dYaw, dPitch, dt)
	s.world.Step(dt)

	f := s.Snapshot()
	f.RawX, f.RawY = rawX, rawY
	f.Gesture = s.pending
	s.step++
	return f
}

// Snapshot describes the current state without advancing it.
func (s *Session) Snapshot() Frame {
	yaw, pitch := s.rig.Angles()
	f := Frame{
		Step:       s.step,
		Time:       s.time,
		Yaw:        yaw,
		Pitch:      pitch,
		Focused:    s.orch.Focused(),
		HistoryLen: len(s.rec.History()),
	}
	if obj, ok := s.orch.Target().(*scene.Object); ok && obj != nil {
		f.Target = obj.Name
		f.State = obj.Machine.State()
		f.Progress = obj.Machine.Progress()
	} else {
		f.State = selection.Unselected
	}
	return f
}

// Reset restores the initial layout and clears recognizer and camera state.
func (s *Session) Reset() {
	s.world.Reset()
	s.rec.Reset()
	s.rig.SetAngles(0, 0)
	s.orch = s.newOrchestrator()
	s.step = 0
	s.time = 0
	s.pending = gesture.NoGesture
	s.events = nil
	s.log.Info().Msg("session reset")
}

func (s *Session) Config() *config.Config                  { return s.cfg }
func (s *Session) Rig() *scene.CameraRig                   { return s.rig }
func (s *Session) Recognizer() *gesture.Recognizer         { return s.rec }
func (s *Session) Orchestrator() *interaction.Orchestrator { return s.orch }
func (s *Session) World() *scene.World                     { return s.world }
func (s *Session) Time() float64                           { return s.time }

// Gestures returns the gesture edges seen since the last reset.
func (s *Session) Gestures() []GestureEvent {
	out := make([]GestureEvent, len(s.events))
	copy(out, s.events)
	return out
}

func targetName(t interaction.Selectable) string {
	if obj, ok := t.(*scene.Object); ok && obj != nil {
		return obj.Name
	}
	return ""
}
