package interaction_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/headsim/internal/gesture"
	"github.com/san-kum/headsim/internal/interaction"
	"github.com/san-kum/headsim/internal/selection"
)

const dt = 0.1

type countingTarget struct {
	*selection.Machine
	selects   int
	deselects int
}

func newTarget() *countingTarget {
	return &countingTarget{Machine: selection.New(selection.DefaultConfig())}
}

func (c *countingTarget) Select(s selection.Selector) {
	c.selects++
	c.Machine.Select(s)
}

func (c *countingTarget) Deselect() {
	c.deselects++
	c.Machine.Deselect()
}

type fixedCamera struct{}

func (fixedCamera) Position() mgl64.Vec3 { return mgl64.Vec3{0, 1, 0} }
func (fixedCamera) Forward() mgl64.Vec3  { return mgl64.Vec3{0, 0, -1} }

type scriptedRaycaster struct {
	hit   *interaction.Hit
	casts int
}

func (r *scriptedRaycaster) RaycastSelectable(origin, dir mgl64.Vec3, mask uint32) (interaction.Hit, bool) {
	r.casts++
	if r.hit == nil {
		return interaction.Hit{}, false
	}
	return *r.hit, true
}

func (r *scriptedRaycaster) aimAt(t interaction.Selectable, dist float64) {
	r.hit = &interaction.Hit{Target: t, Point: mgl64.Vec3{0, 1, -dist}, Distance: dist}
}

func (r *scriptedRaycaster) aimAway() { r.hit = nil }

var _ = Describe("Orchestrator", func() {
	var (
		rc       *scriptedRaycaster
		orch     *interaction.Orchestrator
		targets  []*countingTarget
		gestures []gesture.Gesture
	)

	// frame ticks the orchestrator and then every live object, like a host
	// frame loop would.
	frame := func(yaw, pitch float64) {
		orch.Tick(yaw, pitch, dt)
		for _, t := range targets {
			t.Tick(dt, orch.FollowAnchor())
		}
	}
	idle := func(n int) {
		for i := 0; i < n; i++ {
			frame(0, 0)
		}
	}
	shake := func() {
		for _, yaw := range []float64{-5, 0, 5, 0, -5} {
			frame(yaw, 0)
		}
	}
	nod := func() {
		for _, pitch := range []float64{-5, 0, 5, 0, -5} {
			frame(0, pitch)
		}
	}

	BeforeEach(func() {
		rc = &scriptedRaycaster{}
		targets = nil
		gestures = nil
		rec := gesture.NewRecognizer(gesture.DefaultConfig())
		orch = interaction.New(interaction.DefaultConfig(), rec, fixedCamera{}, rc,
			interaction.WithGestureHook(func(g gesture.Gesture) { gestures = append(gestures, g) }))
	})

	Context("when the camera ray hits an object", func() {
		var a *countingTarget

		BeforeEach(func() {
			a = newTarget()
			targets = append(targets, a)
			rc.aimAt(a, 4)
		})

		It("targets it and anchors on the hit point", func() {
			frame(0, 0)
			Expect(orch.Target()).To(BeIdenticalTo(a))
			Expect(orch.FollowAnchor()).To(Equal(mgl64.Vec3{0, 1, -4}))
			Expect(orch.Focused()).To(BeFalse())
			Expect(a.State()).To(Equal(selection.Selecting))
		})

		It("selects it after the selection time", func() {
			idle(5)
			Expect(a.IsSelected()).To(BeTrue())
			Expect(a.Owner()).To(BeIdenticalTo(orch))
		})

		It("stops ray casting while the target is selected", func() {
			idle(5)
			casts := rc.casts
			idle(3)
			Expect(rc.casts).To(Equal(casts))
		})

		It("never deselects when the same object stays targeted", func() {
			idle(3)
			Expect(a.deselects).To(BeZero())
			Expect(a.State()).To(Equal(selection.Selecting))
		})

		It("deselects the old target when switching", func() {
			b := newTarget()
			targets = append(targets, b)
			idle(2)

			rc.aimAt(b, 3)
			frame(0, 0)

			Expect(a.deselects).To(Equal(1))
			Expect(a.State()).To(Equal(selection.Unselected))
			Expect(orch.Target()).To(BeIdenticalTo(b))
			Expect(b.State()).To(Equal(selection.Selecting))
		})

		It("clears and deselects the target when the ray misses", func() {
			idle(2)
			rc.aimAway()
			frame(0, 0)

			Expect(orch.Target()).To(BeNil())
			Expect(a.deselects).To(Equal(1))
		})

		Context("and the object is held selected", func() {
			BeforeEach(func() {
				idle(8)
				Expect(a.IsSelected()).To(BeTrue())
			})

			It("drops it on a shake", func() {
				rc.aimAway()
				shake()

				Expect(gestures).To(Equal([]gesture.Gesture{gesture.Shake}))
				Expect(a.deselects).To(Equal(1))
				Expect(orch.Target()).To(BeNil())
				Expect(a.State()).To(Equal(selection.Unselected))
				Expect(a.Timer()).To(BeNumerically("~", selection.DefaultSelectionTime/2-dt, 1e-9))
			})

			It("does not reselect while the cooldown drains", func() {
				shake()
				Expect(a.deselects).To(Equal(1))
				Expect(orch.Target()).To(BeIdenticalTo(a))
				Expect(a.State()).To(Equal(selection.Unselected))

				idle(2)
				Expect(a.State()).To(Equal(selection.Unselected))

				idle(2)
				Expect(a.State()).To(Equal(selection.Selecting))
			})

			It("reselects the same object once its cooldown drains under the crosshair", func() {
				shake()
				Expect(orch.Target()).To(BeIdenticalTo(a))
				selects := a.selects

				idle(6)
				Expect(a.State()).To(Equal(selection.Selecting))

				idle(1)
				Expect(a.IsSelected()).To(BeTrue())
				Expect(a.selects - selects).To(Equal(7))
				Expect(a.deselects).To(Equal(1))
				Expect(orch.Target()).To(BeIdenticalTo(a))
			})

			It("toggles the follow distance on each nod", func() {
				nod()
				Expect(gestures).To(Equal([]gesture.Gesture{gesture.Nod}))
				Expect(orch.Focused()).To(BeTrue())
				Expect(orch.FollowAnchor()).To(Equal(mgl64.Vec3{0, 1, -interaction.DefaultFocusDistance}))

				for _, pitch := range []float64{0, 5, 0, -5} {
					frame(0, pitch)
				}
				Expect(gestures).To(HaveLen(2))
				Expect(orch.Focused()).To(BeFalse())
				Expect(orch.FollowAnchor()).To(Equal(mgl64.Vec3{0, 1, -4}))
				Expect(a.IsSelected()).To(BeTrue())
			})
		})
	})

	Context("with nothing under the crosshair", func() {
		It("tolerates gestures without a target", func() {
			shake()
			nod()
			Expect(orch.Target()).To(BeNil())
			Expect(gestures).To(Equal([]gesture.Gesture{gesture.Shake, gesture.Nod}))
		})

		It("reports gesture edges through the recognizer", func() {
			for _, yaw := range []float64{-5, 0, 5, 0} {
				frame(yaw, 0)
			}
			Expect(orch.JustGestured(gesture.Shake)).To(BeFalse())
			frame(-5, 0)
			Expect(orch.JustGestured(gesture.Shake)).To(BeTrue())
			frame(-5, 0)
			Expect(orch.JustGestured(gesture.Shake)).To(BeFalse())
		})
	})

	Context("without a ray caster", func() {
		It("never targets anything", func() {
			rec := gesture.NewRecognizer(gesture.DefaultConfig())
			o := interaction.New(interaction.DefaultConfig(), rec, fixedCamera{}, nil)
			o.Tick(0, 0, dt)
			Expect(o.Target()).To(BeNil())
		})
	})
})
