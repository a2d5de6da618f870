package sim_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/san-kum/particles/internal/field"
	"github.com/san-kum/particles/internal/sim"
	"github.com/san-kum/particles/internal/surface"
)

var desktop = field.Viewport{Width: 800, Height: 600, DevicePixelRatio: 1}

var _ = Describe("Start", func() {
	var (
		rec   *surface.Recorder
		sched *sim.ManualScheduler
		disp  *sim.Dispatcher
		quiet sim.Option
	)

	BeforeEach(func() {
		rec = surface.NewRecorder()
		sched = sim.NewManualScheduler()
		disp = sim.NewDispatcher()
		quiet = sim.WithLogger(zerolog.Nop())
	})

	Context("with reduced motion", func() {
		It("stays inert", func() {
			h, err := sim.Start(sim.Env{Viewport: desktop, ReducedMotion: true}, rec, sched, disp, quiet)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Active()).To(BeFalse())
			Expect(h.Field()).To(BeNil())
			Expect(sched.Pending()).To(BeZero())
			Expect(disp.Len()).To(BeZero())
			Expect(rec.Resizes()).To(BeZero())

			sched.Fire(time.Now())
			Expect(rec.Clears()).To(BeZero())
		})
	})

	Context("without a surface", func() {
		It("skips silently", func() {
			h, err := sim.Start(sim.Env{Viewport: desktop}, nil, sched, disp, quiet)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Active()).To(BeFalse())
			Expect(sched.Pending()).To(BeZero())
			Expect(disp.Len()).To(BeZero())

			h.Stop()
			Eventually(h.Done()).Should(BeClosed())
		})
	})

	Context("with bad input", func() {
		It("rejects an invalid viewport", func() {
			_, err := sim.Start(sim.Env{Viewport: field.Viewport{Width: -1}}, rec, sched, disp, quiet)
			Expect(err).To(MatchError(field.ErrInvalidViewport))
			Expect(sched.Pending()).To(BeZero())
		})

		It("requires a scheduler", func() {
			_, err := sim.Start(sim.Env{Viewport: desktop}, rec, nil, disp, quiet)
			Expect(err).To(MatchError(sim.ErrNoScheduler))
		})
	})

	Context("with a surface", func() {
		var h *sim.Handle

		BeforeEach(func() {
			var err error
			h, err = sim.Start(sim.Env{Viewport: desktop}, rec, sched, disp, quiet,
				sim.WithFieldOptions(field.WithSeed(7)))
			Expect(err).NotTo(HaveOccurred())
		})

		It("requests exactly one frame and subscribes once", func() {
			Expect(h.Active()).To(BeTrue())
			Expect(sched.Pending()).To(Equal(1))
			Expect(disp.Len()).To(Equal(1))
			Expect(h.Field().Particles()).To(HaveLen(40))
		})

		It("steps once per display frame and re-requests", func() {
			for i := 0; i < 3; i++ {
				Expect(sched.Fire(time.Now())).To(Equal(1))
			}
			Expect(h.Frames()).To(BeEquivalentTo(3))
			Expect(rec.Clears()).To(Equal(3))
			Expect(rec.Circles()).To(Equal(40))
			Expect(sched.Pending()).To(Equal(1))
		})

		It("routes pointer notifications into backing space", func() {
			disp.PointerMove(10, 20)
			Expect(h.Field().Pointer()).To(Equal(field.Pointer{X: 10, Y: 20, Active: true}))

			disp.PointerLeave()
			Expect(h.Field().Pointer().Active).To(BeFalse())
		})

		It("respawns on resize", func() {
			disp.Resize(field.Viewport{Width: 400, Height: 300, DevicePixelRatio: 2})
			Expect(h.Field().Particles()).To(HaveLen(10))
			Expect(rec.Size()).To(Equal([2]int{800, 600}))
		})

		It("ignores an invalid resize", func() {
			disp.Resize(field.Viewport{Width: -4, Height: 300})
			Expect(h.Field().Particles()).To(HaveLen(40))
		})

		It("stops cleanly", func() {
			sched.Fire(time.Now())
			h.Stop()
			h.Stop()

			Expect(h.Active()).To(BeFalse())
			Expect(sched.Pending()).To(BeZero())
			Expect(disp.Len()).To(BeZero())
			Expect(h.Done()).To(BeClosed())

			Expect(sched.Fire(time.Now())).To(BeZero())
			Expect(h.Frames()).To(BeEquivalentTo(1))
		})

		It("can be stopped from inside a frame", func() {
			var self *sim.Handle
			self, err := sim.Start(sim.Env{Viewport: desktop}, surface.NewRecorder(), sched, disp, quiet,
				sim.WithObservers(field.ObserverFunc(func(_ *field.Field, st field.FrameStats) {
					if st.Frame == 2 {
						self.Stop()
					}
				})))
			Expect(err).NotTo(HaveOccurred())
			Expect(sched.Pending()).To(Equal(2))

			sched.Fire(time.Now())
			sched.Fire(time.Now())
			Expect(self.Active()).To(BeFalse())
			Expect(self.Frames()).To(BeEquivalentTo(2))
			Expect(sched.Pending()).To(Equal(1))

			sched.Fire(time.Now())
			Expect(self.Frames()).To(BeEquivalentTo(2))
			Expect(h.Frames()).To(BeEquivalentTo(3))
		})

		It("feeds metrics", func() {
			counter := &frameCounter{}
			withMetric, err := sim.Start(sim.Env{Viewport: desktop}, surface.NewRecorder(), sched, nil, quiet,
				sim.WithMetrics(counter))
			Expect(err).NotTo(HaveOccurred())
			defer withMetric.Stop()

			sched.Fire(time.Now())
			sched.Fire(time.Now())
			Expect(withMetric.Field().Metrics()).To(HaveKeyWithValue("frames", 2.0))
		})
	})
})

var _ = Describe("Loop", func() {
	It("runs frames and posted callbacks on one goroutine", func() {
		loop := sim.NewLoop(240)
		disp := sim.NewDispatcher()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errc := make(chan error, 1)
		go func() { errc <- loop.Run(ctx) }()

		handles := make(chan *sim.Handle, 1)
		Expect(loop.Post(func() {
			defer GinkgoRecover()
			h, err := sim.Start(sim.Env{Viewport: desktop}, surface.NewRecorder(), loop, disp,
				sim.WithLogger(zerolog.Nop()))
			Expect(err).NotTo(HaveOccurred())
			handles <- h
		})).To(BeTrue())

		var h *sim.Handle
		Eventually(handles).Should(Receive(&h))
		Eventually(h.Frames).Should(BeNumerically(">=", 3))

		moved := make(chan field.Pointer, 1)
		loop.Post(func() {
			disp.PointerMove(5, 5)
			moved <- h.Field().Pointer()
		})
		Eventually(moved).Should(Receive(Equal(field.Pointer{X: 5, Y: 5, Active: true})))

		loop.Post(h.Stop)
		Eventually(h.Done()).Should(BeClosed())

		loop.Close()
		loop.Close()
		Eventually(errc).Should(Receive(BeNil()))
		Expect(loop.Post(func() {})).To(BeFalse())
		Expect(loop.Ticks()).To(BeNumerically(">=", 3))
	})

	It("returns the context error when cancelled", func() {
		loop := sim.NewLoop(0)
		Expect(loop.Interval()).To(Equal(time.Second / sim.DefaultFPS))

		ctx, cancel := context.WithCancel(context.Background())
		errc := make(chan error, 1)
		go func() { errc <- loop.Run(ctx) }()
		cancel()
		Eventually(errc).Should(Receive(MatchError(context.Canceled)))
	})
})

var _ = Describe("Play", func() {
	quiet := sim.WithLogger(zerolog.Nop())

	It("steps the requested frames on the loop and closes it", func() {
		loop := sim.NewLoop(1000)
		rec := surface.NewRecorder()
		counter := &frameCounter{}

		h, err := sim.Play(context.Background(), loop, sim.Env{Viewport: desktop}, rec,
			sim.CenterPointer, 5, quiet, sim.WithMetrics(counter))
		Expect(err).NotTo(HaveOccurred())

		Expect(h.Frames()).To(BeEquivalentTo(5))
		Expect(counter.n).To(Equal(5))
		Expect(h.Active()).To(BeFalse())
		Eventually(h.Done()).Should(BeClosed())
		Expect(loop.Ticks()).To(BeNumerically(">=", 5))
		Expect(loop.Post(func() {})).To(BeFalse())
		Expect(rec.Circles()).To(Equal(40))
	})

	It("delivers scripted pointer events before each frame", func() {
		loop := sim.NewLoop(1000)
		var seen []bool
		record := field.ObserverFunc(func(_ *field.Field, st field.FrameStats) {
			seen = append(seen, st.PointerActive)
		})
		script := func(frame int, vp field.Viewport) (float64, float64, bool) {
			return vp.Width / 2, vp.Height / 2, frame < 2
		}

		h, err := sim.Play(context.Background(), loop, sim.Env{Viewport: desktop}, surface.Discard,
			script, 4, quiet, sim.WithObservers(record))
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal([]bool{true, true, false, false}))
		Expect(h.Field().Pointer().Active).To(BeFalse())
	})

	It("returns without running the loop under reduced motion", func() {
		loop := sim.NewLoop(1000)
		h, err := sim.Play(context.Background(), loop, sim.Env{Viewport: desktop, ReducedMotion: true},
			surface.Discard, nil, 10, quiet)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Active()).To(BeFalse())
		Expect(loop.Ticks()).To(BeZero())
	})

	It("stops the handle when the context ends", func() {
		loop := sim.NewLoop(1000)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		h, err := sim.Play(ctx, loop, sim.Env{Viewport: desktop}, surface.Discard, nil, 1_000_000, quiet)
		Expect(err).To(MatchError(context.DeadlineExceeded))
		Expect(h.Active()).To(BeFalse())
		Expect(h.Frames()).To(BeNumerically("<", 1_000_000))
	})

	It("rejects a negative frame count", func() {
		_, err := sim.Play(context.Background(), sim.NewLoop(0), sim.Env{Viewport: desktop}, surface.Discard, nil, -1, quiet)
		Expect(err).To(HaveOccurred())
	})
})

type frameCounter struct{ n int }

func (c *frameCounter) Name() string                               { return "frames" }
func (c *frameCounter) Observe([]field.Particle, field.FrameStats) { c.n++ }
func (c *frameCounter) Value() float64                             { return float64(c.n) }
func (c *frameCounter) Reset()                                     { c.n = 0 }
