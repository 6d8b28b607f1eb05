package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/galaxysim/internal/compute"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/metrics"
	"github.com/san-kum/galaxysim/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

type countingObserver struct {
	steps  int
	paused int
}

func (c *countingObserver) OnStep(sys *galaxy.System, step int, t float64, ctl galaxy.Control) {
	c.steps++
	if ctl.Paused {
		c.paused++
	}
}

// pauseAfter pauses once n controls have been handed out.
type pauseAfter struct {
	n     int
	calls int
}

func (p *pauseAfter) Current() galaxy.Control {
	p.calls++
	return galaxy.Control{Rate: 1, Paused: p.calls > p.n}
}

var _ = Describe("Runner", func() {
	var (
		runner *sim.Runner
		sys    *galaxy.System
		cfg    sim.Config
	)

	BeforeEach(func() {
		runner = sim.New(galaxy.NewEngine(galaxy.DefaultParams(), compute.NewSerialBackend()))
		for _, m := range metrics.Defaults(galaxy.GalaxyRadius) {
			runner.AddMetric(m)
		}
		sys = galaxy.Initialize(60, 7)
		cfg = sim.Config{Dt: 0.1, Steps: 20, SampleEvery: 5}
	})

	It("samples the initial state and every interval", func() {
		result, err := runner.Run(context.Background(), sys, cfg, galaxy.DefaultControl())
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Times).To(HaveLen(5))
		Expect(result.Frames).To(HaveLen(5))
		Expect(result.Times[0]).To(Equal(0.0))
		Expect(result.Times[4]).To(BeNumerically("~", 2.0, 1e-9))
		Expect(result.StepsTaken).To(Equal(20))
		Expect(result.PausedSteps).To(BeZero())

		for name, series := range result.Series {
			Expect(series).To(HaveLen(5), "series %s", name)
		}
		Expect(result.Metrics).To(HaveKey("mean_radius"))
	})

	It("leaves the frames independent of the live system", func() {
		result, err := runner.Run(context.Background(), sys, cfg, galaxy.DefaultControl())
		Expect(err).NotTo(HaveOccurred())

		last := result.Frames[len(result.Frames)-1]
		Expect(last[0]).To(Equal(sys.Star(0)))
		Expect(result.Frames[0][0]).NotTo(Equal(sys.Star(0)))
	})

	It("does not advance time or state while paused", func() {
		before := sys.Snapshot(nil)
		obs := &countingObserver{}
		runner.AddObserver(obs)

		result, err := runner.Run(context.Background(), sys, cfg, galaxy.Control{Rate: 1, Paused: true})
		Expect(err).NotTo(HaveOccurred())

		Expect(result.StepsTaken).To(BeZero())
		Expect(result.PausedSteps).To(Equal(20))
		Expect(result.Times[len(result.Times)-1]).To(Equal(0.0))
		Expect(sys.Snapshot(nil)).To(Equal(before))
		Expect(obs.steps).To(Equal(20))
		Expect(obs.paused).To(Equal(20))
	})

	It("reads the control source before every tick", func() {
		src := &pauseAfter{n: 8}
		result, err := runner.Run(context.Background(), sys, cfg, src)
		Expect(err).NotTo(HaveOccurred())

		Expect(src.calls).To(Equal(20))
		Expect(result.StepsTaken).To(Equal(8))
		Expect(result.PausedSteps).To(Equal(12))
	})

	It("stops on cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := runner.Run(ctx, sys, cfg, nil)
		Expect(err).To(MatchError(context.Canceled))
		Expect(result.StepsTaken).To(BeZero())
	})

	It("wraps tick failures with the step", func() {
		_, err := runner.Run(context.Background(), sys, cfg, galaxy.Control{Rate: -1})

		var stepErr *sim.StepError
		Expect(errors.As(err, &stepErr)).To(BeTrue())
		Expect(stepErr.Step).To(Equal(0))
		Expect(errors.Is(err, galaxy.ErrInvalidRate)).To(BeTrue())
		Expect(err.Error()).To(Equal("step 0 (t=0.0000): " + galaxy.ErrInvalidRate.Error()))
	})

	DescribeTable("rejects invalid configs",
		func(c sim.Config) {
			_, err := runner.Run(context.Background(), sys, c, nil)
			Expect(err).To(HaveOccurred())
		},
		Entry("zero dt", sim.Config{Dt: 0, Steps: 10, SampleEvery: 1}),
		Entry("negative dt", sim.Config{Dt: -0.1, Steps: 10, SampleEvery: 1}),
		Entry("zero steps", sim.Config{Dt: 0.1, Steps: 0, SampleEvery: 1}),
		Entry("zero sample interval", sim.Config{Dt: 0.1, Steps: 10, SampleEvery: 0}),
	)

	It("pulls a resting pair toward each other and the origin", func() {
		pair, err := galaxy.NewSystem([]galaxy.Star{
			{Pos: r2.Vec{X: 10}, Mass: 1},
			{Pos: r2.Vec{X: -10}, Mass: 1},
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = runner.Run(context.Background(), pair, sim.Config{Dt: 0.1, Steps: 1, SampleEvery: 1}, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(pair.Star(0).Vel.X).To(BeNumerically("<", 0))
		Expect(pair.Star(1).Vel.X).To(BeNumerically(">", 0))
		Expect(math.Abs(pair.Star(0).Vel.X)).To(BeNumerically("~", pair.Star(1).Vel.X, 1e-12))
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one reproducible galaxy per seed", func() {
		params := galaxy.DefaultParams()
		cfg := sim.Config{Dt: 0.1, Steps: 4, SampleEvery: 2}
		newMetrics := func() []metrics.Metric { return []metrics.Metric{metrics.NewMeanRadius()} }

		first, err := sim.NewEnsemble(params, 40, 3, 100, newMetrics).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(first).To(HaveLen(3))

		second, err := sim.NewEnsemble(params, 40, 3, 100, newMetrics).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())

		for i := range first {
			Expect(first[i].Metrics["mean_radius"]).To(Equal(second[i].Metrics["mean_radius"]))
		}
		Expect(first[0].Metrics["mean_radius"]).NotTo(Equal(first[1].Metrics["mean_radius"]))
	})
})
