package compute

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
)

// Below this many bodies the goroutine fan-out costs more than it saves.
const parallelThreshold = 64

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

// NewSerialBackend returns a backend that never fans out.
func NewSerialBackend() *CPUBackend {
	return &CPUBackend{workers: 1}
}

// NewParallelBackend returns a backend with a fixed worker count.
// A count below one means runtime.NumCPU().
func NewParallelBackend(workers int) *CPUBackend {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string {
	if c.workers <= 1 {
		return "cpu-serial"
	}
	return "cpu"
}

func (c *CPUBackend) Workers() int { return c.workers }

func (c *CPUBackend) PairwiseForces(pos []r2.Vec, masses []float64, g, softening float64, out []r2.Vec) {
	n := len(masses)
	if c.workers <= 1 || n < parallelThreshold {
		pairwiseRange(pos, masses, g, softening, out, 0, n)
		return
	}
	c.pairwiseParallel(pos, masses, g, softening, out)
}

// pairwiseParallel splits bodies into contiguous chunks. Each worker owns
// out[start:end] so no reduction step is needed, and every body sums its
// neighbours in the same j order as the serial path.
func (c *CPUBackend) pairwiseParallel(pos []r2.Vec, masses []float64, g, softening float64, out []r2.Vec) {
	n := len(masses)
	workers := c.workers
	if workers > n {
		workers = n
	}
	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			pairwiseRange(pos, masses, g, softening, out, s, e)
		}(start, end)
	}

	wg.Wait()
}

func pairwiseRange(pos []r2.Vec, masses []float64, g, softening float64, out []r2.Vec, start, end int) {
	n := len(masses)

	for i := start; i < end; i++ {
		xi, yi := pos[i].X, pos[i].Y
		mi := masses[i]
		fx, fy := 0.0, 0.0

		for j := 0; j < n; j++ {
			if i == j {
				continue
			}

			dx := pos[j].X - xi
			dy := pos[j].Y - yi
			dist := math.Sqrt(dx*dx + dy*dy + softening)

			f := g * mi * masses[j] / (dist * dist)
			fx += f * (dx / dist)
			fy += f * (dy / dist)
		}

		out[i] = r2.Vec{X: fx, Y: fy}
	}
}
