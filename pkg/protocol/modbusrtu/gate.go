package modbusrtu

import (
	"context"
	"go.uber.org/atomic"
	"golang.org/x/sync/semaphore"
)

// Gate hands the serial line to one caller at a time.
type Gate struct {
	sem  *semaphore.Weighted
	held *atomic.Int32
}

func NewGate() *Gate {
	return &Gate{
		sem:  semaphore.NewWeighted(1),
		held: atomic.NewInt32(0),
	}
}

// Enter blocks until the line is free or ctx is done.
func (g *Gate) Enter(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	g.held.Inc()
	return nil
}

func (g *Gate) Leave() {
	g.held.Dec()
	g.sem.Release(1)
}

// Available reports 1 when nobody holds the line.
func (g *Gate) Available() int {
	return 1 - int(g.held.Load())
}
