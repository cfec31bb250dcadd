package processor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// threadedProcessor writes each frame to all outputs in parallel. Useful when
// an output can block, like a websocket hub with slow clients.
type threadedProcessor struct {
	processor

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewThreaded(cfg Config) *threadedProcessor {
	return &threadedProcessor{
		processor: *New(cfg),
	}
}

func (vis *threadedProcessor) outputWriter(idx int, kick <-chan bool) {
	out := vis.outs[idx]

	for range kick {
		if err := out.Write(vis.frame); err != nil {
			vis.log.Warn("output write failed", zap.Int("output", idx), zap.Error(err))
		}

		vis.wg.Done()
	}
}

func (vis *threadedProcessor) Start(ctx context.Context) context.Context {
	ctx, vis.cancel = context.WithCancel(ctx)
	return ctx
}

func (vis *threadedProcessor) Stop() {
	if vis.cancel != nil {
		vis.cancel()
	}
}

// Process runs analysis once per tick and hands the frame to every output
// writer, waiting until all of them are done before the next frame.
func (vis *threadedProcessor) Process(ctx context.Context) {
	kicks := make([]chan bool, len(vis.outs))

	var writers sync.WaitGroup

	for idx := range kicks {
		kicks[idx] = make(chan bool, 1)

		writers.Add(1)
		go func(idx int) {
			defer writers.Done()
			vis.outputWriter(idx, kicks[idx])
		}(idx)
	}

	defer func() {
		for _, kick := range kicks {
			close(kick)
		}
		writers.Wait()
	}()

	ticker := time.NewTicker(frameDuration(vis.frameRate))
	defer ticker.Stop()

	for {
		if vis.step() {
			vis.wg.Add(len(kicks))

			for _, kick := range kicks {
				kick <- true
			}

			vis.wg.Wait()
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
