package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/BitBrain19/Cyber/internal/engine"
	"github.com/BitBrain19/Cyber/internal/logger"
	"github.com/BitBrain19/Cyber/internal/metrics"
	"github.com/BitBrain19/Cyber/internal/rules"
	"github.com/BitBrain19/Cyber/internal/transform/seclog"
	"github.com/BitBrain19/Cyber/pkg/models"
)

// Consumer pops raw event payloads from the input stream. A nil payload
// with nil error means nothing was queued within the block timeout.
type Consumer interface {
	Pop(ctx context.Context) ([]byte, error)
	Close() error
}

// IngestPipeline consumes security events from the input stream, folds
// them into the asset graph and writes the fused verdicts.
type IngestPipeline struct {
	consumer      Consumer
	rules         rules.Engine
	engine        *engine.Engine
	writer        VerdictWriter
	workers       int
	batchSize     int
	flushInterval time.Duration
}

type workItem struct {
	verdict *models.Verdict
}

// NewIngestPipeline creates the ingestion pipeline.
func NewIngestPipeline(consumer Consumer, ruleEngine rules.Engine, eng *engine.Engine, writer VerdictWriter, workers, batchSize int, flushInterval time.Duration) *IngestPipeline {
	return &IngestPipeline{
		consumer:      consumer,
		rules:         ruleEngine,
		engine:        eng,
		writer:        writer,
		workers:       workers,
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
}

// Run starts the pipeline loop and blocks until the context is canceled.
func (p *IngestPipeline) Run(ctx context.Context) error {
	logger.Infof("Ingest pipeline started")

	if p.workers <= 0 {
		p.workers = 8
	}
	if p.batchSize <= 0 {
		p.batchSize = 1000
	}
	if p.flushInterval <= 0 {
		p.flushInterval = 2 * time.Second
	}

	msgCh := make(chan []byte, p.workers*4)
	workCh := make(chan workItem, p.workers*4)

	var wg sync.WaitGroup
	var workerWg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.readLoop(ctx, msgCh)
		close(msgCh)
	}()

	for i := 0; i < p.workers; i++ {
		workerWg.Add(1)
		go func() {
			defer workerWg.Done()
			p.workerLoop(ctx, msgCh, workCh)
		}()
	}

	// workCh closes only after every worker has returned, so shutdown can
	// never race a worker's send against the close.
	wg.Add(1)
	go func() {
		defer wg.Done()
		workerWg.Wait()
		close(workCh)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.writeLoop(ctx, workCh)
	}()

	<-ctx.Done()
	wg.Wait()
	return ctx.Err()
}

// Close releases pipeline resources.
func (p *IngestPipeline) Close() error {
	if p.writer != nil {
		if err := p.writer.Close(); err != nil {
			logger.Errorf("Failed to close verdict writer: %v", err)
		}
	}
	if p.consumer != nil {
		return p.consumer.Close()
	}
	return nil
}

func (p *IngestPipeline) readLoop(ctx context.Context, out chan<- []byte) {
	for {
		payload, err := p.consumer.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Errorf("Failed to pop redis message: %v", err)
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if payload == nil {
			continue
		}
		out <- payload
	}
}

func (p *IngestPipeline) workerLoop(ctx context.Context, in <-chan []byte, out chan<- workItem) {
	for payload := range in {
		event, err := seclog.Parse(payload)
		if err != nil {
			logger.Warnf("Failed to parse security event: %v", err)
			metrics.ParseFailures.Inc()
			continue
		}
		metrics.EventsIngested.Inc()

		if p.rules != nil {
			event.IoaTags = p.rules.Apply(event)
		}

		if err := p.engine.RecordEvent(event); err != nil {
			logger.Warnf("Rejected observation: %v", err)
			continue
		}

		verdict := p.engine.Evaluate(ctx, event)
		out <- workItem{verdict: &verdict}
	}
}

func (p *IngestPipeline) writeLoop(ctx context.Context, in <-chan workItem) {
	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	var batch []*models.Verdict

	flush := func() {
		if len(batch) == 0 {
			return
		}
		for {
			if err := p.writer.WriteVerdicts(batch); err != nil {
				logger.Errorf("Failed to write verdicts: %v", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(1 * time.Second):
				}
				continue
			}
			batch = nil
			break
		}
	}

	// Termination is driven by the channel close, not the context, so
	// verdicts already queued by the workers are drained and flushed on
	// shutdown.
	for {
		select {
		case <-ticker.C:
			flush()
		case item, ok := <-in:
			if !ok {
				flush()
				return
			}
			batch = append(batch, item.verdict)
			if len(batch) >= p.batchSize {
				flush()
			}
		}
	}
}
