package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medicare/booking-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// RatingRecalculator recomputes the aggregate rating of one doctor.
type RatingRecalculator interface {
	RecalculateRating(ctx context.Context, doctorID string) error
}

// Dispatcher routes rating jobs to a fixed set of workers using consistent
// hashing on the doctor id, so recomputations for one doctor never run
// concurrently.
type Dispatcher struct {
	workers []chan string
	target  RatingRecalculator
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, target RatingRecalculator, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		target:  target,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands a job to the worker responsible for doctorID. It never
// blocks: when that worker's buffer is full the job is dropped, counted as
// "dropped" and false is returned so the caller can recompute inline.
func (d *Dispatcher) Enqueue(doctorID string) bool {
	idx := d.shardIndex(doctorID)
	select {
	case d.workers[idx] <- doctorID:
		metrics.RatingQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		metrics.RatingJobsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("doctor_id", doctorID).Int("worker_id", idx).Msg("rating queue full, job dropped")
		return false
	}
}

// shardIndex maps a doctor id deterministically to a worker index.
func (d *Dispatcher) shardIndex(doctorID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(doctorID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case doctorID, ok := <-ch:
			if !ok {
				return
			}
			metrics.RatingQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.target.RecalculateRating(ctx, doctorID); err != nil {
				metrics.RatingJobsTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("doctor_id", doctorID).
					Int("worker_id", id).
					Msg("rating recalculation failed")
				continue
			}
			metrics.RatingJobsTotal.WithLabelValues("ok").Inc()
		}
	}
}
