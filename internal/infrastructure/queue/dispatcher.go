package queue

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
	"github.com/homeops/portal/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// PhotoJob is one file to attach to a site visit. Open is called by the
// worker right before the upload, so files are not held open while queued.
type PhotoJob struct {
	VisitID  domain.ID
	FileName string
	Caption  string
	Open     func() (io.ReadCloser, error)
}

// PhotoResult is the outcome of one PhotoJob.
type PhotoResult struct {
	Job   PhotoJob
	Photo *domain.Photo
	Err   error
}

// Dispatcher uploads photos on a fixed set of workers. Jobs are sharded by
// site visit ID, so photos of one visit are uploaded in the order given while
// different visits proceed concurrently.
type Dispatcher struct {
	numWorkers int
	uploader   ports.PhotoUploader
	log        zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, uploader ports.PhotoUploader, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Dispatcher{numWorkers: numWorkers, uploader: uploader, log: log}
}

type task struct {
	idx int
	job PhotoJob
}

// Run uploads every job and returns one result per job, in input order.
// Once ctx is cancelled the remaining jobs fail with ctx.Err().
func (d *Dispatcher) Run(ctx context.Context, jobs []PhotoJob) []PhotoResult {
	results := make([]PhotoResult, len(jobs))
	workers := make([]chan task, d.numWorkers)

	var wg sync.WaitGroup
	for i := range workers {
		workers[i] = make(chan task, channelBuffer)
		wg.Add(1)
		go func(id int, ch <-chan task) {
			defer wg.Done()
			d.runWorker(ctx, id, ch, results)
		}(i, workers[i])
	}

	for i, job := range jobs {
		shard := d.shardIndex(job.VisitID)
		workers[shard] <- task{idx: i, job: job}
		metrics.UploadQueueDepth.WithLabelValues(strconv.Itoa(shard)).Set(float64(len(workers[shard])))
	}
	for _, ch := range workers {
		close(ch)
	}
	wg.Wait()
	return results
}

// shardIndex maps a site visit deterministically to a worker index.
func (d *Dispatcher) shardIndex(visitID domain.ID) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(visitID))
	return int(h.Sum32() % uint32(d.numWorkers))
}

// runWorker drains ch even after ctx is done so Run never blocks on a send.
func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan task, results []PhotoResult) {
	label := strconv.Itoa(id)
	for t := range ch {
		metrics.UploadQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

		res := PhotoResult{Job: t.job}
		if err := ctx.Err(); err != nil {
			res.Err = err
		} else {
			res.Photo, res.Err = d.upload(ctx, t.job)
		}
		results[t.idx] = res

		if res.Err != nil {
			metrics.UploadsTotal.WithLabelValues("error").Inc()
			d.log.Error().Err(res.Err).
				Str("visit_id", t.job.VisitID.String()).
				Str("file", t.job.FileName).
				Int("worker_id", id).
				Msg("photo upload failed")
			continue
		}
		metrics.UploadsTotal.WithLabelValues("ok").Inc()
		d.log.Debug().
			Str("visit_id", t.job.VisitID.String()).
			Str("file", t.job.FileName).
			Str("photo_id", res.Photo.ID.String()).
			Int("worker_id", id).
			Msg("photo uploaded")
	}
}

func (d *Dispatcher) upload(ctx context.Context, job PhotoJob) (*domain.Photo, error) {
	r, err := job.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	photo, err := d.uploader.UploadSiteVisitPhoto(ctx, job.VisitID, job.FileName, r, job.Caption)
	if err == nil && photo == nil {
		return nil, &domain.APIError{
			Status:  http.StatusOK,
			Message: "invalid response: missing photo",
			Err:     fmt.Errorf("%w: missing photo", domain.ErrInvalidResponse),
		}
	}
	return photo, err
}
