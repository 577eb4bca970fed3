// Package activity provides an asynchronous recorder for community audit
// trail entries. Recording is best-effort: a full buffer drops the entry
// with a warning instead of blocking or failing the caller's operation.
package activity

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kofiasare/susu/internal/app/models"
)

// Sink persists activity log entries.
type Sink interface {
	Save(ctx context.Context, entry models.ActivityLog) error
}

// Recorder buffers activity entries and writes them from a background worker.
type Recorder struct {
	entries chan models.ActivityLog
	sink    Sink
	logger  zerolog.Logger
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewRecorder creates a Recorder with the given buffer size.
func NewRecorder(sink Sink, bufferSize int, logger zerolog.Logger) *Recorder {
	ctx, cancel := context.WithCancel(context.Background())
	return &Recorder{
		entries: make(chan models.ActivityLog, bufferSize),
		sink:    sink,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the background writer.
func (r *Recorder) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-r.ctx.Done():
				r.logger.Info().Int("remaining", len(r.entries)).Msg("Draining activity entries before shutdown")
				for {
					select {
					case entry := <-r.entries:
						if err := r.sink.Save(context.Background(), entry); err != nil {
							r.logger.Error().Err(err).Str("action", entry.Action).Msg("Failed to save activity entry during shutdown")
						}
					default:
						return
					}
				}
			case entry := <-r.entries:
				if err := r.sink.Save(r.ctx, entry); err != nil {
					r.logger.Error().Err(err).Str("action", entry.Action).Msg("Failed to save activity entry")
				}
			}
		}
	}()
}

// Record enqueues an entry. It never blocks; when the buffer is full the
// entry is dropped and a warning is logged.
func (r *Recorder) Record(communityID, userID int64, action string, details map[string]interface{}) {
	entry := models.ActivityLog{
		CommunityID: communityID,
		UserID:      userID,
		Action:      action,
		Details:     details,
		CreatedAt:   time.Now(),
	}

	select {
	case r.entries <- entry:
	default:
		r.logger.Warn().Str("action", action).Int64("communityID", communityID).Msg("Activity buffer full, dropping entry")
	}
}

// Shutdown stops the worker after draining buffered entries.
func (r *Recorder) Shutdown() {
	r.cancel()
	r.wg.Wait()
}
