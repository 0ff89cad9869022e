package history

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/clickwheel/internal/core"
)

// Recorder writes a play to the store each time the player loads a track.
type Recorder struct {
	store *Store
	log   *zap.Logger
}

// NewRecorder creates a recorder writing to store.
func NewRecorder(store *Store, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{store: store, log: log}
}

// Run consumes sub until ctx is cancelled or the subscription closes. The
// subscription is closed on return.
func (r *Recorder) Run(ctx context.Context, sub core.Subscription) {
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if ev.Type != core.EventTrack || ev.State.Track == nil {
				continue
			}
			at := ev.At
			if at.IsZero() {
				at = time.Now()
			}
			if err := r.store.Record(ctx, *ev.State.Track, at); err != nil {
				r.log.Warn("failed to record play",
					zap.String("uri", ev.State.Track.URI),
					zap.Error(err))
			}
		}
	}
}
