package player

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tessro/clickwheel/internal/core"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var tracks = []core.Track{
	{ID: "1", URI: "spotify:track:1", Title: "One", Duration: 10 * time.Second},
	{ID: "2", URI: "spotify:track:2", Title: "Two", Duration: 5 * time.Second},
	{ID: "3", URI: "spotify:track:3", Title: "Three", Duration: 7 * time.Second},
}

// newTestPlayer returns a player whose ticker never fires on its own; tests
// drive the clock with advance.
func newTestPlayer(t *testing.T, out Output) *Player {
	t.Helper()
	p := New(Options{TickInterval: time.Hour, Output: out})
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func drain(sub core.Subscription) []core.EventType {
	var types []core.EventType
	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return types
			}
			types = append(types, ev.Type)
		default:
			return types
		}
	}
}

func TestSetQueue(t *testing.T) {
	p := newTestPlayer(t, nil)
	ctx := context.Background()

	require.NoError(t, p.SetQueue(ctx, tracks, 1))
	st := p.State()
	require.NotNil(t, st.Track)
	assert.Equal(t, "2", st.Track.ID)
	assert.Equal(t, 5*time.Second, st.Duration)
	assert.Equal(t, time.Duration(0), st.Progress)
	assert.False(t, st.IsPlaying)
	assert.Equal(t, 1, st.QueueIndex)
	assert.Equal(t, 3, st.QueueLen)

	assert.ErrorIs(t, p.SetQueue(ctx, tracks, 3), ErrInvalidIndex)
	assert.ErrorIs(t, p.SetQueue(ctx, tracks, -1), ErrInvalidIndex)

	require.NoError(t, p.SetQueue(ctx, nil, 0))
	st = p.State()
	q := p.Queue()
	assert.False(t, st.HasTrack())
	assert.True(t, q.IsEmpty())
}

func TestPlayWithoutTrackIsNoop(t *testing.T) {
	p := newTestPlayer(t, nil)
	sub := p.Subscribe(8)

	require.NoError(t, p.Play(context.Background()))
	assert.False(t, p.State().IsPlaying)
	assert.Empty(t, drain(sub))
}

func TestPlayPauseToggle(t *testing.T) {
	p := newTestPlayer(t, nil)
	ctx := context.Background()
	require.NoError(t, p.SetQueue(ctx, tracks, 0))
	sub := p.Subscribe(8)

	require.NoError(t, p.PlayPause(ctx))
	assert.True(t, p.State().IsPlaying)
	require.NoError(t, p.PlayPause(ctx))
	assert.False(t, p.State().IsPlaying)

	assert.Equal(t, []core.EventType{core.EventPlay, core.EventPause}, drain(sub))
}

func TestNextAndEndOfQueue(t *testing.T) {
	p := newTestPlayer(t, nil)
	ctx := context.Background()
	require.NoError(t, p.SetQueue(ctx, tracks, 1))
	sub := p.Subscribe(16)

	require.NoError(t, p.Next(ctx))
	st := p.State()
	assert.Equal(t, "3", st.Track.ID)
	assert.True(t, st.IsPlaying)
	assert.Equal(t, []core.EventType{core.EventTrack, core.EventPlay, core.EventNext}, drain(sub))

	require.NoError(t, p.Next(ctx))
	assert.Equal(t, "3", p.State().Track.ID, "next at the end of the queue does nothing")
	assert.Empty(t, drain(sub))
}

func TestPreviousRestartsAfterThreshold(t *testing.T) {
	p := newTestPlayer(t, nil)
	ctx := context.Background()
	require.NoError(t, p.SetQueue(ctx, tracks, 1))
	require.NoError(t, p.Play(ctx))

	p.advance(4 * time.Second)
	sub := p.Subscribe(8)

	require.NoError(t, p.Previous(ctx))
	st := p.State()
	assert.Equal(t, "2", st.Track.ID)
	assert.Equal(t, time.Duration(0), st.Progress)
	assert.Equal(t, []core.EventType{core.EventPrevious}, drain(sub))

	require.NoError(t, p.Previous(ctx))
	st = p.State()
	assert.Equal(t, "1", st.Track.ID)
	assert.True(t, st.IsPlaying)

	require.NoError(t, p.Previous(ctx))
	assert.Equal(t, "1", p.State().Track.ID, "previous on the first track stays put")
}

func TestSeekClamps(t *testing.T) {
	p := newTestPlayer(t, nil)
	ctx := context.Background()
	require.NoError(t, p.SetQueue(ctx, tracks, 0))

	require.NoError(t, p.Seek(ctx, -time.Second))
	assert.Equal(t, time.Duration(0), p.State().Progress)

	require.NoError(t, p.Seek(ctx, time.Minute))
	assert.Equal(t, 10*time.Second, p.State().Progress)

	require.NoError(t, p.Seek(ctx, 4*time.Second))
	assert.Equal(t, 4*time.Second, p.State().Progress)
}

func TestSetVolumeClamps(t *testing.T) {
	p := newTestPlayer(t, nil)
	ctx := context.Background()
	assert.Equal(t, DefaultVolume, p.State().Volume)

	sub := p.Subscribe(8)
	require.NoError(t, p.SetVolume(ctx, 150))
	assert.Equal(t, 100, p.State().Volume)
	require.NoError(t, p.SetVolume(ctx, -5))
	assert.Equal(t, 0, p.State().Volume)
	assert.Equal(t, []core.EventType{core.EventVolume, core.EventVolume}, drain(sub))
}

func TestTickingAdvancesAndRollsOver(t *testing.T) {
	p := newTestPlayer(t, nil)
	ctx := context.Background()
	require.NoError(t, p.SetQueue(ctx, tracks, 1))
	require.NoError(t, p.Play(ctx))
	sub := p.Subscribe(32)

	p.advance(time.Second)
	assert.Equal(t, time.Second, p.State().Progress)

	p.advance(10 * time.Second)
	st := p.State()
	assert.Equal(t, "3", st.Track.ID)
	assert.Equal(t, time.Duration(0), st.Progress)
	assert.True(t, st.IsPlaying)

	assert.Equal(t, []core.EventType{
		core.EventProgress,
		core.EventProgress, core.EventEnd,
		core.EventTrack, core.EventPlay, core.EventNext,
	}, drain(sub))

	// The last track ends and playback stops there.
	p.advance(time.Minute)
	st = p.State()
	assert.Equal(t, "3", st.Track.ID)
	assert.False(t, st.IsPlaying)
	assert.Equal(t, 7*time.Second, st.Progress)

	// Paused players do not tick.
	p.advance(time.Second)
	assert.Equal(t, 7*time.Second, p.State().Progress)
}

func TestProgressEventCarriesState(t *testing.T) {
	p := newTestPlayer(t, nil)
	ctx := context.Background()
	require.NoError(t, p.SetQueue(ctx, tracks, 0))
	require.NoError(t, p.Play(ctx))
	sub := p.Subscribe(4)

	p.advance(2 * time.Second)
	ev := <-sub.Events()
	assert.Equal(t, core.EventProgress, ev.Type)
	assert.Equal(t, 2*time.Second, ev.State.Progress)
	assert.Equal(t, 10*time.Second, ev.State.Duration)
	assert.Equal(t, 20.0, ev.State.ProgressPercent())
}

func TestRealTickerFires(t *testing.T) {
	p := New(Options{TickInterval: 10 * time.Millisecond})
	defer p.Close()
	ctx := context.Background()
	require.NoError(t, p.SetQueue(ctx, tracks, 0))
	require.NoError(t, p.Play(ctx))

	assert.Eventually(t, func() bool {
		return p.State().Progress >= 30*time.Millisecond
	}, 2*time.Second, 5*time.Millisecond)
}

func TestFullSubscriberDropsEvents(t *testing.T) {
	p := newTestPlayer(t, nil)
	ctx := context.Background()
	slow := p.Subscribe(1)
	fast := p.Subscribe(8)

	require.NoError(t, p.SetVolume(ctx, 10))
	require.NoError(t, p.SetVolume(ctx, 20))
	require.NoError(t, p.SetVolume(ctx, 30))

	assert.Len(t, drain(slow), 1)
	assert.Len(t, drain(fast), 3)
	assert.NotEqual(t, slow.ID(), fast.ID())
}

func TestSubscriptionClose(t *testing.T) {
	p := newTestPlayer(t, nil)
	sub := p.Subscribe(4)
	sub.Close()
	sub.Close()

	_, ok := <-sub.Events()
	assert.False(t, ok)

	require.NoError(t, p.SetVolume(context.Background(), 10))
}

func TestCloseEndsSubscriptions(t *testing.T) {
	p := New(Options{TickInterval: time.Millisecond})
	sub := p.Subscribe(4)
	require.NoError(t, p.SetQueue(context.Background(), tracks, 0))
	require.NoError(t, p.Play(context.Background()))

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	for range sub.Events() {
	}
	late := p.Subscribe(1)
	_, ok := <-late.Events()
	assert.False(t, ok)
}

type recordingOutput struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingOutput) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
}

func (r *recordingOutput) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recordingOutput) Start(_ context.Context, t core.Track) error {
	r.add("start " + t.ID)
	return nil
}

func (r *recordingOutput) Resume(context.Context) error {
	r.add("resume")
	return nil
}

func (r *recordingOutput) Pause(context.Context) error {
	r.add("pause")
	return nil
}

func (r *recordingOutput) Seek(_ context.Context, pos time.Duration) error {
	r.add("seek " + pos.String())
	return nil
}

func (r *recordingOutput) SetVolume(context.Context, int) error {
	r.add("volume")
	return nil
}

func TestOutputMirrorsTransport(t *testing.T) {
	out := &recordingOutput{}
	p := newTestPlayer(t, out)
	ctx := context.Background()

	require.NoError(t, p.SetQueue(ctx, tracks, 0))
	require.NoError(t, p.Seek(ctx, 2*time.Second))
	require.NoError(t, p.Play(ctx))
	require.NoError(t, p.Pause(ctx))
	require.NoError(t, p.Play(ctx))
	require.NoError(t, p.Seek(ctx, 5*time.Second))
	require.NoError(t, p.Next(ctx))

	want := []string{"start 1", "seek 2s", "pause", "resume", "seek 5s", "start 2"}
	assert.Eventually(t, func() bool {
		return len(out.get()) == len(want)
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, want, out.get())
}

type failingOutput struct{ recordingOutput }

func (f *failingOutput) Start(context.Context, core.Track) error {
	f.add("start")
	return assert.AnError
}

func TestOutputErrorsDoNotBreakState(t *testing.T) {
	out := &failingOutput{}
	p := newTestPlayer(t, out)
	ctx := context.Background()

	require.NoError(t, p.SetQueue(ctx, tracks, 0))
	require.NoError(t, p.Play(ctx))
	assert.True(t, p.State().IsPlaying)

	assert.Eventually(t, func() bool { return len(out.get()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestStartVolume(t *testing.T) {
	muted := 0
	p := New(Options{TickInterval: time.Hour, Volume: &muted})
	defer p.Close()
	assert.Equal(t, 0, p.State().Volume)

	loud := 140
	q := New(Options{TickInterval: time.Hour, Volume: &loud})
	defer q.Close()
	assert.Equal(t, 100, q.State().Volume)
}

func TestAdjustVolumeConcurrent(t *testing.T) {
	p := newTestPlayer(t, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.AdjustVolume(ctx, 5))
		}()
	}
	wg.Wait()
	assert.Equal(t, 90, p.State().Volume)

	require.NoError(t, p.AdjustVolume(ctx, 50))
	assert.Equal(t, 100, p.State().Volume)
}

// blockingOutput never finishes a command until its context ends.
type blockingOutput struct {
	started chan struct{}
	once    sync.Once
}

func (b *blockingOutput) wait(ctx context.Context) error {
	b.once.Do(func() { close(b.started) })
	<-ctx.Done()
	return ctx.Err()
}

func (b *blockingOutput) Start(ctx context.Context, _ core.Track) error { return b.wait(ctx) }
func (b *blockingOutput) Resume(ctx context.Context) error              { return b.wait(ctx) }
func (b *blockingOutput) Pause(ctx context.Context) error               { return b.wait(ctx) }
func (b *blockingOutput) Seek(ctx context.Context, _ time.Duration) error {
	return b.wait(ctx)
}
func (b *blockingOutput) SetVolume(ctx context.Context, _ int) error { return b.wait(ctx) }

func TestCloseDoesNotWaitForStuckOutput(t *testing.T) {
	out := &blockingOutput{started: make(chan struct{})}
	p := New(Options{TickInterval: time.Hour, Output: out})
	ctx := context.Background()

	require.NoError(t, p.SetQueue(ctx, tracks, 0))
	require.NoError(t, p.Play(ctx))
	require.NoError(t, p.Pause(ctx))
	require.NoError(t, p.SetVolume(ctx, 20))
	<-out.started

	start := time.Now()
	require.NoError(t, p.Close())
	assert.Less(t, time.Since(start), time.Second)
}
