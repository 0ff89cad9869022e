// Package player holds local playback state. It runs a simulated clock for
// the current track and, when an Output is configured, mirrors transport
// changes onto a real device.
package player

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tessro/clickwheel/internal/core"
)

// ErrInvalidIndex is returned by SetQueue for a start index outside the queue.
var ErrInvalidIndex = errors.New("queue index out of range")

// Defaults used when Options leaves a field zero.
const (
	DefaultTickInterval     = time.Second
	DefaultRestartThreshold = 3 * time.Second
	DefaultVolume           = 50
	DefaultBuffer           = 16

	outputQueueSize = 32
	outputTimeout   = 10 * time.Second
)

// Output receives transport changes so a real device can follow the
// simulated state. Methods are called from a single goroutine, in order.
type Output interface {
	Start(ctx context.Context, track core.Track) error
	Resume(ctx context.Context) error
	Pause(ctx context.Context) error
	Seek(ctx context.Context, position time.Duration) error
	SetVolume(ctx context.Context, percent int) error
}

// Options configures a Player.
type Options struct {
	TickInterval     time.Duration
	RestartThreshold time.Duration

	// Volume is the start volume. Nil means DefaultVolume; zero starts
	// muted.
	Volume *int
	Output Output
	Logger *zap.Logger
}

// Player implements core.Player with a simulated clock. It is safe for
// concurrent use.
type Player struct {
	tickInterval time.Duration
	restart      time.Duration
	log          *zap.Logger
	out          Output

	mu         sync.Mutex
	tracks     []core.Track
	index      int
	current    *core.Track
	playing    bool
	position   time.Duration
	duration   time.Duration
	volume     int
	outStarted bool
	subs       map[string]*subscription
	closed     bool

	wake chan struct{}
	quit chan struct{}
	done chan struct{}

	outq      chan func(context.Context) error
	outDone   chan struct{}
	outCtx    context.Context
	outCancel context.CancelFunc

	closeOnce sync.Once
}

// New creates a player and starts its clock goroutine.
func New(opts Options) *Player {
	p := &Player{
		tickInterval: opts.TickInterval,
		restart:      opts.RestartThreshold,
		log:          opts.Logger,
		out:          opts.Output,
		volume:       DefaultVolume,
		subs:         make(map[string]*subscription),
		wake:         make(chan struct{}, 1),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	if p.tickInterval <= 0 {
		p.tickInterval = DefaultTickInterval
	}
	if p.restart <= 0 {
		p.restart = DefaultRestartThreshold
	}
	if opts.Volume != nil {
		p.volume = clampVolume(*opts.Volume)
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}

	if opts.Output != nil {
		p.outCtx, p.outCancel = context.WithCancel(context.Background())
		p.outq = make(chan func(context.Context) error, outputQueueSize)
		p.outDone = make(chan struct{})
		go p.runOutput()
	}

	go p.run()
	return p
}

// run drives the progress ticker. The ticker only exists while playing.
func (p *Player) run() {
	defer close(p.done)

	var ticker *time.Ticker
	var tick <-chan time.Time
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		playing := p.isPlaying()
		switch {
		case playing && ticker == nil:
			ticker = time.NewTicker(p.tickInterval)
			tick = ticker.C
		case !playing && ticker != nil:
			ticker.Stop()
			ticker, tick = nil, nil
		}

		select {
		case <-p.quit:
			return
		case <-p.wake:
		case <-tick:
			p.advance(p.tickInterval)
		}
	}
}

func (p *Player) runOutput() {
	defer close(p.outDone)
	for fn := range p.outq {
		// Commands still queued at Close are dropped.
		if p.outCtx.Err() != nil {
			continue
		}
		ctx, cancel := context.WithTimeout(p.outCtx, outputTimeout)
		if err := fn(ctx); err != nil {
			p.log.Warn("output command failed", zap.Error(err))
		}
		cancel()
	}
}

func (p *Player) isPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// signal nudges the clock goroutine to re-check the playing state.
func (p *Player) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// SetQueue replaces the queue and loads tracks[start]. Playback stops until
// Play is called. An empty queue clears the current track.
func (p *Player) SetQueue(_ context.Context, tracks []core.Track, start int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(tracks) > 0 && (start < 0 || start >= len(tracks)) {
		return ErrInvalidIndex
	}

	p.tracks = append([]core.Track(nil), tracks...)
	p.playing = false
	p.signal()

	if len(p.tracks) == 0 {
		p.index = 0
		p.current = nil
		p.position, p.duration = 0, 0
		p.outStarted = false
		p.emit(core.EventTrack)
		return nil
	}

	p.load(start)
	return nil
}

// load makes tracks[i] current at position 0. Caller holds mu.
func (p *Player) load(i int) {
	t := p.tracks[i]
	p.index = i
	p.current = &t
	p.position = 0
	p.duration = t.Duration
	p.outStarted = false
	p.emit(core.EventTrack)
}

// Play starts or resumes the current track.
func (p *Player) Play(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startPlaying()
	return nil
}

// startPlaying is a no-op without a current track. Caller holds mu.
func (p *Player) startPlaying() {
	if p.current == nil || p.playing {
		return
	}
	p.playing = true
	p.signal()

	if !p.outStarted {
		p.outStarted = true
		track, pos := *p.current, p.position
		p.send(func(ctx context.Context, o Output) error {
			if err := o.Start(ctx, track); err != nil {
				return err
			}
			if pos > 0 {
				return o.Seek(ctx, pos)
			}
			return nil
		})
	} else {
		p.send(func(ctx context.Context, o Output) error { return o.Resume(ctx) })
	}

	p.emit(core.EventPlay)
}

// Pause pauses playback.
func (p *Player) Pause(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopPlaying()
	return nil
}

func (p *Player) stopPlaying() {
	if !p.playing {
		return
	}
	p.playing = false
	p.signal()
	p.send(func(ctx context.Context, o Output) error { return o.Pause(ctx) })
	p.emit(core.EventPause)
}

// PlayPause toggles between playing and paused.
func (p *Player) PlayPause(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		p.stopPlaying()
	} else {
		p.startPlaying()
	}
	return nil
}

// Next advances to the next track and plays it. At the end of the queue it
// does nothing.
func (p *Player) Next(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next()
	return nil
}

func (p *Player) next() {
	if p.index >= len(p.tracks)-1 {
		return
	}
	p.playing = false
	p.load(p.index + 1)
	p.startPlaying()
	p.emit(core.EventNext)
}

// Previous restarts the current track once it has played past the restart
// threshold; otherwise it moves back one track.
func (p *Player) Previous(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.position > p.restart:
		p.position = 0
		if p.outStarted {
			p.send(func(ctx context.Context, o Output) error { return o.Seek(ctx, 0) })
		}
	case p.index > 0 && len(p.tracks) > 0:
		p.playing = false
		p.load(p.index - 1)
		p.startPlaying()
	}

	p.emit(core.EventPrevious)
	return nil
}

// Seek moves within the current track, clamped to [0, duration].
func (p *Player) Seek(_ context.Context, position time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil
	}
	if position < 0 {
		position = 0
	}
	if position > p.duration {
		position = p.duration
	}
	p.position = position

	if p.outStarted {
		p.send(func(ctx context.Context, o Output) error { return o.Seek(ctx, position) })
	}
	p.emit(core.EventSeek)
	return nil
}

// SetVolume sets the volume, clamped to 0-100.
func (p *Player) SetVolume(_ context.Context, percent int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setVolume(percent)
	return nil
}

// AdjustVolume changes the volume by delta in one step, so concurrent
// adjustments all apply.
func (p *Player) AdjustVolume(_ context.Context, delta int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setVolume(p.volume + delta)
	return nil
}

func (p *Player) setVolume(percent int) {
	p.volume = clampVolume(percent)
	v := p.volume
	if p.outStarted {
		p.send(func(ctx context.Context, o Output) error { return o.SetVolume(ctx, v) })
	}
	p.emit(core.EventVolume)
}

// advance moves the clock forward by d. Reaching the end of the track stops
// playback and moves on to the next track, if any.
func (p *Player) advance(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing || p.current == nil {
		return
	}

	p.position += d
	ended := p.position >= p.duration
	if ended {
		p.position = p.duration
	}
	p.emit(core.EventProgress)

	if !ended {
		return
	}

	p.playing = false
	p.signal()
	p.emit(core.EventEnd)
	p.next()
}

// State returns a snapshot of the playback state.
func (p *Player) State() core.PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

func (p *Player) stateLocked() core.PlaybackState {
	var track *core.Track
	if p.current != nil {
		t := *p.current
		track = &t
	}
	return core.PlaybackState{
		Track:      track,
		IsPlaying:  p.playing,
		Progress:   p.position,
		Duration:   p.duration,
		Volume:     p.volume,
		QueueIndex: p.index,
		QueueLen:   len(p.tracks),
	}
}

// Queue returns a copy of the queue.
func (p *Player) Queue() core.Queue {
	p.mu.Lock()
	defer p.mu.Unlock()
	return core.Queue{
		Tracks:       append([]core.Track(nil), p.tracks...),
		CurrentIndex: p.index,
	}
}

// send queues an output command. Caller holds mu. Commands are dropped when
// the output falls too far behind.
func (p *Player) send(fn func(context.Context, Output) error) {
	if p.outq == nil || p.closed {
		return
	}
	select {
	case p.outq <- func(ctx context.Context) error { return fn(ctx, p.out) }:
	default:
		p.log.Warn("output queue full, dropping command")
	}
}

// Close stops the clock and output goroutines and closes all subscriptions.
func (p *Player) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.playing = false
		if p.outq != nil {
			close(p.outq)
		}
		for id, s := range p.subs {
			close(s.ch)
			delete(p.subs, id)
		}
		p.mu.Unlock()

		close(p.quit)
		<-p.done
		if p.outDone != nil {
			p.outCancel()
			<-p.outDone
		}
	})
	return nil
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

var _ core.Player = (*Player)(nil)

// subscription delivers events to one listener.
type subscription struct {
	id string
	ch chan core.Event
	p  *Player
}

func (s *subscription) ID() string                { return s.id }
func (s *subscription) Events() <-chan core.Event { return s.ch }

// Close unsubscribes and closes the event channel.
func (s *subscription) Close() {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if _, ok := s.p.subs[s.id]; ok {
		delete(s.p.subs, s.id)
		close(s.ch)
	}
}

// Subscribe registers a listener. Events are dropped for a listener whose
// buffer is full. Subscribing to a closed player yields a closed channel.
func (p *Player) Subscribe(buffer int) core.Subscription {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	s := &subscription{
		id: uuid.NewString(),
		ch: make(chan core.Event, buffer),
		p:  p,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		close(s.ch)
		return s
	}
	p.subs[s.id] = s
	return s
}

// emit fans an event out to subscribers. Caller holds mu.
func (p *Player) emit(t core.EventType) {
	if len(p.subs) == 0 {
		return
	}
	ev := core.Event{Type: t, State: p.stateLocked(), At: time.Now()}
	for _, s := range p.subs {
		select {
		case s.ch <- ev:
		default:
			p.log.Debug("subscriber full, dropping event",
				zap.String("subscriber", s.id), zap.Stringer("event", t))
		}
	}
}
