package core

import (
	"context"
	"time"
)

// Player defines the interface for music playback control.
type Player interface {
	// Queue
	SetQueue(ctx context.Context, tracks []Track, start int) error

	// Playback control
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	PlayPause(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	Seek(ctx context.Context, position time.Duration) error

	// Volume control
	SetVolume(ctx context.Context, percent int) error
	AdjustVolume(ctx context.Context, delta int) error

	// State queries
	State() PlaybackState
	Queue() Queue

	// Events
	Subscribe(buffer int) Subscription

	Close() error
}

// Subscription delivers player events until closed.
type Subscription interface {
	ID() string
	Events() <-chan Event
	Close()
}

// EventType identifies a player state transition.
type EventType int

const (
	EventPlay EventType = iota
	EventPause
	EventTrack
	EventNext
	EventPrevious
	EventProgress
	EventEnd
	EventVolume
	EventSeek
)

func (e EventType) String() string {
	switch e {
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventTrack:
		return "track"
	case EventNext:
		return "next"
	case EventPrevious:
		return "previous"
	case EventProgress:
		return "progress"
	case EventEnd:
		return "end"
	case EventVolume:
		return "volume"
	case EventSeek:
		return "seek"
	default:
		return "unknown"
	}
}

// Event is emitted by a Player after a state transition.
type Event struct {
	Type  EventType
	State PlaybackState
	At    time.Time
}
