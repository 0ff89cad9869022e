package core

import (
	"testing"
	"time"
)

func TestQueueBounds(t *testing.T) {
	tracks := []Track{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	tests := []struct {
		name     string
		queue    *Queue
		current  string
		upcoming int
		hasNext  bool
		hasPrev  bool
	}{
		{"nil", nil, "", 0, false, false},
		{"empty", &Queue{}, "", 0, false, false},
		{"first", &Queue{Tracks: tracks, CurrentIndex: 0}, "a", 2, true, false},
		{"middle", &Queue{Tracks: tracks, CurrentIndex: 1}, "b", 1, true, true},
		{"last", &Queue{Tracks: tracks, CurrentIndex: 2}, "c", 0, false, true},
		{"out of range", &Queue{Tracks: tracks, CurrentIndex: 7}, "", 0, false, false},
		{"negative", &Queue{Tracks: tracks, CurrentIndex: -1}, "", 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := tt.queue.Current()
			got := ""
			if cur != nil {
				got = cur.ID
			}
			if got != tt.current {
				t.Errorf("Current() = %q, want %q", got, tt.current)
			}
			if n := len(tt.queue.Upcoming()); n != tt.upcoming {
				t.Errorf("Upcoming() len = %d, want %d", n, tt.upcoming)
			}
			if tt.queue.HasNext() != tt.hasNext {
				t.Errorf("HasNext() = %v, want %v", tt.queue.HasNext(), tt.hasNext)
			}
			if tt.queue.HasPrev() != tt.hasPrev {
				t.Errorf("HasPrev() = %v, want %v", tt.queue.HasPrev(), tt.hasPrev)
			}
		})
	}
}

func TestProgressPercent(t *testing.T) {
	track := &Track{ID: "a"}

	tests := []struct {
		name  string
		state *PlaybackState
		want  float64
	}{
		{"nil state", nil, 0},
		{"no track", &PlaybackState{Progress: time.Second, Duration: 2 * time.Second}, 0},
		{"zero duration", &PlaybackState{Track: track, Progress: time.Second}, 0},
		{"half", &PlaybackState{Track: track, Progress: time.Minute, Duration: 2 * time.Minute}, 50},
		{"overrun", &PlaybackState{Track: track, Progress: 3 * time.Minute, Duration: 2 * time.Minute}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.ProgressPercent(); got != tt.want {
				t.Errorf("ProgressPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrackLabel(t *testing.T) {
	if got := (Track{Title: "Imagine", Artist: "John Lennon"}).Label(); got != "Imagine - John Lennon" {
		t.Errorf("Label() = %q", got)
	}
	if got := (Track{Title: "Untitled"}).Label(); got != "Untitled" {
		t.Errorf("Label() without artist = %q", got)
	}
}

func TestEventTypeString(t *testing.T) {
	if EventProgress.String() != "progress" {
		t.Errorf("EventProgress.String() = %q", EventProgress.String())
	}
	if EventType(99).String() != "unknown" {
		t.Errorf("EventType(99).String() = %q", EventType(99).String())
	}
}
