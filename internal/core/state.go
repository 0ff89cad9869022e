package core

import "time"

// PlaybackState is a point-in-time copy of the player.
type PlaybackState struct {
	Track      *Track        `json:"track"`
	IsPlaying  bool          `json:"is_playing"`
	Progress   time.Duration `json:"progress"`
	Duration   time.Duration `json:"duration"`
	Volume     int           `json:"volume"`
	QueueIndex int           `json:"queue_index"`
	QueueLen   int           `json:"queue_len"`
}

// HasTrack returns true if there is an active track.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.Track != nil
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *PlaybackState) ProgressPercent() float64 {
	if s == nil || s.Track == nil || s.Duration <= 0 {
		return 0
	}
	p := float64(s.Progress) / float64(s.Duration) * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}
