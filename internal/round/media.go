package round

// MediaCue is what a blind-test round asks the media layer to load.
type MediaCue struct {
	YouTubeID string
	AudioFile string
	StartTime int
	Volume    int
}

// MediaPlayer opens playback handles for media cues.
type MediaPlayer interface {
	Open(cue MediaCue) (Playback, error)
}

// Playback is a live handle on a media cue. Close must be called to tear it down.
type Playback interface {
	Play() error
	Pause() error
	SetVolume(level int) error
	Close() error
}
