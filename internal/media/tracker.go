// Package media validates blind-test cues and keeps track of the playback handles handed out to
// rounds. Actual decoding happens on the presentation surface; the tracker owns the handle
// lifecycle so a round that unloads cannot leave playback running.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/charmbracelet/log"

	"party-quiz/internal/domain"
	"party-quiz/internal/round"
)

var youtubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Tracker opens playback handles for cues and counts the ones still open.
type Tracker struct {
	baseDir string
	logger  *log.Logger

	mu   sync.Mutex
	open map[int]*Handle
	next int
}

func NewTracker(baseDir string, logger *log.Logger) *Tracker {
	return &Tracker{
		baseDir: baseDir,
		logger:  logger,
		open:    make(map[int]*Handle),
	}
}

// Open validates the cue and returns a handle. Errors match domain.ErrMediaUnavailable.
func (t *Tracker) Open(cue round.MediaCue) (round.Playback, error) {
	source, err := t.resolve(cue)
	if err != nil {
		t.logger.Warn("media unavailable", "youtubeId", cue.YouTubeID, "audioFile", cue.AudioFile, "err", err)
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	h := &Handle{id: t.next, tracker: t, Source: source, volume: cue.Volume, start: cue.StartTime}
	t.open[h.id] = h
	t.logger.Debug("media opened", "handle", h.id, "source", source)
	return h, nil
}

func (t *Tracker) resolve(cue round.MediaCue) (string, error) {
	switch {
	case cue.YouTubeID != "":
		if !youtubeID.MatchString(cue.YouTubeID) {
			return "", fmt.Errorf("%w: malformed video id %q", domain.ErrMediaUnavailable, cue.YouTubeID)
		}
		return "youtube:" + cue.YouTubeID, nil
	case cue.AudioFile != "":
		path := cue.AudioFile
		if !filepath.IsAbs(path) && t.baseDir != "" {
			path = filepath.Join(t.baseDir, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrMediaUnavailable, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%w: %s is a directory", domain.ErrMediaUnavailable, path)
		}
		return "file:" + path, nil
	default:
		return "", fmt.Errorf("%w: cue has no source", domain.ErrMediaUnavailable)
	}
}

// Active returns the number of handles not yet closed.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.open)
}

func (t *Tracker) release(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.open[id]; !ok {
		return false
	}
	delete(t.open, id)
	return true
}

// Handle is a playback handle for one cue.
type Handle struct {
	id      int
	tracker *Tracker
	Source  string

	mu      sync.Mutex
	volume  int
	start   int
	playing bool
	closed  bool
}

func (h *Handle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return fmt.Errorf("%w: handle closed", domain.ErrMediaUnavailable)
	}
	h.playing = true
	return nil
}

func (h *Handle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return fmt.Errorf("%w: handle closed", domain.ErrMediaUnavailable)
	}
	h.playing = false
	return nil
}

func (h *Handle) SetVolume(level int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return fmt.Errorf("%w: handle closed", domain.ErrMediaUnavailable)
	}
	h.volume = level
	return nil
}

// Playing reports whether the cue is currently playing.
func (h *Handle) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

// Close stops playback and releases the handle. Closing twice is a no-op.
func (h *Handle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.playing = false
	h.mu.Unlock()

	if h.tracker.release(h.id) {
		h.tracker.logger.Debug("media closed", "handle", h.id)
	}
	return nil
}
