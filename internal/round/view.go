package round

import "party-quiz/internal/domain"

// Surface receives rendered views. Visual presentation is entirely its concern.
type Surface interface {
	Render(View)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(View)

func (f SurfaceFunc) Render(v View) { f(v) }

// View is the semantic rendering of a round at one point in time.
type View struct {
	Type      string                `json:"type"`
	Title     string                `json:"title"`
	Points    int                   `json:"points"`
	Phase     string                `json:"phase"`
	Turn      domain.Player         `json:"turn,omitempty"`
	TurnName  string                `json:"turnName,omitempty"`
	Prompt    string                `json:"prompt,omitempty"`
	Items     []string              `json:"items,omitempty"`
	Choices   map[string]string     `json:"choices,omitempty"`
	Selected  []string              `json:"selected,omitempty"`
	Answer    string                `json:"answer,omitempty"`
	Scores    map[domain.Player]int `json:"scores,omitempty"`
	Remaining int                   `json:"remaining,omitempty"`
	Media     *MediaView            `json:"media,omitempty"`
	Feedback  string                `json:"feedback,omitempty"`
	Actions   []ActionKind          `json:"actions"`
}

// MediaView describes the blind-test cue to the surface.
type MediaView struct {
	YouTubeID    string `json:"youtubeId,omitempty"`
	AudioFile    string `json:"audioFile,omitempty"`
	StartTime    int    `json:"startTime"`
	Volume       int    `json:"volume"`
	Playing      bool   `json:"playing"`
	Error        string `json:"error,omitempty"`
	FallbackLink string `json:"fallbackLink,omitempty"`
}
