package round

import (
	"sort"
	"sync"

	"party-quiz/internal/domain"
)

// Type tags of the built-in rounds, as they appear in quiz definitions.
const (
	TypeSimple         = "simple"
	TypeHints          = "indices"
	TypeTimedList      = "liste"
	TypeTrueFalse      = "vraifaux"
	TypeMultipleChoice = "qcm"
	TypeThemedSet      = "themes"
	TypeBlindTest      = "blindtest"
)

// Factory maps round type tags to constructors.
type Factory struct {
	mu     sync.RWMutex
	ctors  map[string]Constructor
	labels map[string]string
}

func NewFactory() *Factory {
	return &Factory{
		ctors:  make(map[string]Constructor),
		labels: make(map[string]string),
	}
}

// NewDefaultFactory returns a factory with every built-in round type registered.
func NewDefaultFactory() *Factory {
	f := NewFactory()
	f.Register(TypeSimple, NewSimple)
	f.Register(TypeHints, NewHints)
	f.Register(TypeTimedList, NewTimedList)
	f.Register(TypeTrueFalse, NewTrueFalse)
	f.Register(TypeMultipleChoice, NewMultipleChoice)
	f.Register(TypeThemedSet, NewThemedSet)
	f.Register(TypeBlindTest, NewBlindTest)
	return f
}

// Register adds or replaces the constructor for a type tag.
// The label is read from a throwaway instance, so constructors must stay side-effect free.
func (f *Factory) Register(tag string, ctor Constructor) {
	label := ctor(domain.RoundDefinition{Type: tag}, Env{}).TypeLabel()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctors[tag] = ctor
	f.labels[tag] = label
}

// Create builds a fresh round for def. State is not loaded yet.
func (f *Factory) Create(def domain.RoundDefinition, env Env) (Round, error) {
	f.mu.RLock()
	ctor, ok := f.ctors[def.Type]
	f.mu.RUnlock()
	if !ok {
		return nil, &domain.UnknownRoundTypeError{Type: def.Type, Known: f.ListTypes()}
	}
	return ctor(def, env), nil
}

func (f *Factory) IsRegistered(tag string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.ctors[tag]
	return ok
}

// ListTypes returns the registered tags, sorted.
func (f *Factory) ListTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	tags := make([]string, 0, len(f.ctors))
	for tag := range f.ctors {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// LabelFor returns the display label of a tag, or the tag itself when it is not registered.
func (f *Factory) LabelFor(tag string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if label, ok := f.labels[tag]; ok {
		return label
	}
	return tag
}
