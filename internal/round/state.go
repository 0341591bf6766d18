package round

import (
	"encoding/json"
	"fmt"
)

// Envelope is the plain key/value form of a State, tagged with its kind.
type Envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

var stateKinds = map[string]func() State{
	KindSimple:         func() State { return &SimpleState{} },
	KindHints:          func() State { return &HintsState{} },
	KindTimedList:      func() State { return &TimedListState{} },
	KindTrueFalse:      func() State { return &TrueFalseState{} },
	KindMultipleChoice: func() State { return &MultipleChoiceState{} },
	KindThemedSet:      func() State { return &ThemedSetState{} },
	KindBlindTest:      func() State { return &BlindTestState{} },
}

// Encode converts a state into its envelope form.
func Encode(s State) (Envelope, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s state: %w", s.Kind(), err)
	}
	return Envelope{Kind: s.Kind(), Data: data}, nil
}

// Decode rebuilds a state from its envelope form.
func Decode(e Envelope) (State, error) {
	newState, ok := stateKinds[e.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown state kind %q", ErrStateMismatch, e.Kind)
	}
	s := newState()
	if err := json.Unmarshal(e.Data, s); err != nil {
		return nil, fmt.Errorf("decode %s state: %w", e.Kind, err)
	}
	return s, nil
}
