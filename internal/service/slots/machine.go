package slots

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/voxbot/internal/core"
)

type Status string

const (
	StatusMissing  Status = "missing_info"
	StatusComplete Status = "complete"
)

// Result is the outcome of one slot-filling turn: either a follow-up
// question or a complete slot set ready for dispatch.
type Result struct {
	Status   Status
	Question string
	Intent   core.SlotIntent
	Slots    map[string]string
}

// Machine drives the slot-filling state across turns using an external
// structured-extraction collaborator.
type Machine struct {
	extractor core.SlotExtractor
}

func NewMachine(extractor core.SlotExtractor) *Machine {
	return &Machine{extractor: extractor}
}

func (m *Machine) HandleTurn(ctx context.Context, state *State, text string) (Result, error) {
	extracted, err := m.extractor.ClassifyAndExtract(ctx, text, state.View())
	if err != nil {
		return Result{}, fmt.Errorf("classify and extract: %w", err)
	}

	if extracted.Intent != state.Intent && extracted.Intent != core.SlotIntentUnknown {
		state.SwitchIntent(extracted.Intent)
	}
	state.Merge(extracted)

	missing := state.Missing()
	state.AppendHistory(core.RoleUser, text)

	if len(missing) > 0 {
		question := BuildFollowup(missing)
		state.AppendHistory(core.RoleAssistant, question)
		return Result{
			Status:   StatusMissing,
			Question: question,
			Intent:   state.Intent,
			Slots:    state.Slots,
		}, nil
	}

	return Result{
		Status: StatusComplete,
		Intent: state.Intent,
		Slots:  state.Slots,
	}, nil
}

// BuildFollowup asks for the missing fields, no Oxford comma.
func BuildFollowup(missing []string) string {
	if len(missing) == 1 {
		return fmt.Sprintf("Please provide %s.", missing[0])
	}
	return fmt.Sprintf("Please provide %s and %s.",
		strings.Join(missing[:len(missing)-1], ", "), missing[len(missing)-1])
}
