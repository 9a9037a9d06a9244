package replay

import "fmt"

type ReplayError struct {
	StepIndex int            `json:"step_index"`
	Reason    string         `json:"reason"`
	Message   string         `json:"message"`
	Expected  *ExpectedState `json:"expected,omitempty"`
}

// ExpectedState describes what the table was waiting for when a step failed.
type ExpectedState struct {
	PlayerID     string   `json:"player_id,omitempty"`
	Round        string   `json:"round,omitempty"`
	LegalActions []string `json:"legal_actions,omitempty"`
	MinRaiseTo   int64    `json:"min_raise_to,omitempty"`
	CallAmount   int64    `json:"call_amount,omitempty"`
}

func (e *ReplayError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("replay error(step=%d reason=%s): %s", e.StepIndex, e.Reason, e.Message)
}

func specError(reason, format string, args ...any) *ReplayError {
	return &ReplayError{StepIndex: -1, Reason: reason, Message: fmt.Sprintf(format, args...)}
}
