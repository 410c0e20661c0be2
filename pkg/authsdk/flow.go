package authsdk

import (
	"errors"
	"fmt"
)

// FlowState names one node of an authentication flow's state machine.
type FlowState string

const (
	StateIdle                  FlowState = "idle"
	StateLinkSent              FlowState = "link_sent"
	StateVerifying             FlowState = "verifying"
	StateNeedEmail             FlowState = "need_email"
	StateAuthenticating        FlowState = "authenticating"
	StateCollectingCredentials FlowState = "collecting_credentials"
	StateAwaitingSignature     FlowState = "awaiting_signature"
	StateDerivingKeys          FlowState = "deriving_keys"
	StateComplete              FlowState = "complete"
	StateError                 FlowState = "error"
)

// terminal reports whether a flow can no longer advance.
func (s FlowState) terminal() bool {
	return s == StateComplete || s == StateError
}

// ErrEmailMismatch is returned by ProvideEmail when the entered address is
// not the one the consumed token verified. The flow stays resumable; the
// user likely mistyped.
var ErrEmailMismatch = errors.New("authsdk: email does not match the verified claim")

// FlowStateError reports an operation called in a state that does not allow
// it, e.g. providing a signature before requesting one.
type FlowStateError struct {
	Op    string
	State FlowState
}

func (e *FlowStateError) Error() string {
	return fmt.Sprintf("authsdk: %s is not allowed in state %q", e.Op, e.State)
}
