package authsdk

import (
	"github.com/cloakboard/molt-auth/pkg/keyderive"
)

// SignatureFlow derives keys from a wallet signature. Derivation is purely
// local; the server is only involved if the caller separately verifies the
// signature to mint a session, which this flow does not require.
//
// Flows are not safe for concurrent use; drive each one from a single
// goroutine.
type SignatureFlow struct {
	state FlowState
	keys  keyderive.DerivedKeys
	err   error
}

// NewSignatureFlow returns an idle flow.
func NewSignatureFlow() *SignatureFlow {
	return &SignatureFlow{state: StateIdle}
}

// State returns the flow's current state.
func (f *SignatureFlow) State() FlowState { return f.state }

// Err returns the error that moved the flow into StateError, if any.
func (f *SignatureFlow) Err() error { return f.err }

// Keys returns the derived key material. Only valid in StateComplete.
func (f *SignatureFlow) Keys() keyderive.DerivedKeys { return f.keys }

// Message returns the exact text the wallet must sign. Any other message
// produces unrelated keys.
func (f *SignatureFlow) Message() string { return keyderive.SigningMessage }

// Start moves the flow to awaiting the wallet's signature.
func (f *SignatureFlow) Start() error {
	if f.state != StateIdle {
		return &FlowStateError{Op: "Start", State: f.state}
	}
	f.state = StateAwaitingSignature
	return nil
}

// ProvideSignature derives keys from the raw signature bytes and finishes
// the flow. The same signature always yields the same keys, which is what
// makes wallet login deterministic across devices.
func (f *SignatureFlow) ProvideSignature(signature []byte) error {
	if f.state != StateAwaitingSignature {
		return &FlowStateError{Op: "ProvideSignature", State: f.state}
	}
	f.state = StateDerivingKeys
	keys, err := keyderive.SignatureKeys(signature)
	if err != nil {
		return f.fail(err)
	}
	f.keys = keys
	f.state = StateComplete
	return nil
}

// Abandon discards all local flow state, wiping any derived keys. The flow
// returns to StateIdle and can be reused.
func (f *SignatureFlow) Abandon() {
	f.keys.Wipe()
	*f = SignatureFlow{state: StateIdle}
}

func (f *SignatureFlow) fail(err error) error {
	f.err = err
	f.state = StateError
	return err
}
