package authsdk

import (
	"context"

	"github.com/cloakboard/molt-auth/pkg/keyderive"
)

// PasswordFlow derives keys from an email and password over the blinded
// OPRF exchange. The server session passed to Derive must come from a
// completed email-ownership proof, typically a MagicLinkFlow on the same
// device.
//
// Flows are not safe for concurrent use; drive each one from a single
// goroutine.
type PasswordFlow struct {
	client *Client

	state    FlowState
	email    string
	password string
	keys     keyderive.DerivedKeys
	err      error
}

// NewPasswordFlow returns an idle flow bound to the given client.
func NewPasswordFlow(client *Client) *PasswordFlow {
	return &PasswordFlow{client: client, state: StateIdle}
}

// State returns the flow's current state.
func (f *PasswordFlow) State() FlowState { return f.state }

// Err returns the error that moved the flow into StateError, if any.
func (f *PasswordFlow) Err() error { return f.err }

// Keys returns the derived key material. Only valid in StateComplete.
func (f *PasswordFlow) Keys() keyderive.DerivedKeys { return f.keys }

// Start moves the flow into credential collection. No I/O happens until
// Derive.
func (f *PasswordFlow) Start() error {
	if f.state != StateIdle {
		return &FlowStateError{Op: "Start", State: f.state}
	}
	f.state = StateCollectingCredentials
	return nil
}

// SetCredentials records the email and password to derive from. It may be
// called again to overwrite a previous entry while still collecting.
func (f *PasswordFlow) SetCredentials(email, password string) error {
	if f.state != StateCollectingCredentials {
		return &FlowStateError{Op: "SetCredentials", State: f.state}
	}
	if keyderive.NormalizeEmail(email) == "" {
		return keyderive.ErrEmptyEmail
	}
	if password == "" {
		return keyderive.ErrEmptySecret
	}
	f.email = email
	f.password = password
	return nil
}

// Derive runs the OPRF exchange with the collected credentials and finishes
// the flow. The password never leaves the device unblinded.
func (f *PasswordFlow) Derive(ctx context.Context, sessionToken string) error {
	if f.state != StateCollectingCredentials {
		return &FlowStateError{Op: "Derive", State: f.state}
	}
	if f.email == "" || f.password == "" {
		return &FlowStateError{Op: "Derive", State: f.state}
	}
	f.state = StateDerivingKeys
	keys, err := f.client.DeriveFromPassword(ctx, sessionToken, f.email, f.password)
	if err != nil {
		return f.fail(err)
	}
	f.password = ""
	f.keys = keys
	f.state = StateComplete
	return nil
}

// Abandon discards all local flow state, wiping any derived keys and the
// collected password. The flow returns to StateIdle and can be reused.
func (f *PasswordFlow) Abandon() {
	f.keys.Wipe()
	*f = PasswordFlow{client: f.client, state: StateIdle}
}

func (f *PasswordFlow) fail(err error) error {
	f.err = err
	f.state = StateError
	return err
}
