package authsdk

import (
	"context"

	"github.com/cloakboard/molt-auth/pkg/keyderive"
)

// MagicLinkFlow drives a passwordless login from link request to derived
// keys. The same type serves both sides of a cross-device login: the
// requesting device calls Start then Verify, while a second device that only
// has the link calls Verify directly and is asked for the email afterwards.
//
// Flows are not safe for concurrent use; drive each one from a single
// goroutine.
type MagicLinkFlow struct {
	client *Client

	state        FlowState
	email        string
	claim        string
	sessionToken string
	keys         keyderive.DerivedKeys
	err          error
}

// NewMagicLinkFlow returns an idle flow bound to the given client.
func NewMagicLinkFlow(client *Client) *MagicLinkFlow {
	return &MagicLinkFlow{client: client, state: StateIdle}
}

// State returns the flow's current state.
func (f *MagicLinkFlow) State() FlowState { return f.state }

// Err returns the error that moved the flow into StateError, if any.
func (f *MagicLinkFlow) Err() error { return f.err }

// Claim returns the verified identity claim. Empty until Verify succeeds.
func (f *MagicLinkFlow) Claim() string { return f.claim }

// SessionToken returns the session minted by token consumption. Empty until
// Verify succeeds.
func (f *MagicLinkFlow) SessionToken() string { return f.sessionToken }

// Keys returns the derived key material. Only valid in StateComplete.
func (f *MagicLinkFlow) Keys() keyderive.DerivedKeys { return f.keys }

// Start requests a magic link for the given email and caches the address so
// that Verify on this device can authenticate without re-entry.
func (f *MagicLinkFlow) Start(ctx context.Context, email string) error {
	if f.state != StateIdle {
		return &FlowStateError{Op: "Start", State: f.state}
	}
	if err := f.client.RequestMagicLink(ctx, email); err != nil {
		return f.fail(err)
	}
	f.email = keyderive.NormalizeEmail(email)
	f.state = StateLinkSent
	return nil
}

// Verify consumes the magic-link token, then derives keys. When the flow
// never saw the email locally (the link was opened on another device) it
// stops in StateNeedEmail and waits for ProvideEmail.
//
// Verify is idempotent: calling it again after the token was consumed
// re-derives keys from the claim and session already in hand instead of
// burning a second consumption.
func (f *MagicLinkFlow) Verify(ctx context.Context, token string) error {
	switch f.state {
	case StateIdle, StateLinkSent, StateComplete:
	default:
		return &FlowStateError{Op: "Verify", State: f.state}
	}
	f.state = StateVerifying

	if f.sessionToken == "" || f.claim == "" {
		resp, err := f.client.ConsumeMagicLink(ctx, token)
		if err != nil {
			return f.fail(err)
		}
		f.claim = resp.IdentityClaim
		f.sessionToken = resp.SessionToken
	}

	if f.email == "" {
		f.state = StateNeedEmail
		return nil
	}
	return f.authenticate(ctx)
}

// ProvideEmail resumes a StateNeedEmail flow with the address the user
// entered. A mismatch against the verified claim leaves the flow in
// StateNeedEmail so the user can correct a typo.
func (f *MagicLinkFlow) ProvideEmail(ctx context.Context, email string) error {
	if f.state != StateNeedEmail {
		return &FlowStateError{Op: "ProvideEmail", State: f.state}
	}
	normalized := keyderive.NormalizeEmail(email)
	if normalized != f.claim {
		return ErrEmailMismatch
	}
	f.email = normalized
	return f.authenticate(ctx)
}

// authenticate runs the OPRF exchange over the verified email and finishes
// the flow. Passwordless keys take the email itself as the blinded input;
// the server key supplies the entropy a password would otherwise add.
func (f *MagicLinkFlow) authenticate(ctx context.Context) error {
	f.state = StateAuthenticating
	keys, err := f.client.DeriveFromPassword(ctx, f.sessionToken, f.claim, f.claim)
	if err != nil {
		return f.fail(err)
	}
	f.keys = keys
	f.state = StateComplete
	return nil
}

// Abandon discards all local flow state, wiping any derived keys. The flow
// returns to StateIdle and can be reused.
func (f *MagicLinkFlow) Abandon() {
	f.keys.Wipe()
	*f = MagicLinkFlow{client: f.client, state: StateIdle}
}

func (f *MagicLinkFlow) fail(err error) error {
	f.err = err
	f.state = StateError
	return err
}
