/*
Package authsdk provides a client SDK for the Molt authentication service.

# Overview

The authsdk package talks to the passwordless authentication API and runs
the client half of key derivation. The server never sees a password or a
derived key: secrets are blinded before they leave the device, evaluated
under the server's OPRF key, and unblinded and stretched locally.

# Client vs Flows

The package is organized around two layers:

  - Client: one method per API endpoint, plus DeriveFromPassword for the
    full blind-evaluate-stretch pipeline
  - Flows: small state machines (MagicLinkFlow, PasswordFlow,
    SignatureFlow) that sequence those calls for a login UI

Create a Client to talk to the service directly:

	client := authsdk.NewClient("https://auth.example.com")

	// Check service health
	health, err := client.GetLiveness(ctx)

	// Request a magic link
	err = client.RequestMagicLink(ctx, "user@example.com")

	// Consume the token from the link
	resp, err := client.ConsumeMagicLink(ctx, token)

# Magic-Link Flow

MagicLinkFlow covers both the same-device and cross-device cases. On the
requesting device:

	flow := authsdk.NewMagicLinkFlow(client)
	err := flow.Start(ctx, "user@example.com") // StateLinkSent

	// ...user clicks the link, app extracts the token...

	err = flow.Verify(ctx, token) // StateComplete
	keys := flow.Keys()

When the link is opened on a device that never saw the email, Verify stops
in StateNeedEmail and the flow resumes once the user types the address:

	err := flow.Verify(ctx, token)
	if flow.State() == authsdk.StateNeedEmail {
		err = flow.ProvideEmail(ctx, enteredEmail)
	}

Verify is idempotent after the token is consumed: a retried call re-derives
keys from the claim and session already in hand instead of burning a second
consumption.

# Password Flow

PasswordFlow derives keys from an email and password. The session passed to
Derive must come from a completed email-ownership proof:

	flow := authsdk.NewPasswordFlow(client)
	flow.Start()
	flow.SetCredentials("user@example.com", password)
	err := flow.Derive(ctx, sessionToken) // StateComplete

The same credentials always produce the same keys, on any device.

# Signature Flow

SignatureFlow derives keys from a wallet signature without any server
round-trip:

	flow := authsdk.NewSignatureFlow()
	flow.Start()
	// Ask the wallet to sign flow.Message()
	err := flow.ProvideSignature(signatureBytes) // StateComplete

# Key Derivation

DeriveFromPassword runs the pipeline a flow would: blind the secret,
evaluate it against POST /v1/auth/oprf/evaluate under the caller's session,
unblind the result, stretch it with Argon2id, and expand it into a
DerivedKeys bundle. Call Wipe on the bundle when the keys are no longer
needed.

# Error Handling

API failures come back as *APIError carrying the HTTP status, the machine
code, and the human description from the response body:

	err := client.RequestMagicLink(ctx, email)
	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) {
		fmt.Println(apiErr.StatusCode, apiErr.Code)
	}

Flow methods surface the same errors and additionally record them via Err
when the flow moves to StateError.

# Thread Safety

Client is safe for concurrent use. Flows are not: each flow mirrors one
user interaction and must be driven from a single goroutine. Abandon a flow
to wipe its key material and reuse it.
*/
package authsdk
