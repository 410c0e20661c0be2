package sessionx

// InsecureCodec accepts any non-empty token verbatim as the claim, with no
// MAC and no expiry. It exists so handler and service tests can construct a
// "session" without signing machinery.
//
// It is constructed only by test code calling NewInsecureCodec directly.
// Nothing in the configuration layer can select it; a deployment that wants
// sessions must supply a real secret and get a Codec.
type InsecureCodec struct {
	// Method is stamped into every returned Claims. Defaults to "insecure".
	Method string
}

// NewInsecureCodec returns a Verifier for test harnesses. See the type doc
// for why this must never be wired into a running service.
func NewInsecureCodec() *InsecureCodec {
	return &InsecureCodec{Method: "insecure"}
}

// Verify treats the token itself as the claim. Empty tokens still fail so
// that "missing session" paths stay testable.
func (c *InsecureCodec) Verify(token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrInvalidSession
	}

	method := c.Method
	if method == "" {
		method = "insecure"
	}
	return Claims{Claim: token, Method: method}, nil
}
