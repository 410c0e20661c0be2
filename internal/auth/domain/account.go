package domain

import "time"

// Auth method identifiers. Sessions carry one of these in their method
// claim and the directory records which one first proved a claim.
const (
	MethodMagicLink      = "magiclink"
	MethodWalletEthereum = "wallet:ethereum"
	MethodWalletSolana   = "wallet:solana"
)

// Account is one row of the account directory: the record that some claim
// has authenticated here. ClaimHash is the hex SHA-256 of the normalized
// claim; the raw email or wallet address is never stored.
type Account struct {
	ID         string
	ClaimHash  string
	Method     string  // proof method at first registration, one of the Method constants
	LinkedID   *string // set when a wallet account is joined onto an email account
	CreatedAt  time.Time
	LastAuthAt time.Time
}
