package service

import (
	"context"
	"crypto/ed25519"
	"errors"
	"log/slog"
	"strings"

	gethaccounts "github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"

	"github.com/cloakboard/molt-auth/internal/auth/domain"
	"github.com/cloakboard/molt-auth/internal/auth/metrics"
	"github.com/cloakboard/molt-auth/pkg/keyderive"
	"github.com/cloakboard/molt-auth/pkg/sessionx"
	"github.com/cloakboard/molt-auth/pkg/slogx"
)

// Supported wallet chains.
const (
	ChainEthereum = "ethereum"
	ChainSolana   = "solana"
)

var (
	ErrUnsupportedChain = errors.New("unsupported chain")
	ErrInvalidAddress   = errors.New("invalid wallet address")
	ErrInvalidSignature = errors.New("invalid wallet signature")
)

// WalletService proves wallet ownership from a signature over
// keyderive.SigningMessage and mints a session for the proven address. Key
// derivation from the signature itself happens client side; the server only
// sees the proof.
type WalletService struct {
	Sessions *sessionx.Codec
	Accounts *AccountService
}

// Verify checks the signature for the claimed address on the given chain.
// On success the session claim is the canonical address form: lowercased hex
// for ethereum, base58 as given for solana.
func (s *WalletService) Verify(ctx context.Context, chain, address, signature string) (Session, error) {
	log := slogx.FromContext(ctx)

	var (
		claim  string
		method string
		err    error
	)

	switch strings.ToLower(strings.TrimSpace(chain)) {
	case ChainEthereum:
		method = domain.MethodWalletEthereum
		claim, err = verifyEthereum(address, signature)
	case ChainSolana:
		method = domain.MethodWalletSolana
		claim, err = verifySolana(address, signature)
	default:
		// Label stays bounded; arbitrary chain strings never reach it.
		metrics.WalletVerifications.WithLabelValues("unknown", metrics.ResultInvalid).Inc()
		log.Warn("wallet verification for unsupported chain", slog.String("chain", chain))
		return Session{}, ErrUnsupportedChain
	}

	chainLabel := strings.TrimPrefix(method, "wallet:")
	if err != nil {
		metrics.WalletVerifications.WithLabelValues(chainLabel, metrics.ResultInvalid).Inc()
		log.Warn("wallet verification failed",
			slog.String("chain", chainLabel),
			slog.Any("error", err),
		)
		return Session{}, err
	}

	sess, err := mintSession(ctx, s.Sessions, s.Accounts, claim, method)
	if err != nil {
		metrics.WalletVerifications.WithLabelValues(chainLabel, metrics.ResultError).Inc()
		return Session{}, err
	}

	metrics.WalletVerifications.WithLabelValues(chainLabel, metrics.ResultSuccess).Inc()
	log.Info("wallet verified",
		slog.String("chain", chainLabel),
		slog.String("claim_hash", keyderive.HashClaim(claim)),
	)
	return sess, nil
}

// verifyEthereum recovers the signer from an EIP-191 personal-sign signature
// and requires it to match the claimed address.
func verifyEthereum(address, signature string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", ErrInvalidAddress
	}

	if !strings.HasPrefix(signature, "0x") {
		signature = "0x" + signature
	}
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return "", ErrInvalidSignature
	}
	if len(sig) != 65 {
		return "", ErrInvalidSignature
	}

	// Wallets emit the recovery id as 27/28; go-ethereum wants 0/1.
	recov := make([]byte, 65)
	copy(recov, sig)
	if recov[64] >= 27 {
		recov[64] -= 27
	}
	if recov[64] > 1 {
		return "", ErrInvalidSignature
	}

	digest := gethaccounts.TextHash([]byte(keyderive.SigningMessage))
	pub, err := gethcrypto.SigToPub(digest, recov)
	if err != nil {
		return "", ErrInvalidSignature
	}

	recovered := gethcrypto.PubkeyToAddress(*pub)
	if recovered != common.HexToAddress(address) {
		return "", ErrInvalidSignature
	}

	return strings.ToLower(recovered.Hex()), nil
}

// verifySolana verifies an ed25519 signature over the raw message bytes. The
// address is the base58 public key; the signature may be base58 or hex.
func verifySolana(address, signature string) (string, error) {
	address = strings.TrimSpace(address)

	pub, err := base58.Decode(address)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return "", ErrInvalidAddress
	}

	sig, err := base58.Decode(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		if !strings.HasPrefix(signature, "0x") {
			signature = "0x" + signature
		}
		sig, err = hexutil.Decode(signature)
		if err != nil || len(sig) != ed25519.SignatureSize {
			return "", ErrInvalidSignature
		}
	}

	if !ed25519.Verify(ed25519.PublicKey(pub), []byte(keyderive.SigningMessage), sig) {
		return "", ErrInvalidSignature
	}

	return address, nil
}
