package database

import (
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
)

// AccountID is an account's identity: the uncompressed SEC1 public key that
// owns it. Unlike the teacher, which hashes a public key down to a 20-byte
// address string, this implementation uses the public key directly as
// identity (spec.md §3's Account is "keyed by the owner's public key
// bytes").
type AccountID = signature.PublicKey

// Account represents the database's view of a single account: its spendable
// balance and the set of transaction nonces it has already spent.
type Account struct {
	Balance     uint64
	SpentNonces map[uint64]struct{}
}

// newAccount constructs a fresh, zero-balance account.
func newAccount() Account {
	return Account{
		SpentNonces: make(map[uint64]struct{}),
	}
}

// hasSpent reports whether nonce has already been used by this account.
func (a Account) hasSpent(nonce uint64) bool {
	_, ok := a.SpentNonces[nonce]
	return ok
}

// =============================================================================

// byAccount sorts accounts by AccountID for deterministic balance-snapshot
// hashing (used to compute chain_state_merkle_hash when assembling a block).
type byAccount []struct {
	ID      AccountID
	Account Account
}

func (ba byAccount) Len() int      { return len(ba) }
func (ba byAccount) Swap(i, j int) { ba[i], ba[j] = ba[j], ba[i] }
func (ba byAccount) Less(i, j int) bool {
	return string(ba[i].ID[:]) < string(ba[j].ID[:])
}
