// Package database is the AccountStore: it holds per-account balance and
// spent-nonce state, validates transaction bodies against that state, and
// applies them atomically. It is the single source of truth the block
// validator and chain engine consult and mutate.
package database

import (
	"sort"
	"sync"

	"github.com/holiman/uint256"

	"github.com/gorbak25/simple-blockchain/foundation/blockchain/chainerr"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/codec"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
)

// baseReward is the block reward paid at height 1, halving every
// rewardHalvingInterval blocks thereafter.
const baseReward = 5_000_000

// rewardHalvingInterval is the number of blocks between reward halvings.
const rewardHalvingInterval = 1000

// Store is the AccountStore. It is safe for concurrent use: mutators take
// the write lock, readers take the read lock, and no caller ever observes a
// transaction half-applied to one side of a transfer.
type Store struct {
	mu       sync.RWMutex
	accounts map[AccountID]Account
}

// New constructs an empty Store.
func New() *Store {
	return &Store{
		accounts: make(map[AccountID]Account),
	}
}

// GetBalance returns id's balance, or 0 if the account is unknown.
func (s *Store) GetBalance(id AccountID) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.accounts[id].Balance
}

// VerifyTransactionBody checks tb against the current account state per
// spec.md §4.3: amount must be positive, the sender must exist and hold
// enough balance for amount+fee (checked with widened arithmetic so the
// comparison itself can never overflow), and the nonce must not have been
// spent already.
func (s *Store) VerifyTransactionBody(tb codec.TransactionBody) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.verifyLocked(tb)
}

func (s *Store) verifyLocked(tb codec.TransactionBody) error {
	if tb.Amount == 0 {
		return chainerr.New(chainerr.InvalidAmount, "amount must be greater than zero")
	}

	from, ok := s.accounts[tb.From]
	if !ok {
		return chainerr.New(chainerr.InsufficientFunds, "unknown sender account %s", tb.From)
	}

	need := new(uint256.Int).Add(uint256.NewInt(tb.Amount), uint256.NewInt(tb.TransactionFee))
	have := uint256.NewInt(from.Balance)
	if need.Cmp(have) > 0 {
		return chainerr.New(chainerr.InsufficientFunds, "balance %d is less than amount+fee %s", from.Balance, need)
	}

	if from.hasSpent(tb.Nonce) {
		return chainerr.New(chainerr.InvalidNonce, "nonce %d already spent by %s", tb.Nonce, tb.From)
	}

	return nil
}

// ApplyTransactionBody applies tb to the store. Callers must have already
// verified tb's body (VerifyTransactionBody) and signature; this method
// re-checks the body under the write lock so the verify-then-apply pair is
// linearizable, then debits the sender, credits the receiver, and routes
// any fee to minerPK.
func (s *Store) ApplyTransactionBody(tb codec.TransactionBody, minerPK AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.verifyLocked(tb); err != nil {
		return err
	}

	total := new(uint256.Int).Add(uint256.NewInt(tb.Amount), uint256.NewInt(tb.TransactionFee))
	if !total.IsUint64() {
		return chainerr.New(chainerr.CorruptedChain, "balance arithmetic overflow applying transaction %s", tb.From)
	}

	from := s.accounts[tb.From]
	from.Balance -= total.Uint64()
	from.SpentNonces[tb.Nonce] = struct{}{}
	s.accounts[tb.From] = from

	to := s.ensureLocked(tb.To)
	toBalance, err := checkedAdd(to.Balance, tb.Amount)
	if err != nil {
		return err
	}
	to.Balance = toBalance
	s.accounts[tb.To] = to

	if tb.TransactionFee > 0 {
		miner := s.ensureLocked(minerPK)
		minerBalance, err := checkedAdd(miner.Balance, tb.TransactionFee)
		if err != nil {
			return err
		}
		miner.Balance = minerBalance
		s.accounts[minerPK] = miner
	}

	return nil
}

// RewardMiner credits minerPK with value. Called once per accepted block
// with the height-dependent reward from Reward.
func (s *Store) RewardMiner(minerPK AccountID, value uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	miner := s.ensureLocked(minerPK)
	balance, err := checkedAdd(miner.Balance, value)
	if err != nil {
		return err
	}
	miner.Balance = balance
	s.accounts[minerPK] = miner

	return nil
}

// checkedAdd adds a and b with widened arithmetic per spec.md §7: any sum
// that would not fit back into a uint64 balance is reported rather than
// silently wrapped.
func checkedAdd(a, b uint64) (uint64, error) {
	sum := new(uint256.Int).Add(uint256.NewInt(a), uint256.NewInt(b))
	if !sum.IsUint64() {
		return 0, chainerr.New(chainerr.CorruptedChain, "balance arithmetic overflow crediting account")
	}
	return sum.Uint64(), nil
}

// ensureLocked returns id's account, creating it with a zero balance if it
// does not yet exist. Callers must hold s.mu for writing.
func (s *Store) ensureLocked(id AccountID) Account {
	a, ok := s.accounts[id]
	if !ok {
		a = newAccount()
	}
	return a
}

// Reward computes the block reward for the given 1-based height:
// floor(5_000_000 / 2^floor(height/1000)).
func Reward(height uint64) uint64 {
	shift := height / rewardHalvingInterval
	return baseReward >> shift
}

// StateDigest returns SHA256 of a deterministic, sorted encoding of every
// known account's balance — the value a miner assembling a candidate block
// uses for BlockHeader.ChainStateMerkleHash. This is never recomputed or
// checked by the validator (see SPEC_FULL.md §D.2); it is carried verbatim.
func (s *Store) StateDigest() signature.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(byAccount, 0, len(s.accounts))
	for id, acct := range s.accounts {
		snapshot = append(snapshot, struct {
			ID      AccountID
			Account Account
		}{ID: id, Account: acct})
	}
	sort.Sort(snapshot)

	w := codec.NewWriter(len(snapshot) * (signature.PublicKeySize + 8))
	for _, entry := range snapshot {
		w.WriteFixed(entry.ID[:])
		w.WriteUint64(entry.Account.Balance)
	}

	return signature.Hash256(w.Bytes())
}
