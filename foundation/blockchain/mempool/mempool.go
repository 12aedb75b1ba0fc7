// Package mempool maintains the pool of pending, signature- and
// body-verified transactions not yet included in any accepted block.
package mempool

import (
	"sync"

	"github.com/gorbak25/simple-blockchain/foundation/blockchain/chainerr"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/codec"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/database"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
)

// Pool is the mempool: a map from transaction hash to Transaction. It is a
// single-writer, multi-reader resource.
type Pool struct {
	mu   sync.RWMutex
	pool map[signature.Hash]codec.Transaction
}

// New constructs an empty Pool.
func New() *Pool {
	return &Pool{
		pool: make(map[signature.Hash]codec.Transaction),
	}
}

// Count returns the current number of transactions in the pool.
func (p *Pool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.pool)
}

// Register verifies tx's signature and body against store, then inserts it
// keyed by its hash. A duplicate hash silently overwrites the prior entry.
func (p *Pool) Register(tx codec.Transaction, store *database.Store) error {
	digest := signature.Hash256(tx.Body.Bytes())
	if !signature.Verify(tx.Body.From, digest, tx.Signature) {
		return chainerr.New(chainerr.InvalidSig, "signature does not verify for %s", tx.Body.From)
	}

	if err := store.VerifyTransactionBody(tx.Body); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.pool[tx.HashValue()] = tx

	return nil
}

// Snapshot returns a cheap, point-in-time copy of the pending set for the
// miner to assemble a candidate block from.
func (p *Pool) Snapshot() map[signature.Hash]codec.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[signature.Hash]codec.Transaction, len(p.pool))
	for h, tx := range p.pool {
		out[h] = tx
	}

	return out
}

// RemoveConfirmed deletes the given transactions by hash, then re-verifies
// every remaining entry's body against store.
func (p *Pool) RemoveConfirmed(txs []codec.Transaction, store *database.Store) {
	p.mu.Lock()
	for _, tx := range txs {
		delete(p.pool, tx.HashValue())
	}
	p.mu.Unlock()

	p.Reverify(store)
}

// Reverify drops any entry whose body no longer validates against store.
// Signatures are never re-checked — they cannot become invalid once
// verified at Register time.
func (p *Pool) Reverify(store *database.Store) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := make(map[signature.Hash]codec.Transaction, len(p.pool))
	for h, tx := range p.pool {
		snapshot[h] = tx
	}

	for h, tx := range snapshot {
		if err := store.VerifyTransactionBody(tx.Body); err != nil {
			delete(p.pool, h)
		}
	}
}
