// Package chain implements the Chain engine: it loads and replays the local
// chain file, verifies genesis, derives account state, and accepts newly
// mined blocks, persisting them under a single coordinator so the chain
// file, AccountStore, and Mempool move together.
package chain

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/gorbak25/simple-blockchain/foundation/blockchain/block"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/chainerr"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/codec"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/database"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/genesis"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/mempool"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
)

// Difficulty is the fixed PoW target every mined block (other than genesis)
// must meet. spec.md §4.6 names this constant 20; there is no retargeting.
const Difficulty = 20

// filePath is the chain file's location relative to the node's data
// directory, per spec.md §6.
const filePath = "db/blockchain.db"

// Chain is the Chain engine: the newest-first in-memory block list, its
// height, and the AccountStore and Mempool it keeps in lockstep on every
// accepted block. It is a single-writer, multi-reader resource.
type Chain struct {
	mu     sync.RWMutex
	blocks []codec.Block // newest first
	height uint64

	path  string
	store *database.Store
	pool  *mempool.Pool
	ev    func(v string, args ...any)
}

// noopEvHandler discards all narration; used when the caller supplies none.
func noopEvHandler(string, ...any) {}

// Load ensures dataDir exists, then replays the chain file inside it (if
// any) against a fresh AccountStore, folding over the decoded blocks
// oldest-first with the genesis-then-regular verification spec.md §4.6
// describes. store and pool are the handles this Chain will keep
// synchronized; ev receives progress narration and may be nil.
func Load(dataDir string, store *database.Store, pool *mempool.Pool, ev func(v string, args ...any)) (*Chain, error) {
	if ev == nil {
		ev = noopEvHandler
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	path := filepath.Join(dataDir, filePath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	c := &Chain{
		path:  path,
		store: store,
		pool:  pool,
		ev:    ev,
	}

	decoded, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	if len(decoded) == 0 {
		ev("chain: load: no chain file found, starting from genesis sentinel")
		return c, nil
	}

	if err := c.replay(decoded); err != nil {
		return nil, err
	}

	return c, nil
}

// replay folds over decoded verifying the genesis block by fixed hash and
// every later block by the full validation pipeline, applying transactions
// and rewards as it goes. decoded is newest-first (codec.DecodeList's
// contract, matching how appendFile physically grows the chain file — see
// list.go): decoded[len(decoded)-1] is the genesis block and decoded[0] is
// the chain head, so the fold walks decoded back to front.
func (c *Chain) replay(decoded []codec.Block) error {
	prevHash := genesis.Sentinel

	n := len(decoded)
	for i := n - 1; i >= 0; i-- {
		b := decoded[i]
		height := uint64(n - i)

		if height == 1 {
			if err := genesis.Verify(b); err != nil {
				return err
			}
			c.ev("chain: replay: height[1]: genesis block accepted")
		} else {
			if b.Header.PrevHash != prevHash {
				return chainerr.New(chainerr.CorruptedChain, "height %d: prev_hash %s does not match previous block %s", height, b.Header.PrevHash, prevHash)
			}
			if err := block.Verify(b, c.store); err != nil {
				return chainerr.New(chainerr.CorruptedChain, "height %d: %s", height, err)
			}
			c.ev("chain: replay: height[%d]: block accepted", height)
		}

		for _, tx := range b.Transactions {
			if err := c.store.ApplyTransactionBody(tx.Body, b.Header.MinerPubKey); err != nil {
				return chainerr.New(chainerr.CorruptedChain, "height %d: applying transaction %s: %s", height, tx.HashValue(), err)
			}
		}
		if err := c.store.RewardMiner(b.Header.MinerPubKey, database.Reward(height)); err != nil {
			return chainerr.New(chainerr.CorruptedChain, "height %d: rewarding miner: %s", height, err)
		}

		prevHash = b.HashValue()
	}

	// decoded is already newest-first, matching c.blocks' own convention.
	c.blocks = decoded
	c.height = uint64(n)

	return nil
}

// InstallGenesis bootstraps an empty chain from an externally-provisioned
// genesis block. Unlike RegisterMined, it never runs PoW or signature
// checks: genesis.Verify is the only gate, matching spec.md §4.6's
// trust-anchored treatment of the genesis block. This chain's GENESIS_HASH
// is a single fixed constant shared by every instance of this network, the
// same way a production Bitcoin-style client ships one hardcoded genesis
// block rather than mining it. No node can produce a block hashing to that
// constant by running the ordinary mining loop. RegisterMined does accept a
// mined block linked to the sentinel on an empty chain, but that block does
// not hash to the constant, so a chain file started that way fails
// genesis.Verify on the next Load; this call is how a fresh data directory
// gets a genesis block that replay accepts.
func (c *Chain) InstallGenesis(b codec.Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.height != 0 {
		return chainerr.New(chainerr.CorruptedGenesisBlock, "chain already has %d block(s), cannot install genesis", c.height)
	}

	if err := genesis.Verify(b); err != nil {
		return err
	}

	if err := appendFile(c.path, b); err != nil {
		return err
	}

	c.blocks = []codec.Block{b}
	c.height = 1

	for _, tx := range b.Transactions {
		if err := c.store.ApplyTransactionBody(tx.Body, b.Header.MinerPubKey); err != nil {
			return chainerr.New(chainerr.CorruptedChain, "applying genesis transaction %s: %s", tx.HashValue(), err)
		}
	}
	if err := c.store.RewardMiner(b.Header.MinerPubKey, database.Reward(1)); err != nil {
		return chainerr.New(chainerr.CorruptedGenesisBlock, "rewarding genesis miner: %s", err)
	}

	c.ev("chain: InstallGenesis: height[1]: hash[%s]: accepted", b.HashValue())

	return nil
}

// NewestHash returns the hash of the chain's head block, or the genesis
// sentinel if the chain is empty.
func (c *Chain) NewestHash() signature.Hash {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.blocks) == 0 {
		return genesis.Sentinel
	}
	return c.blocks[0].HashValue()
}

// Height returns the current chain height (number of blocks, genesis
// included).
func (c *Chain) Height() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.height
}

// CurrentDifficulty returns the fixed PoW difficulty every newly mined
// block must declare.
func (c *Chain) CurrentDifficulty() uint8 {
	return Difficulty
}

// RegisterMined accepts a newly mined block per spec.md §4.6: checks
// prev_hash and difficulty, runs the full validation pipeline, then commits
// — disk append first, then the in-memory chain, AccountStore applies,
// miner reward, and mempool purge (SPEC_FULL.md §D.4) — so a crash between
// the two leaves the on-disk chain one block ahead of memory, safely
// recovered by replay on the next startup.
func (c *Chain) RegisterMined(b codec.Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	newestHash := genesis.Sentinel
	if len(c.blocks) > 0 {
		newestHash = c.blocks[0].HashValue()
	}

	if b.Header.PrevHash != newestHash {
		return chainerr.New(chainerr.InvalidPrevBlock, "block prev_hash %s does not match chain head %s", b.Header.PrevHash, newestHash)
	}

	if b.Header.Difficulty != Difficulty {
		return chainerr.New(chainerr.InvalidDifficulty, "block difficulty %d does not match required %d", b.Header.Difficulty, Difficulty)
	}

	if err := block.Verify(b, c.store); err != nil {
		return err
	}

	if err := appendFile(c.path, b); err != nil {
		return err
	}

	c.blocks = append([]codec.Block{b}, c.blocks...)
	c.height++

	for _, tx := range b.Transactions {
		if err := c.store.ApplyTransactionBody(tx.Body, b.Header.MinerPubKey); err != nil {
			return chainerr.New(chainerr.CorruptedChain, "applying transaction %s after commit: %s", tx.HashValue(), err)
		}
	}
	if err := c.store.RewardMiner(b.Header.MinerPubKey, database.Reward(c.height)); err != nil {
		return chainerr.New(chainerr.CorruptedChain, "rewarding miner after commit: %s", err)
	}

	c.pool.RemoveConfirmed(b.Transactions, c.store)

	c.ev("chain: RegisterMined: height[%d]: hash[%s]: accepted", c.height, b.HashValue())

	return nil
}
