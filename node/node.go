// Package node composes the four components spec.md §9 asks to be held as
// explicit owned handles rather than package-level globals: the AccountStore
// (via chain.Chain), the TransactionPool, the Chain engine, and the Wallet.
package node

import (
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/chain"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/codec"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/database"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/mempool"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/worker"
	"github.com/gorbak25/simple-blockchain/wallet"
)

// EventHandler is called with progress narration from every component the
// Node owns.
type EventHandler func(v string, args ...any)

// Config is what New needs to assemble a Node: the data directory to load
// the chain file and wallet file from, the miner account to use when the
// mining worker is started, and an optional narration sink.
//
// GenesisFixture is optional. This chain's genesis block is trust-anchored
// by a fixed hash (spec.md §4.6), not mined, so a brand new data directory
// has no way to produce one on its own; an operator provisions the one true
// genesis block out of band and passes it here so New can install it on
// the node's first run.
type Config struct {
	DataDir        string
	MinerAccount   wallet.Account
	GenesisFixture *codec.Block
	EvHandler      EventHandler
}

// Node owns the AccountStore, Mempool, Chain engine, and Wallet, and the
// mining Worker built on top of them. It replaces the source's package-level
// singletons with one explicit, passable handle.
type Node struct {
	ev EventHandler

	Store  *database.Store
	Pool   *mempool.Pool
	Chain  *chain.Chain
	Wallet *wallet.Wallet
	Worker *worker.Worker
}

// New loads the wallet and chain file under cfg.DataDir, replaying the
// chain against a fresh AccountStore, and starts the mining worker's
// background goroutine (idle until SignalStartMining is called).
func New(cfg Config) (*Node, error) {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	store := database.New()
	pool := mempool.New()

	c, err := chain.Load(cfg.DataDir, store, pool, ev)
	if err != nil {
		return nil, err
	}

	if cfg.GenesisFixture != nil && c.Height() == 0 {
		if err := c.InstallGenesis(*cfg.GenesisFixture); err != nil {
			return nil, err
		}
	}

	w, err := wallet.Load(cfg.DataDir + "/wallet.dat")
	if err != nil {
		return nil, err
	}

	miner := worker.Miner{
		PubKey:  cfg.MinerAccount.Pub,
		PrivKey: cfg.MinerAccount.Priv,
	}

	wk := worker.Run(c, pool, store, miner, ev)

	return &Node{
		ev:     ev,
		Store:  store,
		Pool:   pool,
		Chain:  c,
		Wallet: w,
		Worker: wk,
	}, nil
}

// Shutdown stops the mining worker and waits for it to exit.
func (n *Node) Shutdown() {
	n.Worker.Shutdown()
}

// SubmitTransaction registers a signed transaction with the mempool and, if
// it was accepted, wakes the mining worker.
func (n *Node) SubmitTransaction(tx codec.Transaction) error {
	if err := n.Pool.Register(tx, n.Store); err != nil {
		return err
	}

	n.Worker.SignalStartMining()
	return nil
}
