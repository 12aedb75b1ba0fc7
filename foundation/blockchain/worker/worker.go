// Package worker runs the cancellable background mining loop: it takes a
// snapshot of the mempool, assembles a candidate block, performs proof-of-work, and
// submits the result to the chain engine.
package worker

import (
	"sync"

	"github.com/gorbak25/simple-blockchain/foundation/blockchain/chain"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/database"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/mempool"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
)

// Miner is the minimal credential set the worker needs from the wallet:
// the public key that receives block rewards and fees, and the private key
// used to produce the header's self-proof.
type Miner struct {
	PubKey  signature.PublicKey
	PrivKey signature.PrivateKey
}

// Worker manages the mining goroutine and its start/cancel signaling.
type Worker struct {
	chain *chain.Chain
	pool  *mempool.Pool
	store *database.Store
	miner Miner
	ev    func(v string, args ...any)

	wg           sync.WaitGroup
	shut         chan struct{}
	startMining  chan bool
	cancelMining chan bool
}

// Run constructs a Worker and starts its background mining goroutine.
func Run(c *chain.Chain, pool *mempool.Pool, store *database.Store, miner Miner, ev func(v string, args ...any)) *Worker {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	w := &Worker{
		chain:        c,
		pool:         pool,
		store:        store,
		miner:        miner,
		ev:           ev,
		shut:         make(chan struct{}),
		startMining:  make(chan bool, 1),
		cancelMining: make(chan bool, 1),
	}

	w.wg.Add(1)
	hasStarted := make(chan bool)
	go func() {
		defer w.wg.Done()
		hasStarted <- true
		w.miningOperations()
	}()
	<-hasStarted

	return w
}

// Shutdown stops the mining goroutine and waits for it to exit.
func (w *Worker) Shutdown() {
	w.ev("worker: shutdown: started")
	defer w.ev("worker: shutdown: completed")

	w.SignalCancelMining()
	close(w.shut)
	w.wg.Wait()
}

// SignalStartMining requests a mining attempt. If one is already queued,
// this is a no-op.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- true:
	default:
	}
	w.ev("worker: SignalStartMining: signaled")
}

// SignalCancelMining cancels any mining attempt currently in progress.
func (w *Worker) SignalCancelMining() {
	select {
	case w.cancelMining <- true:
	default:
	}
	w.ev("worker: SignalCancelMining: signaled")
}

func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
