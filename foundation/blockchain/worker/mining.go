package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorbak25/simple-blockchain/foundation/blockchain/block"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/codec"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/merkle"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
)

// errNoTransactions is returned when the mempool is empty at mining time;
// the worker treats it as nothing to do rather than an error worth
// surfacing to the caller.
var errNoTransactions = errors.New("worker: no transactions in mempool")

func (w *Worker) miningOperations() {
	w.ev("worker: miningOperations: G started")
	defer w.ev("worker: miningOperations: G completed")

	for {
		select {
		case <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.ev("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation assembles a candidate block from the mempool snapshot,
// mines it, and submits it to the chain engine. It is cancellable via the
// worker's cancelMining signal.
func (w *Worker) runMiningOperation() {
	w.ev("worker: runMiningOperation: MINING: started")
	defer w.ev("worker: runMiningOperation: MINING: completed")

	if w.pool.Count() == 0 {
		w.ev("worker: runMiningOperation: MINING: no transactions to mine")
		return
	}

	defer func() {
		if w.pool.Count() > 0 {
			w.SignalStartMining()
		}
	}()

	select {
	case <-w.cancelMining:
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		select {
		case <-w.cancelMining:
			w.ev("worker: runMiningOperation: MINING: CANCEL: requested")
		case <-ctx.Done():
		}
	}()

	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		t := time.Now()
		b, err := w.mineBlock(ctx)
		duration := time.Since(t)

		w.ev("worker: runMiningOperation: MINING: duration[%v]", duration)

		if err != nil {
			switch {
			case errors.Is(err, errNoTransactions):
				w.ev("worker: runMiningOperation: MINING: WARNING: no transactions in mempool")
			case ctx.Err() != nil:
				w.ev("worker: runMiningOperation: MINING: CANCEL: complete")
			default:
				w.ev("worker: runMiningOperation: MINING: ERROR: %s", err)
			}
			return
		}

		if err := w.chain.RegisterMined(b); err != nil {
			w.ev("worker: runMiningOperation: MINING: register: ERROR: %s", err)
			return
		}

		w.ev("worker: runMiningOperation: MINING: SOLVED: hash[%s]", b.HashValue())
	}()

	wg.Wait()
}

// mineBlock assembles a candidate block from the mempool and performs
// proof-of-work on it.
func (w *Worker) mineBlock(ctx context.Context) (codec.Block, error) {
	snapshot := w.pool.Snapshot()
	if len(snapshot) == 0 {
		return codec.Block{}, errNoTransactions
	}

	txs := make([]codec.Transaction, 0, len(snapshot))
	for _, tx := range snapshot {
		txs = append(txs, tx)
		if len(txs) == codec.MaxTransactionsPerBlock {
			break
		}
	}

	var txRoot signature.Hash
	tree, err := merkle.NewTree(txs)
	if err == nil {
		copy(txRoot[:], tree.MerkleRoot)
	}

	proof, err := signature.Sign(w.miner.PrivKey, signature.Hash256(w.miner.PubKey[:]))
	if err != nil {
		return codec.Block{}, err
	}

	header := codec.BlockHeader{
		PrevHash:               w.chain.NewestHash(),
		Difficulty:             w.chain.CurrentDifficulty(),
		MinerPubKey:            w.miner.PubKey,
		MinerProofOfPrivKey:    proof,
		ChainStateMerkleHash:   w.store.StateDigest(),
		TransactionsMerkleHash: txRoot,
	}

	return block.POW(ctx, header, txs, w.ev)
}
