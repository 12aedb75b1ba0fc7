package block

import (
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/chainerr"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/codec"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/database"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
)

// VerifyPow reports whether b's hash satisfies its declared difficulty.
func VerifyPow(b codec.Block) error {
	if !isHashSolved(b.Header.Difficulty, b.HashValue()) {
		return chainerr.New(chainerr.InvalidPow, "hash %s does not satisfy difficulty %d", b.HashValue(), b.Header.Difficulty)
	}
	return nil
}

// VerifyMinerSignature checks the block header's self-proof: that the miner
// holds the private key matching the public key it claims as the
// reward-receiving beneficiary.
func VerifyMinerSignature(b codec.Block) error {
	digest := signature.Hash256(b.Header.MinerPubKey[:])
	if !signature.Verify(b.Header.MinerPubKey, digest, b.Header.MinerProofOfPrivKey) {
		return chainerr.New(chainerr.InvalidMinerSig, "miner proof does not verify for %s", b.Header.MinerPubKey)
	}
	return nil
}

// VerifyBody rejects a body with more than MaxTransactionsPerBlock
// transactions, then verifies each transaction's signature and body
// against store in order, short-circuiting on the first failure. Body
// verification is stateful: it reflects store at the moment of the call.
func VerifyBody(txs []codec.Transaction, store *database.Store) error {
	if len(txs) > codec.MaxTransactionsPerBlock {
		return chainerr.New(chainerr.TooManyTransactions, "block has %d transactions, max is %d", len(txs), codec.MaxTransactionsPerBlock)
	}

	for _, tx := range txs {
		digest := signature.Hash256(tx.Body.Bytes())
		if !signature.Verify(tx.Body.From, digest, tx.Signature) {
			return chainerr.New(chainerr.InvalidSig, "signature does not verify for transaction %s", tx.HashValue())
		}

		if err := store.VerifyTransactionBody(tx.Body); err != nil {
			return err
		}
	}

	return nil
}

// Verify runs the full block-validation pipeline in order — PoW, miner
// signature, body — returning the first failure.
func Verify(b codec.Block, store *database.Store) error {
	if err := VerifyPow(b); err != nil {
		return err
	}

	if err := VerifyMinerSignature(b); err != nil {
		return err
	}

	return VerifyBody(b.Transactions, store)
}
