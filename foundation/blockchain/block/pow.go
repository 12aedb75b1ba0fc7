// Package block implements the block-verification pipeline: proof-of-work,
// the miner's self-proof signature, per-transaction body rules, and the
// mining loop that assembles and solves a candidate block.
package block

import (
	"context"
	"crypto/rand"
	"math"
	"math/big"

	"github.com/gorbak25/simple-blockchain/foundation/blockchain/codec"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
)

// POW constructs a candidate block on top of prevHash at the given
// difficulty and mines it: it searches nonces starting from a random point
// until it finds one whose block hash has difficulty leading zero bits, or
// until ctx is cancelled.
func POW(ctx context.Context, header codec.BlockHeader, txs []codec.Transaction, ev func(v string, args ...any)) (codec.Block, error) {
	ev("block: POW: MINING: started")
	defer ev("block: POW: MINING: completed")

	nBig, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return codec.Block{}, err
	}
	header.Nonce = nBig.Uint64()

	b := codec.Block{Header: header, Transactions: txs}

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("block: POW: MINING: attempts[%d]", attempts)
		}

		if err := ctx.Err(); err != nil {
			ev("block: POW: MINING: CANCELLED")
			return codec.Block{}, err
		}

		hash := b.HashValue()
		if isHashSolved(header.Difficulty, hash) {
			ev("block: POW: MINING: SOLVED: prevHash[%s]: newHash[%s]: attempts[%d]", header.PrevHash, hash, attempts)
			return b, nil
		}

		b.Header.Nonce++
	}
}

// isHashSolved reports whether the leading difficulty bits of hash are
// zero. This is checked at bit granularity, not byte or hex-nibble
// granularity: a difficulty of 20 demands the top 2 full bytes plus the top
// 4 bits of the 3rd byte are all zero.
func isHashSolved(difficulty uint8, hash signature.Hash) bool {
	fullBytes := int(difficulty / 8)
	remBits := difficulty % 8

	for i := 0; i < fullBytes; i++ {
		if hash[i] != 0 {
			return false
		}
	}

	if remBits == 0 {
		return true
	}

	mask := byte(0xFF << (8 - remBits))
	return hash[fullBytes]&mask == 0
}
