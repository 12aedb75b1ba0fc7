// Package genesis identifies and verifies the chain's trust-anchored first
// block. Unlike a conventional genesis file, this chain has no configurable
// balances or chain-wide parameters to load from disk: the genesis block is
// recognized purely by a fixed hash constant.
package genesis

import (
	"encoding/hex"

	"github.com/gorbak25/simple-blockchain/foundation/blockchain/chainerr"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/codec"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
)

// hashHex is the fixed, trust-anchored hash every genesis block must equal.
const hashHex = "000003D7FFFEF8ECDCDC56378855C9717343D395E5CA5E7EF14F39A81CCC1CA9"

// Hash is the parsed form of hashHex, computed once at init.
var Hash signature.Hash

func init() {
	b, err := hex.DecodeString(hashHex)
	if err != nil {
		panic("genesis: malformed hash constant: " + err.Error())
	}
	copy(Hash[:], b)
}

// Sentinel is SHA256("GENESIS"), the prev_hash every genesis block must
// declare, and the value newest_hash() reports when the chain is empty.
var Sentinel = signature.Hash256([]byte("GENESIS"))

// Verify checks that b is a legitimate genesis block: its declared
// prev_hash is the sentinel, and its own hash equals the fixed constant.
// The genesis block is never PoW- or signature-checked — it is trusted by
// hash alone.
func Verify(b codec.Block) error {
	if b.Header.PrevHash != Sentinel {
		return chainerr.New(chainerr.CorruptedGenesisBlock, "genesis prev_hash is %s, want %s", b.Header.PrevHash, Sentinel)
	}

	if got := b.HashValue(); got != Hash {
		return chainerr.New(chainerr.UnknownGenesisBlock, "genesis hash is %s, want %s", got, Hash)
	}

	return nil
}
