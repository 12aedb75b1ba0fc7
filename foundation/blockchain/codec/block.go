package codec

import (
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
)

// MaxTransactionsPerBlock is the body-size cap spec.md §3/§4.5 imposes on a
// BlockBody.
const MaxTransactionsPerBlock = 100

// BlockHeader carries everything about a block except its transactions.
type BlockHeader struct {
	PrevHash               signature.Hash
	Difficulty             uint8
	Nonce                  uint64
	MinerPubKey            signature.PublicKey
	MinerProofOfPrivKey    []byte
	ChainStateMerkleHash   signature.Hash
	TransactionsMerkleHash signature.Hash
}

// EncodeBlockHeader appends h's wire encoding: prev_hash(32B) ‖
// difficulty:u8 ‖ nonce:u64 ‖ miner_pub_key(65B) ‖ proof_bit_length:u16 ‖
// proof_bits ‖ chain_state_merkle_hash(32B) ‖ transactions_merkle_hash(32B).
func EncodeBlockHeader(w *Writer, h BlockHeader) {
	w.WriteFixed(h.PrevHash[:])
	w.WriteUint8(h.Difficulty)
	w.WriteUint64(h.Nonce)
	w.WriteFixed(h.MinerPubKey[:])
	w.WriteBitLengthPrefixed(h.MinerProofOfPrivKey)
	w.WriteFixed(h.ChainStateMerkleHash[:])
	w.WriteFixed(h.TransactionsMerkleHash[:])
}

// DecodeBlockHeader reads a BlockHeader from r.
func DecodeBlockHeader(r *Reader) (BlockHeader, error) {
	var h BlockHeader

	prevHash, err := r.ReadFixed(signature.HashSize)
	if err != nil {
		return BlockHeader{}, err
	}
	copy(h.PrevHash[:], prevHash)

	if h.Difficulty, err = r.ReadUint8(); err != nil {
		return BlockHeader{}, err
	}
	if h.Nonce, err = r.ReadUint64(); err != nil {
		return BlockHeader{}, err
	}

	minerPubKey, err := r.ReadFixed(signature.PublicKeySize)
	if err != nil {
		return BlockHeader{}, err
	}
	copy(h.MinerPubKey[:], minerPubKey)

	if h.MinerProofOfPrivKey, err = r.ReadBitLengthPrefixed(); err != nil {
		return BlockHeader{}, err
	}

	chainStateMerkleHash, err := r.ReadFixed(signature.HashSize)
	if err != nil {
		return BlockHeader{}, err
	}
	copy(h.ChainStateMerkleHash[:], chainStateMerkleHash)

	transactionsMerkleHash, err := r.ReadFixed(signature.HashSize)
	if err != nil {
		return BlockHeader{}, err
	}
	copy(h.TransactionsMerkleHash[:], transactionsMerkleHash)

	return h, nil
}

// Bytes returns h's encoded form.
func (h BlockHeader) Bytes() []byte {
	w := NewWriter(signature.HashSize + 1 + 8 + signature.PublicKeySize + 2 + len(h.MinerProofOfPrivKey) + signature.HashSize*2)
	EncodeBlockHeader(w, h)
	return w.Bytes()
}

// Block is a header plus its ordered transaction body.
type Block struct {
	Header       BlockHeader
	Transactions []Transaction
}

// EncodeBlock appends b's wire encoding: serialize(header) ‖
// serialize(body), where the body is the length-prefixed transaction list.
func EncodeBlock(w *Writer, b Block) {
	EncodeBlockHeader(w, b.Header)
	EncodeList(w, b.Transactions, EncodeTransaction)
}

// DecodeBlock reads a Block from r.
func DecodeBlock(r *Reader) (Block, error) {
	header, err := DecodeBlockHeader(r)
	if err != nil {
		return Block{}, err
	}

	txs, err := DecodeList(r, DecodeTransaction)
	if err != nil {
		return Block{}, err
	}

	return Block{Header: header, Transactions: txs}, nil
}

// Bytes returns b's full encoded form.
func (b Block) Bytes() []byte {
	w := NewWriter(512)
	EncodeBlock(w, b)
	return w.Bytes()
}

// HashValue is the block's identity: SHA256(serialize(header) ‖
// serialize(body)).
func (b Block) HashValue() signature.Hash {
	return signature.Hash256(b.Bytes())
}
