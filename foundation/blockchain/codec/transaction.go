package codec

import (
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
)

// TransactionBody is the unsigned payload of a transfer. Its wire encoding
// is from(65B) ‖ to(65B) ‖ amount:u64 ‖ nonce:u64 ‖ transaction_fee:u64 —
// 154 bytes total now that From/To are fixed at the 65-byte uncompressed
// width (see SPEC_FULL.md §D.1).
type TransactionBody struct {
	From           signature.PublicKey
	To             signature.PublicKey
	Amount         uint64
	Nonce          uint64
	TransactionFee uint64
}

// TransactionBodySize is the fixed wire width of an encoded TransactionBody.
const TransactionBodySize = signature.PublicKeySize*2 + 8 + 8 + 8

// EncodeTransactionBody appends tb's wire encoding to w.
func EncodeTransactionBody(w *Writer, tb TransactionBody) {
	w.WriteFixed(tb.From[:])
	w.WriteFixed(tb.To[:])
	w.WriteUint64(tb.Amount)
	w.WriteUint64(tb.Nonce)
	w.WriteUint64(tb.TransactionFee)
}

// DecodeTransactionBody reads a TransactionBody from r.
func DecodeTransactionBody(r *Reader) (TransactionBody, error) {
	var tb TransactionBody

	from, err := r.ReadFixed(signature.PublicKeySize)
	if err != nil {
		return TransactionBody{}, err
	}
	copy(tb.From[:], from)

	to, err := r.ReadFixed(signature.PublicKeySize)
	if err != nil {
		return TransactionBody{}, err
	}
	copy(tb.To[:], to)

	if tb.Amount, err = r.ReadUint64(); err != nil {
		return TransactionBody{}, err
	}
	if tb.Nonce, err = r.ReadUint64(); err != nil {
		return TransactionBody{}, err
	}
	if tb.TransactionFee, err = r.ReadUint64(); err != nil {
		return TransactionBody{}, err
	}

	return tb, nil
}

// Bytes returns tb's encoded form, the input to the signature and the hash
// that identify a Transaction.
func (tb TransactionBody) Bytes() []byte {
	w := NewWriter(TransactionBodySize)
	EncodeTransactionBody(w, tb)
	return w.Bytes()
}

// Transaction is a signed transfer: a body plus the sender's ECDSA
// signature over SHA256(serialize(body)).
type Transaction struct {
	Body      TransactionBody
	Signature []byte
}

// EncodeTransaction appends tx's wire encoding: serialize(body) ‖
// sig_bit_length:u16 ‖ signature_bits.
func EncodeTransaction(w *Writer, tx Transaction) {
	EncodeTransactionBody(w, tx.Body)
	w.WriteBitLengthPrefixed(tx.Signature)
}

// DecodeTransaction reads a Transaction from r.
func DecodeTransaction(r *Reader) (Transaction, error) {
	body, err := DecodeTransactionBody(r)
	if err != nil {
		return Transaction{}, err
	}

	sig, err := r.ReadBitLengthPrefixed()
	if err != nil {
		return Transaction{}, err
	}

	return Transaction{Body: body, Signature: sig}, nil
}

// Bytes returns tx's full encoded form.
func (tx Transaction) Bytes() []byte {
	w := NewWriter(TransactionBodySize + 2 + len(tx.Signature))
	EncodeTransaction(w, tx)
	return w.Bytes()
}

// HashValue is the transaction's identity: SHA256(serialize(transaction)).
func (tx Transaction) HashValue() signature.Hash {
	return signature.Hash256(tx.Bytes())
}

// Hash satisfies merkle.Hashable[Transaction]: it returns the same digest as
// HashValue, as a slice instead of a fixed-size array.
func (tx Transaction) Hash() ([]byte, error) {
	h := tx.HashValue()
	return h[:], nil
}

// Equals reports whether tx and other encode to the same bytes. It
// satisfies merkle.Hashable[Transaction].
func (tx Transaction) Equals(other Transaction) bool {
	return tx.HashValue() == other.HashValue()
}
