package codec

import "github.com/gorbak25/simple-blockchain/foundation/blockchain/chainerr"

// EncodeList writes a u64 count followed by the concatenation of elems
// encoded in reverse iteration order: elems[len(elems)-1] first, elems[0]
// last. Given elems in newest-first order (the order chain.Chain keeps its
// blocks in), this writes oldest-bytes-first — exactly the stream a
// sequence of real on-disk appends builds one block at a time, since each
// new newest element becomes elems[0] and lands at the very end of the
// byte stream. That equivalence is what lets the chain file be appended to
// in O(1): write the new block's bytes at end-of-file, rewrite the count.
// See chain/file.go's appendFile for the incremental counterpart of this
// full encode.
func EncodeList[T any](w *Writer, elems []T, encode func(w *Writer, v T)) {
	w.WriteUint64(uint64(len(elems)))
	for i := len(elems) - 1; i >= 0; i-- {
		encode(w, elems[i])
	}
}

// DecodeList reads a u64 count n, decodes n elements with decode, then
// reverses the accumulated slice so the result is in the same order the
// elems argument to EncodeList was given — newest-first for the chain
// file, per EncodeList's doc comment. Pairing with EncodeList's
// reverse-on-write convention makes the round trip transparent to callers:
// decode(encode(xs)) == xs.
//
// n comes from untrusted input (a possibly corrupt or truncated file), so
// it is bounds-checked against the bytes actually remaining before the
// output slice is allocated: every encoded element is at least one byte,
// so n can never legitimately exceed r.Remaining().
func DecodeList[T any](r *Reader, decode func(r *Reader) (T, error)) ([]T, error) {
	n, err := r.ReadUint64()
	if err != nil {
		return nil, err
	}

	if n > uint64(r.Remaining()) {
		return nil, chainerr.New(chainerr.DecodeError, "list count %d exceeds %d remaining bytes", n, r.Remaining())
	}

	out := make([]T, n)
	for i := uint64(0); i < n; i++ {
		v, err := decode(r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return out, nil
}
