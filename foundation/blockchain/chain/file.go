package chain

import (
	"encoding/binary"
	"os"

	"github.com/gorbak25/simple-blockchain/foundation/blockchain/chainerr"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/codec"
)

// loadFile decodes the chain file at path as a length-prefixed list of
// blocks. A missing file is not an error: it reports an empty list, matching
// a freshly initialized data directory.
func loadFile(path string) ([]codec.Block, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r := codec.NewReader(content)
	blocks, err := codec.DecodeList(r, codec.DecodeBlock)
	if err != nil {
		return nil, chainerr.New(chainerr.CorruptedChain, "decoding chain file %s: %s", path, err)
	}

	return blocks, nil
}

// appendFile implements the append protocol of spec.md §6: on first write,
// create the file with list prefix 1 followed by the block's bytes. On
// later writes, read the first 8 bytes (the u64 count), write the new
// block's bytes at end-of-file, then rewrite the first 8 bytes as count+1.
//
// This is the O(1)-append realization of codec.EncodeList applied to a
// newest-first block list: each new block becomes the new head, so its
// bytes belong at the very end of the already-written stream (see
// list.go). Never change this to write anywhere but end-of-file without
// also revisiting codec.EncodeList/DecodeList and chain.replay, which all
// assume this exact byte layout.
func appendFile(path string, b codec.Block) error {
	blockBytes := b.Bytes()

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	if info.Size() == 0 {
		w := codec.NewWriter(8 + len(blockBytes))
		w.WriteUint64(1)
		w.WriteFixed(blockBytes)
		_, err := f.Write(w.Bytes())
		return err
	}

	var countBytes [8]byte
	if _, err := f.ReadAt(countBytes[:], 0); err != nil {
		return err
	}
	count := binary.BigEndian.Uint64(countBytes[:])

	if _, err := f.WriteAt(blockBytes, info.Size()); err != nil {
		return err
	}

	binary.BigEndian.PutUint64(countBytes[:], count+1)
	_, err = f.WriteAt(countBytes[:], 0)
	return err
}
