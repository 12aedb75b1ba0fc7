package merkle_test

import (
	"testing"

	"github.com/gorbak25/simple-blockchain/foundation/blockchain/codec"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/merkle"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
)

const (
	success = "✓"
	failed  = "✗"
)

func Test_TreeOfTransactions(t *testing.T) {
	t.Log("Given a handful of signed transactions.")
	{
		aPub, aPriv, _ := signature.GenerateKey()
		bPub, _, _ := signature.GenerateKey()

		var txs []codec.Transaction
		for i := uint64(0); i < 4; i++ {
			body := codec.TransactionBody{From: aPub, To: bPub, Amount: 1, Nonce: i, TransactionFee: 0}
			sig, _ := signature.Sign(aPriv, signature.Hash256(body.Bytes()))
			txs = append(txs, codec.Transaction{Body: body, Signature: sig})
		}

		tree, err := merkle.NewTree(txs)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to build a tree from the transactions: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to build a tree from the transactions.", success)

		if len(tree.MerkleRoot) != signature.HashSize {
			t.Fatalf("\t%s\tShould produce a %d-byte merkle root, got %d.", failed, signature.HashSize, len(tree.MerkleRoot))
		}
		t.Logf("\t%s\tShould produce a %d-byte merkle root.", success, signature.HashSize)

		if err := tree.VerifyData(txs[0]); err != nil {
			t.Fatalf("\t%s\tShould verify a known transaction's membership: %s", failed, err)
		}
		t.Logf("\t%s\tShould verify a known transaction's membership.", success)
	}
}

func Test_TreeRejectsUnknownTransaction(t *testing.T) {
	t.Log("Given a tree built from one set of transactions and a transaction outside it.")
	{
		aPub, aPriv, _ := signature.GenerateKey()
		bPub, _, _ := signature.GenerateKey()

		var txs []codec.Transaction
		for i := uint64(0); i < 3; i++ {
			body := codec.TransactionBody{From: aPub, To: bPub, Amount: 1, Nonce: i, TransactionFee: 0}
			sig, _ := signature.Sign(aPriv, signature.Hash256(body.Bytes()))
			txs = append(txs, codec.Transaction{Body: body, Signature: sig})
		}

		tree, err := merkle.NewTree(txs)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to build the tree: %s", failed, err)
		}

		outsideBody := codec.TransactionBody{From: aPub, To: bPub, Amount: 1, Nonce: 999, TransactionFee: 0}
		outsideSig, _ := signature.Sign(aPriv, signature.Hash256(outsideBody.Bytes()))
		outside := codec.Transaction{Body: outsideBody, Signature: outsideSig}

		if err := tree.VerifyData(outside); err == nil {
			t.Fatalf("\t%s\tShould reject a transaction that was never added to the tree.", failed)
		}
		t.Logf("\t%s\tShould reject a transaction that was never added to the tree.", success)
	}
}
