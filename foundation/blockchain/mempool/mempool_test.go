package mempool_test

import (
	"testing"

	"github.com/gorbak25/simple-blockchain/foundation/blockchain/chainerr"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/codec"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/database"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/mempool"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
)

const (
	success = "✓"
	failed  = "✗"
)

func signTx(t *testing.T, from signature.PublicKey, priv signature.PrivateKey, to signature.PublicKey, amount, nonce, fee uint64) codec.Transaction {
	t.Helper()

	body := codec.TransactionBody{From: from, To: to, Amount: amount, Nonce: nonce, TransactionFee: fee}
	sig, err := signature.Sign(priv, signature.Hash256(body.Bytes()))
	if err != nil {
		t.Fatalf("\t%s\tShould be able to sign a transaction body: %s", failed, err)
	}

	return codec.Transaction{Body: body, Signature: sig}
}

func Test_RegisterAndSnapshot(t *testing.T) {
	t.Log("Given a funded account and a pool of one.")
	{
		store := database.New()
		aPub, aPriv, _ := signature.GenerateKey()
		bPub, _, _ := signature.GenerateKey()
		minerPub, _, _ := signature.GenerateKey()

		store.RewardMiner(aPub, 100)

		tx := signTx(t, aPub, aPriv, bPub, 50, 1, 1)

		pool := mempool.New()
		if err := pool.Register(tx, store); err != nil {
			t.Fatalf("\t%s\tShould be able to register a valid transaction: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to register a valid transaction.", success)

		if pool.Count() != 1 {
			t.Fatalf("\t%s\tShould have exactly one pending transaction, got %d.", failed, pool.Count())
		}

		snap := pool.Snapshot()
		if _, ok := snap[tx.HashValue()]; !ok {
			t.Fatalf("\t%s\tShould find the registered transaction in a snapshot.", failed)
		}
		t.Logf("\t%s\tShould find the registered transaction in a snapshot.", success)

		_ = minerPub
	}
}

func Test_RegisterRejectsBadSignature(t *testing.T) {
	t.Log("Given a transaction body signed by the wrong key.")
	{
		store := database.New()
		aPub, _, _ := signature.GenerateKey()
		_, wrongPriv, _ := signature.GenerateKey()
		bPub, _, _ := signature.GenerateKey()

		store.RewardMiner(aPub, 100)

		body := codec.TransactionBody{From: aPub, To: bPub, Amount: 10, Nonce: 1, TransactionFee: 0}
		sig, _ := signature.Sign(wrongPriv, signature.Hash256(body.Bytes()))
		tx := codec.Transaction{Body: body, Signature: sig}

		pool := mempool.New()
		err := pool.Register(tx, store)
		if !chainerr.Is(err, chainerr.InvalidSig) {
			t.Fatalf("\t%s\tShould reject registration with InvalidSig, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject registration with InvalidSig.", success)

		if pool.Count() != 0 {
			t.Fatalf("\t%s\tShould not have inserted the badly-signed transaction.", failed)
		}
	}
}

func Test_RemoveConfirmedEvictsInvalidated(t *testing.T) {
	t.Log("Given a pool with two pending transfers from the same funded account.")
	{
		store := database.New()
		aPub, aPriv, _ := signature.GenerateKey()
		bPub, _, _ := signature.GenerateKey()
		cPub, _, _ := signature.GenerateKey()
		minerPub, _, _ := signature.GenerateKey()

		store.RewardMiner(aPub, 100)

		tx1 := signTx(t, aPub, aPriv, bPub, 50, 1, 0)
		tx2 := signTx(t, aPub, aPriv, cPub, 60, 2, 0)

		pool := mempool.New()
		if err := pool.Register(tx1, store); err != nil {
			t.Fatalf("\t%s\tShould register tx1: %s", failed, err)
		}
		if err := pool.Register(tx2, store); err != nil {
			t.Fatalf("\t%s\tShould register tx2 (valid against pre-block state): %s", failed, err)
		}

		if err := store.ApplyTransactionBody(tx1.Body, minerPub); err != nil {
			t.Fatalf("\t%s\tShould apply tx1 as if it were confirmed in a block: %s", failed, err)
		}

		pool.RemoveConfirmed([]codec.Transaction{tx1}, store)

		if pool.Count() != 0 {
			t.Fatalf("\t%s\tShould evict tx2 as InsufficientFunds once A's balance drops to 50, got %d remaining.", failed, pool.Count())
		}
		t.Logf("\t%s\tShould evict tx2 as InsufficientFunds once A's balance drops to 50.", success)
	}
}

func Test_ReverifyKeepsStillValidEntries(t *testing.T) {
	t.Log("Given a pool with a transaction that remains valid after an unrelated block.")
	{
		store := database.New()
		aPub, aPriv, _ := signature.GenerateKey()
		bPub, _, _ := signature.GenerateKey()
		minerPub, _, _ := signature.GenerateKey()

		store.RewardMiner(aPub, 100)

		tx := signTx(t, aPub, aPriv, bPub, 10, 1, 0)

		pool := mempool.New()
		if err := pool.Register(tx, store); err != nil {
			t.Fatalf("\t%s\tShould register tx: %s", failed, err)
		}

		store.RewardMiner(minerPub, 5_000_000)
		pool.Reverify(store)

		if pool.Count() != 1 {
			t.Fatalf("\t%s\tShould keep the still-valid transaction after reverify, got %d remaining.", failed, pool.Count())
		}
		t.Logf("\t%s\tShould keep the still-valid transaction after reverify.", success)
	}
}
