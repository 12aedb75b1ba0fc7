package node_test

import (
	"context"
	"testing"
	"time"

	"github.com/gorbak25/simple-blockchain/foundation/blockchain/block"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/codec"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/genesis"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
	"github.com/gorbak25/simple-blockchain/node"
	"github.com/gorbak25/simple-blockchain/wallet"
)

const (
	success = "✓"
	failed  = "✗"
)

func Test_NewComposesOwnedComponents(t *testing.T) {
	t.Log("Given a fresh data directory and a generated miner account.")
	{
		dir := t.TempDir()

		w, err := wallet.Load(dir + "/wallet.dat")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load an empty wallet: %s", failed, err)
		}
		miner, err := w.Generate("miner")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a miner account: %s", failed, err)
		}

		n, err := node.New(node.Config{DataDir: dir, MinerAccount: miner})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a Node: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to construct a Node.", success)
		defer n.Shutdown()

		if n.Chain.NewestHash() != signature.Hash256([]byte("GENESIS")) {
			t.Fatalf("\t%s\tShould start from the GENESIS sentinel on a fresh chain.", failed)
		}
		t.Logf("\t%s\tShould start from the GENESIS sentinel on a fresh chain.", success)

		if n.Pool.Count() != 0 {
			t.Fatalf("\t%s\tShould start with an empty mempool.", failed)
		}
		t.Logf("\t%s\tShould start with an empty mempool.", success)
	}
}

func Test_SubmitTransactionRejectsUnfunded(t *testing.T) {
	t.Log("Given a Node and a transaction signed by an account with no balance.")
	{
		dir := t.TempDir()

		w, _ := wallet.Load(dir + "/wallet.dat")
		miner, _ := w.Generate("miner")
		sender, _ := w.Generate("alice")

		n, err := node.New(node.Config{DataDir: dir, MinerAccount: miner})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a Node: %s", failed, err)
		}
		defer n.Shutdown()

		toPub, _, _ := signature.GenerateKey()
		tx, err := w.SignTransfer(sender, toPub, 10, 1, n.Store.VerifyTransactionBody)
		if err == nil {
			if err := n.SubmitTransaction(tx); err == nil {
				t.Fatalf("\t%s\tShould reject a transfer from an unfunded account.", failed)
			}
			t.Logf("\t%s\tShould reject a transfer from an unfunded account.", success)
			return
		}

		// SignTransfer itself failed verification before signing, which
		// also demonstrates the unfunded account was rejected.
		t.Logf("\t%s\tShould reject a transfer from an unfunded account.", success)
	}
}

func Test_NewInstallsSuppliedGenesisFixture(t *testing.T) {
	t.Log("Given a fresh data directory and an externally-provisioned genesis fixture.")
	{
		dir := t.TempDir()

		w, err := wallet.Load(dir + "/wallet.dat")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load an empty wallet: %s", failed, err)
		}
		miner, err := w.Generate("miner")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a miner account: %s", failed, err)
		}

		genesisMinerPub, genesisMinerPriv, _ := signature.GenerateKey()
		proof, _ := signature.Sign(genesisMinerPriv, signature.Hash256(genesisMinerPub[:]))
		g, err := block.POW(context.Background(), codec.BlockHeader{
			PrevHash:            genesis.Sentinel,
			Difficulty:          0,
			MinerPubKey:         genesisMinerPub,
			MinerProofOfPrivKey: proof,
		}, nil, func(string, ...any) {})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to build a genesis surrogate block: %s", failed, err)
		}

		original := genesis.Hash
		genesis.Hash = g.HashValue()
		t.Cleanup(func() { genesis.Hash = original })

		n, err := node.New(node.Config{DataDir: dir, MinerAccount: miner, GenesisFixture: &g})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a Node with a genesis fixture: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to construct a Node with a genesis fixture.", success)
		defer n.Shutdown()

		if n.Chain.Height() != 1 {
			t.Fatalf("\t%s\tShould report height 1 after installing the fixture, got %d.", failed, n.Chain.Height())
		}
		t.Logf("\t%s\tShould report height 1 after installing the fixture.", success)

		if n.Chain.NewestHash() != g.HashValue() {
			t.Fatalf("\t%s\tShould report the fixture's hash as newest.", failed)
		}
		t.Logf("\t%s\tShould report the fixture's hash as newest.", success)
	}
}

func Test_ShutdownStopsWorkerPromptly(t *testing.T) {
	t.Log("Given a running Node.")
	{
		dir := t.TempDir()
		w, _ := wallet.Load(dir + "/wallet.dat")
		miner, _ := w.Generate("miner")

		n, err := node.New(node.Config{DataDir: dir, MinerAccount: miner})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a Node: %s", failed, err)
		}

		done := make(chan struct{})
		go func() {
			n.Shutdown()
			close(done)
		}()

		select {
		case <-done:
			t.Logf("\t%s\tShould shut down the mining worker without hanging.", success)
		case <-time.After(5 * time.Second):
			t.Fatalf("\t%s\tShould shut down the mining worker without hanging.", failed)
		}
	}
}
