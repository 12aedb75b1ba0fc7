package block_test

import (
	"context"
	"testing"

	"github.com/gorbak25/simple-blockchain/foundation/blockchain/block"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/chainerr"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/codec"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/database"
	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
)

const (
	success = "✓"
	failed  = "✗"
)

func mineHeader(t *testing.T, prevHash signature.Hash, difficulty uint8) (codec.Block, signature.PublicKey, signature.PrivateKey) {
	t.Helper()

	minerPub, minerPriv, err := signature.GenerateKey()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a miner key pair: %s", failed, err)
	}

	proof, err := signature.Sign(minerPriv, signature.Hash256(minerPub[:]))
	if err != nil {
		t.Fatalf("\t%s\tShould be able to produce a miner proof: %s", failed, err)
	}

	header := codec.BlockHeader{
		PrevHash:            prevHash,
		Difficulty:          difficulty,
		MinerPubKey:         minerPub,
		MinerProofOfPrivKey: proof,
	}

	b, err := block.POW(context.Background(), header, nil, func(string, ...any) {})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to mine a block at low difficulty: %s", failed, err)
	}

	return b, minerPub, minerPriv
}

func Test_PowAcceptsMinedBlock(t *testing.T) {
	t.Log("Given a block mined to satisfy difficulty 8.")
	{
		b, _, _ := mineHeader(t, signature.Hash256([]byte("GENESIS")), 8)

		if err := block.VerifyPow(b); err != nil {
			t.Fatalf("\t%s\tShould accept the mined block's PoW: %s", failed, err)
		}
		t.Logf("\t%s\tShould accept the mined block's PoW.", success)
	}
}

func Test_VerifyMinerSignature(t *testing.T) {
	t.Log("Given a block with a valid miner self-proof.")
	{
		b, _, _ := mineHeader(t, signature.Hash256([]byte("GENESIS")), 1)

		if err := block.VerifyMinerSignature(b); err != nil {
			t.Fatalf("\t%s\tShould accept a valid miner proof: %s", failed, err)
		}
		t.Logf("\t%s\tShould accept a valid miner proof.", success)

		tampered := b
		otherPub, _, _ := signature.GenerateKey()
		tampered.Header.MinerPubKey = otherPub
		if err := block.VerifyMinerSignature(tampered); !chainerr.Is(err, chainerr.InvalidMinerSig) {
			t.Fatalf("\t%s\tShould reject a proof against a substituted miner key with InvalidMinerSig, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject a proof against a substituted miner key with InvalidMinerSig.", success)
	}
}

func Test_VerifyBodyRejectsTooMany(t *testing.T) {
	t.Log("Given a block body with more than 100 transactions.")
	{
		store := database.New()
		aPub, _, _ := signature.GenerateKey()
		bPub, _, _ := signature.GenerateKey()
		store.RewardMiner(aPub, 1_000_000)

		var txs []codec.Transaction
		for i := 0; i < 101; i++ {
			txs = append(txs, codec.Transaction{
				Body: codec.TransactionBody{From: aPub, To: bPub, Amount: 1, Nonce: uint64(i), TransactionFee: 0},
			})
		}

		err := block.VerifyBody(txs, store)
		if !chainerr.Is(err, chainerr.TooManyTransactions) {
			t.Fatalf("\t%s\tShould reject 101 transactions with TooManyTransactions, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject 101 transactions with TooManyTransactions.", success)
	}
}

func Test_VerifyFullPipelineOrder(t *testing.T) {
	t.Log("Given a block whose PoW is invalid.")
	{
		store := database.New()
		minerPub, minerPriv, _ := signature.GenerateKey()
		proof, _ := signature.Sign(minerPriv, signature.Hash256(minerPub[:]))

		b := codec.Block{
			Header: codec.BlockHeader{
				PrevHash:            signature.Hash256([]byte("GENESIS")),
				Difficulty:          64,
				Nonce:               0,
				MinerPubKey:         minerPub,
				MinerProofOfPrivKey: proof,
			},
		}

		err := block.Verify(b, store)
		if !chainerr.Is(err, chainerr.InvalidPow) {
			t.Fatalf("\t%s\tShould fail on PoW before checking anything else, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould fail on PoW before checking anything else.", success)
	}
}
