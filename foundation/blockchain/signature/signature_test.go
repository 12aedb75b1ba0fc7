package signature_test

import (
	"testing"

	"github.com/gorbak25/simple-blockchain/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_SignAndVerify(t *testing.T) {
	t.Log("Given the need to sign a digest and verify the signature.")
	{
		pub, priv, err := signature.GenerateKey()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a key pair: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to generate a key pair.", success)

		digest := signature.Hash256([]byte("hello, chain"))

		sig, err := signature.Sign(priv, digest)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign a digest: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to sign a digest.", success)

		if !signature.Verify(pub, digest, sig) {
			t.Fatalf("\t%s\tShould be able to verify the signature.", failed)
		}
		t.Logf("\t%s\tShould be able to verify the signature.", success)
	}
}

func Test_VerifyRejectsWrongKey(t *testing.T) {
	t.Log("Given a signature produced by one key and a different public key.")
	{
		_, priv, err := signature.GenerateKey()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a key pair: %s", failed, err)
		}

		otherPub, _, err := signature.GenerateKey()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a second key pair: %s", failed, err)
		}

		digest := signature.Hash256([]byte("hello, chain"))

		sig, err := signature.Sign(priv, digest)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign a digest: %s", failed, err)
		}

		if signature.Verify(otherPub, digest, sig) {
			t.Fatalf("\t%s\tShould reject a signature verified against the wrong key.", failed)
		}
		t.Logf("\t%s\tShould reject a signature verified against the wrong key.", success)
	}
}

func Test_VerifyRejectsTamperedDigest(t *testing.T) {
	t.Log("Given a signature produced over one digest and a different digest.")
	{
		pub, priv, err := signature.GenerateKey()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a key pair: %s", failed, err)
		}

		digest := signature.Hash256([]byte("hello, chain"))
		tampered := signature.Hash256([]byte("hello, chains"))

		sig, err := signature.Sign(priv, digest)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign a digest: %s", failed, err)
		}

		if signature.Verify(pub, tampered, sig) {
			t.Fatalf("\t%s\tShould reject a signature verified against a different digest.", failed)
		}
		t.Logf("\t%s\tShould reject a signature verified against a different digest.", success)
	}
}

func Test_Hash256Consistency(t *testing.T) {
	t.Log("Given the need to hash data deterministically.")
	{
		h1 := signature.Hash256([]byte("same input"))
		h2 := signature.Hash256([]byte("same input"))

		if h1 != h2 {
			t.Fatalf("\t%s\tShould get back the same hash twice.", failed)
		}
		t.Logf("\t%s\tShould get back the same hash twice.", success)
	}
}
