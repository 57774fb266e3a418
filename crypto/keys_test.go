package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/weavetest/assert"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivKeyEd25519()
	public := private.PublicKey()

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig, err := private.Sign(msg)
	assert.Nil(t, err)
	sig2, err := private.Sign(msg2)
	assert.Nil(t, err)

	bz, err := sig.Marshal()
	assert.Nil(t, err)
	bz2, err := sig2.Marshal()
	assert.Nil(t, err)
	if bytes.Equal(bz, bz2) {
		t.Fatal("marshaling different signatures produce the same binary representation")
	}

	if !public.Verify(msg, sig) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if !public.Verify(msg2, sig2) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if public.Verify(msg, sig2) {
		t.Fatal("verified message signature of the wrong message")
	}
	if public.Verify(msg, &Signature{}) {
		t.Fatal("verified an empty signature of a message")
	}
	if public.Verify(msg, nil) {
		t.Fatal("verified a nil signature of a message")
	}
	if GenPrivKeyEd25519().PublicKey().Verify(msg, sig) {
		t.Fatal("verified a signature with a different key")
	}
}

func TestEd25519Address(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	pub2 := GenPrivKeyEd25519().PublicKey()

	assert.Nil(t, pub.Condition().Validate())
	assert.Nil(t, pub.Address().Validate())
	if pub.Address().Equals(pub2.Address()) {
		t.Fatal("different keys produce the same address")
	}
	if !pub.Equals(pub) || pub.Equals(pub2) {
		t.Fatal("invalid key comparison")
	}

	var empty *PublicKey
	assert.Equal(t, 0, len(empty.Condition()))
	assert.IsErr(t, errors.ErrEmpty, empty.Validate())
	assert.IsErr(t, errors.ErrInvalidInput, (&PublicKey{Ed25519: []byte{1, 2}}).Validate())
}

func TestKeySerialization(t *testing.T) {
	priv := PrivKeyEd25519FromSeed(bytes.Repeat([]byte{7}, 32))

	raw, err := priv.Marshal()
	assert.Nil(t, err)
	var loaded PrivateKey
	assert.Nil(t, loaded.Unmarshal(raw))
	assert.Equal(t, priv.Ed25519, loaded.Ed25519)

	raw, err = priv.PublicKey().Marshal()
	assert.Nil(t, err)
	var pub PublicKey
	assert.Nil(t, pub.Unmarshal(raw))
	if !pub.Equals(priv.PublicKey()) {
		t.Fatal("public key changed after serialization")
	}
}

func TestDeriveKey(t *testing.T) {
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	assert.Nil(t, err)

	a, err := DeriveKey(seed, DefaultDerivationPath)
	assert.Nil(t, err)
	b, err := DeriveKey(seed, DefaultDerivationPath)
	assert.Nil(t, err)
	if !a.PublicKey().Equals(b.PublicKey()) {
		t.Fatal("derivation is not deterministic")
	}

	other, err := DeriveKey(seed, "m/44'/234'/1'")
	assert.Nil(t, err)
	if a.PublicKey().Equals(other.PublicKey()) {
		t.Fatal("different paths produce the same key")
	}

	_, err = DeriveKey(seed, "m/44/234")
	assert.IsErr(t, errors.ErrInvalidInput, err)

	_, err = DeriveKey([]byte("short"), DefaultDerivationPath)
	assert.IsErr(t, errors.ErrInvalidInput, err)
}
