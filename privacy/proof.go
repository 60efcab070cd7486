package privacy

import (
	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/sign/schnorr"
	"go.dedis.ch/kyber/v4/suites"
	"go.dedis.ch/kyber/v4/util/random"
)

var suite suites.Suite = suites.MustFind("Ed25519")

// Identity is a device's proving keypair. The private scalar never leaves
// the device; the public point is what verifiers pin alongside the ZeroID.
type Identity struct {
	priv kyber.Scalar
	Pub  kyber.Point
}

// NewIdentity generates a keypair on the suite's group.
func NewIdentity() Identity {
	priv := suite.Scalar().Pick(suite.RandomStream())
	return Identity{
		priv: priv,
		Pub:  suite.Point().Mul(priv, nil),
	}
}

// Challenge draws a fresh 32-byte challenge for a proof round.
func Challenge() []byte {
	c := make([]byte, 32)
	random.Bytes(c, random.New())
	return c
}

// Prove signs the challenge, demonstrating possession of the identity's
// private scalar without revealing it.
func (id Identity) Prove(challenge []byte) ([]byte, error) {
	return schnorr.Sign(suite, id.priv, challenge)
}

// VerifyProof checks a proof against the identity's public point and the
// challenge it was issued for.
func VerifyProof(pub kyber.Point, challenge, proof []byte) error {
	return schnorr.Verify(suite, pub, challenge, proof)
}
