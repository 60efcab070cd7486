package consensus

import (
	"github.com/obinexus/blueshare/domain/mesh"
)

// Verdict is the network-wide outcome of a consensus round.
type Verdict string

const (
	VerdictVerified Verdict = "verified"
	VerdictRejected Verdict = "rejected"
	VerdictPending  Verdict = "pending"
)

// Tally counts consent states across a session's devices.
type Tally struct {
	Accept    int
	Reject    int
	Ambiguous int
}

// Voted returns how many devices produced a countable record.
func (t Tally) Voted() int {
	return t.Accept + t.Reject + t.Ambiguous
}

// Aggregator combines per-device consent into a session verdict.
type Aggregator struct{}

// Tally counts the current consent records. Devices without a record are
// skipped; records that fail signature verification are skipped as well.
func (Aggregator) Tally(s *mesh.Session) Tally {
	var t Tally
	for _, d := range s.Devices {
		rec := d.Consent
		if rec == nil {
			continue
		}
		if ok, err := rec.VerifySignature(d.PublicKey()); err != nil || !ok {
			continue
		}
		switch rec.State {
		case mesh.ConsentAccept:
			t.Accept++
		case mesh.ConsentReject:
			t.Reject++
		case mesh.ConsentAmbiguous:
			t.Ambiguous++
		}
	}
	return t
}

// Decide tallies the session and applies the verdict rules. A session with
// no devices is pending: the majority formula would trivially verify N=0,
// and an empty network must never activate on that technicality.
func (a Aggregator) Decide(s *mesh.Session) (Verdict, Tally) {
	t := a.Tally(s)
	total := len(s.Devices)

	switch {
	case total == 0:
		return VerdictPending, t
	case t.Reject > 0:
		return VerdictRejected, t
	case t.Accept >= total/2:
		return VerdictVerified, t
	default:
		return VerdictPending, t
	}
}

// Verify reports whether the session reached a verified verdict.
func (a Aggregator) Verify(s *mesh.Session) bool {
	verdict, _ := a.Decide(s)
	return verdict == VerdictVerified
}
