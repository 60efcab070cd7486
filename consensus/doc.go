// Package consensus aggregates per-device consent records into a
// network-wide verdict.
//
// # Verdict rules
//
// The rules are evaluated in order:
//  1. Any reject vote vetoes the session, regardless of accept count.
//  2. Accepts reaching floor(N/2) over N session devices verify it.
//  3. Otherwise the session is pending further responses.
//
// Devices that have not voted yet are excluded from every bucket but still
// count toward N. Records whose signature does not verify against the
// device's key are ignored entirely, so a forged vote can neither veto nor
// help verify a session.
package consensus
