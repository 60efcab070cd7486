package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Entry is one committed record in the audit chain.
type Entry struct {
	Index     int    `json:"index"`
	Timestamp int64  `json:"timestamp"`
	PrevHash  string `json:"prev_hash"`
	Hash      string `json:"hash"`
	Stage     string `json:"stage"`
	Payload   any    `json:"payload,omitempty"`
}

// Ledger is an append-only, hash-chained log of committed pipeline stages
// and settlements. It gives a session a tamper-evident audit trail without
// persisting anything beyond the process.
type Ledger struct {
	mu      sync.RWMutex
	entries []Entry
}

// New creates a ledger with an initialized genesis entry. The genesis entry
// has index 0 and previous hash "0".
func New() *Ledger {
	l := &Ledger{}
	genesis := Entry{
		Index:     0,
		Timestamp: time.Now().Unix(),
		PrevHash:  "0",
		Stage:     "genesis",
	}
	genesis.Hash = calculateHash(genesis)
	l.entries = append(l.entries, genesis)
	return l
}

// Append commits a stage record to the chain. The payload must be JSON
// marshalable since it participates in the entry hash.
func (l *Ledger) Append(stage string, payload any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	latest := l.entries[len(l.entries)-1]
	entry := Entry{
		Index:     latest.Index + 1,
		Timestamp: time.Now().Unix(),
		PrevHash:  latest.Hash,
		Stage:     stage,
		Payload:   payload,
	}
	if _, err := json.Marshal(payload); err != nil {
		return fmt.Errorf("unhashable payload for stage %q: %w", stage, err)
	}
	entry.Hash = calculateHash(entry)

	if err := validateEntry(entry, latest); err != nil {
		return fmt.Errorf("invalid entry: %w", err)
	}
	l.entries = append(l.entries, entry)
	return nil
}

// Latest returns the most recently committed entry.
func (l *Ledger) Latest() (Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.entries) == 0 {
		return Entry{}, fmt.Errorf("ledger is empty")
	}
	return l.entries[len(l.entries)-1], nil
}

// Len returns the number of entries including genesis.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns a copy of the chain.
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Verify validates the integrity of the whole chain: the genesis entry, and
// each entry's hash, index continuity and previous-hash linkage.
func (l *Ledger) Verify() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.entries) == 0 {
		return fmt.Errorf("empty ledger")
	}
	if l.entries[0].PrevHash != "0" {
		return fmt.Errorf("invalid genesis entry")
	}

	for i := 1; i < len(l.entries); i++ {
		if err := validateEntry(l.entries[i], l.entries[i-1]); err != nil {
			return fmt.Errorf("entry %d invalid: %w", i, err)
		}
	}
	return nil
}

func validateEntry(current, previous Entry) error {
	if current.Index != previous.Index+1 {
		return fmt.Errorf("invalid index: expected %d, got %d", previous.Index+1, current.Index)
	}
	if current.PrevHash != previous.Hash {
		return fmt.Errorf("invalid prev hash: expected %s, got %s", previous.Hash, current.PrevHash)
	}
	if expected := calculateHash(current); current.Hash != expected {
		return fmt.Errorf("invalid hash: expected %s, got %s", expected, current.Hash)
	}
	return nil
}

func calculateHash(entry Entry) string {
	payloadBytes, _ := json.Marshal(entry.Payload)
	data := fmt.Sprintf("%d%d%s%s%s",
		entry.Index,
		entry.Timestamp,
		entry.PrevHash,
		entry.Stage,
		payloadBytes,
	)
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
