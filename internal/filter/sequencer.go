package filter

import "sync"

// Sequencer implements last-write-wins for query results. A result is
// tagged with the Seq of the State it was computed for; once a result for a
// newer State has been accepted, results for older States are stale.
type Sequencer struct {
	mu       sync.Mutex
	accepted uint64
}

// Accept reports whether a result computed for seq may still be shown.
// Equal seqs are accepted so a repeated read of the same State is not stale.
func (s *Sequencer) Accept(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.accepted {
		return false
	}
	s.accepted = seq
	return true
}

// Latest returns the newest accepted seq.
func (s *Sequencer) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted
}
