package engine

import (
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"paintbrawl/internal/protocol"
)

// journalDefaultCap bounds the journal so a long session cannot grow
// the client without limit.
const journalDefaultCap = 4096

// JournalEntry is one inbound envelope with the time it was handled.
type JournalEntry struct {
	At   time.Time `msgpack:"at"`
	Type string    `msgpack:"type"`
	Data []byte    `msgpack:"data"`
}

// Journal keeps a bounded ring of recently handled inbound messages.
// When two clients disagree about an outcome (a hit one saw and the
// other did not), dumping both journals shows the message orders that
// produced the divergence.
type Journal struct {
	entries []JournalEntry
	next    int
	full    bool
}

func NewJournal() *Journal {
	return &Journal{entries: make([]JournalEntry, journalDefaultCap)}
}

// Record appends one handled envelope, overwriting the oldest entry
// once the ring is full.
func (j *Journal) Record(env protocol.Envelope) {
	j.entries[j.next] = JournalEntry{
		At:   time.Now(),
		Type: env.Type,
		Data: append([]byte(nil), env.Data...),
	}
	j.next++
	if j.next == len(j.entries) {
		j.next = 0
		j.full = true
	}
}

// Len reports how many entries are held.
func (j *Journal) Len() int {
	if j.full {
		return len(j.entries)
	}
	return j.next
}

// Dump writes the held entries, oldest first, msgpack-encoded.
func (j *Journal) Dump(w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	if j.full {
		for _, e := range j.entries[j.next:] {
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
	}
	for _, e := range j.entries[:j.next] {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}
