package main

import (
	"os"
	"path/filepath"
	"testing"

	"paintbrawl/internal/engine"
	"paintbrawl/internal/protocol"
)

type nopSender struct{}

func (nopSender) Send(string, any) error { return nil }

func TestDumpJournalWritesHandledMessages(t *testing.T) {
	eng := engine.New(engine.Config{
		ViewportW: viewportW,
		ViewportH: viewportH,
		AccountID: 1,
	}, nopSender{}, nil)

	b, err := protocol.Encode(protocol.MsgNewPlayer, protocol.PlayerSnapshot{ID: 1, Name: "a", Health: 100})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	env, err := protocol.DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	eng.HandleMessage(env)

	path := filepath.Join(t.TempDir(), "journal.bin")
	if err := dumpJournal(eng, path); err != nil {
		t.Fatalf("dumpJournal: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat journal: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("journal file is empty")
	}
}
