package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Paintersrp/mixsearch/internal/model"
	"github.com/Paintersrp/mixsearch/internal/store"
)

func TestFormatStoreStatusIncludesAssets(t *testing.T) {
	t.Parallel()

	got := formatStoreStatus(store.Stats{Users: 3, Conversations: 2, Messages: 10, Assets: 1})
	want := "3 contacts · 2 chats · 10 messages · 1 assets"
	if got != want {
		t.Fatalf("formatStoreStatus mismatch: got %q, want %q", got, want)
	}
}

func TestFormatStoreStatusOmitsAssetsWhenZero(t *testing.T) {
	t.Parallel()

	got := formatStoreStatus(store.Stats{})
	want := "0 contacts · 0 chats · 0 messages"
	if got != want {
		t.Fatalf("formatStoreStatus mismatch: got %q, want %q", got, want)
	}
}

func TestStoreHeartbeatClearsWhenStoreNil(t *testing.T) {
	t.Parallel()

	st := &State{RootStatus: &RootStatus{}}
	st.RootStatus.Set("stale")

	cmd := st.StoreHeartbeatCmd()
	if cmd == nil {
		t.Fatalf("expected heartbeat command")
	}

	msg, ok := cmd().(StoreStatsMsg)
	if !ok {
		t.Fatalf("expected StoreStatsMsg")
	}
	if msg.Line != "" {
		t.Fatalf("expected empty line, got %q", msg.Line)
	}
	if got := st.RootStatus.Value(); got != "" {
		t.Fatalf("expected root status to be cleared, got %q", got)
	}
}

func TestStoreHeartbeatCountsRows(t *testing.T) {
	t.Parallel()

	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	if err := db.UpsertUsers(context.Background(), model.User{ID: "u1", FullName: "Anna"}); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	st := &State{Store: db, RootStatus: &RootStatus{}}
	msg := st.StoreHeartbeatCmd()().(StoreStatsMsg)
	if msg.Err != nil {
		t.Fatalf("unexpected error: %v", msg.Err)
	}
	want := "1 contacts · 0 chats · 0 messages"
	if msg.Line != want || st.RootStatus.Value() != want {
		t.Fatalf("expected %q, got msg %q and status %q", want, msg.Line, st.RootStatus.Value())
	}
}

func TestCloseIsNilSafe(t *testing.T) {
	var st *State
	if err := st.Close(); err != nil {
		t.Fatalf("expected nil state to close cleanly, got %v", err)
	}
}
