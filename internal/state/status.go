package state

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/mixsearch/internal/store"
)

// StoreStatsMsg notifies subscribers that the root status line was refreshed
// from the local store counts.
type StoreStatsMsg struct {
	Line string
	Err  error
}

// StoreHeartbeatCmd counts the searchable rows, updates the shared root
// status line and returns a message that consumers can use to rerender.
func (s *State) StoreHeartbeatCmd() tea.Cmd {
	if s == nil {
		return nil
	}

	return func() tea.Msg {
		if s.Store == nil {
			s.RootStatus.Set("")
			return StoreStatsMsg{}
		}

		stats, err := s.Store.Stats(context.Background())
		if err != nil {
			return StoreStatsMsg{Err: err}
		}

		line := formatStoreStatus(stats)
		s.RootStatus.Set(line)
		return StoreStatsMsg{Line: line}
	}
}

func formatStoreStatus(stats store.Stats) string {
	parts := []string{
		fmt.Sprintf("%d contacts", stats.Users),
		fmt.Sprintf("%d chats", stats.Conversations),
		fmt.Sprintf("%d messages", stats.Messages),
	}
	if stats.Assets > 0 {
		parts = append(parts, fmt.Sprintf("%d assets", stats.Assets))
	}
	return strings.Join(parts, " · ")
}
