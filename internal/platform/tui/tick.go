// Package tui provides the Bubble Tea front end for the snake game.
// It maps keys to session intents and renders session snapshots.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/session"
)

// SnapshotMsg carries the latest session state into the Bubble Tea loop.
// The session clock drives updates; the UI never ticks on its own.
type SnapshotMsg struct {
	Snapshot session.Snapshot
	feed     *session.Feed
}

// feedClosedMsg is sent once the feed stops delivering.
type feedClosedMsg struct {
	feed *session.Feed
}

// waitForSnapshot blocks until the feed produces a snapshot. The model
// re-issues it after every SnapshotMsg to keep listening. Messages carry
// their feed so a model ignores deliveries meant for an earlier game.
func waitForSnapshot(feed *session.Feed) tea.Cmd {
	return func() tea.Msg {
		select {
		case snap := <-feed.C():
			return SnapshotMsg{Snapshot: snap, feed: feed}
		case <-feed.Done():
			return feedClosedMsg{feed: feed}
		}
	}
}
