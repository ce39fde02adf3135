package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kwasow/tabtime/internal/track"
)

var (
	segmentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	instanceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// RenderTree renders a session's segment tree, one node per line, children
// indented under their parent. Siblings are sorted for stable output.
func RenderTree(snap *track.Snapshot) string {
	var b strings.Builder
	if len(snap.Data) == 0 {
		return dimStyle.Render("(no tracked URLs)") + "\n"
	}
	renderNodes(&b, snap.Data, 0)
	return b.String()
}

func renderNodes(b *strings.Builder, nodes map[string]*track.SnapshotNode, depth int) {
	segments := make([]string, 0, len(nodes))
	for segment := range nodes {
		segments = append(segments, segment)
	}
	sort.Strings(segments)

	for _, segment := range segments {
		n := nodes[segment]
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(segmentStyle.Render(segment))
		if n.AggregateTime > 0 {
			b.WriteString("  " + timeStyle.Render(formatDuration(n.AggregateTime)))
		} else {
			b.WriteString("  " + dimStyle.Render("—"))
		}
		if len(n.Instances) > 0 {
			active := 0
			for _, ti := range n.Instances {
				if ti.LastOpened != nil {
					active++
				}
			}
			b.WriteString("  " + instanceStyle.Render(
				fmt.Sprintf("[%d tabs, %d active]", len(n.Instances), active)))
		}
		b.WriteString("\n")
		renderNodes(b, n.Children, depth+1)
	}
}

// formatDuration renders milliseconds as a compact h/m/s string.
func formatDuration(ms uint64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	seconds := ms / 1000
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	seconds = seconds % 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %02ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
