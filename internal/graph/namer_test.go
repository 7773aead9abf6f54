package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"New Lead!", "new_lead"},
		{"already_slugged", "already_slugged"},
		{"  spaces   everywhere  ", "spaces_everywhere"},
		{"MixedCase123", "mixedcase123"},
		{"!!!", "tool"},
		{"", "tool"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}
}

func TestToolNames(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	names := NewToolNames()

	first, err := names.ToolName(ctx, "Send Report", "node-1")
	require.NoError(t, err)
	assert.Equal(t, "send_report", first)

	second, err := names.ToolName(ctx, "Send Report", "node-2")
	require.NoError(t, err)
	assert.Equal(t, "send_report_2", second)

	third, err := names.ToolName(ctx, "Send Report", "node-3")
	require.NoError(t, err)
	assert.Equal(t, "send_report_3", third)

	t.Run("rename does not collide with the node's own claim", func(t *testing.T) {
		same, err := names.ToolName(ctx, "Send Report", "node-1")
		require.NoError(t, err)
		assert.Equal(t, "send_report", same)
	})

	t.Run("rename releases the previous claim", func(t *testing.T) {
		moved, err := names.ToolName(ctx, "Weekly Report", "node-2")
		require.NoError(t, err)
		assert.Equal(t, "weekly_report", moved)

		// node-2's old claim on send_report_2 is free again.
		reclaimed, err := names.ToolName(ctx, "Send Report", "node-4")
		require.NoError(t, err)
		assert.Equal(t, "send_report_2", reclaimed)
	})
}
