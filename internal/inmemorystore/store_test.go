package inmemorystore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowforge/internal/flow"
	"github.com/vk/flowforge/internal/flowstore"
	"github.com/vk/flowforge/internal/inmemorystore"
)

func TestLoadFlow_NotFound(t *testing.T) {
	t.Parallel()

	store := inmemorystore.New()
	_, err := store.LoadFlow(context.Background(), "missing")
	assert.ErrorIs(t, err, flowstore.ErrNotFound)
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := inmemorystore.New()
	original := &flow.Flow{
		ID:   "f1",
		Name: "Orders",
		Nodes: []*flow.Node{
			{ID: "n1", Type: "code_transform", Name: "Map", Parameters: map[string]any{"k": "v"}},
		},
	}
	require.NoError(t, store.SaveFlow(ctx, original))

	loaded, err := store.LoadFlow(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "Orders", loaded.Name)
	require.Len(t, loaded.Nodes, 1)
	assert.Equal(t, "v", loaded.Nodes[0].Parameters["k"])
}

func TestLoad_ReturnsACopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := inmemorystore.New()
	store.Seed(&flow.Flow{
		ID:    "f1",
		Nodes: []*flow.Node{{ID: "n1", Name: "Before", Parameters: map[string]any{"k": "old"}}},
	})

	loaded, err := store.LoadFlow(ctx, "f1")
	require.NoError(t, err)
	loaded.Nodes[0].Name = "After"
	loaded.Nodes[0].Parameters["k"] = "new"

	// Mutation without SaveFlow must not leak back into the store.
	reloaded, err := store.LoadFlow(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "Before", reloaded.Nodes[0].Name)
	assert.Equal(t, "old", reloaded.Nodes[0].Parameters["k"])
}

func TestSave_LastWriterWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := inmemorystore.New()
	store.Seed(&flow.Flow{ID: "f1", Name: "v1"})

	first, err := store.LoadFlow(ctx, "f1")
	require.NoError(t, err)
	second, err := store.LoadFlow(ctx, "f1")
	require.NoError(t, err)

	first.Name = "from-first"
	second.Name = "from-second"
	require.NoError(t, store.SaveFlow(ctx, first))
	require.NoError(t, store.SaveFlow(ctx, second))

	final, err := store.LoadFlow(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "from-second", final.Name)
}
