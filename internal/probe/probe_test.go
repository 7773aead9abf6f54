package probe_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowforge/internal/flow"
	"github.com/vk/flowforge/internal/flowstore"
	"github.com/vk/flowforge/internal/probe"
	"github.com/vk/flowforge/internal/schema"
	"github.com/vk/flowforge/internal/testutil"
)

func seedCallNode(t *testing.T, params map[string]any) (*probe.Prober, flowstore.Store) {
	t.Helper()

	f := testutil.EmptyFlow("f1")
	f.Nodes = []*flow.Node{{ID: "n1", Type: "http_request", Name: "Fetch", Parameters: params}}
	store := testutil.SeedStore(t, f)
	p := probe.New(store)
	t.Cleanup(func() { _ = p.Close() })
	return p, store
}

func TestTestCall_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 7, "name": "widget"})
	}))
	defer srv.Close()

	p, store := seedCallNode(t, map[string]any{
		"url": srv.URL + "/items/{{itemId}}",
		"headers": map[string]any{
			"Authorization": "Bearer {{token}}",
		},
	})

	res, err := p.TestCall(ctx, "f1", "n1", map[string]string{
		"itemId": "7",
		"token":  "secret",
	}, 0)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Bearer secret", gotAuth)

	require.NotNil(t, res.Schema)
	assert.Equal(t, schema.KindNumber, res.Schema.Properties["id"].Kind)
	assert.Equal(t, schema.KindString, res.Schema.Properties["name"].Kind)

	// The inferred schema is persisted on the node.
	persisted, err := store.LoadFlow(ctx, "f1")
	require.NoError(t, err)
	assert.Contains(t, persisted.Nodes[0].Parameters, flow.ParamOutputSchema)
}

func TestTestCall_PlaceholdersFromNodeParameters(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	// String parameters on the node itself back placeholders when no mock
	// overrides them.
	p, _ := seedCallNode(t, map[string]any{
		"url":    srv.URL + "/users/{{userId}}",
		"userId": "42",
	})

	res, err := p.TestCall(context.Background(), "f1", "n1", nil, 0)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "/users/42", gotPath)
}

func TestTestCall_UnresolvedPlaceholder(t *testing.T) {
	t.Parallel()

	p, _ := seedCallNode(t, map[string]any{
		"url": "http://example.invalid/items/{{itemId}}",
	})

	// Rejected before any network I/O.
	_, err := p.TestCall(context.Background(), "f1", "n1", nil, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "itemId")
}

func TestTestCall_NonJSONBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream broke</html>"))
	}))
	defer srv.Close()

	p, _ := seedCallNode(t, map[string]any{"url": srv.URL})

	res, err := p.TestCall(context.Background(), "f1", "n1", nil, 0)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
	assert.Contains(t, res.Error, "not valid JSON")
	assert.Nil(t, res.Schema)
}

func TestTestCall_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	p, _ := seedCallNode(t, map[string]any{"url": srv.URL})

	res, err := p.TestCall(context.Background(), "f1", "n1", nil, 50*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "timed out")
}

func TestTestCall_NetworkError(t *testing.T) {
	t.Parallel()

	// A closed server is a plain connection failure, not a timeout.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p, _ := seedCallNode(t, map[string]any{"url": srv.URL})

	res, err := p.TestCall(context.Background(), "f1", "n1", nil, 0)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "request failed")
}

func TestTestCall_InputErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("wrong node type", func(t *testing.T) {
		f := testutil.EmptyFlow("f1")
		f.Nodes = []*flow.Node{{ID: "n1", Type: "code_transform", Name: "Map"}}
		p := probe.New(testutil.SeedStore(t, f))
		t.Cleanup(func() { _ = p.Close() })

		_, err := p.TestCall(ctx, "f1", "n1", nil, 0)
		assert.ErrorIs(t, err, probe.ErrWrongNodeType)
	})

	t.Run("missing url", func(t *testing.T) {
		p, _ := seedCallNode(t, nil)
		_, err := p.TestCall(ctx, "f1", "n1", nil, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "url")
	})

	t.Run("missing flow and node", func(t *testing.T) {
		p, _ := seedCallNode(t, map[string]any{"url": "http://example.invalid"})
		_, err := p.TestCall(ctx, "ghost", "n1", nil, 0)
		assert.True(t, flowstore.IsNotFound(err))
		_, err = p.TestCall(ctx, "f1", "ghost", nil, 0)
		assert.True(t, flowstore.IsNotFound(err))
	})
}
