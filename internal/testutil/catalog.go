// Package testutil provides shared fixtures for the engine's test suites: a
// fully-populated node type catalog and seeded flow documents.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/flowforge/internal/catalog"
	"github.com/vk/flowforge/internal/flow"
	"github.com/vk/flowforge/internal/inmemorystore"
)

// catalogSource mirrors the shipped manifests closely enough for the
// engine's behaviour to be exercised without touching the filesystem.
const catalogSource = `
node "webhook_trigger" {
  category = "trigger"
}

node "http_request" {
  category   = "action"
  open_input = true

  output "statusCode" {
    type = number
  }
}

node "send_email" {
  category = "action"

  input "to" {
    type     = string
    required = true
  }
  input "subject" {
    type     = string
    required = true
  }

  output "messageId" {
    type = string
  }
}

node "ui_component" {
  category    = "interface"
  open_output = true
}

node "code_transform" {
  category    = "transform"
  description = "general purpose transform"
  open_input  = true
  open_output = true
}

node "field_mapper" {
  category    = "transform"
  description = "field projection"
  open_input  = true
  open_output = true
}

node "link" {
  category   = "return"
  open_input = true
}
`

// NewCatalog builds the registry every suite shares, with the builtin
// dynamic hooks bound and validated.
func NewCatalog(t *testing.T) *catalog.Registry {
	t.Helper()

	reg := catalog.New()
	require.NoError(t, reg.ParseManifestBytes([]byte(catalogSource), "testutil.hcl"))
	reg.RegisterHooks()
	require.NoError(t, reg.Validate())
	return reg
}

// SeedStore creates an in-memory store holding the given flow.
func SeedStore(t *testing.T, f *flow.Flow) *inmemorystore.Store {
	t.Helper()

	store := inmemorystore.New()
	store.Seed(f)
	return store
}

// EmptyFlow returns a flow document with the given id and no content.
func EmptyFlow(id string) *flow.Flow {
	return &flow.Flow{ID: id}
}
