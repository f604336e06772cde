package dao

import (
	"context"
	"strings"
	"testing"

	"github.com/huangsam/clearance/schema"
	"github.com/stretchr/testify/require"
)

// fixtureYAML is an upload with a nested tree, two nomos runs, a failed monk run
// and three human events on the root item.
const fixtureYAML = `
upload:
  id: 1
  name: demo-1.0.tar.gz
  root:
    id: 100
    name: demo
    children:
      - id: 101
        name: LICENSE
      - id: 102
        name: src
        children:
          - id: 103
            name: main.c
licenses:
  - {id: 1, short_name: MIT, full_name: MIT License}
  - {id: 2, short_name: GPL-2.0, full_name: GNU General Public License v2.0}
  - {id: 3, short_name: Apache-2.0, full_name: Apache License 2.0}
  - {id: 4, short_name: No_license_found}
runs:
  - agent_id: 10
    agent: nomos
    revision: "4.0"
    matches:
      - {item: 101, license: GPL-2.0}
  - agent_id: 11
    agent: nomos
    revision: "4.1"
    matches:
      - {item: 101, license: MIT}
      - {item: 103, license: No_license_found}
  - agent_id: 12
    agent: monk
    revision: "1.0"
    success: false
    matches:
      - {item: 103, license: Apache-2.0, percentage: 88}
events:
  - {item: 100, user: 1, license: Apache-2.0, date: 2024-01-01T10:00:00Z}
  - {item: 100, user: 1, license: GPL-2.0, date: 2024-01-02T10:00:00Z}
  - {item: 100, user: 1, license: GPL-2.0, removed: true, date: 2024-01-03T10:00:00Z, comment: not shipped}
`

// newTestStore opens an in-memory SQLite store loaded with the fixture.
func newTestStore(t *testing.T) *ClearingStoreImpl {
	t.Helper()
	store, err := NewClearingStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	doc, err := ReadImportDocument(strings.NewReader(fixtureYAML))
	require.NoError(t, err)
	_, err = store.Import(context.Background(), doc)
	require.NoError(t, err)
	return store
}
