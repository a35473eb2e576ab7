package sql_test

import (
	"fmt"
	"strings"
	"testing"

	"agcbo/internal/model"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *model.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	store, err := model.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}
