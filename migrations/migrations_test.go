package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryUpHasADown(t *testing.T) {
	files, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	names := map[string]bool{}
	for _, f := range files {
		names[f] = true
	}
	for _, f := range files {
		if strings.HasSuffix(f, ".up.sql") {
			assert.True(t, names[strings.TrimSuffix(f, ".up.sql")+".down.sql"], "missing down for %s", f)
		}
	}
}

func TestSocialAccountsHasActiveUniqueIndex(t *testing.T) {
	data, err := fs.ReadFile(FS, "000002_create_social_accounts.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "WHERE is_active")
}
