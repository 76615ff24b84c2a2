package root

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/mixsearch/internal/config"
	"github.com/Paintersrp/mixsearch/internal/state"
)

func newRoot(t *testing.T) (*state.State, string) {
	t.Helper()
	viper.Reset()
	home := t.TempDir()
	cfg := config.Default(home)
	require.NoError(t, cfg.Save())
	loaded, err := config.Load(home)
	require.NoError(t, err)
	return state.New(home, loaded), home
}

func TestRootRegistersCommands(t *testing.T) {
	s, _ := newRoot(t)
	cmd := NewCmdRoot(s)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"tui", "search", "lookup", "import", "initialize"} {
		assert.Contains(t, names, want)
	}
}

func TestRootOpensStateForCommands(t *testing.T) {
	s, home := newRoot(t)
	cmd := NewCmdRoot(s)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"search", "anna", "--db", filepath.Join(home, "flag.db")})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "No results\n", out.String())
	assert.Nil(t, s.Store, "store is closed after the command")
	_, err := os.Stat(filepath.Join(home, "flag.db"))
	assert.NoError(t, err, "--db overrides the configured database")
}

func TestRootRejectsInvalidRegionFlag(t *testing.T) {
	s, _ := newRoot(t)
	cmd := NewCmdRoot(s)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"search", "anna", "--region", "ZZ"})
	assert.ErrorContains(t, cmd.Execute(), "invalid phone region")
}
