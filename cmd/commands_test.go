package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFamilyNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "families.txt")
	require.NoError(t, os.WriteFile(path, []byte("# reference list\nAraceae\n\n  Rosaceae  \nAraceae\n"), 0o644))

	names, err := readFamilyNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Araceae", "Rosaceae"}, names)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "import", "seed-families"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}
