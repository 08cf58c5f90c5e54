package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := []string{}
	for _, c := range RootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "reset", "version"})

	require.NotNil(t, RootCmd.PersistentFlags().Lookup("config"))
	require.NotNil(t, RootCmd.PersistentFlags().Lookup("debug"))
}

func TestResetCmd_RequiresTarget(t *testing.T) {
	RootCmd.SetArgs([]string{"reset"})
	RootCmd.SetOut(&bytes.Buffer{})
	RootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() { RootCmd.SetArgs(nil) })

	err := RootCmd.Execute()
	assert.ErrorContains(t, err, "nothing to reset")
}
