package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand("1.2.3")
	require.NotNil(t, cmd)
	assert.Equal(t, "vitals", cmd.Use)
	assert.Equal(t, "1.2.3", cmd.Version)

	assert.Equal(t, "N/A", NewRootCommand("").Version)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand("")
	commands := []string{"register", "login", "logout", "submit", "list", "watch"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Setenv("VITALS_SERVER", "")
	cmd := NewRootCommand("")

	serverFlag := cmd.PersistentFlags().Lookup("server")
	require.NotNil(t, serverFlag)
	assert.Equal(t, "s", serverFlag.Shorthand)
	assert.Equal(t, defaultServer, serverFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("session"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("ca"))
}

func TestWatchCommandFlags(t *testing.T) {
	cmd := NewRootCommand("")
	watchCmd, _, err := cmd.Find([]string{"watch"})
	require.NoError(t, err)

	interval := watchCmd.Flags().Lookup("interval")
	require.NotNil(t, interval)
	assert.Equal(t, "10s", interval.DefValue)

	rng := watchCmd.Flags().Lookup("range")
	require.NotNil(t, rng)
	assert.Equal(t, "24h", rng.DefValue)
}

func TestSubmitCommandFlags(t *testing.T) {
	cmd := NewRootCommand("")
	submitCmd, _, err := cmd.Find([]string{"submit"})
	require.NoError(t, err)

	for _, name := range []string{"heart-rate", "systolic", "diastolic", "oxygen", "temperature"} {
		assert.NotNil(t, submitCmd.Flags().Lookup(name), name)
	}
}
