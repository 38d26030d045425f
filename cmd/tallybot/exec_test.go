package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runExec(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg = loadTestConfig(t, map[string]string{"TALLY_DATA_DIR": t.TempDir()})
	logger = zap.NewNop()
	t.Cleanup(func() { cfg, logger = nil, nil })

	var out bytes.Buffer
	cmd := newExecCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestExec(t *testing.T) {
	out, err := runExec(t, "--actor", "7", "--location", "42", "--", ";counter create wins")

	require.NoError(t, err)
	assert.Equal(t, "Counter \"wins\" successfully created.\n", out)
}

func TestExec_ZeroLocationRejected(t *testing.T) {
	_, err := runExec(t, "--actor", "7", "--location", "0", "--", ";counter create wins")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--location must not be 0")
}

func TestExec_NotACommand(t *testing.T) {
	_, err := runExec(t, "--actor", "7", "--", "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `message must start with ";"`)
}
