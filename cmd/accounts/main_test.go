package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atinyakov/accountkeeper/internal/client"
	"github.com/atinyakov/accountkeeper/internal/kv"
	"github.com/atinyakov/accountkeeper/internal/registry"
)

func runShell(t *testing.T, reg *registry.Registry, input string) string {
	t.Helper()
	var out bytes.Buffer
	repl(context.Background(), reg, client.NewPrompter(strings.NewReader(input), &out), &out)
	return out.String()
}

func TestRepl_AddListRemove(t *testing.T) {
	store := kv.NewMemoryStore()
	reg := registry.New(store)

	input := strings.Join([]string{
		"add", "vip", "Local", "alice", "secret",
		"add", "", "LDAP", "bob", "",
		"list",
		"remove 0",
		"remove 9",
		"exit",
	}, "\n") + "\n"
	out := runShell(t, reg, input)

	assert.Contains(t, out, "[0] alice (Local)")
	assert.Contains(t, out, "[1] bob (LDAP)")
	assert.Contains(t, out, "Password: ******")
	assert.Contains(t, out, "Account removed")
	assert.Contains(t, out, "Account not found")
	assert.Contains(t, out, "Bye")

	fresh := registry.New(store)
	require.NoError(t, fresh.Load(context.Background()))
	require.Equal(t, 1, fresh.Len())
	acc, err := fresh.At(0)
	require.NoError(t, err)
	assert.Equal(t, "bob", acc.Login)
}

func TestRepl_Edit(t *testing.T) {
	reg := registry.New(kv.NewMemoryStore())
	out := runShell(t, reg, "add\nvip\nLocal\nalice\nsecret\nedit 0\nops\n\ncarol\n\nedit\nedit 3\n")

	assert.Contains(t, out, "Account updated")
	assert.Contains(t, out, "Usage: edit <index>")
	assert.Contains(t, out, "Account not found")

	acc, err := reg.At(0)
	require.NoError(t, err)
	assert.Equal(t, "carol", acc.Login)
	assert.Equal(t, "ops", acc.Labels[0].Text)
}

func TestRepl_ReloadAndUnknown(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.SetItem(ctx, registry.StorageKey, `[{"labels":["x"],"type":"LDAP","login":"z","password":null}]`))
	reg := registry.New(store)

	out := runShell(t, reg, "frobnicate\nreload\nhelp\n")
	assert.Contains(t, out, "Unknown command")
	assert.Contains(t, out, "Loaded 1 accounts")
	assert.Contains(t, out, helpText)
}

func TestLogChanges(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	reg := registry.New(kv.NewMemoryStore())
	reg.Subscribe(logChanges(zap.New(core)))

	runShell(t, reg, "add\n\nLDAP\nbob\n\n")

	entries := logs.FilterMessage("accounts changed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "add", entries[0].ContextMap()["op"])
}
