package kv

import (
	"context"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/accountkeeper/internal/config"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cases := []struct {
		name string
		opts config.Options
		want any
	}{
		{"memory", config.Options{Backend: config.BackendMemory}, &MemoryStore{}},
		{"file", config.Options{Backend: config.BackendFile, FilePath: filepath.Join(t.TempDir(), "s.json")}, &FileStore{}},
		{"redis", config.Options{Backend: config.BackendRedis, RedisAddr: mr.Addr()}, &RedisStore{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, err := Open(ctx, &tc.opts, nil)
			require.NoError(t, err)
			defer store.Close()
			assert.IsType(t, tc.want, store)

			require.NoError(t, store.SetItem(ctx, "accounts", "[]"))
			v, ok, err := store.GetItem(ctx, "accounts")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "[]", v)
		})
	}
}

func TestOpen_Unknown(t *testing.T) {
	_, err := Open(context.Background(), &config.Options{Backend: "etcd"}, nil)
	require.ErrorContains(t, err, "unknown backend")
}
