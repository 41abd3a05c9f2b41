package store

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	name string
	open func(t *testing.T) Store
}

func backends() []backend {
	list := []backend{
		{"memory", func(t *testing.T) Store { return NewMemory() }},
		{"file", func(t *testing.T) Store {
			s, err := NewFile(t.TempDir())
			require.NoError(t, err)
			return s
		}},
		{"sqlite", func(t *testing.T) Store {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "saves.db"))
			require.NoError(t, err)
			return s
		}},
		{"bolt", func(t *testing.T) Store {
			s, err := OpenBolt(filepath.Join(t.TempDir(), "saves.bolt"))
			require.NoError(t, err)
			return s
		}},
		{"compressed", func(t *testing.T) Store {
			s, err := NewCompressed(NewMemory())
			require.NoError(t, err)
			return s
		}},
	}
	if addr := os.Getenv("XJTU_TEST_REDIS_ADDR"); addr != "" {
		list = append(list, backend{"redis", func(t *testing.T) Store {
			cfg := DefaultRedisConfig()
			cfg.Addr = addr
			cfg.Prefix = "xjtu-test:" + strconv.Itoa(os.Getpid()) + ":" + t.Name() + ":"
			s, err := OpenRedis(context.Background(), cfg)
			require.NoError(t, err)
			t.Cleanup(func() {
				ctx := context.Background()
				keys, _ := s.List(ctx, "")
				for _, k := range keys {
					_ = s.Delete(ctx, k)
				}
			})
			return s
		}})
	}
	return list
}

func TestStoreContract(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t)
			defer s.Close()

			_, err := s.Get(ctx, "current/game_state")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Put(ctx, "current/game_state", []byte(`{"year":1}`)))
			require.NoError(t, s.Put(ctx, "current/game_state", []byte(`{"year":2}`)))
			got, err := s.Get(ctx, "current/game_state")
			require.NoError(t, err)
			assert.Equal(t, `{"year":2}`, string(got))

			require.NoError(t, s.Put(ctx, "current/triggered_events", []byte(`[]`)))
			require.NoError(t, s.Put(ctx, "meta/achievements", []byte(`{}`)))

			keys, err := s.List(ctx, "current/")
			require.NoError(t, err)
			assert.Equal(t, []string{"current/game_state", "current/triggered_events"}, keys)

			all, err := s.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 3)

			require.NoError(t, s.Delete(ctx, "current/game_state"))
			require.NoError(t, s.Delete(ctx, "current/game_state"))
			_, err = s.Get(ctx, "current/game_state")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.Error(t, s.Put(ctx, " ", []byte("x")))
		})
	}
}

func TestFileRejectsEscapingKeys(t *testing.T) {
	s, err := NewFile(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, s.Put(context.Background(), "../outside", []byte("x")))
}

func TestCompressedReadsPlainValues(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()
	require.NoError(t, inner.Put(ctx, "k", []byte("plain")))

	c, err := NewCompressed(inner)
	require.NoError(t, err)
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "plain", string(got))

	payload := []byte(`{"gpa":3.2,"gpa2":3.2,"gpa3":3.2,"gpa4":3.2}`)
	require.NoError(t, c.Put(ctx, "k", payload))
	raw, err := inner.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, zstdMagic, raw[:4])
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestOpenKinds(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, Options{Kind: KindBolt, BoltPath: filepath.Join(dir, "a.bolt"), Compress: true})
	require.NoError(t, err)
	require.IsType(t, &Compressed{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Options{Kind: "tape"})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Kind: KindBolt})
	assert.Error(t, err)
}
