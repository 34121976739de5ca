package docstore

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags,omitempty"`
}

// exerciseStore runs the shared Store contract against any driver.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()
	base := "test/" + uuid.NewString()

	t.Run("get missing returns ErrNotFound", func(t *testing.T) {
		var r record
		err := s.Get(ctx, base+"/missing", &r)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		path := base + "/set"
		require.NoError(t, s.Set(ctx, path, record{Name: "a", Count: 1, Tags: []string{"x"}}))

		var r record
		require.NoError(t, s.Get(ctx, path, &r))
		assert.Equal(t, record{Name: "a", Count: 1, Tags: []string{"x"}}, r)

		require.NoError(t, s.Set(ctx, path, record{Name: "b"}))
		var replaced record
		require.NoError(t, s.Get(ctx, path, &replaced))
		assert.Equal(t, record{Name: "b"}, replaced)
	})

	t.Run("update creates and merges", func(t *testing.T) {
		path := base + "/update"
		require.NoError(t, s.Update(ctx, path, map[string]interface{}{"name": "first"}))
		require.NoError(t, s.Update(ctx, path, map[string]interface{}{"count": 3}))

		var r record
		require.NoError(t, s.Get(ctx, path, &r))
		assert.Equal(t, "first", r.Name)
		assert.Equal(t, 3, r.Count)
	})

	t.Run("update rejects non-object documents", func(t *testing.T) {
		path := base + "/scalar"
		require.NoError(t, s.Set(ctx, path, []string{"a"}))
		err := s.Update(ctx, path, map[string]interface{}{"name": "x"})
		assert.ErrorIs(t, err, ErrNotObject)
	})

	t.Run("concurrent updates keep every field", func(t *testing.T) {
		path := base + "/concurrent"
		keys := []string{"mon", "tue", "wed", "thu", "fri"}

		var wg sync.WaitGroup
		for i, k := range keys {
			wg.Add(1)
			go func(k string, v int) {
				defer wg.Done()
				assert.NoError(t, s.Update(ctx, path, map[string]interface{}{k: v}))
			}(k, i)
		}
		wg.Wait()

		var got map[string]int
		require.NoError(t, s.Get(ctx, path, &got))
		for i, k := range keys {
			assert.Equal(t, i, got[k], "field %s", k)
		}
	})
}

func TestBuntStore(t *testing.T) {
	s, err := NewBuntStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	s, err := NewPostgresStore(context.Background(), dsn)
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	s, err := NewRedisStore(context.Background(), addr, "", 0, "attendance-test:")
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	s, err := NewMongoStore(context.Background(), uri, "attendance_test", "documents")
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "etcd"})
	assert.Error(t, err)
}

func TestMergePatch(t *testing.T) {
	out, err := mergePatch(nil, map[string]interface{}{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(out))

	out, err = mergePatch([]byte(`{"a":1,"b":{"c":2}}`), map[string]interface{}{"b": "replaced"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"b":"replaced"}`, string(out))

	_, err = mergePatch([]byte(`"text"`), map[string]interface{}{"a": 1})
	assert.ErrorIs(t, err, ErrNotObject)
}
