package pgconn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementCacheLRUBound(t *testing.T) {
	var evicted []string
	cache, err := newStatementCache(24, func(name string) {
		evicted = append(evicted, name)
	})
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		sql := "sql" + string(rune('a'+i))
		cache.add(sql, &statement{name: sql})
	}

	assert.Equal(t, 24, cache.len())
	assert.Len(t, evicted, 6)

	_, ok := cache.get("sqla")
	assert.False(t, ok, "the oldest entries should have been evicted")

	last := "sql" + string(rune('a'+29))
	_, ok = cache.get(last)
	assert.True(t, ok, "the most recently added entry should still be resident")
}

func TestStatementCachePurgeEvictsEverything(t *testing.T) {
	var evicted []string
	cache, err := newStatementCache(24, func(name string) {
		evicted = append(evicted, name)
	})
	require.NoError(t, err)

	cache.add("a", &statement{name: "stmt_1"})
	cache.add("b", &statement{name: "stmt_2"})

	cache.purge()

	assert.Equal(t, 0, cache.len())
	assert.ElementsMatch(t, []string{"stmt_1", "stmt_2"}, evicted)
}
