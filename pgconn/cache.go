package pgconn

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// statement is a server-side prepared statement this Conn has Parsed and
// is currently holding open under statement.name.
type statement struct {
	name      string
	paramOIDs []uint32
}

// statementCache is the client-side half of the prepared-statement cache:
// a bounded LRU keyed by SQL text. Its eviction callback lets the owning
// Conn issue a matching Close for the server-side name falling out of
// cache, closing the gap the teacher's unbounded DefaultStatementCache
// (a plain map, never evicting) left open.
type statementCache struct {
	lru *lru.Cache[string, *statement]
}

func newStatementCache(capacity int, onEvict func(name string)) (*statementCache, error) {
	c, err := lru.NewWithEvict[string, *statement](capacity, func(_ string, st *statement) {
		onEvict(st.name)
	})
	if err != nil {
		return nil, err
	}

	return &statementCache{lru: c}, nil
}

func (c *statementCache) get(sql string) (*statement, bool) {
	return c.lru.Get(sql)
}

func (c *statementCache) add(sql string, st *statement) {
	c.lru.Add(sql, st)
}

// purge evicts every resident entry, firing onEvict for each in turn.
// Used when stmtID or portalID is about to wrap around uint32: every
// outstanding server-side name must be closed before names are reused.
func (c *statementCache) purge() {
	c.lru.Purge()
}

func (c *statementCache) len() int {
	return c.lru.Len()
}
