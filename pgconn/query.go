package pgconn

import (
	"context"
	"fmt"
	"math"

	"github.com/heronpg/pgwire/pgproto/backend"
	"github.com/heronpg/pgwire/pgproto/frontend"
	"github.com/heronpg/pgwire/ustr"
)

// Query executes sql against the server using the Extended Query
// protocol: Parse (skipped on a prepared-statement cache hit) + Bind +
// Execute + Sync, pipelined into a single flush, per the state machine
// this module's Conn implements.
func (c *Conn) Query(ctx context.Context, sql string, args ...Encoded) ([]RowBuffer, error) {
	if c.broken {
		return nil, ErrBroken
	}

	rows, err := c.query(ctx, sql, args)
	return rows, c.fail(err)
}

func (c *Conn) query(ctx context.Context, sql string, args []Encoded) ([]RowBuffer, error) {
	st, cached := c.stmts.get(sql)

	if !cached {
		name, err := c.nextStatementName(ctx)
		if err != nil {
			return nil, err
		}

		paramOIDs := make([]uint32, len(args))
		for i, a := range args {
			paramOIDs[i] = a.OID
		}

		c.stream.send(&frontend.Parse{Name: name, SQL: sql, ParamOIDs: paramOIDs})
		st = &statement{name: name, paramOIDs: paramOIDs}
	}

	portal, err := c.nextPortalName(ctx)
	if err != nil {
		return nil, err
	}

	params := make([][]byte, len(args))
	paramFormats := make([]int16, len(args))
	for i, a := range args {
		params[i] = a.Value
		paramFormats[i] = 1
	}

	c.stream.send(&frontend.Bind{
		PortalName:    portal,
		StatementName: st.name,
		ParamFormats:  paramFormats,
		Params:        params,
		ResultFormats: []int16{1},
	})
	c.stream.send(&frontend.Execute{PortalName: portal, MaxRows: 0})
	c.stream.send(&frontend.Sync{})

	if err := c.stream.flush(ctx); err != nil {
		return nil, wrap(KindIO, err)
	}

	rows, err := c.consumeQueryResponses(ctx, !cached)
	if err != nil {
		return nil, err
	}

	if !cached {
		c.stmts.add(sql, st)
	}

	return rows, nil
}

// consumeQueryResponses implements the fixed reply order a query's
// pipeline must be read back in: ParseComplete (only when a Parse was
// actually sent), BindComplete, zero or more DataRow terminated by
// CommandComplete/EmptyQueryResponse, then ReadyForQuery. An ErrorResponse
// at any step is drained to ReadyForQuery and surfaced as the result.
func (c *Conn) consumeQueryResponses(ctx context.Context, expectParse bool) ([]RowBuffer, error) {
	if expectParse {
		msg, err := c.stream.recv(ctx)
		if err != nil {
			return nil, wrap(KindIO, err)
		}
		if _, ok := msg.(*backend.ParseComplete); !ok {
			return nil, c.unexpectedDuringQuery(ctx, msg, "ParseComplete")
		}
	}

	msg, err := c.stream.recv(ctx)
	if err != nil {
		return nil, wrap(KindIO, err)
	}
	if _, ok := msg.(*backend.BindComplete); !ok {
		return nil, c.unexpectedDuringQuery(ctx, msg, "BindComplete")
	}

	var rows []RowBuffer

	for {
		msg, err := c.stream.recv(ctx)
		if err != nil {
			return nil, wrap(KindIO, err)
		}

		switch m := msg.(type) {
		case *backend.DataRow:
			rows = append(rows, RowBuffer{Values: copyValues(m.Values)})
		case *backend.CommandComplete, *backend.EmptyQueryResponse:
			// keep looping for the terminating ReadyForQuery
		case *backend.ReadyForQuery:
			return rows, nil
		case *backend.ErrorResponse:
			return nil, c.drainToReadyForQuery(ctx, databaseError(m.Raw))
		default:
			return nil, wrap(KindProtocol, fmt.Errorf("pgconn: unexpected message %T during query", m))
		}
	}
}

// unexpectedDuringQuery surfaces msg as the matching kind of error: a
// DatabaseError if the backend actually sent ErrorResponse, a
// ProtocolError otherwise naming the phase that was violated.
func (c *Conn) unexpectedDuringQuery(ctx context.Context, msg backend.Message, want string) error {
	if errResp, ok := msg.(*backend.ErrorResponse); ok {
		return c.drainToReadyForQuery(ctx, databaseError(errResp.Raw))
	}
	return wrap(KindProtocol, fmt.Errorf("pgconn: unexpected message %T, wanted %s", msg, want))
}

// drainToReadyForQuery reads ahead until ReadyForQuery (the server still
// finishes the pipeline after an ErrorResponse) and then returns cause.
func (c *Conn) drainToReadyForQuery(ctx context.Context, cause error) error {
	for {
		msg, err := c.stream.recv(ctx)
		if err != nil {
			return wrap(KindIO, err)
		}
		if _, ok := msg.(*backend.ReadyForQuery); ok {
			return cause
		}
	}
}

// copyValues copies each DataRow column out of the stream's internal
// buffer so the returned RowBuffer outlives the next recv call.
func copyValues(src [][]byte) [][]byte {
	dst := make([][]byte, len(src))
	for i, v := range src {
		if v == nil {
			continue
		}
		cp := make([]byte, len(v))
		copy(cp, v)
		dst[i] = cp
	}
	return dst
}

// nextStatementName allocates the next prepared-statement name, evicting
// the entire cache first if stmtID is about to wrap past math.MaxUint32 —
// the safe fix for the wraparound collision risk.
func (c *Conn) nextStatementName(ctx context.Context) (string, error) {
	if c.stmtID == math.MaxUint32 {
		if err := c.evictAll(ctx); err != nil {
			return "", err
		}
	}
	c.stmtID++
	return ustr.New(fmt.Sprintf("stmt_%d", c.stmtID)).String(), nil
}

// nextPortalName allocates the next portal name, subject to the same
// wraparound handling as nextStatementName.
func (c *Conn) nextPortalName(ctx context.Context) (string, error) {
	if c.portalID == math.MaxUint32 {
		if err := c.evictAll(ctx); err != nil {
			return "", err
		}
	}
	c.portalID++
	return ustr.New(fmt.Sprintf("portal_%d", c.portalID)).String(), nil
}

// evictAll purges the statement cache, issuing Close for every resident
// entry, flushing immediately and draining the matching CloseCompletes
// before resetting the id counters to 0 (so the next allocation starts
// naming from 1).
func (c *Conn) evictAll(ctx context.Context) error {
	n := c.stmts.len()
	if n == 0 {
		c.stmtID, c.portalID = 0, 0
		return nil
	}

	c.stmts.purge()

	if err := c.stream.flush(ctx); err != nil {
		return wrap(KindIO, err)
	}

	for i := 0; i < n; i++ {
		msg, err := c.stream.recv(ctx)
		if err != nil {
			return wrap(KindIO, err)
		}
		if _, ok := msg.(*backend.CloseComplete); !ok {
			return c.unexpectedDuringQuery(ctx, msg, "CloseComplete")
		}
	}

	c.stmtID, c.portalID = 0, 0
	return nil
}

// Describe Parses sql (if not already cached) and asks the backend to
// describe its parameter types and result columns, without Binding or
// Executing it. This is the typed counterpart Query intentionally skips —
// Query's result_formats=[1] lets callers decode raw bytes themselves, but
// dbiface's Statement/Row support wants Column metadata up front.
func (c *Conn) Describe(ctx context.Context, sql string) ([]uint32, []Column, error) {
	if c.broken {
		return nil, nil, ErrBroken
	}

	paramOIDs, columns, err := c.describe(ctx, sql)
	return paramOIDs, columns, c.fail(err)
}

func (c *Conn) describe(ctx context.Context, sql string) ([]uint32, []Column, error) {
	st, cached := c.stmts.get(sql)

	if !cached {
		name, err := c.nextStatementName(ctx)
		if err != nil {
			return nil, nil, err
		}
		c.stream.send(&frontend.Parse{Name: name, SQL: sql})
		st = &statement{name: name}
	}

	c.stream.send(&frontend.Describe{Target: frontend.CloseStatement, Name: st.name})
	c.stream.send(&frontend.Sync{})

	if err := c.stream.flush(ctx); err != nil {
		return nil, nil, wrap(KindIO, err)
	}

	if !cached {
		msg, err := c.stream.recv(ctx)
		if err != nil {
			return nil, nil, wrap(KindIO, err)
		}
		if _, ok := msg.(*backend.ParseComplete); !ok {
			return nil, nil, c.unexpectedDuringQuery(ctx, msg, "ParseComplete")
		}
	}

	msg, err := c.stream.recv(ctx)
	if err != nil {
		return nil, nil, wrap(KindIO, err)
	}
	paramDesc, ok := msg.(*backend.ParameterDescription)
	if !ok {
		return nil, nil, c.unexpectedDuringQuery(ctx, msg, "ParameterDescription")
	}
	st.paramOIDs = paramDesc.ParamOIDs

	msg, err = c.stream.recv(ctx)
	if err != nil {
		return nil, nil, wrap(KindIO, err)
	}

	var columns []Column
	switch m := msg.(type) {
	case *backend.RowDescription:
		columns = columnsFromDescription(m)
	case *backend.NoData:
		columns = nil
	default:
		return nil, nil, c.unexpectedDuringQuery(ctx, msg, "RowDescription or NoData")
	}

	msg, err = c.stream.recv(ctx)
	if err != nil {
		return nil, nil, wrap(KindIO, err)
	}
	if _, ok := msg.(*backend.ReadyForQuery); !ok {
		return nil, nil, c.unexpectedDuringQuery(ctx, msg, "ReadyForQuery")
	}

	if !cached {
		c.stmts.add(sql, st)
	}

	return st.paramOIDs, columns, nil
}
