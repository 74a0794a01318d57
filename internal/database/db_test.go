package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactSQL(t *testing.T) {
	assert.Equal(t, "SELECT id FROM pricing_rules WHERE is_active",
		compactSQL("\n\t\tSELECT id\n\t\tFROM pricing_rules\n\t\tWHERE is_active\n\t"))
}

func TestQueryLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	t.Run("fast query is not logged", func(t *testing.T) {
		buf.Reset()
		q := &queryLogger{logger: &logger, threshold: time.Hour}
		ctx := q.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
		q.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
		assert.Empty(t, buf.String())
	})

	t.Run("slow query is logged", func(t *testing.T) {
		buf.Reset()
		q := &queryLogger{logger: &logger, threshold: time.Nanosecond}
		ctx := q.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT\n  1"})
		time.Sleep(time.Millisecond)
		q.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
		assert.Contains(t, buf.String(), "Slow query")
		assert.Contains(t, buf.String(), `"sql":"SELECT 1"`)
	})

	t.Run("no rows is not a failure", func(t *testing.T) {
		buf.Reset()
		q := &queryLogger{logger: &logger, threshold: time.Hour}
		ctx := q.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
		q.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: pgx.ErrNoRows})
		assert.Empty(t, buf.String())

		q.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("relation does not exist")})
		assert.Contains(t, buf.String(), "Query failed")
	})
}

func TestStatusBeforeConnect(t *testing.T) {
	Close()
	require.ErrorIs(t, Status(context.Background()), ErrNotConnected)
	assert.Nil(t, Stats())
}
