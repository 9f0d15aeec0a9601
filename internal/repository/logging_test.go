package repository

import (
	"bytes"
	"context"
	"testing"

	"github.com/alexanderramin/riskboard/internal/domain"
	"github.com/alexanderramin/riskboard/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLogging_LogsEachCall(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	repo := WithLogging(newSQLiteRepo(t), logger, "sqlite")
	ctx := context.Background()

	created, err := repo.Insert(ctx, testutil.NewTestInput("Logged"))
	require.NoError(t, err)
	_, err = repo.FetchAll(ctx)
	require.NoError(t, err)

	err = repo.Delete(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	out := buf.String()
	assert.Contains(t, out, `"backend":"sqlite"`)
	assert.Contains(t, out, `"op":"insert"`)
	assert.Contains(t, out, `"task_id":"`+created.ID+`"`)
	assert.Contains(t, out, `"op":"fetch_all"`)
	assert.Contains(t, out, `"rows":1`)
	assert.Contains(t, out, `"level":"error"`)
}

func TestWithLogging_PassesThroughUpdate(t *testing.T) {
	repo := WithLogging(newSQLiteRepo(t), zerolog.Nop(), "sqlite")
	ctx := context.Background()

	created, err := repo.Insert(ctx, testutil.NewTestInput("Nudge"))
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, created.ID, domain.TaskPatch{Progress: domain.IntPtr(20)}))

	tasks, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, *tasks[0].Progress)
}
