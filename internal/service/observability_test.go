package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogUseCaseObserver_WritesStructuredEvent(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(zerolog.New(&buf))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "load_board",
		Duration: 12 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"rows": 3},
	})
	out := buf.String()
	assert.Contains(t, out, `"use_case":"load_board"`)
	assert.Contains(t, out, `"duration_ms":12`)
	assert.Contains(t, out, `"rows":3`)
	assert.Contains(t, out, `"level":"info"`)

	buf.Reset()
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "delete_task", Err: errors.New("gone")})
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"error":"gone"`)
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{nil}))

	rec := &recordingObserver{}
	assert.Same(t, rec, useCaseObserverOrNoop([]UseCaseObserver{nil, rec}))
}
