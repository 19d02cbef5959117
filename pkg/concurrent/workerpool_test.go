// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWorkerPool(t *testing.T) {
	tests := []struct {
		name        string
		workerCount int
		expected    int
	}{
		{name: "positive count", workerCount: 4, expected: 4},
		{name: "zero count defaults to one", workerCount: 0, expected: 1},
		{name: "negative count defaults to one", workerCount: -3, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewWorkerPool(tt.workerCount)
			assert.Equal(t, tt.expected, pool.workerCount)
		})
	}
}

func TestWorkerPoolRun(t *testing.T) {
	pool := NewWorkerPool(2)

	t.Run("no functions", func(t *testing.T) {
		assert.NoError(t, pool.Run(context.Background()))
	})

	t.Run("all succeed", func(t *testing.T) {
		var count atomic.Int32
		fns := make([]func() error, 5)
		for i := range fns {
			fns[i] = func() error {
				count.Add(1)
				return nil
			}
		}
		assert.NoError(t, pool.Run(context.Background(), fns...))
		assert.Equal(t, int32(5), count.Load())
	})

	t.Run("first error returned", func(t *testing.T) {
		wantErr := errors.New("boom")
		err := pool.Run(context.Background(),
			func() error { return nil },
			func() error { return wantErr },
		)
		assert.ErrorIs(t, err, wantErr)
	})
}

func TestWorkerPoolRunAll(t *testing.T) {
	pool := NewWorkerPool(3)

	t.Run("collects all errors without cancelling", func(t *testing.T) {
		var count atomic.Int32
		errs := pool.RunAll(context.Background(),
			func() error { count.Add(1); return errors.New("first") },
			func() error { count.Add(1); return nil },
			func() error { count.Add(1); return errors.New("second") },
		)
		assert.Len(t, errs, 2)
		assert.Equal(t, int32(3), count.Load())
	})

	t.Run("no errors", func(t *testing.T) {
		errs := pool.RunAll(context.Background(), func() error { return nil })
		assert.Empty(t, errs)
	})
}
