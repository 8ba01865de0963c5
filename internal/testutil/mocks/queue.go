// Package mocks holds testify mocks for the domain ports.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/kevin07696/payment-gateway/internal/domain/ports"
)

// Queue mocks ports.Queue.
type Queue struct {
	mock.Mock
}

func (m *Queue) Enqueue(ctx context.Context, queue string, payload any, delay time.Duration) error {
	args := m.Called(ctx, queue, payload, delay)
	return args.Error(0)
}

func (m *Queue) Pull(ctx context.Context, queue string) (*ports.LeasedJob, error) {
	args := m.Called(ctx, queue)
	if job := args.Get(0); job != nil {
		return job.(*ports.LeasedJob), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Queue) Complete(ctx context.Context, job *ports.LeasedJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *Queue) Fail(ctx context.Context, job *ports.LeasedJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *Queue) Counts(ctx context.Context, queue string) (ports.QueueCounts, error) {
	args := m.Called(ctx, queue)
	return args.Get(0).(ports.QueueCounts), args.Error(1)
}
