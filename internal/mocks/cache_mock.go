package mocks

import (
	"context"
	"time"

	"logi-events/internal/cache"

	"github.com/stretchr/testify/mock"
)

var _ cache.OTPRateLimiter = (*OTPRateLimiterMock)(nil)

type OTPRateLimiterMock struct {
	mock.Mock
}

func (m *OTPRateLimiterMock) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}

func (m *OTPRateLimiterMock) Reset(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
