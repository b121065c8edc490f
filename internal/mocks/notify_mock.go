package mocks

import (
	"context"

	"logi-events/internal/model"
	"logi-events/internal/notify"

	"github.com/stretchr/testify/mock"
)

var (
	_ notify.Dispatcher = (*DispatcherMock)(nil)
	_ notify.Sender     = (*SenderMock)(nil)
)

type DispatcherMock struct {
	mock.Mock
}

func (m *DispatcherMock) SendVerificationCode(ctx context.Context, phoneNumber, code string) error {
	args := m.Called(ctx, phoneNumber, code)
	return args.Error(0)
}

func (m *DispatcherMock) SendEmail(ctx context.Context, email notify.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type SenderMock struct {
	mock.Mock
}

func (m *SenderMock) Send(ctx context.Context, n *model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
