package auth_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	auth "github.com/VHSkillPro/auth-template-backend-sub000"
)

// MockMailer implements auth.Mailer
type MockMailer struct {
	mock.Mock
}

var _ auth.Mailer = (*MockMailer)(nil)

func (m *MockMailer) SendVerification(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}
