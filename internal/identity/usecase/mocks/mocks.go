// Package mocks provides mock implementations of the identity use cases for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	identityDomain "github.com/rahats/school/internal/identity/domain"
)

// MockAuthUseCase is a mock implementation of AuthUseCase for testing.
type MockAuthUseCase struct {
	mock.Mock
}

// Login mocks the Login method of AuthUseCase.
func (m *MockAuthUseCase) Login(
	ctx context.Context,
	input *identityDomain.LoginInput,
) (*identityDomain.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.LoginOutput), args.Error(1)
}

// Authenticate mocks the Authenticate method of AuthUseCase.
func (m *MockAuthUseCase) Authenticate(ctx context.Context, token string) (*identityDomain.Principal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Principal), args.Error(1)
}

// Logout mocks the Logout method of AuthUseCase.
func (m *MockAuthUseCase) Logout(ctx context.Context, principal *identityDomain.Principal) error {
	args := m.Called(ctx, principal)
	return args.Error(0)
}

// Me mocks the Me method of AuthUseCase.
func (m *MockAuthUseCase) Me(
	ctx context.Context,
	principal *identityDomain.Principal,
) (*identityDomain.Subject, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Subject), args.Error(1)
}

// PurgeRevokedSessions mocks the PurgeRevokedSessions method of AuthUseCase.
func (m *MockAuthUseCase) PurgeRevokedSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockIdentityUseCase is a mock implementation of IdentityUseCase for testing.
type MockIdentityUseCase struct {
	mock.Mock
}

// Create mocks the Create method of IdentityUseCase.
func (m *MockIdentityUseCase) Create(
	ctx context.Context,
	input *identityDomain.CreateIdentityInput,
) (*identityDomain.Subject, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Subject), args.Error(1)
}

// Migrate mocks the Migrate method of IdentityUseCase.
func (m *MockIdentityUseCase) Migrate(
	ctx context.Context,
	role identityDomain.Role,
	dryRun bool,
) (*identityDomain.MigrationReport, error) {
	args := m.Called(ctx, role, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.MigrationReport), args.Error(1)
}
