package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/paywave-wallet-ledger/internal/domain/profile"
	"github.com/paywave-wallet-ledger/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveByPhone(ctx context.Context, phone string) (*profile.Profile, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

type MockApplier struct {
	mock.Mock
}

func (m *MockApplier) Apply(ctx context.Context, mv engine.Movement) (*engine.Result, error) {
	args := m.Called(ctx, mv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.Result), args.Error(1)
}

func serviceTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func TestMovementService_Deposit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		resolver := new(MockResolver)
		applier := new(MockApplier)
		svc := NewMovementService(serviceTestLogger(), resolver, applier)

		expected := &engine.Result{}
		applier.On("Apply", ctx, mock.MatchedBy(func(mv engine.Movement) bool {
			return mv.ToUserID != nil && *mv.ToUserID == userID &&
				mv.Amount == 50000 &&
				mv.Description == engine.DefaultDepositDescription
		})).Return(expected, nil)

		result, err := svc.Deposit(ctx, userID, 50000, "")
		assert.NoError(t, err)
		assert.Same(t, expected, result)
		applier.AssertExpectations(t)
	})

	t.Run("RejectsInvalidAmount", func(t *testing.T) {
		resolver := new(MockResolver)
		applier := new(MockApplier)
		svc := NewMovementService(serviceTestLogger(), resolver, applier)

		result, err := svc.Deposit(ctx, userID, 0, "")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, engine.ErrInvalidMovementAmount)
		applier.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
	})
}

func TestMovementService_Transfer(t *testing.T) {
	ctx := context.Background()
	senderID := uuid.New()
	recipientID := uuid.New()
	phone := "+919876543210"

	t.Run("Success", func(t *testing.T) {
		resolver := new(MockResolver)
		applier := new(MockApplier)
		svc := NewMovementService(serviceTestLogger(), resolver, applier)

		resolver.On("ResolveByPhone", ctx, phone).Return(&profile.Profile{ID: recipientID, Phone: phone}, nil)

		expected := &engine.Result{}
		applier.On("Apply", ctx, mock.MatchedBy(func(mv engine.Movement) bool {
			return mv.FromUserID != nil && *mv.FromUserID == senderID &&
				mv.ToUserID != nil && *mv.ToUserID == recipientID &&
				mv.Amount == 30000
		})).Return(expected, nil)

		result, err := svc.Transfer(ctx, senderID, phone, 30000, "")
		require.NoError(t, err)
		assert.Same(t, expected, result)
		resolver.AssertExpectations(t)
		applier.AssertExpectations(t)
	})

	t.Run("UnknownPhone", func(t *testing.T) {
		resolver := new(MockResolver)
		applier := new(MockApplier)
		svc := NewMovementService(serviceTestLogger(), resolver, applier)

		resolver.On("ResolveByPhone", ctx, phone).Return(nil, profile.ErrProfileNotFound{Phone: phone})

		result, err := svc.Transfer(ctx, senderID, phone, 30000, "")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, profile.ErrProfileNotFound{Phone: phone})
		applier.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
	})

	t.Run("PhoneResolvesToSender", func(t *testing.T) {
		resolver := new(MockResolver)
		applier := new(MockApplier)
		svc := NewMovementService(serviceTestLogger(), resolver, applier)

		// The user entered their own phone number
		resolver.On("ResolveByPhone", ctx, phone).Return(&profile.Profile{ID: senderID, Phone: phone}, nil)

		result, err := svc.Transfer(ctx, senderID, phone, 30000, "")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, engine.ErrSelfTransfer)
		applier.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
	})
}
