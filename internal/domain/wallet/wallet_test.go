package wallet

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallet(t *testing.T) {
	t.Run("SuccessfulCreation", func(t *testing.T) {
		userID := uuid.New()
		initialBalance := int64(10000) // 100.00

		beforeCreation := time.Now()
		w, err := NewWallet(userID, "INR", initialBalance)
		afterCreation := time.Now()

		require.NoError(t, err)
		require.NotNil(t, w)

		assert.NotEqual(t, uuid.Nil, w.ID, "Wallet ID should not be nil")
		assert.Equal(t, userID, w.UserID)
		assert.Equal(t, initialBalance, w.Balance)
		assert.Equal(t, "INR", w.Currency)
		assert.True(t, w.IsActive)
		assert.Equal(t, 1, w.Version, "Initial version should be 1")

		assert.WithinDuration(t, beforeCreation, w.CreatedAt, afterCreation.Sub(beforeCreation)+time.Millisecond)
		assert.Equal(t, w.CreatedAt, w.UpdatedAt)
	})

	t.Run("InvalidCurrency", func(t *testing.T) {
		_, err := NewWallet(uuid.New(), "RUPEES", 0)
		assert.Error(t, err)
	})

	t.Run("NegativeInitialBalance", func(t *testing.T) {
		_, err := NewWallet(uuid.New(), "INR", -1)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestWallet_Credit(t *testing.T) {
	t.Run("SuccessfulCredit", func(t *testing.T) {
		w := &Wallet{
			ID:        uuid.New(),
			UserID:    uuid.New(),
			Balance:   5000, // 50.00
			Currency:  "INR",
			IsActive:  true,
			Version:   1,
			CreatedAt: time.Now().Add(-time.Hour),
			UpdatedAt: time.Now().Add(-time.Hour),
		}
		creditAmount := int64(2000) // 20.00
		initialBalance := w.Balance
		initialVersion := w.Version

		err := w.Credit(creditAmount)

		require.NoError(t, err)
		assert.Equal(t, initialBalance+creditAmount, w.Balance)
		assert.Equal(t, initialVersion+1, w.Version)
		assert.True(t, w.UpdatedAt.After(w.CreatedAt), "UpdatedAt should be after CreatedAt")
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		w := &Wallet{Balance: 5000, Version: 1}
		err := w.Credit(0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Equal(t, int64(5000), w.Balance)
		assert.Equal(t, 1, w.Version)
	})
}

func TestWallet_Debit(t *testing.T) {
	t.Run("SuccessfulDebit", func(t *testing.T) {
		w := &Wallet{
			ID:        uuid.New(),
			UserID:    uuid.New(),
			Balance:   10000, // 100.00
			Currency:  "INR",
			IsActive:  true,
			Version:   2,
			CreatedAt: time.Now().Add(-2 * time.Hour),
			UpdatedAt: time.Now().Add(-time.Minute),
		}
		debitAmount := int64(3000) // 30.00
		initialBalance := w.Balance
		initialVersion := w.Version

		err := w.Debit(debitAmount)

		require.NoError(t, err)
		assert.Equal(t, initialBalance-debitAmount, w.Balance)
		assert.Equal(t, initialVersion+1, w.Version)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		w := &Wallet{Balance: 1000, Version: 1}
		err := w.Debit(1001)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, int64(1000), w.Balance, "Balance must be unchanged after a rejected debit")
		assert.Equal(t, 1, w.Version)
	})

	t.Run("ExactBalance", func(t *testing.T) {
		w := &Wallet{Balance: 1000, Version: 1}
		err := w.Debit(1000)
		require.NoError(t, err)
		assert.Equal(t, int64(0), w.Balance)
	})
}

