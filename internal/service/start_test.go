package service

import (
	"context"
	"testing"

	"gatebot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartService_CheckPassword(t *testing.T) {
	tests := []struct {
		name           string
		botPassword    string
		inputPassword  string
		expectedResult bool
	}{
		{
			name:           "correct password",
			botPassword:    "secret123",
			inputPassword:  "secret123",
			expectedResult: true,
		},
		{
			name:           "incorrect password",
			botPassword:    "secret123",
			inputPassword:  "wrong",
			expectedResult: false,
		},
		{
			name:           "empty password",
			botPassword:    "secret123",
			inputPassword:  "",
			expectedResult: false,
		},
		{
			name:           "case sensitive",
			botPassword:    "Secret123",
			inputPassword:  "secret123",
			expectedResult: false,
		},
		{
			name:           "no password configured",
			botPassword:    "",
			inputPassword:  "anything",
			expectedResult: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := NewOracle(testutil.NewTestLogger())
			service := NewStartService(oracle, tt.botPassword, testutil.NewTestLogger())

			assert.Equal(t, tt.expectedResult, service.CheckPassword(tt.inputPassword))
			assert.Equal(t, tt.botPassword != "", service.RequiresPassword())
		})
	}
}

func TestStartService_Start(t *testing.T) {
	oracle := newLoadedOracle(t)
	service := NewStartService(oracle, "", testutil.NewTestLogger())

	assert.False(t, service.IsStarted(123))

	require.NoError(t, service.Start(context.Background(), 123))

	assert.True(t, service.IsStarted(123))
}
