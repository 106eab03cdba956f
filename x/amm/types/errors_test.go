package types

import (
	"errors"
	"testing"

	sdkerrors "cosmossdk.io/errors"
)

func TestErrorDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode uint32
	}{
		{"ErrInvalidAmount", ErrInvalidAmount, 2},
		{"ErrInvalidFee", ErrInvalidFee, 3},
		{"ErrInvalidDenom", ErrInvalidDenom, 4},
		{"ErrPoolNotFound", ErrPoolNotFound, 5},
		{"ErrUnauthorized", ErrUnauthorized, 6},
		{"ErrInsufficientLiquidity", ErrInsufficientLiquidity, 7},
		{"ErrInsufficientShares", ErrInsufficientShares, 8},
		{"ErrOverflow", ErrOverflow, 9},
		{"ErrInvalidAddress", ErrInvalidAddress, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sdkErr *sdkerrors.Error
			if !errors.As(tt.err, &sdkErr) {
				t.Fatalf("error is not an sdkerrors.Error")
			}

			if sdkErr.ABCICode() != tt.wantCode {
				t.Errorf("Expected code %d, got %d", tt.wantCode, sdkErr.ABCICode())
			}

			if sdkErr.Codespace() != ModuleName {
				t.Errorf("Expected codespace %s, got %s", ModuleName, sdkErr.Codespace())
			}

			if tt.err.Error() == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestErrorWrappingPreservesSentinel(t *testing.T) {
	wrapped := ErrInvalidAmount.Wrapf("amount %d is zero", 0)

	if !errors.Is(wrapped, ErrInvalidAmount) {
		t.Error("wrapped error should match its sentinel via errors.Is")
	}
	if errors.Is(wrapped, ErrOverflow) {
		t.Error("wrapped error should not match a different sentinel")
	}
	if !ErrInvalidAmount.Is(wrapped) {
		t.Error("sentinel.Is should recognize the wrapped error")
	}
}
