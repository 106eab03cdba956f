package types

import (
	"cosmossdk.io/errors"
)

// AMM engine sentinel errors. Every failure a caller can observe wraps one
// of these, so errors.Is matching works across the whole surface.
var (
	ErrInvalidAmount         = errors.Register(ModuleName, 2, "invalid amount")
	ErrInvalidFee            = errors.Register(ModuleName, 3, "invalid fee rate")
	ErrInvalidDenom          = errors.Register(ModuleName, 4, "invalid token denomination")
	ErrPoolNotFound          = errors.Register(ModuleName, 5, "pool not found")
	ErrUnauthorized          = errors.Register(ModuleName, 6, "unauthorized")
	ErrInsufficientLiquidity = errors.Register(ModuleName, 7, "insufficient liquidity in pool")
	ErrInsufficientShares    = errors.Register(ModuleName, 8, "insufficient liquidity shares")
	ErrOverflow              = errors.Register(ModuleName, 9, "arithmetic overflow")
	ErrInvalidAddress        = errors.Register(ModuleName, 10, "invalid account address")
)
