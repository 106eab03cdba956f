package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// AssetLedger defines the expected external ledger the engine settles
// against. It covers both collaborator roles the engine depends on: asset
// transfer between settlement accounts, and the minting authority for LP
// share denoms. The engine never reimplements balance accounting; it only
// moves value it was handed and mints/burns shares in each pool's own
// denom. BurnCoins must fail when the account holds fewer coins than
// requested; the engine surfaces that as ErrInsufficientShares.
type AssetLedger interface {
	SendCoins(ctx context.Context, from, to AccountID, amt Coin) error
	MintCoins(ctx context.Context, to AccountID, amt Coin) error
	BurnCoins(ctx context.Context, from AccountID, amt Coin) error
	GetBalance(ctx context.Context, addr AccountID, denom string) sdkmath.Int
	GetSupply(ctx context.Context, denom string) sdkmath.Int
}

// PoolReader is the read-only surface external consumers should depend on.
type PoolReader interface {
	// GetPool returns a copy of the pool record by ID.
	GetPool(ctx context.Context, poolID uint64) (*Pool, error)

	// GetPoolsByDenom returns copies of every pool trading the denom.
	GetPoolsByDenom(ctx context.Context, denom string) []Pool

	// Quote calculates the exact swap output without executing.
	Quote(ctx context.Context, poolID uint64, direction Direction, amountIn sdkmath.Int) (sdkmath.Int, error)
}
