// Package keeper provides test fixtures for the AMM engine.
package keeper

import (
	"context"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/amm/ledger"
	ammkeeper "github.com/paw-chain/amm/x/amm/keeper"
	"github.com/paw-chain/amm/x/amm/types"
)

// BaseDenom is the numeraire every fixture pool trades against.
const BaseDenom = "upaw"

// Fixture bundles a fresh engine with its capability and backing ledger.
type Fixture struct {
	Keeper *ammkeeper.Keeper
	Cap    *types.CreationCapability
	Ledger *ledger.Ledger
	Ctx    context.Context
}

// AMMKeeper creates a test engine backed by an in-memory ledger.
func AMMKeeper(t testing.TB) *Fixture {
	l := ledger.New()
	k, cap := ammkeeper.NewKeeper(l, BaseDenom, log.NewNopLogger(), nil)
	return &Fixture{
		Keeper: k,
		Cap:    cap,
		Ledger: l,
		Ctx:    context.Background(),
	}
}

// FundAccount mints coins to an account for test setup.
func (f *Fixture) FundAccount(t testing.TB, addr types.AccountID, denom string, amount int64) {
	require.NoError(t, f.Ledger.FundAccount(f.Ctx, addr, types.NewCoin(denom, math.NewInt(amount))))
}

// CreatePool funds the creator and registers a pool in one step.
func (f *Fixture) CreatePool(
	t testing.TB,
	creator types.AccountID,
	tokenDenom string,
	baseIn, tokenIn, initialShares int64,
	feeRate uint64,
) *types.Pool {
	f.FundAccount(t, creator, BaseDenom, baseIn)
	f.FundAccount(t, creator, tokenDenom, tokenIn)

	pool, err := f.Keeper.CreatePool(
		f.Ctx, f.Cap, creator, tokenDenom,
		math.NewInt(baseIn), math.NewInt(tokenIn), math.NewInt(initialShares),
		feeRate,
	)
	require.NoError(t, err)
	return pool
}
