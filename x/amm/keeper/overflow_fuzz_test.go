package keeper_test

import (
	"math/big"
	"testing"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/amm/testutil/keeper"
	"github.com/paw-chain/amm/x/amm/keeper"
	"github.com/paw-chain/amm/x/amm/types"
)

func fund(t *testing.T, f *keepertest.Fixture, addr types.AccountID, denom string, amount math.Int) {
	t.Helper()
	require.NoError(t, f.Ledger.FundAccount(f.Ctx, addr, types.NewCoin(denom, amount)))
}

// TestSwap_OverflowAtWidthBound fills the base reserve almost to 2^64-1;
// a swap whose input would push it past the bound must fail atomically.
func TestSwap_OverflowAtWidthBound(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	creator := types.AccountID("creator")

	nearMax := types.MaxAmount.Sub(math.NewInt(10))
	fund(t, f, creator, keepertest.BaseDenom, nearMax)
	fund(t, f, creator, "uusdt", math.NewInt(1_000_000))

	pool, err := f.Keeper.CreatePool(f.Ctx, f.Cap, creator, "uusdt",
		nearMax, math.NewInt(1_000_000), math.NewInt(1000), 3)
	require.NoError(t, err)

	trader := types.AccountID("trader")
	fund(t, f, trader, keepertest.BaseDenom, math.NewInt(100))

	_, err = f.Keeper.Swap(f.Ctx, trader, pool.Id, types.BaseForToken, math.NewInt(100))
	require.True(t, errors.IsOf(err, types.ErrOverflow))

	// Nothing moved.
	unchanged, err := f.Keeper.GetPool(f.Ctx, pool.Id)
	require.NoError(t, err)
	require.Equal(t, *pool, *unchanged)
	require.Equal(t, math.NewInt(100), f.Ledger.GetBalance(f.Ctx, trader, keepertest.BaseDenom))

	// Up to the bound exactly is still legal.
	trader2 := types.AccountID("trader2")
	fund(t, f, trader2, keepertest.BaseDenom, math.NewInt(10))
	_, err = f.Keeper.Swap(f.Ctx, trader2, pool.Id, types.BaseForToken, math.NewInt(10))
	require.NoError(t, err)
}

// TestAddLiquidity_OverflowAtWidthBound checks both reserve legs and the
// share supply against the commit bound.
func TestAddLiquidity_OverflowAtWidthBound(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	creator := types.AccountID("creator")

	nearMax := types.MaxAmount.Sub(math.NewInt(10))
	fund(t, f, creator, keepertest.BaseDenom, nearMax)
	fund(t, f, creator, "uusdt", math.NewInt(1_000_000))

	pool, err := f.Keeper.CreatePool(f.Ctx, f.Cap, creator, "uusdt",
		nearMax, math.NewInt(1_000_000), math.NewInt(1000), 3)
	require.NoError(t, err)

	provider := types.AccountID("provider")
	fund(t, f, provider, keepertest.BaseDenom, math.NewInt(100))
	fund(t, f, provider, "uusdt", math.NewInt(100))

	_, err = f.Keeper.AddLiquidity(f.Ctx, provider, pool.Id, math.NewInt(100), math.NewInt(100))
	require.True(t, errors.IsOf(err, types.ErrOverflow))

	unchanged, err := f.Keeper.GetPool(f.Ctx, pool.Id)
	require.NoError(t, err)
	require.Equal(t, *pool, *unchanged)
	require.Equal(t, math.NewInt(100), f.Ledger.GetBalance(f.Ctx, provider, keepertest.BaseDenom))
}

// FuzzSafeMulDiv cross-checks the widened mul-div against big.Int math.
func FuzzSafeMulDiv(f *testing.F) {
	f.Add(uint64(1_000_000), uint64(2_000_000), uint64(100_000))
	f.Add(uint64(1), uint64(1), uint64(1))
	f.Add(^uint64(0), ^uint64(0), ^uint64(0))
	f.Add(^uint64(0), uint64(2), uint64(1))

	f.Fuzz(func(t *testing.T, a, b, c uint64) {
		if c == 0 {
			return
		}

		aInt := math.NewIntFromUint64(a)
		bInt := math.NewIntFromUint64(b)
		cInt := math.NewIntFromUint64(c)

		got, err := keeper.SafeMulDiv(aInt, bInt, cInt)

		want := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
		want.Quo(want, new(big.Int).SetUint64(c))

		if want.Cmp(types.MaxAmount.BigInt()) > 0 {
			require.Error(t, err, "quotient %s above the working width must fail", want)
			return
		}
		require.NoError(t, err)
		require.Equal(t, want.String(), got.BigInt().String())
	})
}

// FuzzSafeAdd checks the commit bound on sums.
func FuzzSafeAdd(f *testing.F) {
	f.Add(uint64(1), uint64(2))
	f.Add(^uint64(0), uint64(0))
	f.Add(^uint64(0), uint64(1))

	f.Fuzz(func(t *testing.T, a, b uint64) {
		got, err := keeper.SafeAdd(math.NewIntFromUint64(a), math.NewIntFromUint64(b))

		want := new(big.Int).Add(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
		if want.Cmp(types.MaxAmount.BigInt()) > 0 {
			require.Error(t, err)
			return
		}
		require.NoError(t, err)
		require.Equal(t, want.String(), got.BigInt().String())
	})
}

// FuzzQuoteNeverPanics drives the read-only pricing path with arbitrary
// in-range values; it must return a result or a typed error, never panic,
// and any result must be strictly below the output reserve.
func FuzzQuoteNeverPanics(f *testing.F) {
	f.Add(uint64(1_000_000_000), uint64(1_000_000), uint64(5_000_000), uint64(3))
	f.Add(uint64(1), uint64(1), uint64(1), uint64(0))
	f.Add(^uint64(0)/2, ^uint64(0)/2, ^uint64(0)/2, uint64(999))

	f.Fuzz(func(t *testing.T, reserveBase, reserveToken, amountIn, feeRaw uint64) {
		if reserveBase == 0 || reserveToken == 0 || amountIn == 0 {
			return
		}
		feeRate := feeRaw % types.FeeScale

		fx := keepertest.AMMKeeper(t)
		creator := types.AccountID("creator")
		fund(t, fx, creator, keepertest.BaseDenom, math.NewIntFromUint64(reserveBase))
		fund(t, fx, creator, "uusdt", math.NewIntFromUint64(reserveToken))

		pool, err := fx.Keeper.CreatePool(fx.Ctx, fx.Cap, creator, "uusdt",
			math.NewIntFromUint64(reserveBase), math.NewIntFromUint64(reserveToken),
			math.NewInt(1000), feeRate)
		require.NoError(t, err)

		out, err := fx.Keeper.Quote(fx.Ctx, pool.Id, types.BaseForToken, math.NewIntFromUint64(amountIn))
		require.NoError(t, err)
		require.True(t, out.LT(math.NewIntFromUint64(reserveToken)),
			"quote %s must stay below reserve %d", out, reserveToken)
	})
}
