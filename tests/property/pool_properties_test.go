package property

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	keepertest "github.com/paw-chain/amm/testutil/keeper"
	"github.com/paw-chain/amm/x/amm/types"
)

const maxU64 = ^uint64(0)

// seedPool builds a pool with arbitrary in-range reserves and fee, funding
// the creator through the fixture ledger.
func seedPool(t *testing.T, rt *rapid.T) (*keepertest.Fixture, *types.Pool) {
	reserveBase := rapid.Uint64Range(1, maxU64).Draw(rt, "reserveBase")
	reserveToken := rapid.Uint64Range(1, maxU64).Draw(rt, "reserveToken")
	shareSupply := rapid.Uint64Range(1, maxU64).Draw(rt, "shareSupply")
	feeRate := rapid.Uint64Range(0, types.MaxFeeRate).Draw(rt, "feeRate")

	f := keepertest.AMMKeeper(t)
	creator := types.AccountID("creator")
	require.NoError(t, f.Ledger.FundAccount(f.Ctx, creator,
		types.NewCoin(keepertest.BaseDenom, math.NewIntFromUint64(reserveBase))))
	require.NoError(t, f.Ledger.FundAccount(f.Ctx, creator,
		types.NewCoin("uusdt", math.NewIntFromUint64(reserveToken))))

	pool, err := f.Keeper.CreatePool(f.Ctx, f.Cap, creator, "uusdt",
		math.NewIntFromUint64(reserveBase),
		math.NewIntFromUint64(reserveToken),
		math.NewIntFromUint64(shareSupply),
		feeRate,
	)
	require.NoError(t, err)
	return f, pool
}

func drawDirection(rt *rapid.T) types.Direction {
	if rapid.Bool().Draw(rt, "baseForToken") {
		return types.BaseForToken
	}
	return types.TokenForBase
}

// TestSwapOutputStrictlyBelowReserve is the structural bound the swap path
// relies on instead of a runtime clamp: for every representable pool state
// and input, the computed output is strictly less than the output reserve.
func TestSwapOutputStrictlyBelowReserve(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f, pool := seedPool(t, rt)
		dir := drawDirection(rt)
		amountIn := rapid.Uint64Range(1, maxU64).Draw(rt, "amountIn")

		out, err := f.Keeper.Quote(f.Ctx, pool.Id, dir, math.NewIntFromUint64(amountIn))
		require.NoError(t, err)

		_, reserveOut := pool.Reserves(dir)
		if !out.LT(reserveOut) {
			rt.Fatalf("output %s not below reserve %s", out, reserveOut)
		}
	})
}

// TestSwapConservationAndProductGrowth executes real swaps and checks the
// two core accounting invariants: the input reserve grows by exactly the
// pre-fee input, and the reserve product never decreases (strictly grows
// whenever a fee is charged and output is nonzero).
func TestSwapConservationAndProductGrowth(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f, pool := seedPool(t, rt)
		dir := drawDirection(rt)

		reserveIn, reserveOut := pool.Reserves(dir)
		// Keep the input committable: the post-swap input reserve must
		// stay inside the working width.
		headroom := types.MaxAmount.Sub(reserveIn)
		if headroom.IsZero() {
			rt.Skip("input reserve already at the width bound")
		}
		maxIn := headroom.Uint64()
		amountIn := rapid.Uint64Range(1, maxIn).Draw(rt, "amountIn")

		trader := types.AccountID("trader")
		denomIn := keepertest.BaseDenom
		if dir == types.TokenForBase {
			denomIn = "uusdt"
		}
		require.NoError(t, f.Ledger.FundAccount(f.Ctx, trader,
			types.NewCoin(denomIn, math.NewIntFromUint64(amountIn))))

		out, err := f.Keeper.Swap(f.Ctx, trader, pool.Id, dir, math.NewIntFromUint64(amountIn))
		require.NoError(t, err)

		after, err := f.Keeper.GetPool(f.Ctx, pool.Id)
		require.NoError(t, err)
		newReserveIn, newReserveOut := after.Reserves(dir)

		// Conservation on both sides.
		if !newReserveIn.Equal(reserveIn.Add(math.NewIntFromUint64(amountIn))) {
			rt.Fatalf("input reserve %s != %s + %d", newReserveIn, reserveIn, amountIn)
		}
		if !newReserveOut.Equal(reserveOut.Sub(out)) {
			rt.Fatalf("output reserve %s != %s - %s", newReserveOut, reserveOut, out)
		}

		// Product monotonicity.
		oldProduct := reserveIn.Mul(reserveOut)
		newProduct := newReserveIn.Mul(newReserveOut)
		if newProduct.LT(oldProduct) {
			rt.Fatalf("product shrank: %s -> %s", oldProduct, newProduct)
		}
		if pool.FeeRate > 0 && out.IsPositive() && !newProduct.GT(oldProduct) {
			rt.Fatalf("fee retained but product did not grow: %s -> %s", oldProduct, newProduct)
		}

		// Swaps never touch the share supply.
		if !after.ShareSupply.Equal(pool.ShareSupply) {
			rt.Fatalf("share supply changed by a swap: %s -> %s", pool.ShareSupply, after.ShareSupply)
		}
	})
}

// TestQuoteSwapBitEquality: a quote taken before a swap equals the swap's
// returned output exactly, and quoting does not mutate the pool.
func TestQuoteSwapBitEquality(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f, pool := seedPool(t, rt)
		dir := drawDirection(rt)

		reserveIn, _ := pool.Reserves(dir)
		headroom := types.MaxAmount.Sub(reserveIn)
		if headroom.IsZero() {
			rt.Skip("input reserve already at the width bound")
		}
		amountIn := rapid.Uint64Range(1, headroom.Uint64()).Draw(rt, "amountIn")

		quoted, err := f.Keeper.Quote(f.Ctx, pool.Id, dir, math.NewIntFromUint64(amountIn))
		require.NoError(t, err)

		unchanged, err := f.Keeper.GetPool(f.Ctx, pool.Id)
		require.NoError(t, err)
		if !unchanged.ReserveBase.Equal(pool.ReserveBase) ||
			!unchanged.ReserveToken.Equal(pool.ReserveToken) ||
			!unchanged.ShareSupply.Equal(pool.ShareSupply) {
			rt.Fatalf("quote mutated the pool: %+v -> %+v", pool, unchanged)
		}

		trader := types.AccountID("trader")
		denomIn := keepertest.BaseDenom
		if dir == types.TokenForBase {
			denomIn = "uusdt"
		}
		require.NoError(t, f.Ledger.FundAccount(f.Ctx, trader,
			types.NewCoin(denomIn, math.NewIntFromUint64(amountIn))))

		swapped, err := f.Keeper.Swap(f.Ctx, trader, pool.Id, dir, math.NewIntFromUint64(amountIn))
		require.NoError(t, err)

		if !quoted.Equal(swapped) {
			rt.Fatalf("quote %s != swap output %s", quoted, swapped)
		}
	})
}

// TestSwapOutputMonotoneInInput: against a fixed pool state, a larger
// input never buys less output.
func TestSwapOutputMonotoneInInput(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f, pool := seedPool(t, rt)
		dir := drawDirection(rt)

		a := rapid.Uint64Range(1, maxU64-1).Draw(rt, "smallerInput")
		b := rapid.Uint64Range(a, maxU64).Draw(rt, "largerInput")

		outA, err := f.Keeper.Quote(f.Ctx, pool.Id, dir, math.NewIntFromUint64(a))
		require.NoError(t, err)
		outB, err := f.Keeper.Quote(f.Ctx, pool.Id, dir, math.NewIntFromUint64(b))
		require.NoError(t, err)

		if outB.LT(outA) {
			rt.Fatalf("output shrank as input grew: quote(%d)=%s > quote(%d)=%s", a, outA, b, outB)
		}
	})
}

// TestAddRemoveRoundTripNeverProfits: depositing at or above the pool
// ratio and immediately burning the minted shares pays back at most the
// deposit on both legs.
func TestAddRemoveRoundTripNeverProfits(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f, pool := seedPool(t, rt)

		baseHeadroom := types.MaxAmount.Sub(pool.ReserveBase)
		if baseHeadroom.IsZero() {
			rt.Skip("base reserve at the width bound")
		}
		// Bound the base leg so the proportional token leg and the share
		// mint stay committable too.
		maxBase := baseHeadroom.Uint64()
		if maxBase > 1<<32 {
			maxBase = 1 << 32
		}
		baseIn64 := rapid.Uint64Range(1, maxBase).Draw(rt, "baseIn")
		baseIn := math.NewIntFromUint64(baseIn64)

		// Proportional token leg, rounded up.
		tokenIn := baseIn.Mul(pool.ReserveToken).
			Add(pool.ReserveBase).Sub(math.OneInt()).
			Quo(pool.ReserveBase)
		if tokenIn.IsZero() || types.MaxAmount.Sub(pool.ReserveToken).LT(tokenIn) {
			rt.Skip("token leg not committable")
		}
		expectMint := baseIn.Mul(pool.ShareSupply).Quo(pool.ReserveBase)
		if pool.ShareSupply.Add(expectMint).GT(types.MaxAmount) {
			rt.Skip("share supply would leave the working width")
		}

		provider := types.AccountID("provider")
		require.NoError(t, f.Ledger.FundAccount(f.Ctx, provider,
			types.NewCoin(keepertest.BaseDenom, baseIn)))
		require.NoError(t, f.Ledger.FundAccount(f.Ctx, provider,
			types.NewCoin("uusdt", tokenIn)))

		minted, err := f.Keeper.AddLiquidity(f.Ctx, provider, pool.Id, baseIn, tokenIn)
		require.NoError(t, err)
		if minted.IsZero() {
			return
		}

		baseOut, tokenOut, err := f.Keeper.RemoveLiquidity(f.Ctx, provider, pool.Id, minted)
		require.NoError(t, err)

		if baseOut.GT(baseIn) {
			rt.Fatalf("round trip profited in base: %s out for %s in", baseOut, baseIn)
		}
		if tokenOut.GT(tokenIn) {
			rt.Fatalf("round trip profited in token: %s out for %s in", tokenOut, tokenIn)
		}
	})
}
