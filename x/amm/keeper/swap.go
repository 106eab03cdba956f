package keeper

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/math"

	"github.com/paw-chain/amm/x/amm/types"
)

// Swap trades amountIn of one side of the pool for the other at the
// constant-product price, with the pool's fee retained in its reserves.
// The full pre-fee input joins the input reserve, so the reserve product
// grows by the fee on every trade. Executed atomically under the pool's
// lock: on any failure the pool and the ledger are untouched.
func (k *Keeper) Swap(
	ctx context.Context,
	trader types.AccountID,
	poolID uint64,
	direction types.Direction,
	amountIn math.Int,
) (amountOut math.Int, err error) {
	defer k.trackOp("swap", time.Now(), &err)

	if trader.Empty() {
		return math.Int{}, types.ErrInvalidAddress.Wrap("trader account cannot be empty")
	}
	if !direction.Valid() {
		return math.Int{}, types.ErrInvalidAmount.Wrapf("unknown swap direction %d", direction)
	}
	if !types.ValidAmount(amountIn) {
		return math.Int{}, types.ErrInvalidAmount.Wrap("swap amount must be positive")
	}

	entry, err := k.getEntry(poolID)
	if err != nil {
		return math.Int{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	pool := entry.pool
	reserveIn, reserveOut := pool.Reserves(direction)
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrapf("pool %d has an empty reserve", poolID)
	}

	amountOut, err = computeSwapOutput(amountIn, reserveIn, reserveOut, pool.FeeRate)
	if err != nil {
		return math.Int{}, fmt.Errorf("Swap: pool %d: %w", poolID, err)
	}

	newReserveIn, newReserveOut, err := computeSwapCommit(reserveIn, reserveOut, amountIn, amountOut)
	if err != nil {
		return math.Int{}, fmt.Errorf("Swap: pool %d: %w", poolID, err)
	}

	denomIn, denomOut := k.swapDenoms(pool, direction)

	// Settle before writing state. Input first; a failed output transfer
	// refunds the input, leaving the ledger exactly as before the call.
	coinIn := types.NewCoin(denomIn, amountIn)
	if err := k.ledger.SendCoins(ctx, trader, types.ModuleAccountID, coinIn); err != nil {
		return math.Int{}, fmt.Errorf("Swap: input transfer: %w", err)
	}

	coinOut := types.NewCoin(denomOut, amountOut)
	if err := k.ledger.SendCoins(ctx, types.ModuleAccountID, trader, coinOut); err != nil {
		k.refund(ctx, trader, coinIn, "swap")
		return math.Int{}, fmt.Errorf("Swap: output transfer: %w", err)
	}

	if direction == types.BaseForToken {
		pool.ReserveBase = newReserveIn
		pool.ReserveToken = newReserveOut
	} else {
		pool.ReserveToken = newReserveIn
		pool.ReserveBase = newReserveOut
	}
	entry.pool = pool

	k.logger.Info("swap executed",
		"pool_id", poolID,
		"trader", trader.String(),
		"direction", direction.String(),
		"amount_in", amountIn.String(),
		"amount_out", amountOut.String(),
	)

	k.emitter.EmitEvent(types.NewEvent(
		types.EventTypeSwap,
		types.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
		types.NewAttribute(types.AttributeKeyTrader, trader.String()),
		types.NewAttribute(types.AttributeKeyDirection, direction.String()),
		types.NewAttribute(types.AttributeKeyAmountIn, amountIn.String()),
		types.NewAttribute(types.AttributeKeyAmountOut, amountOut.String()),
	))

	k.metrics.SwapVolume.WithLabelValues(denomIn).Add(float64(amountIn.Uint64()))

	return amountOut, nil
}

// Quote computes the output a Swap with the same arguments would return,
// without touching any state. Both paths share computeSwapOutput, so a
// quote is bit-identical to the swap it predicts.
func (k *Keeper) Quote(
	ctx context.Context,
	poolID uint64,
	direction types.Direction,
	amountIn math.Int,
) (math.Int, error) {
	if !direction.Valid() {
		return math.Int{}, types.ErrInvalidAmount.Wrapf("unknown swap direction %d", direction)
	}
	if !types.ValidAmount(amountIn) {
		return math.Int{}, types.ErrInvalidAmount.Wrap("swap amount must be positive")
	}

	entry, err := k.getEntry(poolID)
	if err != nil {
		return math.Int{}, err
	}

	entry.mu.Lock()
	pool := entry.pool
	entry.mu.Unlock()

	reserveIn, reserveOut := pool.Reserves(direction)
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrapf("pool %d has an empty reserve", poolID)
	}

	out, err := computeSwapOutput(amountIn, reserveIn, reserveOut, pool.FeeRate)
	if err != nil {
		return math.Int{}, fmt.Errorf("Quote: pool %d: %w", poolID, err)
	}
	return out, nil
}

// GetSpotPrice returns the mid price for a direction, output reserve over
// input reserve, excluding fees. Read-only.
func (k *Keeper) GetSpotPrice(ctx context.Context, poolID uint64, direction types.Direction) (math.LegacyDec, error) {
	if !direction.Valid() {
		return math.LegacyDec{}, types.ErrInvalidAmount.Wrapf("unknown swap direction %d", direction)
	}

	entry, err := k.getEntry(poolID)
	if err != nil {
		return math.LegacyDec{}, err
	}

	entry.mu.Lock()
	pool := entry.pool
	entry.mu.Unlock()

	reserveIn, reserveOut := pool.Reserves(direction)
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return math.LegacyDec{}, types.ErrInsufficientLiquidity.Wrapf("pool %d has an empty reserve", poolID)
	}

	return math.LegacyNewDecFromInt(reserveOut).Quo(math.LegacyNewDecFromInt(reserveIn)), nil
}

// swapDenoms returns the (input, output) denoms for a swap direction.
func (k *Keeper) swapDenoms(pool types.Pool, dir types.Direction) (denomIn, denomOut string) {
	if dir == types.BaseForToken {
		return k.baseDenom, pool.TokenDenom
	}
	return pool.TokenDenom, k.baseDenom
}
