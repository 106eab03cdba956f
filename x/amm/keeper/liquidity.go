package keeper

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/math"

	"github.com/paw-chain/amm/x/amm/types"
)

// AddLiquidity deposits both assets into a pool and mints LP shares priced
// by the base contribution alone:
//
//	sharesMinted = (baseIn * shareSupply) / reserveBase
//
// The token deposit rides along at whatever ratio the provider chose; any
// excess over the pool ratio is donated to existing holders. A deposit
// small enough to floor to zero shares still succeeds and still moves both
// amounts into the reserves.
func (k *Keeper) AddLiquidity(
	ctx context.Context,
	provider types.AccountID,
	poolID uint64,
	baseIn, tokenIn math.Int,
) (sharesMinted math.Int, err error) {
	defer k.trackOp("add_liquidity", time.Now(), &err)

	if provider.Empty() {
		return math.Int{}, types.ErrInvalidAddress.Wrap("provider account cannot be empty")
	}
	if !types.ValidAmount(baseIn) {
		return math.Int{}, types.ErrInvalidAmount.Wrap("base deposit must be positive")
	}
	if !types.ValidAmount(tokenIn) {
		return math.Int{}, types.ErrInvalidAmount.Wrap("token deposit must be positive")
	}

	entry, err := k.getEntry(poolID)
	if err != nil {
		return math.Int{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	pool := entry.pool

	sharesMinted, err = computeAddLiquidityShares(baseIn, pool.ShareSupply, pool.ReserveBase)
	if err != nil {
		return math.Int{}, fmt.Errorf("AddLiquidity: pool %d: %w", poolID, err)
	}

	// Every arithmetic step happens before the first ledger move, so a
	// width failure aborts with nothing to unwind.
	newReserveBase, err := SafeAdd(pool.ReserveBase, baseIn)
	if err != nil {
		return math.Int{}, types.ErrOverflow.Wrapf("base reserve update: %v", err)
	}
	newReserveToken, err := SafeAdd(pool.ReserveToken, tokenIn)
	if err != nil {
		return math.Int{}, types.ErrOverflow.Wrapf("token reserve update: %v", err)
	}
	newShareSupply, err := SafeAdd(pool.ShareSupply, sharesMinted)
	if err != nil {
		return math.Int{}, types.ErrOverflow.Wrapf("share supply update: %v", err)
	}

	baseCoin := types.NewCoin(k.baseDenom, baseIn)
	if err := k.ledger.SendCoins(ctx, provider, types.ModuleAccountID, baseCoin); err != nil {
		return math.Int{}, fmt.Errorf("AddLiquidity: base deposit: %w", err)
	}

	tokenCoin := types.NewCoin(pool.TokenDenom, tokenIn)
	if err := k.ledger.SendCoins(ctx, provider, types.ModuleAccountID, tokenCoin); err != nil {
		k.refund(ctx, provider, baseCoin, "add_liquidity")
		return math.Int{}, fmt.Errorf("AddLiquidity: token deposit: %w", err)
	}

	// A zero mint skips the ledger call; minting zero coins is a no-op the
	// share ledger need not support.
	if sharesMinted.IsPositive() {
		shareCoin := types.NewCoin(pool.ShareDenom(), sharesMinted)
		if err := k.ledger.MintCoins(ctx, provider, shareCoin); err != nil {
			k.refund(ctx, provider, baseCoin, "add_liquidity")
			k.refund(ctx, provider, tokenCoin, "add_liquidity")
			return math.Int{}, fmt.Errorf("AddLiquidity: mint shares: %w", err)
		}
	}

	pool.ReserveBase = newReserveBase
	pool.ReserveToken = newReserveToken
	pool.ShareSupply = newShareSupply
	entry.pool = pool

	k.logger.Info("liquidity added",
		"pool_id", poolID,
		"provider", provider.String(),
		"base_in", baseIn.String(),
		"token_in", tokenIn.String(),
		"shares_minted", sharesMinted.String(),
	)

	k.emitter.EmitEvent(types.NewEvent(
		types.EventTypeAddLiquidity,
		types.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
		types.NewAttribute(types.AttributeKeyProvider, provider.String()),
		types.NewAttribute(types.AttributeKeyBaseAmount, baseIn.String()),
		types.NewAttribute(types.AttributeKeyTokenAmount, tokenIn.String()),
		types.NewAttribute(types.AttributeKeyShares, sharesMinted.String()),
	))

	return sharesMinted, nil
}

// RemoveLiquidity burns sharesIn of the pool's LP shares and pays out the
// floored pro-rata portion of both reserves:
//
//	baseOut  = (reserveBase  * sharesIn) / shareSupply
//	tokenOut = (reserveToken * sharesIn) / shareSupply
//
// The burn runs against the pool's own share denom; a provider holding
// fewer shares than requested fails ErrInsufficientShares with no state
// change. Burning the entire supply drains the pool; the drained pool
// stays registered and addressable.
func (k *Keeper) RemoveLiquidity(
	ctx context.Context,
	provider types.AccountID,
	poolID uint64,
	sharesIn math.Int,
) (baseOut, tokenOut math.Int, err error) {
	defer k.trackOp("remove_liquidity", time.Now(), &err)

	if provider.Empty() {
		return math.Int{}, math.Int{}, types.ErrInvalidAddress.Wrap("provider account cannot be empty")
	}
	if !types.ValidAmount(sharesIn) {
		return math.Int{}, math.Int{}, types.ErrInvalidAmount.Wrap("share amount must be positive")
	}

	entry, err := k.getEntry(poolID)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	pool := entry.pool

	baseOut, tokenOut, err = computeRemoveLiquidityAmounts(sharesIn, pool.ReserveBase, pool.ReserveToken, pool.ShareSupply)
	if err != nil {
		return math.Int{}, math.Int{}, fmt.Errorf("RemoveLiquidity: pool %d: %w", poolID, err)
	}

	newReserveBase, err := SafeSub(pool.ReserveBase, baseOut)
	if err != nil {
		return math.Int{}, math.Int{}, types.ErrOverflow.Wrapf("base reserve update: %v", err)
	}
	newReserveToken, err := SafeSub(pool.ReserveToken, tokenOut)
	if err != nil {
		return math.Int{}, math.Int{}, types.ErrOverflow.Wrapf("token reserve update: %v", err)
	}
	newShareSupply, err := SafeSub(pool.ShareSupply, sharesIn)
	if err != nil {
		return math.Int{}, math.Int{}, types.ErrOverflow.Wrapf("share supply update: %v", err)
	}

	// Burn first. The share ledger enforces the provider's holding; a
	// shortfall surfaces here before any value moves.
	shareCoin := types.NewCoin(pool.ShareDenom(), sharesIn)
	if err := k.ledger.BurnCoins(ctx, provider, shareCoin); err != nil {
		return math.Int{}, math.Int{}, types.ErrInsufficientShares.Wrapf("burn %s shares of pool %d: %v", sharesIn, poolID, err)
	}

	// Payouts. A failed payout re-mints the burned shares (and returns any
	// base already paid) so the aborted call leaves no trace.
	baseCoin := types.NewCoin(k.baseDenom, baseOut)
	if baseOut.IsPositive() {
		if err := k.ledger.SendCoins(ctx, types.ModuleAccountID, provider, baseCoin); err != nil {
			k.remint(ctx, provider, shareCoin, "remove_liquidity")
			return math.Int{}, math.Int{}, fmt.Errorf("RemoveLiquidity: base payout: %w", err)
		}
	}

	if tokenOut.IsPositive() {
		tokenCoin := types.NewCoin(pool.TokenDenom, tokenOut)
		if err := k.ledger.SendCoins(ctx, types.ModuleAccountID, provider, tokenCoin); err != nil {
			if baseOut.IsPositive() {
				if rerr := k.ledger.SendCoins(ctx, provider, types.ModuleAccountID, baseCoin); rerr != nil {
					k.logger.Error("base payout reversal failed after token payout failure",
						"pool_id", poolID,
						"provider", provider.String(),
						"amount", baseCoin.String(),
						"error", rerr,
					)
				}
			}
			k.remint(ctx, provider, shareCoin, "remove_liquidity")
			return math.Int{}, math.Int{}, fmt.Errorf("RemoveLiquidity: token payout: %w", err)
		}
	}

	pool.ReserveBase = newReserveBase
	pool.ReserveToken = newReserveToken
	pool.ShareSupply = newShareSupply
	entry.pool = pool

	k.logger.Info("liquidity removed",
		"pool_id", poolID,
		"provider", provider.String(),
		"shares_burned", sharesIn.String(),
		"base_out", baseOut.String(),
		"token_out", tokenOut.String(),
	)

	k.emitter.EmitEvent(types.NewEvent(
		types.EventTypeRemoveLiquidity,
		types.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
		types.NewAttribute(types.AttributeKeyProvider, provider.String()),
		types.NewAttribute(types.AttributeKeyShares, sharesIn.String()),
		types.NewAttribute(types.AttributeKeyBaseAmount, baseOut.String()),
		types.NewAttribute(types.AttributeKeyTokenAmount, tokenOut.String()),
	))

	return baseOut, tokenOut, nil
}

// remint restores shares burned by an operation that later failed.
func (k *Keeper) remint(ctx context.Context, to types.AccountID, amt types.Coin, op string) {
	if err := k.ledger.MintCoins(ctx, to, amt); err != nil {
		k.logger.Error("share re-mint failed, burned shares lost",
			"op", op,
			"account", to.String(),
			"amount", amt.String(),
			"error", err,
		)
	}
}
