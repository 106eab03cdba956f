package keeper

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cosmossdk.io/math"

	"github.com/paw-chain/amm/x/amm/types"
)

// CreatePool registers a new constant-product market for tokenDenom against
// the base asset, seeds its reserves from the creator's deposits, and mints
// the creator exactly initialShares LP shares. The share count is the
// creator's choice and fixes the initial share price; it is deliberately
// not derived from the deposit ratio.
func (k *Keeper) CreatePool(
	ctx context.Context,
	cap *types.CreationCapability,
	creator types.AccountID,
	tokenDenom string,
	baseIn, tokenIn math.Int,
	initialShares math.Int,
	feeRate uint64,
) (pool *types.Pool, err error) {
	defer k.trackOp("create_pool", time.Now(), &err)

	// 1. Capability check. Only the value minted with this keeper grants
	// creation rights; it is compared by reference and never consumed.
	if !cap.Issued() || cap != k.creationCap {
		return nil, types.ErrUnauthorized.Wrap("invalid creation capability")
	}

	// 2. Input validation
	if creator.Empty() {
		return nil, types.ErrInvalidAddress.Wrap("creator account cannot be empty")
	}

	if tokenDenom == "" {
		return nil, types.ErrInvalidDenom.Wrap("token denom cannot be empty")
	}

	if tokenDenom == k.baseDenom {
		return nil, types.ErrInvalidDenom.Wrapf("token denom must differ from base denom %s", k.baseDenom)
	}

	if !types.ValidAmount(baseIn) {
		return nil, types.ErrInvalidAmount.Wrap("base deposit must be positive")
	}

	if !types.ValidAmount(tokenIn) {
		return nil, types.ErrInvalidAmount.Wrap("token deposit must be positive")
	}

	if !types.ValidAmount(initialShares) {
		return nil, types.ErrInvalidAmount.Wrap("initial shares must be positive")
	}

	if feeRate > types.MaxFeeRate {
		return nil, types.ErrInvalidFee.Wrapf("fee rate %d outside [0, %d]", feeRate, types.MaxFeeRate)
	}

	// 3. Serialize creation so the observed pool ID stays stable until the
	// insert commits. An aborted create leaves the counter untouched.
	k.createMu.Lock()
	defer k.createMu.Unlock()

	k.mu.RLock()
	poolID := k.nextPoolID
	k.mu.RUnlock()

	candidate := types.Pool{
		Id:           poolID,
		TokenDenom:   tokenDenom,
		ReserveBase:  baseIn,
		ReserveToken: tokenIn,
		ShareSupply:  initialShares,
		FeeRate:      feeRate,
	}
	if err := candidate.Validate(); err != nil {
		return nil, fmt.Errorf("CreatePool: validate pool state: %w", err)
	}

	// 4. Move the deposits into the reserve account before any state is
	// written. A failed second transfer refunds the first.
	baseCoin := types.NewCoin(k.baseDenom, baseIn)
	if err := k.ledger.SendCoins(ctx, creator, types.ModuleAccountID, baseCoin); err != nil {
		return nil, fmt.Errorf("CreatePool: base deposit: %w", err)
	}

	tokenCoin := types.NewCoin(tokenDenom, tokenIn)
	if err := k.ledger.SendCoins(ctx, creator, types.ModuleAccountID, tokenCoin); err != nil {
		k.refund(ctx, creator, baseCoin, "create_pool")
		return nil, fmt.Errorf("CreatePool: token deposit: %w", err)
	}

	// 5. Mint the initial shares in the pool's own denom.
	shareCoin := types.NewCoin(types.ShareDenom(poolID), initialShares)
	if err := k.ledger.MintCoins(ctx, creator, shareCoin); err != nil {
		k.refund(ctx, creator, baseCoin, "create_pool")
		k.refund(ctx, creator, tokenCoin, "create_pool")
		return nil, fmt.Errorf("CreatePool: mint initial shares: %w", err)
	}

	// 6. Publish the pool. From here the create cannot fail.
	k.mu.Lock()
	k.pools[poolID] = &poolEntry{pool: candidate}
	k.nextPoolID = poolID + 1
	k.mu.Unlock()

	k.logger.Info("pool created",
		"pool_id", poolID,
		"token_denom", tokenDenom,
		"reserve_base", baseIn.String(),
		"reserve_token", tokenIn.String(),
		"share_supply", initialShares.String(),
		"fee_rate", feeRate,
	)

	k.emitter.EmitEvent(types.NewEvent(
		types.EventTypeCreatePool,
		types.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
		types.NewAttribute(types.AttributeKeyCreator, creator.String()),
		types.NewAttribute(types.AttributeKeyTokenDenom, tokenDenom),
		types.NewAttribute(types.AttributeKeyBaseAmount, baseIn.String()),
		types.NewAttribute(types.AttributeKeyTokenAmount, tokenIn.String()),
		types.NewAttribute(types.AttributeKeyShares, initialShares.String()),
		types.NewAttribute(types.AttributeKeyFeeRate, fmt.Sprintf("%d", feeRate)),
	))

	k.metrics.PoolsCreated.Inc()

	created := candidate
	return &created, nil
}

// GetPool retrieves a snapshot of a pool by its unique numeric ID.
// Returns ErrPoolNotFound if the pool does not exist.
func (k *Keeper) GetPool(ctx context.Context, poolID uint64) (*types.Pool, error) {
	entry, err := k.getEntry(poolID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	pool := entry.pool
	entry.mu.Unlock()

	return &pool, nil
}

// GetAllPools returns snapshots of every registered pool, ordered by ID.
func (k *Keeper) GetAllPools(ctx context.Context) []types.Pool {
	k.mu.RLock()
	entries := make([]*poolEntry, 0, len(k.pools))
	for _, entry := range k.pools {
		entries = append(entries, entry)
	}
	k.mu.RUnlock()

	pools := make([]types.Pool, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		pools = append(pools, entry.pool)
		entry.mu.Unlock()
	}

	sort.Slice(pools, func(i, j int) bool { return pools[i].Id < pools[j].Id })
	return pools
}

// IteratePools calls cb for each pool snapshot in ID order until cb
// returns true. The callback never observes a pool mid-operation and may
// itself call back into the keeper.
func (k *Keeper) IteratePools(ctx context.Context, cb func(pool types.Pool) (stop bool)) {
	for _, pool := range k.GetAllPools(ctx) {
		if cb(pool) {
			return
		}
	}
}

// GetPoolsByDenom returns snapshots of every pool trading denom, on either
// side of the pair.
func (k *Keeper) GetPoolsByDenom(ctx context.Context, denom string) []types.Pool {
	var pools []types.Pool
	for _, pool := range k.GetAllPools(ctx) {
		if pool.TokenDenom == denom || k.baseDenom == denom {
			pools = append(pools, pool)
		}
	}
	return pools
}

// NextPoolID returns the ID the next created pool will take.
func (k *Keeper) NextPoolID(ctx context.Context) uint64 {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.nextPoolID
}

// PoolCount returns the number of registered pools.
func (k *Keeper) PoolCount(ctx context.Context) int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.pools)
}
