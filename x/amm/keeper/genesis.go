package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/amm/x/amm/types"
)

// InitGenesis rebuilds the pool registry from a genesis snapshot. The
// engine must be freshly constructed; importing over live pools is
// rejected, not merged. Ledger balances and share supplies are the
// embedding runtime's half of the hand-off; the share-supply and backing
// invariants verify the two halves agree afterwards.
func (k *Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid genesis state: %w", err)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if len(k.pools) != 0 {
		return fmt.Errorf("genesis import into a non-empty registry (%d pools)", len(k.pools))
	}

	for _, pool := range genState.Pools {
		k.pools[pool.Id] = &poolEntry{pool: pool}
	}
	k.nextPoolID = genState.NextPoolId

	k.logger.Info("genesis state imported",
		"pools", len(genState.Pools),
		"next_pool_id", genState.NextPoolId,
	)
	return nil
}

// ExportGenesis snapshots every pool and the ID counter.
func (k *Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	return &types.GenesisState{
		Pools:      k.GetAllPools(ctx),
		NextPoolId: k.NextPoolID(ctx),
	}
}
