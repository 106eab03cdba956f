package types

import (
	"fmt"
)

// GenesisState is a full snapshot of the engine's pool registry, used to
// hand state between an embedding runtime and a fresh engine instance.
type GenesisState struct {
	Pools      []Pool `json:"pools"`
	NextPoolId uint64 `json:"next_pool_id"`
}

// DefaultGenesis returns the empty registry with the ID counter at its
// starting value.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Pools:      []Pool{},
		NextPoolId: 1,
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if gs.NextPoolId == 0 {
		return fmt.Errorf("next pool id must be positive")
	}

	seen := make(map[uint64]struct{}, len(gs.Pools))
	for _, pool := range gs.Pools {
		if pool.Id == 0 {
			return fmt.Errorf("pool id must be positive")
		}
		if pool.Id >= gs.NextPoolId {
			return fmt.Errorf("pool %d: id not below next pool id %d", pool.Id, gs.NextPoolId)
		}
		if _, ok := seen[pool.Id]; ok {
			return fmt.Errorf("duplicate pool id %d", pool.Id)
		}
		seen[pool.Id] = struct{}{}

		if err := pool.Validate(); err != nil {
			return err
		}
	}
	return nil
}
