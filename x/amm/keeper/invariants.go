package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	"github.com/paw-chain/amm/x/amm/types"
)

// Invariant is a named consistency check over the whole engine. It returns
// a human-readable report and whether the invariant is broken.
type Invariant func(ctx context.Context) (string, bool)

// AllInvariants runs every engine invariant and stops at the first break.
func AllInvariants(k *Keeper) Invariant {
	invariants := []Invariant{
		PositiveReservesInvariant(k),
		WidthBoundsInvariant(k),
		ShareSupplyInvariant(k),
		ModuleBackingInvariant(k),
	}
	return func(ctx context.Context) (string, bool) {
		for _, inv := range invariants {
			if res, broken := inv(ctx); broken {
				return res, true
			}
		}
		return formatInvariant("all", "no violations found"), false
	}
}

// PositiveReservesInvariant checks that every pool with outstanding shares
// has both reserves live. A drained pool (zero shares, zero reserves) is a
// legal inert state and passes.
func PositiveReservesInvariant(k *Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		for _, pool := range k.GetAllPools(ctx) {
			if pool.ShareSupply.IsPositive() && (pool.ReserveBase.IsZero() || pool.ReserveToken.IsZero()) {
				count++
				msg += fmt.Sprintf("pool %d: share supply %s with reserves base=%s token=%s\n",
					pool.Id, pool.ShareSupply, pool.ReserveBase, pool.ReserveToken)
			}
			if pool.ReserveBase.IsNegative() || pool.ReserveToken.IsNegative() || pool.ShareSupply.IsNegative() {
				count++
				msg += fmt.Sprintf("pool %d: negative field base=%s token=%s shares=%s\n",
					pool.Id, pool.ReserveBase, pool.ReserveToken, pool.ShareSupply)
			}
		}

		return formatInvariant("positive-reserves",
			fmt.Sprintf("found %d pools with dead reserves\n%s", count, msg)), count != 0
	}
}

// WidthBoundsInvariant checks that every committed field is inside the
// unsigned 64-bit working width.
func WidthBoundsInvariant(k *Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		for _, pool := range k.GetAllPools(ctx) {
			for _, f := range []struct {
				name string
				v    math.Int
			}{
				{"reserve_base", pool.ReserveBase},
				{"reserve_token", pool.ReserveToken},
				{"share_supply", pool.ShareSupply},
			} {
				if f.v.IsNil() || f.v.GT(types.MaxAmount) {
					count++
					msg += fmt.Sprintf("pool %d: %s = %s outside working width\n", pool.Id, f.name, f.v)
				}
			}
			if pool.FeeRate > types.MaxFeeRate {
				count++
				msg += fmt.Sprintf("pool %d: fee rate %d outside [0, %d]\n", pool.Id, pool.FeeRate, types.MaxFeeRate)
			}
		}

		return formatInvariant("width-bounds",
			fmt.Sprintf("found %d fields outside the working width\n%s", count, msg)), count != 0
	}
}

// ShareSupplyInvariant checks that each pool's recorded share supply equals
// the share ledger's total supply for the pool's share denom.
func ShareSupplyInvariant(k *Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		for _, pool := range k.GetAllPools(ctx) {
			ledgerSupply := k.ledger.GetSupply(ctx, pool.ShareDenom())
			if !ledgerSupply.Equal(pool.ShareSupply) {
				count++
				msg += fmt.Sprintf("pool %d: recorded supply %s, ledger supply %s\n",
					pool.Id, pool.ShareSupply, ledgerSupply)
			}
		}

		return formatInvariant("share-supply",
			fmt.Sprintf("found %d pools disagreeing with the share ledger\n%s", count, msg)), count != 0
	}
}

// ModuleBackingInvariant checks that the reserve account's ledger balance
// covers the summed recorded reserves of every pool, per denom.
func ModuleBackingInvariant(k *Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		required := make(map[string]math.Int)
		for _, pool := range k.GetAllPools(ctx) {
			addReserve(required, k.baseDenom, pool.ReserveBase)
			addReserve(required, pool.TokenDenom, pool.ReserveToken)
		}

		for denom, amount := range required {
			balance := k.ledger.GetBalance(ctx, types.ModuleAccountID, denom)
			if balance.LT(amount) {
				count++
				msg += fmt.Sprintf("denom %s: reserve account holds %s, pools record %s\n",
					denom, balance, amount)
			}
		}

		return formatInvariant("module-backing",
			fmt.Sprintf("found %d denoms with unbacked reserves\n%s", count, msg)), count != 0
	}
}

func addReserve(m map[string]math.Int, denom string, amt math.Int) {
	if existing, ok := m[denom]; ok {
		m[denom] = existing.Add(amt)
		return
	}
	m[denom] = amt
}

func formatInvariant(name, msg string) string {
	return fmt.Sprintf("%s: %s invariant\n%s\n", types.ModuleName, name, msg)
}
