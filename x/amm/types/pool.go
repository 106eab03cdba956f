package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// Pool is a constant-product market pairing the engine's base asset
// against one other denom. Reserves and share supply are held to the
// unsigned 64-bit range; the traded denom is the runtime tag that stands
// in for the pool's asset type. FeeRate is fixed at creation and is in
// units of 1/FeeScale (0.1% steps).
type Pool struct {
	Id           uint64   `json:"id"`
	TokenDenom   string   `json:"token_denom"`
	ReserveBase  math.Int `json:"reserve_base"`
	ReserveToken math.Int `json:"reserve_token"`
	ShareSupply  math.Int `json:"share_supply"`
	FeeRate      uint64   `json:"fee_rate"`
}

// ShareDenom returns the denom of this pool's LP shares.
func (p Pool) ShareDenom() string {
	return ShareDenom(p.Id)
}

// Product returns reserve_base * reserve_token, the invariant that swaps
// must never decrease.
func (p Pool) Product() math.Int {
	return p.ReserveBase.Mul(p.ReserveToken)
}

// Reserves returns the (input, output) reserves for a swap direction.
func (p Pool) Reserves(dir Direction) (reserveIn, reserveOut math.Int) {
	if dir == BaseForToken {
		return p.ReserveBase, p.ReserveToken
	}
	return p.ReserveToken, p.ReserveBase
}

// Validate checks structural well-formedness of a pool record. It is the
// gate for genesis import and for every state commit.
func (p Pool) Validate() error {
	if p.TokenDenom == "" {
		return fmt.Errorf("pool %d: empty token denom", p.Id)
	}
	if p.FeeRate > MaxFeeRate {
		return fmt.Errorf("pool %d: fee rate %d outside [0, %d]", p.Id, p.FeeRate, MaxFeeRate)
	}
	for _, f := range []struct {
		name string
		v    math.Int
	}{
		{"reserve_base", p.ReserveBase},
		{"reserve_token", p.ReserveToken},
		{"share_supply", p.ShareSupply},
	} {
		if f.v.IsNil() {
			return fmt.Errorf("pool %d: nil %s", p.Id, f.name)
		}
		if f.v.IsNegative() {
			return fmt.Errorf("pool %d: negative %s %s", p.Id, f.name, f.v)
		}
		if f.v.GT(MaxAmount) {
			return fmt.Errorf("pool %d: %s %s exceeds unsigned 64-bit range", p.Id, f.name, f.v)
		}
	}
	// A live share supply must be backed by live reserves. The converse is
	// allowed: a drained pool keeps its registration.
	if p.ShareSupply.IsPositive() && (p.ReserveBase.IsZero() || p.ReserveToken.IsZero()) {
		return fmt.Errorf("pool %d: positive share supply with empty reserve", p.Id)
	}
	return nil
}
