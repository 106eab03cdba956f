package types

import (
	"fmt"
	"strconv"

	"cosmossdk.io/math"
)

const (
	// ModuleName defines the module name
	ModuleName = "amm"

	// ModuleAccountID is the ledger account holding every pool's reserves.
	// Deposits move into it, outputs and withdrawals move out of it.
	ModuleAccountID AccountID = "amm_reserve_pool"

	// FeeScale is the fee denominator: a FeeRate of 1 charges 0.1% of the
	// swap input. Swap arithmetic is scaled by this constant throughout.
	FeeScale = 1000

	// MaxFeeRate is the largest fee rate a pool may be created with.
	// FeeScale itself would consume the entire input.
	MaxFeeRate = FeeScale - 1

	// ShareDenomPrefix prefixes every pool's LP share denom.
	ShareDenomPrefix = "amm/pool/"
)

// MaxAmount bounds every reserve, share supply, and input amount to the
// unsigned 64-bit range. Intermediate arithmetic widens past it; committed
// state never does.
var MaxAmount = math.NewIntFromUint64(^uint64(0))

// AccountID identifies a settlement account on the external asset ledger.
// The surrounding runtime resolves callers to accounts; the engine only
// moves value between accounts it is handed.
type AccountID string

func (a AccountID) String() string { return string(a) }

// Empty reports whether the account is unset.
func (a AccountID) Empty() bool { return a == "" }

// Coin is a denominated amount moved through the asset ledger.
type Coin struct {
	Denom  string   `json:"denom"`
	Amount math.Int `json:"amount"`
}

// NewCoin builds a Coin. The amount must not be nil.
func NewCoin(denom string, amount math.Int) Coin {
	return Coin{Denom: denom, Amount: amount}
}

func (c Coin) String() string {
	return c.Amount.String() + c.Denom
}

// Direction selects which reserve a swap consumes.
type Direction int32

const (
	// BaseForToken spends the base asset and receives the pool's token.
	BaseForToken Direction = iota
	// TokenForBase spends the pool's token and receives the base asset.
	TokenForBase
)

// Valid reports whether d is one of the two defined directions.
func (d Direction) Valid() bool {
	return d == BaseForToken || d == TokenForBase
}

func (d Direction) String() string {
	switch d {
	case BaseForToken:
		return "base_for_token"
	case TokenForBase:
		return "token_for_base"
	default:
		return fmt.Sprintf("direction(%d)", int32(d))
	}
}

// ShareDenom returns the LP share denom for a pool ID, e.g. "amm/pool/7".
// Each pool mints and burns exclusively in its own denom.
func ShareDenom(poolID uint64) string {
	return ShareDenomPrefix + strconv.FormatUint(poolID, 10)
}

// ValidAmount reports whether a is usable as an input quantity: set,
// strictly positive, and within the unsigned 64-bit domain.
func ValidAmount(a math.Int) bool {
	return !a.IsNil() && a.IsPositive() && a.LTE(MaxAmount)
}
