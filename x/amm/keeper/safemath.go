package keeper

import (
	"fmt"
	"math/big"

	"cosmossdk.io/math"

	"github.com/paw-chain/amm/x/amm/types"
)

// SafeMath provides checked arithmetic for the AMM engine. Committed state
// is held to the unsigned 64-bit range; intermediate products widen through
// big.Int and are exact, so overflow is detected at the commit bound rather
// than silently wrapping during calculation.

// checkAmountWidth rejects values outside the unsigned 64-bit range.
func checkAmountWidth(a math.Int) error {
	if a.GT(types.MaxAmount) {
		return fmt.Errorf("overflow: %s exceeds unsigned 64-bit working width", a)
	}
	return nil
}

// SafeAdd adds two math.Int values, failing if the sum leaves the working
// width.
func SafeAdd(a, b math.Int) (math.Int, error) {
	result := new(big.Int).Add(a.BigInt(), b.BigInt())

	sum := math.NewIntFromBigInt(result)
	if err := checkAmountWidth(sum); err != nil {
		return math.Int{}, err
	}
	return sum, nil
}

// SafeSub subtracts two math.Int values with underflow checking
func SafeSub(a, b math.Int) (math.Int, error) {
	// Check for underflow
	if a.LT(b) {
		return math.Int{}, fmt.Errorf("underflow: cannot subtract %s from %s", b.String(), a.String())
	}

	result := new(big.Int).Sub(a.BigInt(), b.BigInt())
	return math.NewIntFromBigInt(result), nil
}

// SafeMulDiv performs (a * b) / c with floor division. The product widens
// losslessly; the quotient must land back inside the working width.
func SafeMulDiv(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.Int{}, fmt.Errorf("division by zero")
	}

	// Multiply first, in full width
	intermediate := new(big.Int).Mul(a.BigInt(), b.BigInt())

	// Then divide
	result := math.NewIntFromBigInt(new(big.Int).Quo(intermediate, c.BigInt()))
	if err := checkAmountWidth(result); err != nil {
		return math.Int{}, err
	}
	return result, nil
}
