package keeper

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/paw-chain/amm/x/amm/types"
)

// Checked evaluation of the pool formulas. Every function here is pure and
// exact: products widen through big.Int, division floors, and a value that
// cannot be committed inside the working width surfaces ErrOverflow instead
// of wrapping. Callers commit results only after every check passes, so a
// failed calculation never leaves partial state.

// computeSwapOutput evaluates the constant-product output with the fee
// retained in the pool:
//
//	inputAfterFee = amountIn * (FeeScale - feeRate)
//	amountOut     = (inputAfterFee * reserveOut) / (reserveIn * FeeScale + inputAfterFee)
//
// The result is strictly below reserveOut for every positive in-range
// input against live reserves. That bound is structural, proven by the
// property suite, and deliberately not rechecked here.
func computeSwapOutput(amountIn, reserveIn, reserveOut math.Int, feeRate uint64) (math.Int, error) {
	if feeRate > types.MaxFeeRate {
		return math.Int{}, types.ErrInvalidFee.Wrapf("fee rate %d outside [0, %d]", feeRate, types.MaxFeeRate)
	}

	feeFactor := new(big.Int).SetUint64(types.FeeScale - feeRate)
	inputAfterFee := new(big.Int).Mul(amountIn.BigInt(), feeFactor)

	numerator := new(big.Int).Mul(inputAfterFee, reserveOut.BigInt())
	denominator := new(big.Int).Mul(reserveIn.BigInt(), big.NewInt(types.FeeScale))
	denominator.Add(denominator, inputAfterFee)

	// Reachable only with a zero input amount, which public paths reject.
	if denominator.Sign() == 0 {
		return math.Int{}, types.ErrInvalidAmount.Wrap("zero swap input")
	}

	return math.NewIntFromBigInt(numerator.Quo(numerator, denominator)), nil
}

// computeSwapCommit derives the post-swap reserves. The full pre-fee input
// joins the input reserve; only the computed output leaves the other side.
func computeSwapCommit(reserveIn, reserveOut, amountIn, amountOut math.Int) (newReserveIn, newReserveOut math.Int, err error) {
	newReserveIn, err = SafeAdd(reserveIn, amountIn)
	if err != nil {
		return math.Int{}, math.Int{}, types.ErrOverflow.Wrapf("input reserve update: %v", err)
	}

	newReserveOut, err = SafeSub(reserveOut, amountOut)
	if err != nil {
		return math.Int{}, math.Int{}, types.ErrOverflow.Wrapf("output reserve update: %v", err)
	}

	return newReserveIn, newReserveOut, nil
}

// computeAddLiquidityShares prices a deposit in shares:
//
//	sharesMinted = (baseIn * shareSupply) / reserveBase
//
// Minting is proportional to the base contribution alone; the token
// deposit rides along at whatever ratio the provider chose. A result of
// zero is a valid mint.
func computeAddLiquidityShares(baseIn, shareSupply, reserveBase math.Int) (math.Int, error) {
	if shareSupply.IsZero() || reserveBase.IsZero() {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrap("pool has no live reserves to price against")
	}

	shares, err := SafeMulDiv(baseIn, shareSupply, reserveBase)
	if err != nil {
		return math.Int{}, types.ErrOverflow.Wrapf("share calculation: baseIn=%s * shareSupply=%s / reserveBase=%s: %v",
			baseIn, shareSupply, reserveBase, err)
	}
	return shares, nil
}

// computeRemoveLiquidityAmounts prices a burn in both reserves:
//
//	baseOut  = (reserveBase * sharesIn) / shareSupply
//	tokenOut = (reserveToken * sharesIn) / shareSupply
//
// Floor division keeps both payouts at or below the pro-rata claim, so
// neither can exceed its reserve.
func computeRemoveLiquidityAmounts(sharesIn, reserveBase, reserveToken, shareSupply math.Int) (baseOut, tokenOut math.Int, err error) {
	if shareSupply.IsZero() {
		return math.Int{}, math.Int{}, types.ErrInsufficientShares.Wrap("no shares outstanding")
	}
	if sharesIn.GT(shareSupply) {
		return math.Int{}, math.Int{}, types.ErrInsufficientShares.Wrapf("burn %s exceeds total supply %s", sharesIn, shareSupply)
	}

	baseOut, err = SafeMulDiv(reserveBase, sharesIn, shareSupply)
	if err != nil {
		return math.Int{}, math.Int{}, types.ErrOverflow.Wrapf("base payout calculation: %v", err)
	}

	tokenOut, err = SafeMulDiv(reserveToken, sharesIn, shareSupply)
	if err != nil {
		return math.Int{}, math.Int{}, types.ErrOverflow.Wrapf("token payout calculation: %v", err)
	}

	return baseOut, tokenOut, nil
}
