// Package keeper implements the constant-product AMM engine.
//
// The keeper owns a registry of pools, each pairing the engine's base
// asset against one other denom. Traders swap through a pool at the price
// implied by its reserves, with a per-pool fee retained in the reserves;
// liquidity providers deposit both assets for LP shares and burn shares to
// withdraw pro rata.
//
// All value settlement runs through the external types.AssetLedger: pool
// reserves live in a module-owned ledger account, LP shares are real coins
// in each pool's own denom, and every operation either fully commits or
// leaves the ledger and the registry untouched. Operations against one
// pool are serialized by a per-pool lock.
//
// Arithmetic is integer-only. Amounts and reserves are bounded to the
// unsigned 64-bit range; intermediate products widen through big.Int and
// a result that cannot be committed inside the working width fails with
// types.ErrOverflow instead of wrapping.
package keeper
