// Package ledger provides an in-memory types.AssetLedger for tests and
// the simulator. It is support infrastructure: a real deployment settles
// against the embedding runtime's ledger instead.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"cosmossdk.io/math"

	"github.com/paw-chain/amm/x/amm/types"
)

// Ledger is a mutex-guarded balance and supply table. Transfers fail on
// insufficient funds, burns fail on shortfall, and per-denom supply tracks
// mint and burn exactly.
type Ledger struct {
	mu       sync.Mutex
	balances map[types.AccountID]map[string]math.Int
	supplies map[string]math.Int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		balances: make(map[types.AccountID]map[string]math.Int),
		supplies: make(map[string]math.Int),
	}
}

var _ types.AssetLedger = (*Ledger)(nil)

// SendCoins moves amt from one account to another.
func (l *Ledger) SendCoins(ctx context.Context, from, to types.AccountID, amt types.Coin) error {
	if err := validateMove(from, amt); err != nil {
		return err
	}
	if to.Empty() {
		return fmt.Errorf("ledger: empty destination account")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.debit(from, amt); err != nil {
		return err
	}
	l.credit(to, amt)
	return nil
}

// MintCoins creates amt out of nothing, credits it to the account, and
// grows the denom's supply.
func (l *Ledger) MintCoins(ctx context.Context, to types.AccountID, amt types.Coin) error {
	if err := validateMove(to, amt); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.credit(to, amt)
	l.supplies[amt.Denom] = l.supply(amt.Denom).Add(amt.Amount)
	return nil
}

// BurnCoins destroys amt held by the account and shrinks the denom's
// supply. Fails if the account holds less than amt.
func (l *Ledger) BurnCoins(ctx context.Context, from types.AccountID, amt types.Coin) error {
	if err := validateMove(from, amt); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.debit(from, amt); err != nil {
		return err
	}
	l.supplies[amt.Denom] = l.supply(amt.Denom).Sub(amt.Amount)
	return nil
}

// GetBalance returns the account's balance in a denom.
func (l *Ledger) GetBalance(ctx context.Context, addr types.AccountID, denom string) math.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance(addr, denom)
}

// GetSupply returns the total minted supply of a denom.
func (l *Ledger) GetSupply(ctx context.Context, denom string) math.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.supply(denom)
}

// FundAccount mints amt directly to an account, for fixture setup.
func (l *Ledger) FundAccount(ctx context.Context, addr types.AccountID, amt types.Coin) error {
	return l.MintCoins(ctx, addr, amt)
}

func (l *Ledger) balance(addr types.AccountID, denom string) math.Int {
	if acct, ok := l.balances[addr]; ok {
		if bal, ok := acct[denom]; ok {
			return bal
		}
	}
	return math.ZeroInt()
}

func (l *Ledger) supply(denom string) math.Int {
	if s, ok := l.supplies[denom]; ok {
		return s
	}
	return math.ZeroInt()
}

func (l *Ledger) credit(addr types.AccountID, amt types.Coin) {
	acct, ok := l.balances[addr]
	if !ok {
		acct = make(map[string]math.Int)
		l.balances[addr] = acct
	}
	acct[amt.Denom] = l.balance(addr, amt.Denom).Add(amt.Amount)
}

func (l *Ledger) debit(addr types.AccountID, amt types.Coin) error {
	bal := l.balance(addr, amt.Denom)
	if bal.LT(amt.Amount) {
		return fmt.Errorf("ledger: account %s holds %s%s, needs %s", addr, bal, amt.Denom, amt.Amount)
	}
	l.balances[addr][amt.Denom] = bal.Sub(amt.Amount)
	return nil
}

func validateMove(addr types.AccountID, amt types.Coin) error {
	if addr.Empty() {
		return fmt.Errorf("ledger: empty account")
	}
	if amt.Denom == "" {
		return fmt.Errorf("ledger: empty denom")
	}
	if amt.Amount.IsNil() || amt.Amount.IsNegative() {
		return fmt.Errorf("ledger: invalid amount %v", amt.Amount)
	}
	return nil
}
