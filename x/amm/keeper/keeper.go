package keeper

import (
	"context"
	"sync"

	"cosmossdk.io/log"

	"github.com/paw-chain/amm/x/amm/types"
)

// Keeper owns the pool registry and settles every operation against the
// external asset ledger. All mutating operations are serialized per pool;
// the registry itself is guarded separately so lookups stay cheap.
type Keeper struct {
	baseDenom string
	ledger    types.AssetLedger
	logger    log.Logger
	emitter   types.EventEmitter
	metrics   *Metrics

	creationCap *types.CreationCapability

	// createMu serializes pool creation so the ID a create observes is
	// stable until its insert commits. Aborted creates burn nothing.
	createMu sync.Mutex

	// mu guards the registry map and the ID counter. Entries are never
	// removed, so a fetched entry stays valid after release.
	mu         sync.RWMutex
	pools      map[uint64]*poolEntry
	nextPoolID uint64
}

// poolEntry pairs a pool record with the lock that serializes every
// operation against it.
type poolEntry struct {
	mu   sync.Mutex
	pool types.Pool
}

// NewKeeper creates a new AMM Keeper instance and mints its creation
// capability. The capability is returned exactly once, to the caller
// constructing the engine; CreatePool accepts no other value.
func NewKeeper(
	ledger types.AssetLedger,
	baseDenom string,
	logger log.Logger,
	emitter types.EventEmitter,
) (*Keeper, *types.CreationCapability) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if emitter == nil {
		emitter = types.NopEmitter{}
	}

	cap := types.NewCreationCapability()
	k := &Keeper{
		baseDenom:   baseDenom,
		ledger:      ledger,
		logger:      logger.With("module", "x/"+types.ModuleName),
		emitter:     emitter,
		metrics:     NewMetrics(),
		creationCap: cap,
		pools:       make(map[uint64]*poolEntry),
		nextPoolID:  1,
	}
	return k, cap
}

// BaseDenom returns the denom of the numeraire every pool trades against.
func (k *Keeper) BaseDenom() string {
	return k.baseDenom
}

// Logger returns the keeper's logger.
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// getEntry fetches a pool entry from the registry.
func (k *Keeper) getEntry(poolID uint64) (*poolEntry, error) {
	k.mu.RLock()
	entry, ok := k.pools[poolID]
	k.mu.RUnlock()
	if !ok {
		return nil, types.ErrPoolNotFound.Wrapf("pool %d", poolID)
	}
	return entry, nil
}

// refund returns a coin moved into the reserve account by an operation that
// later failed. A refund that itself fails leaves value stranded in the
// reserve account; that is logged loudly and needs operator action.
func (k *Keeper) refund(ctx context.Context, to types.AccountID, amt types.Coin, op string) {
	if err := k.ledger.SendCoins(ctx, types.ModuleAccountID, to, amt); err != nil {
		k.logger.Error("refund failed, funds stranded in reserve account",
			"op", op,
			"account", to.String(),
			"amount", amt.String(),
			"error", err,
		)
	}
}
