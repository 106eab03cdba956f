package types

// Event types emitted by the AMM engine
const (
	EventTypeCreatePool      = "amm_create_pool"
	EventTypeSwap            = "amm_swap"
	EventTypeAddLiquidity    = "amm_add_liquidity"
	EventTypeRemoveLiquidity = "amm_remove_liquidity"
)

// Event attribute keys
const (
	AttributeKeyPoolID      = "pool_id"
	AttributeKeyCreator     = "creator"
	AttributeKeyTrader      = "trader"
	AttributeKeyProvider    = "provider"
	AttributeKeyTokenDenom  = "token_denom"
	AttributeKeyDirection   = "direction"
	AttributeKeyAmountIn    = "amount_in"
	AttributeKeyAmountOut   = "amount_out"
	AttributeKeyBaseAmount  = "base_amount"
	AttributeKeyTokenAmount = "token_amount"
	AttributeKeyShares      = "shares"
	AttributeKeyFeeRate     = "fee_rate"
)

// Attribute is one key/value pair of an event.
type Attribute struct {
	Key   string
	Value string
}

// NewAttribute builds an event attribute.
func NewAttribute(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Event is a typed record of one committed state change. Exactly one event
// is emitted per successful mutating operation, after the commit.
type Event struct {
	Type       string
	Attributes []Attribute
}

// NewEvent builds an event from a type and its attributes.
func NewEvent(eventType string, attrs ...Attribute) Event {
	return Event{Type: eventType, Attributes: attrs}
}

// EventEmitter receives engine events. The embedding runtime decides what
// an event becomes (an ABCI event, a log line, a message on a bus); the
// engine only guarantees emission order matches commit order per pool.
type EventEmitter interface {
	EmitEvent(event Event)
}

// NopEmitter discards every event. It is the default when the engine is
// constructed without an emitter.
type NopEmitter struct{}

func (NopEmitter) EmitEvent(Event) {}
