package types

// CreationCapability authorizes pool creation. One value is minted when an
// engine instance is constructed and handed to the deploying authority;
// the engine accepts only that exact value, compared by reference. Holding
// the pointer is the authorization, so the capability cannot be forged by
// constructing a zero value and cannot be consumed by use.
type CreationCapability struct {
	issued bool
}

// NewCreationCapability mints a capability value. The engine that is
// constructed with it will accept no other.
func NewCreationCapability() *CreationCapability {
	return &CreationCapability{issued: true}
}

// Issued reports whether the value came from NewCreationCapability.
// A zero-value literal fails this check before the reference comparison
// ever runs.
func (c *CreationCapability) Issued() bool {
	return c != nil && c.issued
}
