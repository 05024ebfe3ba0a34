package joq

import "context"

// Context is the execution context passed to a worker's Invoke. It is a
// plain alias for context.Context: this core deliberately carries no
// additional ambient state on top of the standard context, per the
// single-tenant, single-attempt data model.
type Context = context.Context
