package joq

import "github.com/FelixKiunke/joq/id"

// Prefix identifies the kind of entity an id was generated for.
type Prefix = id.Prefix
