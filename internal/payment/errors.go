package payment

import "errors"

// ErrNotConfigured is returned by an adapter whose provider credentials were
// absent at startup.
var ErrNotConfigured = errors.New("payment provider not configured")
