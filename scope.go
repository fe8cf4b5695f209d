package blueprint

import (
	"context"

	"github.com/xraph/forge"
)

type appScope struct {
	appID string
}

// scopeFromContext extracts the app scope from forge.Scope or standalone
// context. Falls back to the explicit app value if Forge scope is not set
// (standalone mode).
func scopeFromContext(ctx context.Context) appScope {
	s, ok := forge.ScopeFrom(ctx)
	if ok {
		return appScope{appID: s.AppID()}
	}
	return appScope{appID: appIDFromContext(ctx)}
}
