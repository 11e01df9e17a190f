package services

import (
	"context"

	types "github.com/yungbote/collective-backend/internal/domain"
	"github.com/yungbote/collective-backend/internal/platform/ctxutil"
)

// SourcesFromContext returns the declared sources of the authenticated
// caller. Unauthenticated contexts yield empty sources, which every write
// rejects.
func SourcesFromContext(ctx context.Context) types.Sources {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return types.NewSources()
	}
	return types.NewSources(types.Identity(rd.Identity))
}
