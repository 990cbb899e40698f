// Package search runs paginated queries against web and maps search
// providers. Providers never return errors: an upstream failure is an empty
// page.
package search

import (
	"context"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Query is one page request.
type Query struct {
	Text     string
	PageSize int
	Offset   int
	Engine   model.EngineKind
}

// Provider returns one page of hits for a query. It never fails: transport,
// status and payload errors all produce an empty slice.
type Provider interface {
	Name() string
	Query(ctx context.Context, q Query) []model.SearchHit
}
