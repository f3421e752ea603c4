package port

import (
	"context"

	"github.com/bnema/chromekit/internal/domain/entity"
)

// Extractor produces readable content from a page. Extraction is
// potentially expensive and runs off the owner task; callers marshal
// the result back before touching shared state.
type Extractor interface {
	Extract(ctx context.Context, pageURL string) (*entity.ExtractedContent, error)
}
