package port

import (
	"context"

	"github.com/cmcs/claimflow/internal/domain/claim"
)

// DocumentStore accepts a supporting-document upload and returns its stored
// location and metadata. Implementations enforce the upload policy and
// return claim.ErrStorageRejected for oversized or disallowed files.
type DocumentStore interface {
	Save(ctx context.Context, originalName string, content []byte) (*claim.Document, error)
}
