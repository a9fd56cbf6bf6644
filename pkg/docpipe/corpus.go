package docpipe

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/praachilabs/studypack/pkg/common/errors"
)

// ErrNoDocuments signals a generation request with an empty document list.
// Callers short-circuit on it before any completion call is made.
var ErrNoDocuments = fmt.Errorf("no documents supplied: %w", apperrors.ErrInvalidInput)

// extractConcurrency bounds parallel document extraction per request.
const extractConcurrency = 4

// BuildCorpus extracts every document and concatenates the fragments in
// upload order, each followed by a blank-line separator. A failed or empty
// extraction contributes an empty fragment, never an omission, so fragment
// position stays aligned with document order.
//
// Documents are extracted concurrently; only context cancellation aborts
// the batch.
func (p *Pipeline) BuildCorpus(ctx context.Context, docs []Document) (string, error) {
	if len(docs) == 0 {
		return "", ErrNoDocuments
	}

	fragments := make([]string, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(extractConcurrency)

	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fragments[i] = p.Extract(gctx, doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, frag := range fragments {
		sb.WriteString(frag)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}
