package convert

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Op is an import running in the background.
type Op struct {
	g   *errgroup.Group
	res Result
}

// RunInBackground starts imp.Run for req and returns immediately. The files
// are still processed one after another.
func RunInBackground(ctx context.Context, imp *Importer, req Request) *Op {
	g, ctx := errgroup.WithContext(ctx)
	op := &Op{g: g}
	g.Go(func() error {
		res, err := imp.Run(ctx, req)
		op.res = res
		return err
	})
	return op
}

// Wait blocks until the import finishes. The result holds whatever completed
// before a failure.
func (op *Op) Wait() (Result, error) {
	err := op.g.Wait()
	return op.res, err
}
