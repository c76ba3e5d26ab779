package documents

import "context"

type currentKey struct{}

// WithCurrent returns a context naming doc as the page being resolved.
// Collectors that need implicit page context read it with CurrentFrom. The
// value lives on the request's context, so concurrent builds never observe
// each other and a nested build only shadows the outer page until it
// returns.
func WithCurrent(ctx context.Context, doc *Document) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, currentKey{}, doc)
}

// CurrentFrom returns the page installed by WithCurrent, or nil.
func CurrentFrom(ctx context.Context) *Document {
	if ctx == nil {
		return nil
	}
	doc, _ := ctx.Value(currentKey{}).(*Document)
	return doc
}
