// Package context scopes data and writes to a single request.
//
// # Memoized reads
//
// A value fetched through GetOrFetch or Fetch is loaded once per request:
//
//	rc := context.New(ctx)
//	ctx = context.WithContext(ctx, rc)
//	draft, err := context.Fetch[*Draft](rc, draftProvider{id: id})
//
// # Staged writes
//
// Writes are collected with AddAction and run in order by Commit. When one
// fails, the actions that already ran are rolled back in reverse order:
//
//	rc.AddAction(&consumeDraft{...})
//	rc.AddAction(&submitQuote{...})
//	if err := rc.Commit(ctx); err != nil {
//	    // the draft is back in the cache
//	}
package context
