// Package handlers is the presentation layer over the stores: it parses and
// validates form input (the stores only guard their own invariants), applies
// mutations, and shapes the JSON the app renders.
package handlers

import "github.com/diewo77/confeitaria/internal/storage"

// WriteReporter receives the durable-write handle of every mutation so the
// composition root can await it or log its failure. Handlers never block on
// the write themselves.
type WriteReporter func(*storage.Pending)

func report(fn WriteReporter, p *storage.Pending) {
	if fn != nil && p != nil {
		fn(p)
	}
}
