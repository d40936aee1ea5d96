// Package match implements the structural containment predicate that decides
// whether a document satisfies a query document.
//
// The predicate is pure and must behave identically wherever it runs: the
// sqlite store backend registers Contains as a SQL function and pushes
// queries down through it, so in-process matching and store-side matching are
// the same code path by construction.
package match
