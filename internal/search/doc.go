// Package search queries recognized text by position.
//
// Filter is a chainable, immutable pipeline of directional predicates
// (Above, Below, ToRight, ToLeft), band alignment (YCenterWithin,
// XCenterWithin), content predicates (Valuable, Numbers, Integers), sorts and
// truncation. Alignment uses box centers rather than edges because word
// heights vary with ascenders and descenders while centers stay stable.
//
// Searcher reassembles multi-word labels from individually recognized words
// and returns them as an ocrdata.Group whose union box anchors further
// Filter queries.
package search
