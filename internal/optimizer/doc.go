// Package optimizer implements the rule-based budget recommendation engine.
//
// Everything in this package is pure and synchronous: same inputs always
// produce the same outputs, there is no I/O, no shared state, and no error
// path. Callers own input normalization (missing numerics default to zero)
// and parameter clamping; the engine evaluates whatever it is handed and
// silently falls into the most conservative bucket for out-of-range
// intensity/threshold values.
package optimizer
