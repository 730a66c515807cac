// Package insights implements the dashboard's read-side business logic.
//
// The service layer answers channel listings, market summaries, CSV exports,
// and optimization runs over the channel metrics snapshot. It depends on the
// Repository interface defined in this package and should never import from
// the api package.
//
// Repository implementations live in repository/memory/ and
// repository/postgres/.
package insights
