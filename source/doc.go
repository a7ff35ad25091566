// Package source provides candidate discovery for ranking.
//
// A CandidateSource turns a query into the set of candidates that will be
// ranked against it. Discovery usually works on a cleaned form of the query
// (see CleanQuery), while ranking always uses the query as typed.
//
// Two sources are built in: Static, which returns a fixed list, and the
// catalog source, which searches a storage.CatalogRepository. The scholar
// subpackage adds a Semantic Scholar paper search.
package source
