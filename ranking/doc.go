// Package ranking orders candidates by cosine similarity to a query embedding.
//
// Everything here is pure and synchronous. Rank never drops a candidate: a
// candidate whose embedding is missing or has the wrong length scores 0 and
// sorts after every positively similar one.
package ranking
