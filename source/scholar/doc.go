// Package scholar implements a source.CandidateSource backed by the
// Semantic Scholar paper search API. Paper ids become candidate ids and
// titles become the text that gets embedded.
package scholar
