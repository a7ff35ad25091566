// Package ingestion loads candidate documents into the local catalog.
//
// The Importer reads JSON lines, one document per line, and writes them to
// a storage.CatalogRepository in batches. Two field layouts are accepted:
//
//	{"id": "doc-1", "text": "Deep learning for proteins"}
//	{"paperId": "649def34", "title": "Attention is all you need"}
//
// Documents without an id get one derived from a hash of their text.
// Lines that fail to parse or validate are skipped and counted unless the
// importer is strict.
package ingestion
