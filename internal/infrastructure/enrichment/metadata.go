// Package enrichment resolves bibliographic metadata (cover, synopsis,
// ISBN, page count, categories) from external sources. Sources are tried
// in a fixed priority order and partial results are merged; a source
// failure is never fatal to the caller.
package enrichment

// BookMetadata is a best-effort partial book record. Any field may be its
// zero value when no source could supply it.
type BookMetadata struct {
	Title           string
	Authors         string
	Synopsis        string
	CoverURL        string
	ISBN13          string
	Pages           int
	PublicationDate string
	Categories      []string
}

// IsEmpty reports whether no source returned anything usable.
func (m BookMetadata) IsEmpty() bool {
	return m.Title == "" && m.Authors == "" && m.Synopsis == "" &&
		m.CoverURL == "" && m.ISBN13 == "" && m.Pages == 0 &&
		m.PublicationDate == "" && len(m.Categories) == 0
}
