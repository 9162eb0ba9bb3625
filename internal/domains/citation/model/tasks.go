package model

// TypeRecountCitations is the periodic task that recomputes every book's
// citation_count from the citations table.
const TypeRecountCitations = "citation:recount"
