package openlibrary

// Data is the per-ISBN payload of the jscmd=data books API.
type Data struct {
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	PublishDate string    `json:"publish_date"`
	Authors     []Named   `json:"authors"`
	Publishers  []Named   `json:"publishers"`
	Subjects    []Named   `json:"subjects"`
	Cover       CoverURLs `json:"cover"`
}

// Named is Open Library's {name, url} pair used for authors,
// publishers and subjects.
type Named struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CoverURLs holds the cover image variants.
type CoverURLs struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// Edition is the fallback /isbn/{isbn}.json response shape.
type Edition struct {
	Title       string   `json:"title"`
	PublishDate string   `json:"publish_date"`
	Publishers  []string `json:"publishers"`
	ByStatement string   `json:"by_statement"`
	Languages   []KeyRef `json:"languages"`
}

// KeyRef is an Open Library reference like {"key": "/languages/eng"}.
type KeyRef struct {
	Key string `json:"key"`
}
