package googlebooks

// volumesResponse is the top-level Google Books volumes query response.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Volume is one result in a volumes query.
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo carries the book metadata of a volume.
type VolumeInfo struct {
	Title         string     `json:"title"`
	Subtitle      string     `json:"subtitle"`
	Authors       []string   `json:"authors"`
	Publisher     string     `json:"publisher"`
	PublishedDate string     `json:"publishedDate"`
	Description   string     `json:"description"`
	Categories    []string   `json:"categories"`
	Language      string     `json:"language"`
	ImageLinks    ImageLinks `json:"imageLinks"`
}

// ImageLinks holds the cover thumbnails Google supplies.
type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}
