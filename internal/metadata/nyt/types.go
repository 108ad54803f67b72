package nyt

// listResponse is the envelope returned by the lists/current endpoint.
type listResponse struct {
	Status     string  `json:"status"`
	NumResults int     `json:"num_results"`
	Results    results `json:"results"`
}

type results struct {
	ListName        string  `json:"list_name"`
	DisplayName     string  `json:"display_name"`
	BestsellersDate string  `json:"bestsellers_date"`
	PublishedDate   string  `json:"published_date"`
	Books           []entry `json:"books"`
}

type entry struct {
	Rank           int       `json:"rank"`
	RankLastWeek   int       `json:"rank_last_week"`
	WeeksOnList    int       `json:"weeks_on_list"`
	PrimaryISBN13  string    `json:"primary_isbn13"`
	PrimaryISBN10  string    `json:"primary_isbn10"`
	Publisher      string    `json:"publisher"`
	Description    string    `json:"description"`
	Title          string    `json:"title"`
	Author         string    `json:"author"`
	BookImage      string    `json:"book_image"`
	AmazonURL      string    `json:"amazon_product_url"`
	BuyLinks       []buyLink `json:"buy_links"`
}

type buyLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Book is one ranked entry of a best-sellers list.
type Book struct {
	Rank        int       `json:"rank"`
	WeeksOnList int       `json:"weeks_on_list"`
	ISBN        string    `json:"isbn"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Publisher   string    `json:"publisher"`
	Description string    `json:"description"`
	BookImage   string    `json:"book_image"`
	BuyLinks    []BuyLink `json:"buy_links"`
}

// BuyLink is a named retailer link for a best-seller entry.
type BuyLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// List is a snapshot of one best-sellers list.
type List struct {
	Name          string `json:"name"`
	DisplayName   string `json:"display_name"`
	PublishedDate string `json:"published_date"`
	Books         []Book `json:"books"`
}
