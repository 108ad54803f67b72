package genre

// Canonical maps canonical genre slugs to their display names. This is
// the vocabulary the shelve pipeline folds provider categories into.
var Canonical = map[string]string{
	"fiction":            "Fiction",
	"science-fiction":    "Science Fiction",
	"fantasy":            "Fantasy",
	"mystery":            "Mystery",
	"thriller":           "Thriller",
	"romance":            "Romance",
	"horror":             "Horror",
	"historical-fiction": "Historical Fiction",
	"literary-fiction":   "Literary Fiction",
	"classics":           "Classics",
	"young-adult":        "Young Adult",
	"children":           "Children's",
	"graphic-novel":      "Graphic Novel",
	"poetry":             "Poetry",
	"humor":              "Humor",
	"non-fiction":        "Non-Fiction",
	"biography-memoir":   "Biography & Memoir",
	"history":            "History",
	"science":            "Science",
	"technology":         "Technology",
	"philosophy":         "Philosophy",
	"psychology":         "Psychology",
	"religion":           "Religion & Spirituality",
	"self-help":          "Self-Help",
	"business":           "Business",
	"true-crime":         "True Crime",
	"travel":             "Travel",
	"cooking":            "Cooking",
	"art":                "Art",
	"music":              "Music",
	"sports":             "Sports",
	"nature":             "Nature",
	"politics":           "Politics",
	"essays":             "Essays",
	"short-stories":      "Short Stories",
}
