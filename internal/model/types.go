package model

// TodayTitle is the title of the implicit list exposed at the root path.
// Form submissions compare against it exactly, not case-insensitively.
const TodayTitle = "Today"

// Item is a single to-do entry, either a top-level Today record or a copy
// embedded in a List.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// List is a named custom list. Name is stored lower-cased.
type List struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// DefaultItemNames seeds an empty Today collection and every list created on
// first view.
var DefaultItemNames = []string{"Read Book", "Write Sai's Record"}
