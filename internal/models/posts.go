package models

// Post is the single resource served by the API. It was called "myApp" in
// the first version of the service, which is still what String reports.
type Post struct {
	ID    int64  `db:"id" json:"id"`
	Title string `db:"title" json:"title"`
	Body  string `db:"body" json:"body"`
}

// TitleMaxLength mirrors the VARCHAR(100) column.
const TitleMaxLength = 100

func (p Post) String() string {
	return "myApp: " + p.Title
}
