package search

// Hit is a raw index match before classification into rows and documents.
// Every field is optional; Count is nil when the index carried no numeric count.
type Hit struct {
	ID          string
	Title       string
	Content     string
	Lab         string
	Instrument  string
	TestType    string
	Status      string
	Date        string
	Count       *int
	FileName    string
	FileType    string
	StorageName string
	Score       float64
	// Highlights are marked-up snippets of the content field.
	Highlights []string
	Captions   []string
}
