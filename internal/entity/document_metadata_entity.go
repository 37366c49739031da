package entity

// DocumentMetadata is the LLM-extracted summary of an uploaded document.
type DocumentMetadata struct {
	DocType  string
	Category string
	Status   string
	Title    string
}
