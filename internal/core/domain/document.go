package domain

// Document is a persisted question/answer record (a fatwa).
// Documents are created only by the remote service and are immutable
// from the client's perspective.
type Document struct {
	// ID is the service-assigned identifier.
	ID string `json:"id"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// Author is the scholar the answer is attributed to.
	Author string `json:"author"`

	// Question is the question as asked.
	Question string `json:"question"`

	// Answer is the answer text.
	Answer string `json:"answer"`

	// Topic is an optional subject classification.
	Topic string `json:"topic,omitempty"`

	// Audio references the source recording, when one exists.
	Audio string `json:"audio,omitempty"`

	// Complete marks a record whose transcription has been reviewed.
	Complete bool `json:"complete,omitempty"`
}

// DocumentDraft holds the fields submitted when creating a Document.
// The client performs no validation; the remote service rejects
// missing fields.
type DocumentDraft struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Question string `json:"question"`
	Answer   string `json:"answer"`

	// Topic is optional and omitted from the payload when empty.
	Topic string `json:"topic,omitempty"`
}
