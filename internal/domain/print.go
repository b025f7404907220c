package domain

// Print is a parliamentary print (document) with optional raw text.
type Print struct {
	ID           string       `json:"id"`
	TermNumber   int          `json:"term_number,omitempty"`
	Number       string       `json:"number"`
	Title        string       `json:"title,omitempty"`
	DocumentDate Timestamp    `json:"document_date,omitempty"`
	ChangeDate   Timestamp    `json:"change_date,omitempty"`
	Text         string       `json:"text,omitempty"`
	HTML         string       `json:"html,omitempty"`
	Attachments  []Attachment `json:"attachments,omitempty"`
}

// Attachment is a file linked to a print.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"URL,omitempty"`
}

// ReferenceKind classifies a law reference found in free text.
type ReferenceKind string

const (
	KindCitation  ReferenceKind = "citation"
	KindAmendment ReferenceKind = "amendment"
	KindRepeal    ReferenceKind = "repeal"
)

// TextReference is a law reference extracted from free text. Year and Position are
// set for citations only.
type TextReference struct {
	Kind     ReferenceKind `json:"type"`
	Label    string        `json:"reference"`
	Year     int           `json:"year,omitempty"`
	Position int           `json:"position,omitempty"`
}
