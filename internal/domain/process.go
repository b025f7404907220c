package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	// UnknownValue substitutes an absent categorical attribute.
	UnknownValue = "unknown"
	// NormalUrgency is the urgency of a process that declares none.
	NormalUrgency = "normal"
)

// Process is a single legislative bill with its timeline and AI annotations.
type Process struct {
	ID           string        `json:"id"`
	TermNumber   int           `json:"term_number,omitempty"`
	Number       string        `json:"number"`
	Title        string        `json:"title,omitempty"`
	Description  string        `json:"description,omitempty"`
	DocumentType string        `json:"document_type,omitempty"`
	ProjectType  string        `json:"project_type,omitempty"`
	Urgency      string        `json:"urgency,omitempty"`
	IsFinished   bool          `json:"is_finished"`
	IsRejected   bool          `json:"is_rejected"`
	DocumentDate Timestamp     `json:"document_date,omitempty"`
	ChangeDate   Timestamp     `json:"change_date,omitempty"`
	Timeline     []Stage       `json:"timeline,omitempty"`
	Categories   []string      `json:"categories,omitempty"`
	ExtendedData *ExtendedData `json:"extended_data,omitempty"`
}

// ProjectTypeOrUnknown returns the project type or the "unknown" sentinel.
func (p Process) ProjectTypeOrUnknown() string {
	return orDefault(p.ProjectType, UnknownValue)
}

// DocumentTypeOrUnknown returns the document type or the "unknown" sentinel.
func (p Process) DocumentTypeOrUnknown() string {
	return orDefault(p.DocumentType, UnknownValue)
}

// UrgencyOrNormal returns the declared urgency or "normal".
func (p Process) UrgencyOrNormal() string {
	return orDefault(p.Urgency, NormalUrgency)
}

// IsSuccessful is true for processes that finished without being rejected.
func (p Process) IsSuccessful() bool {
	return p.IsFinished && !p.IsRejected
}

// Stage is one interval of a process timeline. Either boundary may be absent.
type Stage struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name,omitempty"`
	Institution string    `json:"institution,omitempty"`
	Status      string    `json:"status,omitempty"`
	DateStart   Timestamp `json:"dateStart,omitempty"`
	DateEnd     Timestamp `json:"dateEnd,omitempty"`
}

// Label returns the stage name, falling back to its 1-based position.
func (s Stage) Label(index int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("Stage %d", index+1)
}

// ExtendedDataVersion is the annotation layout this package understands.
const ExtendedDataVersion = 1

// ExtendedData holds the AI-derived annotations of a process. All fields are optional;
// accessors are safe on a nil receiver.
type ExtendedData struct {
	Version           int          `json:"version,omitempty"`
	AnalyzedAt        Timestamp    `json:"analyzed_at,omitempty"`
	SimpleSummary     string       `json:"simpleSummary,omitempty"`
	SimpleExplanation string       `json:"simpleExplanation,omitempty"`
	KeyChanges        []string     `json:"keyChanges,omitempty"`
	Tags              []string     `json:"tags,omitempty"`
	InitiatorName     string       `json:"initiatorName,omitempty"`
	Impact            *Impact      `json:"impact,omitempty"`
	RelatedLaws       []RelatedLaw `json:"relatedLaws,omitempty"`
	PDFAnalyzed       bool         `json:"pdfAnalyzed,omitempty"`
	PDFPages          int          `json:"pdfPages,omitempty"`
}

// Laws returns the related-law annotations.
func (e *ExtendedData) Laws() []RelatedLaw {
	if e == nil {
		return nil
	}
	return e.RelatedLaws
}

// HasSummary reports whether an AI summary was produced.
func (e *ExtendedData) HasSummary() bool {
	return e != nil && e.SimpleSummary != ""
}

// HasPDFAnalysis reports whether the print PDF fed the annotations.
func (e *ExtendedData) HasPDFAnalysis() bool {
	return e != nil && e.PDFAnalyzed
}

// KeyChangeCount returns the number of key changes listed.
func (e *ExtendedData) KeyChangeCount() int {
	if e == nil {
		return 0
	}
	return len(e.KeyChanges)
}

// TagCount returns the number of AI tags.
func (e *ExtendedData) TagCount() int {
	if e == nil {
		return 0
	}
	return len(e.Tags)
}

// ImpactFlags returns presence of the financial, social and economic impact sections.
func (e *ExtendedData) ImpactFlags() (financial, social, economic bool) {
	if e == nil || e.Impact == nil {
		return false, false, false
	}
	return present(e.Impact.Financial), present(e.Impact.Social), present(e.Impact.Economic)
}

// Impact keeps each impact section undecoded; only presence is analysed.
type Impact struct {
	Financial     json.RawMessage `json:"financial,omitempty"`
	Social        json.RawMessage `json:"social,omitempty"`
	Economic      json.RawMessage `json:"economic,omitempty"`
	Environmental json.RawMessage `json:"environmental,omitempty"`
}

// Relation kinds used by the annotation pipeline.
const (
	RelationAmends     = "nowelizuje"
	RelationRepeals    = "uchyla"
	RelationImplements = "implementuje"
	RelationRelated    = "powiązana"
)

// RelatedLaw is one law referenced by a process annotation.
type RelatedLaw struct {
	Title    string `json:"title"`
	Relation string `json:"relation,omitempty"`
	Citation string `json:"dziennikUstaw,omitempty"`
}

func present(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return false
	}
	switch string(v) {
	case "null", "false", "0", `""`, "{}", "[]":
		return false
	}
	return true
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
