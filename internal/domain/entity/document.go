package entity

import (
	"errors"
	"strings"
	"time"
)

// Document is a stored document known to the backend.
type Document struct {
	ID        string
	Type      string
	Title     string
	UpdatedAt time.Time
}

// Validate checks that the document can be stored and routed to.
func (d *Document) Validate() error {
	if d == nil || d.ID == "" || d.Type == "" {
		return ErrInvalidDocument
	}
	// route segments reserve these characters
	if strings.ContainsAny(d.ID, ";|,=") {
		return ErrInvalidDocument
	}
	return nil
}

// Template declares a named initial-value template and the type it creates.
type Template struct {
	ID         string `toml:"id" json:"id"`
	SchemaType string `toml:"schema_type" json:"schema_type"`
	Title      string `toml:"title,omitempty" json:"title,omitempty"`
}

var (
	ErrInvalidDocument  = errors.New("invalid document")
	ErrDocumentNotFound = errors.New("document not found")
)
