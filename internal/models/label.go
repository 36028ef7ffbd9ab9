package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// LabelKind tells how a label was encoded in storage.
type LabelKind int

const (
	// StructuredLabel is the current {"text": ...} shape.
	StructuredLabel LabelKind = iota
	// StringLabel is the legacy bare-string shape.
	StringLabel
)

// LabelEntry is a label as read from storage, before normalization.
type LabelEntry struct {
	Kind LabelKind
	Text string
}

// NewStringEntry builds a legacy bare-string entry.
func NewStringEntry(text string) LabelEntry {
	return LabelEntry{Kind: StringLabel, Text: text}
}

// NewStructuredEntry builds an entry already in the structured shape.
func NewStructuredEntry(l Label) LabelEntry {
	return LabelEntry{Kind: StructuredLabel, Text: l.Text}
}

// Label returns the structured form of the entry.
func (e LabelEntry) Label() Label {
	return Label{Text: e.Text}
}

// MarshalJSON writes the entry in the shape it was read in.
func (e LabelEntry) MarshalJSON() ([]byte, error) {
	if e.Kind == StringLabel {
		return json.Marshal(e.Text)
	}
	return json.Marshal(Label{Text: e.Text})
}

// UnmarshalJSON accepts either a bare string or a {"text": ...} object.
func (e *LabelEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty label")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode string label: %w", err)
		}
		*e = NewStringEntry(s)
		return nil
	case '{':
		var l Label
		if err := json.Unmarshal(data, &l); err != nil {
			return fmt.Errorf("decode label: %w", err)
		}
		*e = NewStructuredEntry(l)
		return nil
	}
	return fmt.Errorf("unsupported label value %s", data)
}

// StoredAccount is the read-side shape of a persisted account.
type StoredAccount struct {
	Labels   []LabelEntry
	Type     AccountType
	Login    string
	Password *string
}

// UnmarshalJSON decodes a persisted account. A labels member that is not an
// array decodes to no labels.
func (s *StoredAccount) UnmarshalJSON(data []byte) error {
	var raw struct {
		Labels   json.RawMessage `json:"labels"`
		Type     AccountType     `json:"type"`
		Login    string          `json:"login"`
		Password *string         `json:"password"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var entries []LabelEntry
	if labels := bytes.TrimSpace(raw.Labels); len(labels) > 0 && labels[0] == '[' {
		if err := json.Unmarshal(labels, &entries); err != nil {
			return fmt.Errorf("labels: %w", err)
		}
	}

	*s = StoredAccount{
		Labels:   entries,
		Type:     raw.Type.Canonical(),
		Login:    raw.Login,
		Password: raw.Password,
	}
	return nil
}
