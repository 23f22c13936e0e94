// Package manifest reads and rewrites the contributors field of a
// package.json style document while leaving everything else intact.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const contributorsKey = "contributors"

var (
	// ErrNotFound is returned by manifest stores when the manifest does not exist
	ErrNotFound = errors.New("manifest not found")
	// ErrUnreadable is returned when the stored manifest cannot be decoded to bytes
	ErrUnreadable = errors.New("manifest unreadable")
)

// File is a manifest as stored in the repository. SHA is the blob revision the
// content was read at and must be passed back when writing.
type File struct {
	Path    string
	Content []byte
	SHA     string
}

// Document is a parsed manifest
type Document struct {
	root            *Object
	trailingNewline bool
}

// Parse decodes a manifest. The document must be a JSON object.
func Parse(data []byte) (*Document, error) {
	root, err := ParseObject(data)
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &Document{
		root:            root,
		trailingNewline: bytes.HasSuffix(data, []byte("\n")),
	}, nil
}

// Contributors returns the contributors list. A missing or non-array field
// yields an empty list, which replaces it on the next SetContributors.
func (d *Document) Contributors() (*ContributorList, error) {
	raw, ok := d.root.Get(contributorsKey)
	if !ok {
		return &ContributorList{}, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return &ContributorList{}, nil
	}

	list := &ContributorList{entries: make([]*Contributor, 0, len(entries))}
	for _, entry := range entries {
		list.entries = append(list.entries, newContributor(entry))
	}
	return list, nil
}

// SetContributors stores list as the contributors field, in place if the
// field already exists
func (d *Document) SetContributors(list *ContributorList) error {
	raw, err := list.MarshalJSON()
	if err != nil {
		return err
	}
	d.root.Set(contributorsKey, raw)
	return nil
}

// Marshal serializes the document with two-space indentation, keeping the
// original key order and trailing newline
func (d *Document) Marshal() ([]byte, error) {
	compact, err := d.root.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	if d.trailingNewline {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
