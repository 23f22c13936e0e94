package manifest

import (
	"bytes"
	"encoding/json"

	"github.com/alimgiray/contribsync/internal/models"
)

const (
	fieldName  = "name"
	fieldEmail = "email"
	fieldURL   = "url"
)

// Contributor is one entry of the contributors list. Object entries can be
// matched and edited; any other form (npm's "Name <email> (url)" string) is
// carried through untouched.
type Contributor struct {
	obj *Object
	raw json.RawMessage
}

func newContributor(raw json.RawMessage) *Contributor {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if obj, err := ParseObject(trimmed); err == nil {
			return &Contributor{obj: obj}
		}
	}
	return &Contributor{raw: raw}
}

// IsObject reports whether the entry is an editable object
func (c *Contributor) IsObject() bool {
	return c.obj != nil
}

// Name returns the entry's name, empty for opaque entries
func (c *Contributor) Name() string {
	if c.obj == nil {
		return ""
	}
	name, _ := c.obj.GetString(fieldName)
	return name
}

// Email returns the entry's email; a missing field reads as empty
func (c *Contributor) Email() string {
	return c.field(fieldEmail)
}

// URL returns the entry's url; a missing field reads as empty
func (c *Contributor) URL() string {
	return c.field(fieldURL)
}

// SetEmail overwrites the email field in place
func (c *Contributor) SetEmail(email string) {
	if c.obj != nil {
		c.obj.SetString(fieldEmail, email)
	}
}

// SetURL overwrites the url field in place
func (c *Contributor) SetURL(url string) {
	if c.obj != nil {
		c.obj.SetString(fieldURL, url)
	}
}

func (c *Contributor) field(key string) string {
	if c.obj == nil {
		return ""
	}
	value, _ := c.obj.GetString(key)
	return value
}

// MarshalJSON writes the entry back in its original form
func (c *Contributor) MarshalJSON() ([]byte, error) {
	if c.obj != nil {
		return c.obj.MarshalJSON()
	}
	return c.raw, nil
}

// ContributorList is the ordered contributors field of a manifest
type ContributorList struct {
	entries []*Contributor
}

// Len returns the number of entries, opaque ones included
func (l *ContributorList) Len() int {
	return len(l.entries)
}

// Entries returns the entries in order
func (l *ContributorList) Entries() []*Contributor {
	return append([]*Contributor(nil), l.entries...)
}

// Find returns the first object entry whose name equals name exactly
func (l *ContributorList) Find(name string) *Contributor {
	for _, entry := range l.entries {
		if entry.IsObject() && entry.Name() == name {
			return entry
		}
	}
	return nil
}

// Append adds an entry for identity at the end. New entries are rendered
// without empty email or url keys; a missing key reads back as "", so the
// next reconcile sees no difference and leaves the entry alone.
func (l *ContributorList) Append(identity models.Identity) *Contributor {
	obj := NewObject()
	obj.SetString(fieldName, identity.Name)
	if identity.Email != "" {
		obj.SetString(fieldEmail, identity.Email)
	}
	if identity.URL != "" {
		obj.SetString(fieldURL, identity.URL)
	}

	entry := &Contributor{obj: obj}
	l.entries = append(l.entries, entry)
	return entry
}

// MarshalJSON writes the list compactly
func (l *ContributorList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, entry := range l.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		raw, err := entry.MarshalJSON()
		if err != nil {
			return nil, err
		}
		if err := json.Compact(&buf, raw); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
