package catalog

import (
	"encoding/json"

	"github.com/battlewithbytes/demoize/internal/stager"
)

// FileName is the catalog file kept at the root of the demos directory.
const FileName = "demo_metadata.json"

// Entry is one installed demo in the catalog. File references are absolute.
//
// The catalog is shared with other tools that may add keys of their own.
// An entry decoded from the catalog file keeps its original bytes and is
// written back exactly as read; only new entries are marshaled from fields.
type Entry struct {
	ID         string           `json:"Id"`
	Name       string           `json:"Name"`
	Downloaded bool             `json:"downloaded"`
	Version    float64          `json:"version"`
	Tags       []string         `json:"tags"`
	Icon       stager.FileRef   `json:"icon"`
	Code       []stager.FileRef `json:"code"`
	Data       []stager.FileRef `json:"data"`

	raw json.RawMessage
}

type plainEntry Entry

// UnmarshalJSON decodes the known fields and keeps data verbatim. Entries
// whose fields do not fit the schema still load as long as "Id" does.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var p plainEntry
	if err := json.Unmarshal(data, &p); err != nil {
		var id struct {
			ID string `json:"Id"`
		}
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		p = plainEntry{ID: id.ID}
	}
	*e = Entry(p)
	e.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the bytes the entry was read from, if any.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.raw != nil {
		return e.raw, nil
	}
	return json.Marshal(plainEntry(e))
}
