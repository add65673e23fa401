// Package registry reads, patches and writes the host framework's persisted
// entity registry file. The file is owned by the host; besides the handful
// of typed fields the patch predicate inspects, every key is carried
// through untouched.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Failure kinds of a single maintenance run. All of them are terminal;
// there are no retries.
var (
	ErrRead   = errors.New("registry read failed")
	ErrWrite  = errors.New("registry write failed")
	ErrBackup = errors.New("registry backup failed")
)

// Record is one entity entry of the registry. The typed fields are views
// into the raw record the host stored; the raw record is what gets written
// back, so keys this code does not understand survive verbatim.
type Record struct {
	EntityID       string
	Platform       string
	OriginalName   *string
	TranslationKey *string
	HasEntityName  bool

	fields map[string]json.RawMessage
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = Record{fields: fields}
	for key, dst := range map[string]any{
		"entity_id":       &r.EntityID,
		"platform":        &r.Platform,
		"original_name":   &r.OriginalName,
		"translation_key": &r.TranslationKey,
		"has_entity_name": &r.HasEntityName,
	} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("entity field %q: %w", key, err)
		}
	}
	return nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	if r.fields != nil {
		return json.Marshal(r.fields)
	}
	// Record built in code rather than parsed from a file.
	fields := map[string]any{
		"entity_id":       r.EntityID,
		"platform":        r.Platform,
		"original_name":   r.OriginalName,
		"translation_key": r.TranslationKey,
		"has_entity_name": r.HasEntityName,
	}
	return json.Marshal(fields)
}

// ClearOriginalName nulls the display-name override. The key stays present
// in the stored record with an explicit null, matching what the host
// writes itself.
func (r *Record) ClearOriginalName() {
	r.OriginalName = nil
	if r.fields != nil {
		r.fields["original_name"] = json.RawMessage("null")
	}
}

// Document is the whole registry file: the entity list plus whatever
// metadata the host keeps around it (version, key, ...), preserved as is.
type Document struct {
	Entities []Record

	meta      map[string]json.RawMessage // top-level fields except "data"
	dataExtra map[string]json.RawMessage // fields of "data" except "entities"
}

func (d *Document) UnmarshalJSON(b []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(b, &top); err != nil {
		return err
	}

	rawData, ok := top["data"]
	if !ok {
		return errors.New(`missing "data" section`)
	}
	delete(top, "data")

	var data map[string]json.RawMessage
	if err := json.Unmarshal(rawData, &data); err != nil {
		return fmt.Errorf(`"data" section: %w`, err)
	}

	rawEntities, ok := data["entities"]
	if !ok {
		return errors.New(`missing "entities" list`)
	}
	delete(data, "entities")

	var entities []Record
	if err := json.Unmarshal(rawEntities, &entities); err != nil {
		return fmt.Errorf(`"entities" list: %w`, err)
	}

	d.Entities = entities
	d.meta = top
	d.dataExtra = data
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	data := make(map[string]json.RawMessage, len(d.dataExtra)+1)
	for key, raw := range d.dataExtra {
		data[key] = raw
	}
	rawEntities, err := json.Marshal(d.Entities)
	if err != nil {
		return nil, err
	}
	data["entities"] = rawEntities

	top := make(map[string]json.RawMessage, len(d.meta)+1)
	for key, raw := range d.meta {
		top[key] = raw
	}
	rawData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	top["data"] = rawData

	return json.Marshal(top)
}

// Load reads and validates the registry file. A missing or unparsable file
// is an ErrRead; nothing has been written at that point.
func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}
	return &doc, nil
}

// Save writes the document back with two-space indentation, the way the
// host itself formats the file.
func Save(doc *Document, path string) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// Backup copies the registry file byte for byte to backupPath. It must
// succeed before any mutation is attempted.
func Backup(path, backupPath string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackup, err)
	}
	if err := os.WriteFile(backupPath, b, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrBackup, err)
	}
	return nil
}

// Restore copies the backup over the registry file. It is the rollback
// path after a failed Save.
func Restore(backupPath, path string) error {
	b, err := os.ReadFile(backupPath)
	if err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	return nil
}
