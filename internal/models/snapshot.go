package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	appErrors "github.com/noah-isme/sma-fees-ledger/pkg/errors"
)

func init() {
	// Snapshots carry amounts as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Collection keys shared by snapshots and the key-value stores.
const (
	CollectionClasses  = "classes"
	CollectionStudents = "students"
	CollectionTeachers = "teachers"
	CollectionBills    = "bills"
	CollectionPayments = "payments"
)

// CollectionKeys lists the collection keys in their canonical order.
var CollectionKeys = []string{
	CollectionClasses,
	CollectionStudents,
	CollectionTeachers,
	CollectionBills,
	CollectionPayments,
}

// Snapshot is the full serialisable ledger state.
type Snapshot struct {
	Classes    []Class    `json:"classes"`
	Students   []Student  `json:"students"`
	Teachers   []Teacher  `json:"teachers"`
	Bills      []Bill     `json:"bills"`
	Payments   []Payment  `json:"payments"`
	ExportDate *time.Time `json:"exportDate,omitempty"`
}

// Clone returns a deep copy. Nil collections become empty so every key is emitted.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Classes:  append(make([]Class, 0, len(s.Classes)), s.Classes...),
		Students: append(make([]Student, 0, len(s.Students)), s.Students...),
		Teachers: append(make([]Teacher, 0, len(s.Teachers)), s.Teachers...),
		Bills:    append(make([]Bill, 0, len(s.Bills)), s.Bills...),
		Payments: append(make([]Payment, 0, len(s.Payments)), s.Payments...),
	}
	if s.ExportDate != nil {
		ts := *s.ExportDate
		out.ExportDate = &ts
	}
	return out
}

// IsEmpty reports whether all five collections are empty.
func (s Snapshot) IsEmpty() bool {
	return len(s.Classes) == 0 && len(s.Students) == 0 && len(s.Teachers) == 0 &&
		len(s.Bills) == 0 && len(s.Payments) == 0
}

// Collections encodes every collection as its own JSON document keyed by collection name.
func (s Snapshot) Collections() (map[string][]byte, error) {
	c := s.Clone()
	values := map[string]interface{}{
		CollectionClasses:  c.Classes,
		CollectionStudents: c.Students,
		CollectionTeachers: c.Teachers,
		CollectionBills:    c.Bills,
		CollectionPayments: c.Payments,
	}
	out := make(map[string][]byte, len(values))
	for key, value := range values {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		out[key] = raw
	}
	return out, nil
}

// Patch converts the snapshot into a patch that replaces all five collections.
func (s Snapshot) Patch() SnapshotPatch {
	c := s.Clone()
	return SnapshotPatch{
		Classes:  &c.Classes,
		Students: &c.Students,
		Teachers: &c.Teachers,
		Bills:    &c.Bills,
		Payments: &c.Payments,
	}
}

// SnapshotPatch is a decoded, possibly partial snapshot. A nil field means the key was absent.
type SnapshotPatch struct {
	Classes  *[]Class
	Students *[]Student
	Teachers *[]Teacher
	Bills    *[]Bill
	Payments *[]Payment
}

// Keys returns the collection keys present in the patch, in canonical order.
func (p SnapshotPatch) Keys() []string {
	keys := make([]string, 0, len(CollectionKeys))
	if p.Classes != nil {
		keys = append(keys, CollectionClasses)
	}
	if p.Students != nil {
		keys = append(keys, CollectionStudents)
	}
	if p.Teachers != nil {
		keys = append(keys, CollectionTeachers)
	}
	if p.Bills != nil {
		keys = append(keys, CollectionBills)
	}
	if p.Payments != nil {
		keys = append(keys, CollectionPayments)
	}
	return keys
}

// DecodeSnapshot parses a snapshot document. Unknown top-level keys are ignored; a key holding
// null counts as absent. Any shape mismatch fails the whole decode with ErrImportFormat.
func DecodeSnapshot(data []byte) (*SnapshotPatch, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, appErrors.Clone(appErrors.ErrImportFormat, "snapshot must be a JSON object")
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrImportFormat.Code, appErrors.ErrImportFormat.Status, "snapshot is not valid JSON")
	}
	raw := make(map[string][]byte, len(CollectionKeys))
	for _, key := range CollectionKeys {
		if value, ok := top[key]; ok {
			raw[key] = value
		}
	}
	return DecodeCollections(raw)
}

// DecodeCollections decodes per-collection JSON documents as stored by the key-value stores.
func DecodeCollections(raw map[string][]byte) (*SnapshotPatch, error) {
	patch := &SnapshotPatch{}
	var err error
	if patch.Classes, err = decodeCollection(raw, CollectionClasses, func(c Class) int64 { return c.ID }); err != nil {
		return nil, err
	}
	if patch.Students, err = decodeCollection(raw, CollectionStudents, func(s Student) int64 { return s.ID }); err != nil {
		return nil, err
	}
	if patch.Teachers, err = decodeCollection(raw, CollectionTeachers, func(t Teacher) int64 { return t.ID }); err != nil {
		return nil, err
	}
	if patch.Bills, err = decodeCollection(raw, CollectionBills, func(b Bill) int64 { return b.ID }); err != nil {
		return nil, err
	}
	if patch.Payments, err = decodeCollection(raw, CollectionPayments, func(p Payment) int64 { return p.ID }); err != nil {
		return nil, err
	}
	return patch, nil
}

func decodeCollection[T any](raw map[string][]byte, key string, idOf func(T) int64) (*[]T, error) {
	data, ok := raw[key]
	if !ok {
		return nil, nil
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	if data[0] != '[' {
		return nil, appErrors.Clone(appErrors.ErrImportFormat, fmt.Sprintf("%s must be an array", key))
	}
	items := make([]T, 0)
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrImportFormat.Code, appErrors.ErrImportFormat.Status, fmt.Sprintf("invalid %s records", key))
	}
	seen := make(map[int64]struct{}, len(items))
	for i, item := range items {
		id := idOf(item)
		if id == 0 {
			return nil, appErrors.Clone(appErrors.ErrImportFormat, fmt.Sprintf("%s[%d] has no id", key, i))
		}
		if _, dup := seen[id]; dup {
			return nil, appErrors.Clone(appErrors.ErrImportFormat, fmt.Sprintf("%s has duplicate id %d", key, id))
		}
		seen[id] = struct{}{}
	}
	return &items, nil
}
