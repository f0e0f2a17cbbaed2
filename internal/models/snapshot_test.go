package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sma-fees-ledger/pkg/errors"
)

func TestDecodeSnapshotPartial(t *testing.T) {
	patch, err := DecodeSnapshot([]byte(`{"bills":[{"id":7,"studentId":3,"description":"Tuition","amount":500,"date":"2024-01-02T03:04:05.000Z"}],"extra":true}`))
	require.NoError(t, err)

	assert.Equal(t, []string{CollectionBills}, patch.Keys())
	require.NotNil(t, patch.Bills)
	bill := (*patch.Bills)[0]
	assert.Equal(t, int64(7), bill.ID)
	assert.True(t, decimal.NewFromInt(500).Equal(bill.Amount))
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), bill.Date.UTC())
}

func TestDecodeSnapshotNullCountsAsAbsent(t *testing.T) {
	patch, err := DecodeSnapshot([]byte(`{"classes":null,"teachers":[]}`))
	require.NoError(t, err)

	assert.Nil(t, patch.Classes)
	require.NotNil(t, patch.Teachers)
	assert.Empty(t, *patch.Teachers)
}

func TestDecodeSnapshotRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":      `{"classes":`,
		"not an object": `[1,2,3]`,
		"not an array":  `{"classes":{"id":1}}`,
		"wrong type":    `{"students":[{"id":"abc"}]}`,
		"missing id":    `{"teachers":[{"name":"T"}]}`,
		"duplicate id":  `{"classes":[{"id":1,"name":"A"},{"id":1,"name":"B"}]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(payload))
			require.Error(t, err)
			assert.True(t, errors.Is(err, appErrors.ErrImportFormat))
		})
	}
}

func TestSnapshotMarshalEmitsAllKeys(t *testing.T) {
	raw, err := json.Marshal(Snapshot{}.Clone())
	require.NoError(t, err)

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &top))
	for _, key := range CollectionKeys {
		assert.Equal(t, "[]", string(top[key]), key)
	}
	_, hasExportDate := top["exportDate"]
	assert.False(t, hasExportDate)
}

func TestSnapshotAmountsAreNumbers(t *testing.T) {
	snap := Snapshot{Payments: []Payment{{ID: 1, StudentID: 2, Amount: decimal.RequireFromString("200.50")}}}
	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"amount":200.5`)
}

func TestCollectionsRoundTrip(t *testing.T) {
	snap := Snapshot{
		Classes:  []Class{{ID: 1, Name: "Grade 5"}},
		Students: []Student{{ID: 2, Name: "Ama", ClassID: 1, ExternalStudentID: "S001"}},
	}
	raw, err := snap.Collections()
	require.NoError(t, err)
	assert.Len(t, raw, len(CollectionKeys))

	patch, err := DecodeCollections(raw)
	require.NoError(t, err)
	assert.Equal(t, snap.Classes, *patch.Classes)
	assert.Equal(t, snap.Students, *patch.Students)
	assert.Empty(t, *patch.Payments)
}
