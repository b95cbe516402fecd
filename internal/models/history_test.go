package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistorySetUpserts(t *testing.T) {
	var h History
	h.Set("2024-03", 45)
	h.Set("2024-01", 50)
	h.Set("2024-03", 47)

	assert.Len(t, h, 2)
	assert.Equal(t, []MonthlyProgress{
		{Month: "2024-01", UnitsCompleted: 50},
		{Month: "2024-03", UnitsCompleted: 47},
	}, h.Entries())
}

func TestHistoryJSON(t *testing.T) {
	t.Run("marshals sorted by month", func(t *testing.T) {
		h := History{"2024-12": 3, "2023-02": 1, "2024-01": 2}
		data, err := json.Marshal(h)
		require.NoError(t, err)
		assert.JSONEq(t,
			`[{"month":"2023-02","ahzabCompleted":1},{"month":"2024-01","ahzabCompleted":2},{"month":"2024-12","ahzabCompleted":3}]`,
			string(data))
	})

	t.Run("duplicate months collapse, last wins", func(t *testing.T) {
		var h History
		err := json.Unmarshal([]byte(`[{"month":"2024-01","ahzabCompleted":4},{"month":"2024-01","ahzabCompleted":9}]`), &h)
		require.NoError(t, err)
		assert.Equal(t, History{"2024-01": 9}, h)
	})

	t.Run("empty array decodes to nil", func(t *testing.T) {
		h := History{"2024-01": 1}
		require.NoError(t, json.Unmarshal([]byte(`[]`), &h))
		assert.Nil(t, h)
	})

	t.Run("member omits empty history", func(t *testing.T) {
		data, err := json.Marshal(Member{ID: "1", Name: "A", TotalUnits: 60})
		require.NoError(t, err)
		assert.NotContains(t, string(data), "monthlyProgress")
		assert.NotContains(t, string(data), "photoUrl")
	})
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		month   string
		wantErr bool
	}{
		{"2024-01", false},
		{"1999-12", false},
		{"2024-13", true},
		{"2024-1", true},
		{"24-01", true},
		{"2024/01", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.month, func(t *testing.T) {
			_, err := ParseMonth(tt.month)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMonthOf(t *testing.T) {
	assert.Equal(t, "2024-03", MonthOf(time.Date(2024, time.March, 31, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "2025-11", MonthOf(time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)))
}

func TestGroupDataClone(t *testing.T) {
	doc := &GroupData{
		Name:       "g",
		TotalUnits: 60,
		Members: []Member{
			{ID: "1", Name: "A", TotalUnits: 60, History: History{"2024-01": 3}},
		},
	}

	clone := doc.Clone()
	clone.Members[0].History.Set("2024-01", 10)
	clone.Members[0].CompletedUnits = 7

	assert.Equal(t, 3, doc.Members[0].History["2024-01"])
	assert.Zero(t, doc.Members[0].CompletedUnits)
	assert.Equal(t, 0, doc.FindMember("1"))
	assert.Equal(t, -1, doc.FindMember("missing"))
}
