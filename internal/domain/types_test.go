package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageNumberUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want PageNumber
	}{
		{"number", `7`, 7},
		{"numeric string", `"12"`, 12},
		{"empty string", `""`, 0},
		{"null", `null`, 0},
		{"garbage string", `"n/a"`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p PageNumber
			require.NoError(t, json.Unmarshal([]byte(tc.in), &p))
			assert.Equal(t, tc.want, p)
		})
	}
}

func TestPageNumberMarshalIsPlainNumber(t *testing.T) {
	out, err := json.Marshal(PageNumber(3))
	require.NoError(t, err)
	assert.Equal(t, "3", string(out))
}

func TestReferenceIsZero(t *testing.T) {
	var nilRef *Reference
	assert.True(t, nilRef.IsZero())
	assert.True(t, (&Reference{}).IsZero())
	assert.True(t, (&Reference{File: "   "}).IsZero())
	assert.False(t, (&Reference{Page: 1}).IsZero())
	assert.False(t, (&Reference{URL: "https://example.com/a.pdf"}).IsZero())
}
