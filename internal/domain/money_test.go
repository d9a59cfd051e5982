package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "whole number", input: "25", want: "25.00"},
		{name: "two decimal places", input: "10.50", want: "10.50"},
		{name: "one decimal place", input: "3.4", want: "3.40"},
		{name: "negative amount allowed", input: "-7.25", want: "-7.25"},
		{name: "leading whitespace trimmed", input: " 12.00 ", want: "12.00"},
		{name: "three decimal places rejected", input: "10.505", wantErr: true},
		{name: "empty string rejected", input: "", wantErr: true},
		{name: "not a number", input: "ten", wantErr: true},
		{name: "float notation rejected", input: "1e2.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatAmount(d))
		})
	}
}

func TestParsePositiveAmount(t *testing.T) {
	_, err := ParsePositiveAmount("0.00")
	require.Error(t, err)

	_, err = ParsePositiveAmount("-1.00")
	require.Error(t, err)

	d, err := ParsePositiveAmount("0.01")
	require.NoError(t, err)
	assert.Equal(t, "0.01", FormatAmount(d))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("14/03/2025")
	require.Error(t, err)

	_, err = ParseDate("2025-03-14T10:00:00Z")
	require.Error(t, err)
}
