package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleStringValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"+352 621 123 456"`, "+352 621 123 456"},
		{`352621123456`, "352621123456"},
		{`9007199254740993`, "9007199254740993"},
		{`-7`, "-7"},
		{`3.14`, "3.14"},
		{`true`, "true"},
		{`null`, ""},
		{``, ""},
		{`""`, ""},
		{`{"key":"value"}`, `{"key":"value"}`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, FlexibleStringValue(json.RawMessage(tt.input)))
		})
	}
}

func TestFlexibleString_Unmarshal(t *testing.T) {
	var record struct {
		Name  FlexibleString `json:"name"`
		Phone FlexibleString `json:"phone"`
		City  FlexibleString `json:"city"`
	}
	err := json.Unmarshal([]byte(`{"name":"  Jean Dupont ","phone":352621123456,"city":null}`), &record)
	require.NoError(t, err)

	assert.Equal(t, "Jean Dupont", record.Name.String())
	require.NotNil(t, record.Phone.Ptr())
	assert.Equal(t, "352621123456", *record.Phone.Ptr())
	assert.Nil(t, record.City.Ptr())
}
