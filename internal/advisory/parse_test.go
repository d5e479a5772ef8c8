package advisory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", `{"a": 1}`, false},
		{"fenced", "```json\n{\"a\": 1}\n```", false},
		{"prose around", `Sure. {"a": 1} Let me know.`, false},
		{"empty", "   ", true},
		{"no object", "just words", true},
		{"broken", `{"a": }`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := extractObject(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, float64(1), fields["a"])
		})
	}
}

func TestBoolField(t *testing.T) {
	fields := map[string]any{
		"b":     true,
		"s":     "False",
		"yes":   "yes",
		"num":   float64(1),
		"weird": "perhaps",
	}

	v, ok := boolField(fields, "b")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = boolField(fields, "s")
	assert.True(t, ok)
	assert.False(t, v)

	v, ok = boolField(fields, "yes")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = boolField(fields, "num")
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = boolField(fields, "weird")
	assert.False(t, ok)
	_, ok = boolField(fields, "missing")
	assert.False(t, ok)
}

func TestListAndStringFields(t *testing.T) {
	fields := map[string]any{
		"list":   []any{"one", " two ", nil, float64(3), ""},
		"single": "only",
		"blank":  "  ",
		"num":    float64(42),
	}

	assert.Equal(t, []string{"one", "two", "3"}, listField(fields, "list"))
	assert.Equal(t, []string{"only"}, listField(fields, "single"))
	assert.Nil(t, listField(fields, "blank"))
	assert.Nil(t, listField(fields, "missing"))

	assert.Equal(t, "42", stringField(fields, "num"))
	assert.Equal(t, "one\ntwo\n3", stringField(fields, "list"))
	assert.Equal(t, "", stringField(fields, "missing"))
}
