package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePersonalizationDropsUnknownKeys(t *testing.T) {
	defs := []PersonalizationFieldDef{{Key: "engraving"}}
	values := map[string]string{
		"engraving": "Ayşe",
		"old_field": "left over from an earlier listing version",
	}
	got := SanitizePersonalization(values, defs)
	assert.Equal(t, map[string]string{"engraving": "Ayşe"}, got)
}

func TestValidatePersonalization(t *testing.T) {
	defs := []PersonalizationFieldDef{
		{Key: "engraving", Label: "Engraving", IsRequired: true, MinLength: 2, MaxLength: 20},
		{Key: "gift_note", Label: "Gift note", MaxLength: 100},
	}

	tests := []struct {
		name    string
		values  map[string]string
		wantErr bool
	}{
		{"valid", map[string]string{"engraving": "Ayşe"}, false},
		{"optional absent", map[string]string{"engraving": "Ayşe"}, false},
		{"required missing", map[string]string{}, true},
		{"required empty", map[string]string{"engraving": ""}, true},
		{"too short", map[string]string{"engraving": "A"}, true},
		{"too long", map[string]string{"engraving": "çok çok çok uzun bir yazı"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePersonalization(tt.values, defs)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			re, ok := AsRuleError(err)
			require.True(t, ok)
			assert.Equal(t, CodePersonalizationInvalid, re.Code)
		})
	}
}

func TestValidatePersonalizationBatchesAllFailures(t *testing.T) {
	defs := []PersonalizationFieldDef{
		{Key: "a", IsRequired: true},
		{Key: "b", MinLength: 5},
		{Key: "c", MaxLength: 2},
	}
	err := ValidatePersonalization(map[string]string{"b": "kısa", "c": "uzun"}, defs)
	re, ok := AsRuleError(err)
	require.True(t, ok)
	fieldErrors, ok := re.Details["fieldErrors"].([]PersonalizationFieldError)
	require.True(t, ok)
	assert.Len(t, fieldErrors, 3)
}
