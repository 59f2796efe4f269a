package rules

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTag(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"simple", "Seramik", "seramik", false},
		{"turkish dotless i", "YAĞLIBOYA", "yağlıboya", false},
		{"trims", "  el yapımı  ", "el yapımı", false},
		{"hyphen and digit", "3d-baskı", "3d-baskı", false},
		{"too short", "a", "", true},
		{"punctuation", "vazo!", "", true},
		{"underscore", "el_yapimi", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, terr := NormalizeTag(tt.raw, cfg)
			if tt.wantErr {
				require.NotNil(t, terr)
				assert.Equal(t, tt.raw, terr.Tag)
				return
			}
			require.Nil(t, terr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTagRejectsOverlong(t *testing.T) {
	cfg := DefaultConfig()
	long := ""
	for i := 0; i < cfg.TagMaxLen+1; i++ {
		long += "a"
	}
	_, terr := NormalizeTag(long, cfg)
	require.NotNil(t, terr)
}

func TestNormalizeTagsTurkishCaseDedup(t *testing.T) {
	got, err := NormalizeTags([]string{"Yağlıboya", "yağlıboya", "YAĞLIBOYA"}, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"yağlıboya"}, got)
}

func TestNormalizeTagsBatchesErrors(t *testing.T) {
	_, err := NormalizeTags([]string{"geçerli", "!", "x"}, DefaultConfig())
	re, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, re.Code)
	tagErrors, ok := re.Details["tagErrors"].([]TagError)
	require.True(t, ok)
	assert.Len(t, tagErrors, 2)
}

func TestAssertTagCapacity(t *testing.T) {
	cfg := DefaultConfig()

	assert.NoError(t, AssertTagCapacity(0, 13, cfg))
	assert.NoError(t, AssertTagCapacity(10, 3, cfg))

	err := AssertTagCapacity(0, 14, cfg)
	re, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, CodeTagLimit, re.Code)

	err = AssertTagCapacity(13, 1, cfg)
	re, ok = AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, CodeTagLimit, re.Code)
}

func TestFourteenDistinctTagsHitTheCeiling(t *testing.T) {
	cfg := DefaultConfig()
	raw := make([]string, 14)
	for i := range raw {
		raw[i] = fmt.Sprintf("etiket-%02d", i)
	}
	err := AssertTagCapacity(0, len(raw), cfg)
	re, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, CodeTagLimit, re.Code)
}
