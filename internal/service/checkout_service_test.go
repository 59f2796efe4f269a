package service

import (
	"testing"

	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLinePersonalizationKeepsSanitizedValues(t *testing.T) {
	svc := &checkoutService{cfg: rules.DefaultConfig()}
	line := lockedLine{
		cart: model.CartItem{
			Personalization: `{"engraving":"Ayşe","old_field":"left over from an edit"}`,
		},
		listing: &model.Listing{
			PersonalizationFields: []model.PersonalizationField{
				{FieldKey: "engraving", Label: "İsim", MaxLength: 20},
			},
		},
	}

	require.NoError(t, svc.validateLinePersonalization(&line))
	// Only values matching a current field definition survive; the order
	// item snapshot is built from exactly this map.
	assert.Equal(t, map[string]string{"engraving": "Ayşe"}, line.personalization)
}

func TestValidateLinePersonalizationDropsAllValuesWhenNoFieldsDefined(t *testing.T) {
	svc := &checkoutService{cfg: rules.DefaultConfig()}
	line := lockedLine{
		cart:    model.CartItem{Personalization: `{"anything":"goes"}`},
		listing: &model.Listing{},
	}

	require.NoError(t, svc.validateLinePersonalization(&line))
	assert.Empty(t, line.personalization)
}

func TestValidateLinePersonalizationStillRejectsInvalidValues(t *testing.T) {
	svc := &checkoutService{cfg: rules.DefaultConfig()}
	line := lockedLine{
		cart: model.CartItem{Personalization: `{"engraving":"bu isim sığmayacak kadar uzun"}`},
		listing: &model.Listing{
			PersonalizationFields: []model.PersonalizationField{
				{FieldKey: "engraving", Label: "İsim", MaxLength: 10},
			},
		},
	}

	err := svc.validateLinePersonalization(&line)
	re, ok := rules.AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, rules.CodePersonalizationInvalid, re.Code)
}
