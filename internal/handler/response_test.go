package handler

import (
	"net/http"
	"testing"

	"github.com/atolyem/marketplace-backend/internal/rules"
	"github.com/stretchr/testify/assert"
)

func TestRuleErrorStatus(t *testing.T) {
	cases := []struct {
		code rules.Code
		want int
	}{
		{rules.CodeNotFound, http.StatusNotFound},
		{rules.CodeForbidden, http.StatusForbidden},
		{rules.CodeSelfPurchase, http.StatusForbidden},
		{rules.CodeConflict, http.StatusConflict},
		{rules.CodeDownloadLimit, http.StatusGone},
		{rules.CodeDownloadExpired, http.StatusGone},
		{rules.CodeInsufficientStock, http.StatusUnprocessableEntity},
		{rules.CodeListingNotAvailable, http.StatusUnprocessableEntity},
		{rules.CodeOrderNotEligible, http.StatusUnprocessableEntity},
		{rules.CodeTagLimit, http.StatusUnprocessableEntity},
		{rules.CodePersonalizationInvalid, http.StatusUnprocessableEntity},
		{rules.CodeValidation, http.StatusUnprocessableEntity},
		{rules.CodeCurrencyMismatch, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ruleErrorStatus(tc.code), "code %s", tc.code)
	}
}
