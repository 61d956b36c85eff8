package fixhub_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/fixhub"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := fixhub.Errorf(fixhub.ENOTFOUND, "guide %q not found", "abc123")

	assert.Equal(t, fixhub.ENOTFOUND, fixhub.ErrorCode(err))
	assert.Equal(t, "guide \"abc123\" not found", fixhub.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, fixhub.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, fixhub.EINTERNAL, fixhub.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, fixhub.ErrorMessage(nil))
}

func TestSearchQuery_Validate(t *testing.T) {
	t.Parallel()

	err := fixhub.SearchQuery{}.Validate()

	assert.Equal(t, fixhub.EINVALID, fixhub.ErrorCode(err))
	assert.NoError(t, fixhub.SearchQuery{Query: "iPhone 14"}.Validate())
}

func TestSearchQuery_Limit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		maxResults int
		want       int
	}{
		{"zero defaults", 0, fixhub.DefaultMaxResults},
		{"negative defaults", -3, fixhub.DefaultMaxResults},
		{"in range passes through", 7, 7},
		{"above ceiling clamps", 500, fixhub.MaxResultsCeiling},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q := fixhub.SearchQuery{Query: "x", MaxResults: tt.maxResults}
			assert.Equal(t, tt.want, q.Limit())
		})
	}
}

func TestAudience_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, fixhub.AudienceBeginner.Validate())
	assert.NoError(t, fixhub.AudienceIntermediate.Validate())
	assert.NoError(t, fixhub.AudienceExpert.Validate())

	err := fixhub.Audience("wizard").Validate()
	assert.Equal(t, fixhub.EINVALID, fixhub.ErrorCode(err))
}
