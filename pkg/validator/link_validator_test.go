package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLink(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		url     string
		want    string
		field   string
		message string
	}{
		{name: "valid https", title: "Blog", url: "https://example.com/post", want: "https://example.com/post"},
		{name: "scheme defaulted", title: "Blog", url: "example.com", want: "https://example.com"},
		{name: "http kept", title: "Blog", url: "http://example.com", want: "http://example.com"},
		{name: "empty title", title: "  ", url: "example.com", field: "title", message: "Title is required"},
		{name: "title too long", title: strings.Repeat("a", 101), url: "example.com", field: "title", message: "Title must be less than 100 characters"},
		{name: "empty url", title: "Blog", url: "", field: "url", message: "URL is required"},
		{name: "garbage url", title: "Blog", url: "not a url", field: "url", message: "Invalid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateLink(tt.title, tt.url)
			if tt.field == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestValidateTitle_CountsRunes(t *testing.T) {
	assert.NoError(t, ValidateTitle(strings.Repeat("é", 100)))
}

func TestValidateSlug(t *testing.T) {
	assert.NoError(t, ValidateSlug("jane_doe-1"))

	err := ValidateSlug("ab")
	require.Error(t, err)
	assert.Equal(t, "Username must be between 3 and 50 characters.", err.Error())

	err = ValidateSlug("has space")
	require.Error(t, err)
	assert.Equal(t, "Invalid username format.", err.Error())

	err = ValidateSlug("")
	require.Error(t, err)
	assert.Equal(t, "Invalid username format.", err.Error())

	assert.Error(t, ValidateSlug(strings.Repeat("a", 51)))
}

func TestValidateCustomization(t *testing.T) {
	picture, err := ValidateCustomization("Hello there", "#6366f1", "cdn.example.com/me.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/me.png", picture)

	picture, err = ValidateCustomization("", "", "")
	require.NoError(t, err)
	assert.Empty(t, picture)

	var ve *ValidationError

	_, err = ValidateCustomization(strings.Repeat("é", 201), "", "")
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "description", ve.Field)
	assert.Equal(t, "Description must be 200 characters or less", ve.Message)

	_, err = ValidateCustomization("", "green", "")
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "accent_color", ve.Field)

	_, err = ValidateCustomization("", "#08CB00", "https://")
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "profile_picture_url", ve.Field)
}
