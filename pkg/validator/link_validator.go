package validator

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	MaxTitleLength = 100
	MinSlugLength  = 3
	MaxSlugLength  = 50

	MaxDescriptionLength = 200
	maxURLLength   = 2048
)

// slugRegex matches the characters allowed in a public slug
var slugRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var accentColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidationError represents a validation failure on one field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateTitle checks a link title is present and at most 100 characters
func ValidateTitle(title string) error {
	err := validation.Validate(strings.TrimSpace(title),
		validation.Required.Error("Title is required"),
		validation.By(func(value interface{}) error {
			if utf8.RuneCountInString(value.(string)) > MaxTitleLength {
				return errors.New("Title must be less than 100 characters")
			}
			return nil
		}),
	)
	return fieldError("title", err)
}

// NormalizeURL defaults the scheme to https:// when the caller left it out
func NormalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return rawURL
	}
	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		rawURL = "https://" + rawURL
	}
	return rawURL
}

// ValidateURL checks an already normalized URL is absolute with a host
func ValidateURL(rawURL string) error {
	err := validation.Validate(rawURL,
		validation.Required.Error("URL is required"),
		validation.Length(1, maxURLLength).Error("URL too long (max 2048 characters)"),
		is.URL.Error("Invalid URL"),
		validation.By(func(value interface{}) error {
			parsed, err := url.Parse(value.(string))
			if err != nil || !parsed.IsAbs() || parsed.Host == "" {
				return errors.New("Invalid URL")
			}
			return nil
		}),
	)
	return fieldError("url", err)
}

// ValidateLink validates a title/url pair and returns the normalized url
func ValidateLink(title, rawURL string) (string, error) {
	if err := ValidateTitle(title); err != nil {
		return "", err
	}
	normalized := NormalizeURL(rawURL)
	if err := ValidateURL(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// ValidateSlug checks format first, then length, with the messages the
// username form shows
func ValidateSlug(slug string) error {
	err := validation.Validate(slug,
		validation.Match(slugRegex).Error("Invalid username format."),
		validation.Length(MinSlugLength, MaxSlugLength).Error("Username must be between 3 and 50 characters."),
	)
	if err == nil && slug == "" {
		err = errors.New("Invalid username format.")
	}
	return fieldError("slug", err)
}

// ValidateCustomization checks the page settings and returns the normalized
// picture url ("" when none)
func ValidateCustomization(description, accentColor, pictureURL string) (string, error) {
	err := validation.Validate(description,
		validation.By(func(value interface{}) error {
			if utf8.RuneCountInString(value.(string)) > MaxDescriptionLength {
				return errors.New("Description must be 200 characters or less")
			}
			return nil
		}),
	)
	if err != nil {
		return "", fieldError("description", err)
	}

	err = validation.Validate(accentColor,
		validation.Match(accentColorRegex).Error("Accent color must be a hex color like #08CB00"),
	)
	if err != nil {
		return "", fieldError("accent_color", err)
	}

	if strings.TrimSpace(pictureURL) == "" {
		return "", nil
	}
	normalized := NormalizeURL(pictureURL)
	if err := ValidateURL(normalized); err != nil {
		return "", fieldError("profile_picture_url", errors.New(err.Error()))
	}
	return normalized, nil
}

func fieldError(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}
