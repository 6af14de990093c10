package model

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPropertyNames(t *testing.T) {
	for _, key := range []string{"a", "page", "Click_Full_Name", "x1", "a_b_c_1", strings.Repeat("a", 40), "*"} {
		t.Run(key, func(t *testing.T) {
			n, err := NewPropertyName(key)
			require.NoError(t, err)
			assert.Equal(t, key, n.Key())
		})
	}
}

func TestInvalidPropertyNames(t *testing.T) {
	for _, key := range []string{
		"", "1abc", "_abc", "a-b", "a b", "é", "a*", "**",
		"m_thing", "M_thing", "visit_count", "VISIT_count",
		strings.Repeat("a", 41),
	} {
		t.Run(key, func(t *testing.T) {
			_, err := NewPropertyName(key)
			assert.ErrorIs(t, err, ErrInvalidPropertyName)
		})
	}
}

func TestMustPropertyNamePanicsOnInvalidKey(t *testing.T) {
	assert.Panics(t, func() { MustPropertyName("m_x") })
}

func TestAnyPropertyName(t *testing.T) {
	n := MustPropertyName("*")
	assert.True(t, n.IsAny())
	assert.Equal(t, AnyPropertyName, n)
	assert.False(t, Page.IsAny())
}

func TestPropertyNameEqualityIgnoresCase(t *testing.T) {
	assert.True(t, MustPropertyName("Page").Equal(Page))
	assert.False(t, MustPropertyName("pages").Equal(Page))
}

func TestPropertyNameProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("identifiers up to 40 chars without reserved prefixes are valid", prop.ForAll(
		func(key string) bool {
			_, err := NewPropertyName(key)
			return err == nil
		},
		gen.RegexMatch(`^[a-l][a-z0-9_]{0,39}$`),
	))

	properties.Property("names longer than 40 chars are invalid", prop.ForAll(
		func(key string) bool {
			_, err := NewPropertyName(key)
			return err != nil
		},
		gen.RegexMatch(`^[a-z][a-z0-9_]{40,60}$`),
	))

	properties.Property("names with a reserved prefix are invalid", prop.ForAll(
		func(prefix, rest string) bool {
			_, err := NewPropertyName(prefix + rest)
			return err != nil
		},
		gen.OneConstOf("m_", "M_", "visit_", "Visit_"),
		gen.RegexMatch(`^[a-z0-9_]{0,20}$`),
	))

	properties.Property("names containing other characters are invalid", prop.ForAll(
		func(head, bad, tail string) bool {
			_, err := NewPropertyName(head + bad + tail)
			return err != nil
		},
		gen.RegexMatch(`^[a-l][a-z]{0,5}$`),
		gen.OneConstOf("-", " ", ".", "*", "!", "é"),
		gen.RegexMatch(`^[a-z]{0,5}$`),
	))

	properties.TestingRun(t)
}
