package team

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bballcal/internal/model"
)

func TestParseGrade(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"5", 5},
		{"5th", 5},
		{"5th Grade", 5},
		{"8TH GRADE", 8},
		{" 3rd grade ", 3},
	}
	for _, tt := range tests {
		got, err := ParseGrade(tt.in)
		require.NoError(t, err, "ParseGrade(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseGrade(%q)", tt.in)
	}
}

func TestParseGradeMalformed(t *testing.T) {
	for _, in := range []string{"", "grade", "zeroth", "0", "13"} {
		_, err := ParseGrade(in)
		var malformed *MalformedInputError
		assert.ErrorAs(t, err, &malformed, "ParseGrade(%q)", in)
	}
}

func TestParseGender(t *testing.T) {
	for _, in := range []string{"M", "m", "Boys", "boys", "B"} {
		got, err := ParseGender(in)
		require.NoError(t, err)
		assert.Equal(t, model.GenderMale, got, "ParseGender(%q)", in)
	}
	for _, in := range []string{"F", "Girls", "g"} {
		got, err := ParseGender(in)
		require.NoError(t, err)
		assert.Equal(t, model.GenderFemale, got, "ParseGender(%q)", in)
	}

	_, err := ParseGender("coed")
	var malformed *MalformedInputError
	assert.ErrorAs(t, err, &malformed)
}

func TestNormalizeAliasGroupCollapses(t *testing.T) {
	aliases := AliasTable{
		"White": {"white", "wht", "team 1"},
		"Gray":  {"grey", "gray", "silver"},
	}
	require.NoError(t, aliases.Validate())

	// Every variant in a group must normalize to the identical key.
	var keys []model.TeamKey
	for _, raw := range []string{"White", "white", "WHT", "  team   1 "} {
		key, err := Normalize("5th Grade", "Boys", raw, aliases)
		require.NoError(t, err)
		keys = append(keys, key)
	}
	for _, k := range keys {
		assert.Equal(t, model.TeamKey{Grade: 5, Gender: model.GenderMale, Color: "White"}, k)
	}

	key, err := Normalize("5", "M", "GREY", aliases)
	require.NoError(t, err)
	assert.Equal(t, "Gray", key.Color)
}

func TestNormalizeUnaliasedColorStandsAlone(t *testing.T) {
	aliases := AliasTable{"White": {"wht"}}

	key, err := Normalize("6", "F", "  navy blue ", aliases)
	require.NoError(t, err)
	assert.Equal(t, "Navy Blue", key.Color)

	// Empty color is legitimate for single-team towns.
	key, err = Normalize("6", "F", "", aliases)
	require.NoError(t, err)
	assert.Equal(t, "", key.Color)
}

func TestAliasTableCollisionRejected(t *testing.T) {
	aliases := AliasTable{
		"White": {"wht", "blanco"},
		"Gray":  {"wht"},
	}
	err := aliases.Validate()
	var ambiguous *AmbiguityError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "wht", ambiguous.Variant)
}

func TestAliasTableVariantShadowingCanonicalRejected(t *testing.T) {
	aliases := AliasTable{
		"White": {"gray"},
		"Gray":  {"grey"},
	}
	err := aliases.Validate()
	assert.Error(t, err)
}

func TestNormalizeDeterministic(t *testing.T) {
	aliases := AliasTable{"White": {"wht"}}
	a, err := Normalize("5", "M", "wht", aliases)
	require.NoError(t, err)
	b, err := Normalize("5", "M", "wht", aliases)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTeamKeyNames(t *testing.T) {
	k := model.TeamKey{Grade: 5, Gender: model.GenderMale, Color: "White"}
	assert.Equal(t, "5M-White", k.Short())
	assert.Equal(t, "Milton 5th Boys White", k.DisplayName("Milton"))
	assert.Equal(t, "5th-boys-white", k.Slug())

	// Sanity: typed errors survive wrapping.
	err := &MalformedInputError{Field: "grade", Value: "x"}
	assert.True(t, errors.As(err, new(*MalformedInputError)))
}
