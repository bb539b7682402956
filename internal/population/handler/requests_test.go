package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refugeflow/internal/population/models"
	dErrors "refugeflow/pkg/domain-errors"
)

func TestParseCategory(t *testing.T) {
	t.Run("empty means unset", func(t *testing.T) {
		got, err := parseCategory("")
		require.NoError(t, err)
		assert.Equal(t, models.Category(""), got)
	})

	t.Run("case-insensitive match", func(t *testing.T) {
		got, err := parseCategory("refugees")
		require.NoError(t, err)
		assert.Equal(t, models.CategoryRefugees, got)
	})

	t.Run("unknown name maps to not found", func(t *testing.T) {
		_, err := parseCategory("settlers")
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
	})
}

func TestParseISO2(t *testing.T) {
	got, err := parseISO2(" ua ", "country")
	require.NoError(t, err)
	assert.Equal(t, "UA", got)

	got, err = parseISO2("", "country")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	_, err = parseISO2("UKR", "country")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
}

func TestParseYear(t *testing.T) {
	got, err := parseYear("2022")
	require.NoError(t, err)
	assert.Equal(t, int32(2022), got)

	got, err = parseYear("")
	require.NoError(t, err)
	assert.Equal(t, int32(0), got)

	for _, raw := range []string{"-3", "twenty", "20.5"} {
		_, err = parseYear(raw)
		assert.Error(t, err, "year %q should be rejected", raw)
	}
}

func TestParseBool(t *testing.T) {
	got, err := parseBool("", "origin", true)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = parseBool("false", "origin", true)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = parseBool("1", "head", false)
	require.NoError(t, err)
	assert.True(t, got)

	_, err = parseBool("maybe", "head", false)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
}
