package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.March, 15), d)

	_, err = ParseDate("15/03/2024")
	assert.Error(t, err)
}

func TestDateComparisons(t *testing.T) {
	a := NewDate(2024, time.March, 10)
	b := NewDate(2024, time.March, 15)
	c := NewDate(2024, time.April, 1)

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
	assert.True(t, a.Equal(NewDate(2024, time.March, 10)))
	assert.True(t, a.SameMonth(b))
	assert.False(t, a.SameMonth(c))
	assert.False(t, a.SameMonth(NewDate(2023, time.March, 10)))
}

func TestDateAddDaysRollsOverMonth(t *testing.T) {
	assert.Equal(t, NewDate(2024, time.July, 1), NewDate(2024, time.June, 30).AddDays(1))
	assert.Equal(t, NewDate(2024, time.March, 1), NewDate(2024, time.February, 29).AddDays(1))
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.June, 2)

	data, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2024-06-02"`, string(data))

	var back Date
	require.NoError(t, back.UnmarshalJSON(data))
	assert.True(t, d.Equal(back))
}

func TestIsDerivedCategory(t *testing.T) {
	assert.True(t, IsDerivedCategory(CategoryExpiringSoon))
	assert.True(t, IsDerivedCategory(CategoryExpired))
	assert.False(t, IsDerivedCategory(CategoryFood))
	assert.False(t, IsDerivedCategory("Garden"))
}
