package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmploymentType(t *testing.T) {
	tests := []struct {
		raw  string
		want EmploymentType
	}{
		{raw: "Salaried", want: Salaried},
		{raw: "salaried", want: Salaried},
		{raw: " SALARIED ", want: Salaried},
		{raw: "SelfEmployed", want: SelfEmployed},
		{raw: "self-employed", want: SelfEmployed},
		{raw: "self_employed", want: SelfEmployed},
		{raw: "Self Employed", want: SelfEmployed},
	}
	for _, tc := range tests {
		got, err := ParseEmploymentType(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}

	for _, raw := range []string{"", "contractor", "salary", "self"} {
		got, err := ParseEmploymentType(raw)
		assert.ErrorIs(t, err, ErrInvalidEmploymentType, raw)
		assert.Equal(t, EmploymentUnknown, got)
	}
}

func TestEmploymentTypeText(t *testing.T) {
	text, err := SelfEmployed.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "SelfEmployed", string(text))

	var parsed EmploymentType
	require.NoError(t, parsed.UnmarshalText([]byte("self-employed")))
	assert.Equal(t, SelfEmployed, parsed)

	_, err = EmploymentUnknown.MarshalText()
	assert.ErrorIs(t, err, ErrInvalidEmploymentType)
	assert.ErrorIs(t, parsed.UnmarshalText([]byte("contractor")), ErrInvalidEmploymentType)
}

func TestEmploymentTypeCodes(t *testing.T) {
	assert.Equal(t, "salaried", Salaried.Code())
	assert.Equal(t, "self-employed", SelfEmployed.Code())
	assert.Equal(t, "Self-Employed", SelfEmployed.Label())
	assert.Equal(t, "", EmploymentUnknown.Code())
}
