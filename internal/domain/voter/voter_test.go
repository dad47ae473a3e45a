package voter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9876543210", "+919876543210"},
		{"+919876543210", "+919876543210"},
		{"98765 43210", "+919876543210"},
		{"98765-43210", "+919876543210"},
		{" +44 7700 900123 ", "+447700900123"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizePhone(tc.in, "+91"), "input %q", tc.in)
	}
}

func TestPlaceholderEmail(t *testing.T) {
	assert.Equal(t, "voter919876543210@example.com", PlaceholderEmail("+919876543210"))
	assert.Equal(t, "voter123456@example.com", PlaceholderEmail("123456"))
}

func TestNewVoter(t *testing.T) {
	v := NewVoter(" Asha Rao ", "98765 43210", " 21CS001 ", " asha@uni.edu ", "+91")

	assert.Equal(t, "+919876543210", v.Phone)
	assert.Equal(t, "Asha Rao", v.Name)
	assert.Equal(t, "21CS001", v.RollNumber)
	assert.Equal(t, "asha@uni.edu", v.Email)
	assert.False(t, v.HasVoted)
	assert.NoError(t, v.Validate())
}

func TestVoterValidate(t *testing.T) {
	v := NewVoter("Asha", "9876543210", "21CS001", "asha@uni.edu", "+91")
	assert.NoError(t, v.Validate())

	bad := *v
	bad.Email = "not-an-email"
	assert.Error(t, bad.Validate())

	bad = *v
	bad.Name = ""
	assert.Error(t, bad.Validate())

	bad = *v
	bad.RollNumber = ""
	assert.Error(t, bad.Validate())
}
