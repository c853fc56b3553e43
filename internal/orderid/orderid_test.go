package orderid

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequential_Next(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"empty store", nil, "0001"},
		{"skips non numeric", []string{"0001", "0003", "abc"}, "0004"},
		{"strips prefixes", []string{"PED-0009", "12"}, "0013"},
		{"only garbage", []string{"abc", ""}, "0001"},
		{"wider than four digits", []string{"9999", "10000"}, "10001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sequential{}.Next(tt.existing)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSequential_Overflow(t *testing.T) {
	_, err := Sequential{}.Next([]string{"999999999999999999999999"})
	assert.Error(t, err)
}

func TestRandom_Format(t *testing.T) {
	id, err := Random{}.Next(nil)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}$`), id)
}

func TestRandom_SkipsUsed(t *testing.T) {
	seq := []string{"aaaaaaaa", "aaaaaaaa", "bbbbbbbb"}
	i := 0
	r := Random{Source: func() string {
		s := seq[i]
		i++
		return s
	}}

	id, err := r.Next([]string{"AAAAAAAA"})
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbbb", id)
	assert.Equal(t, 3, i)
}

func TestRandom_Exhausted(t *testing.T) {
	r := Random{Source: func() string { return "deadbeef" }}
	_, err := r.Next([]string{"deadbeef"})
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestNew(t *testing.T) {
	a, err := New("")
	require.NoError(t, err)
	assert.IsType(t, Sequential{}, a)

	a, err = New("random")
	require.NoError(t, err)
	assert.IsType(t, Random{}, a)

	_, err = New("uuid")
	assert.Error(t, err)
}
