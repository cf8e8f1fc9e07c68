package addr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMapped(t *testing.T) {
	tests := []struct {
		flat Flat
		want Mapped
	}{
		{0x000000, 0xC00000},
		{0x007486, 0xC07486},
		{0x0F0000, 0xCF0000},
		{0x3FFFFF, 0xFFFFFF},
		{0x400000, 0x400000},
		{0x5FFFFF, 0x5FFFFF},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToMapped(tt.flat), "ToMapped(%v)", tt.flat)
	}
}

func TestToFlat(t *testing.T) {
	tests := []struct {
		mapped Mapped
		want   Flat
	}{
		{0xC00000, 0x000000},
		{0xD00000, 0x100000},
		{0xFFFFFF, 0x3FFFFF},
		{0x400000, 0x400000},
		{0x0F1234, 0x0F1234},
	}
	for _, tt := range tests {
		got, err := ToFlat(tt.mapped)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "ToFlat(%v)", tt.mapped)
	}
}

func TestToFlatNegative(t *testing.T) {
	_, err := ToFlat(-1)
	require.ErrorIs(t, err, ErrInvalidAddress)
	assert.Panics(t, func() { HiROM.MustFlat(-5) })
}

func TestRoundTrip(t *testing.T) {
	// Sample the whole flat domain below the bias.
	for f := Flat(0); int(f) < HiROM.Bias; f += 0x1FFF {
		got, err := ToFlat(ToMapped(f))
		require.NoError(t, err)
		require.Equal(t, f, got, "round trip of %v", f)
	}
	for _, f := range []Flat{0, 0x3FFFFF, 0x400000, 0xBFFFFF} {
		got, err := ToFlat(ToMapped(f))
		require.NoError(t, err)
		require.Equal(t, f, got)
	}
}

func TestCustomSpace(t *testing.T) {
	s := Space{Bias: 0x800000, Threshold: 0x100000}
	assert.Equal(t, Mapped(0x812345), s.ToMapped(0x012345))
	assert.Equal(t, Mapped(0x100000), s.ToMapped(0x100000))
	f, err := s.ToFlat(0x812345)
	require.NoError(t, err)
	assert.Equal(t, Flat(0x012345), f)
}

func TestBanks(t *testing.T) {
	assert.Equal(t, 0x0F, FlatBank(0x0F58EE))
	assert.Equal(t, 0x10, FlatBank(0x100000))
	assert.Equal(t, 0xCF, Bank(0xCF58EE))
	assert.Equal(t, 0x0F, Bank(0x0F1234))
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "0x001000", Flat(0x1000).String())
	assert.Equal(t, "$C07486", Mapped(0xC07486).String())
}
