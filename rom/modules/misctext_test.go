package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/romkit/internal/ebtext"
	"github.com/joshuapare/romkit/rom/addr"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/ptr"
	"github.com/joshuapare/romkit/rom/reloc"
)

var testSlots = []TextSlot{
	{Name: "continue", Max: 25, NullTerminated: true},
	{Name: "start_new_game", Max: 14},
}

func textPlan() *reloc.Plan {
	return reloc.NewPlan(MiscTextName).
		Bind("continue", ptr.Split(0x100)).
		Patch("start_new_game", 0x2000)
}

func TestMiscTextWrite(t *testing.T) {
	m := NewMiscText(textPlan(), map[string]string{
		"continue":       "Go on",
		"start_new_game": "Begin [01]",
	})
	m.Slots = testSlots
	im, _, err := run(t, 0x10000, []alloc.Range{{Start: 0x4000, End: 0x4FFF}}, m)
	require.NoError(t, err)

	assert.Equal(t, addr.Mapped(0xC04000), readPtr(t, im, ptr.Split(0x100)))
	raw := bytesAt(t, im, 0x4000, 25)
	assert.Equal(t, byte('G'+0x30), raw[0])
	assert.Equal(t, byte(0), raw[5])

	got, err := ReadText(im, textPlan(), addr.HiROM, testSlots)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"continue": "Go on", "start_new_game": "Begin [01]"}, got)
}

func TestMiscTextSkipsMissingStrings(t *testing.T) {
	m := NewMiscText(textPlan(), map[string]string{"start_new_game": "New"})
	im, al, err := run(t, 0x10000, []alloc.Range{{Start: 0x4000, End: 0x4FFF}}, m)
	require.NoError(t, err)
	assert.Equal(t, 0x1000, al.FreeBytes(), "nothing allocated")
	assert.Equal(t, 0, u(t, im, 0x101, 2))
}

func TestMiscTextErrors(t *testing.T) {
	free := []alloc.Range{{Start: 0x4000, End: 0x4FFF}}

	m := NewMiscText(textPlan(), map[string]string{"start_new_game": "This is far too long"})
	_, _, err := run(t, 0x10000, free, m)
	require.ErrorIs(t, err, ebtext.ErrTooLong)

	m = NewMiscText(textPlan(), map[string]string{"bash": "Smash"})
	_, _, err = run(t, 0x10000, free, m)
	require.ErrorIs(t, err, ErrNoSlot)

	_, err = ReadText(nil, textPlan(), addr.HiROM, []TextSlot{{Name: "bash", Max: 16}})
	require.ErrorIs(t, err, ErrNoSlot)
}
