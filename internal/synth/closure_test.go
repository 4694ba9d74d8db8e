package synth

import (
	"testing"

	tt "github.com/gnolang/recgen/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lit = tt.TypeRef{Name: "Lit", Kind: tt.KindAtom}

func TestMirrorOnlyPrimitives(t *testing.T) {
	t.Parallel()
	seq := tt.TypeRef{Name: "Seq", Kind: tt.KindComponent}
	forward := []tt.Binding{
		{Op: tt.OpConcatenate, Left: lit, Right: tt.StrView, Result: tt.ResultRec, Call: "concatenate"},
		{Op: tt.OpConcatenate, Left: lit, Right: seq, Result: tt.ResultRec, Call: "concatenate"},
		{Op: tt.OpConcatenate, Left: lit, Right: tt.Rec, Result: tt.ResultRec, Call: "concatenate"},
	}
	mirrored, err := mirror(forward)
	require.NoError(t, err)
	require.Len(t, mirrored, 1)
	assert.Equal(t, tt.Binding{
		Op: tt.OpConcatenate, Left: tt.StrView, Right: lit, Result: tt.ResultRec, Call: "concatenate", Self: tt.SideLeft,
	}, mirrored[0])
}

func TestMirrorEqualityKeepsReceiver(t *testing.T) {
	t.Parallel()
	forward := []tt.Binding{
		{Op: tt.OpEqualityTest, Left: lit, Right: tt.Char, Result: tt.ResultBool, Call: "is_equal"},
	}
	mirrored, err := mirror(forward)
	require.NoError(t, err)
	require.Len(t, mirrored, 1)
	assert.Equal(t, tt.SideRight, mirrored[0].Self)
	assert.Equal(t, lit, mirrored[0].Receiver())
	assert.Equal(t, tt.Char, mirrored[0].Argument())
}

func TestMirrorCollision(t *testing.T) {
	t.Parallel()
	forward := []tt.Binding{
		{Op: tt.OpUnion, Left: lit, Right: tt.Char, Result: tt.ResultCh, Call: "union"},
		{Op: tt.OpUnion, Left: lit, Right: tt.Char, Result: tt.ResultRec, Call: "union"},
	}
	_, err := mirror(forward)
	assert.ErrorIs(t, err, ErrBindingCollision)
}

func TestMirrorDropsDuplicates(t *testing.T) {
	t.Parallel()
	b := tt.Binding{Op: tt.OpAlternate, Left: lit, Right: tt.OwnedStr, Result: tt.ResultRec, Call: "alternate"}
	mirrored, err := mirror([]tt.Binding{b, b})
	require.NoError(t, err)
	assert.Len(t, mirrored, 1)
}

func TestSlotIndex(t *testing.T) {
	t.Parallel()
	idx := newSlotIndex()
	b := tt.Binding{Op: tt.OpAlternate, Left: lit, Right: tt.Rec, Result: tt.ResultRec, Call: "alternate"}

	added, err := idx.add(b)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = idx.add(b)
	require.NoError(t, err)
	assert.False(t, added)

	conflicting := b
	conflicting.Call = "union"
	_, err = idx.add(conflicting)
	assert.ErrorIs(t, err, ErrBindingCollision)
}
