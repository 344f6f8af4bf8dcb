package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDSet_AddRemove(t *testing.T) {
	s := NewIDSet()

	assert.True(t, s.Add(3))
	assert.False(t, s.Add(3), "second add of the same id is a no-op")
	assert.True(t, s.Has(3))

	assert.True(t, s.Remove(3))
	assert.False(t, s.Remove(3), "removing an absent id is a no-op")
	assert.False(t, s.Has(3))
	assert.Equal(t, 0, s.Len())
}

func TestIDSet_SliceIsSortedAndNeverNil(t *testing.T) {
	assert.Equal(t, []int64{}, IDSet{}.Slice())
	assert.Equal(t, []int64{}, IDSet(nil).Slice())
	assert.Equal(t, []int64{1, 5, 9}, NewIDSet(9, 1, 5, 1).Slice())
}

func TestIDSet_CloneIsIndependent(t *testing.T) {
	s := NewIDSet(1, 2)
	c := s.Clone()
	c.Add(3)
	s.Remove(1)

	assert.Equal(t, []int64{2}, s.Slice())
	assert.Equal(t, []int64{1, 2, 3}, c.Slice())
}
