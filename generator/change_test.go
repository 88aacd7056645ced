package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeRecord_SamePath(t *testing.T) {
	create := NewCreate("src/x.ts", "A")

	assert.True(t, create.SamePath(NewModify("src/x.ts", "B")))
	assert.True(t, create.SamePath(NewDelete("src/x.ts")))
	assert.False(t, create.SamePath(NewCreate("src/y.ts", "A")))
}

func TestChangeSummary_Record(t *testing.T) {
	modify := ChangeSummary{Path: "a.txt", Kind: ChangeModify, Before: "old", HadBefore: true, After: "new"}
	assert.Equal(t, NewModify("a.txt", "new"), modify.Record())

	deleted := ChangeSummary{Path: "b.txt", Kind: ChangeDelete, Before: "gone", HadBefore: true}
	assert.Equal(t, NewDelete("b.txt"), deleted.Record())
}
