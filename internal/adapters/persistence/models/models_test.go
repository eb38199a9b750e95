package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventIsFull(t *testing.T) {
	unbounded := &Event{}
	assert.False(t, unbounded.IsFull(0))
	assert.False(t, unbounded.IsFull(1000000))

	limit := 3
	bounded := &Event{MaxParticipants: &limit}
	assert.False(t, bounded.IsFull(2))
	assert.True(t, bounded.IsFull(3))
	assert.True(t, bounded.IsFull(4))
}

func TestOwnerKeyFor(t *testing.T) {
	key := OwnerKeyFor("owner")
	assert.NotNil(t, key)
	assert.NotEmpty(t, *key)

	assert.Nil(t, OwnerKeyFor("member"))
	assert.Nil(t, OwnerKeyFor("office"))
	assert.Nil(t, OwnerKeyFor("manager"))
}
