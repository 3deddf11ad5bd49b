package omitnilpointers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOmitNilPointers(t *testing.T) {
	title := "title"
	var missing *string

	got := OmitNilPointers(map[string]any{
		"title":   &title,
		"missing": missing,
		"nil":     nil,
		"id":      "abc",
	})

	assert.Equal(t, map[string]any{"title": "title", "id": "abc"}, got)
}

func TestFromStruct(t *testing.T) {
	type video struct {
		ID     string  `json:"video_id"`
		Title  *string `json:"title,omitempty"`
		Secret string  `json:"-"`
		Plain  int
		hidden int
	}

	got := FromStruct(&video{ID: "abc", Secret: "s", Plain: 3, hidden: 1})
	assert.Equal(t, map[string]any{"video_id": "abc", "Plain": 3}, got)

	assert.Empty(t, FromStruct(nil))
	assert.Empty(t, FromStruct(42))
}
