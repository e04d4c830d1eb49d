// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchWrapped = "Based on the following web search results, please answer the user's question.\n\n--- SEARCH RESULTS ---\nfoo\n\n--- USER QUESTION ---\nbar"

const fileWrapped = "Based on the content of the document 'notes.txt' provided below, please answer the following question.\n\n---\n\nDOCUMENT CONTENT:\nsome document body\n\n---\n\nQUESTION:\nwhat does it say"

func TestParseUserPlain(t *testing.T) {
	uc := ParseUser("just a question")

	assert.Equal(t, KindPlain, uc.Kind)
	assert.Equal(t, "just a question", uc.Question)
	assert.Equal(t, "just a question", uc.Raw)
}

func TestParseUserSearchAugmented(t *testing.T) {
	uc := ParseUser(searchWrapped)

	require.Equal(t, KindSearchAugmented, uc.Kind)
	assert.Equal(t, "bar", uc.Question)
	assert.Equal(t, "foo", uc.SearchResults)
	assert.Equal(t, searchWrapped, uc.Raw)
}

func TestParseUserSearchMultiline(t *testing.T) {
	raw := "Based on the following web search results, please answer the user's question.\n\n--- SEARCH RESULTS ---\nresult one\nresult two\n\n--- USER QUESTION ---\nline one\nline two"
	uc := ParseUser(raw)

	require.Equal(t, KindSearchAugmented, uc.Kind)
	assert.Equal(t, "result one\nresult two", uc.SearchResults)
	assert.Equal(t, "line one\nline two", uc.Question)
}

func TestParseUserFileAugmented(t *testing.T) {
	uc := ParseUser(fileWrapped)

	require.Equal(t, KindFileAugmented, uc.Kind)
	assert.Equal(t, "notes.txt", uc.Filename)
	assert.Equal(t, "some document body", uc.Document)
	assert.Equal(t, "what does it say", uc.Question)
}

func TestParseUserWrapperMustAnchorAtStart(t *testing.T) {
	uc := ParseUser("prefix " + searchWrapped)
	assert.Equal(t, KindPlain, uc.Kind)
}

func TestCopyText(t *testing.T) {
	// User copy yields the extracted question only.
	assert.Equal(t, "bar", CopyText("user", searchWrapped))
	assert.Equal(t, "what does it say", CopyText("user", fileWrapped))
	assert.Equal(t, "plain", CopyText("user", "plain"))

	// Assistant copy yields the raw content, think blocks included.
	raw := "<think>plan</think>answer"
	assert.Equal(t, raw, CopyText("assistant", raw))
}

func TestParseAssistantSingleThink(t *testing.T) {
	ac := ParseAssistant("<think>plan</think>final answer")

	require.Len(t, ac.Thoughts, 1)
	assert.Equal(t, "plan", ac.Thoughts[0])
	assert.Equal(t, "final answer", ac.Main)
}

func TestParseAssistantEmptyThinkDropped(t *testing.T) {
	ac := ParseAssistant("<think></think>final answer")

	assert.Empty(t, ac.Thoughts)
	assert.Equal(t, "final answer", ac.Main)

	ac = ParseAssistant("<think>   \n\t </think>final answer")
	assert.Empty(t, ac.Thoughts)
	assert.Equal(t, "final answer", ac.Main)
}

func TestParseAssistantMultipleThinkBlocksInOrder(t *testing.T) {
	ac := ParseAssistant("<think>first</think>middle<think>second</think>end")

	require.Len(t, ac.Thoughts, 2)
	assert.Equal(t, "first", ac.Thoughts[0])
	assert.Equal(t, "second", ac.Thoughts[1])
	assert.Equal(t, "middleend", ac.Main)
}

func TestParseAssistantMultilineThink(t *testing.T) {
	ac := ParseAssistant("<think>step 1\nstep 2\n</think>\n\nanswer")

	require.Len(t, ac.Thoughts, 1)
	assert.Equal(t, "step 1\nstep 2", ac.Thoughts[0])
	assert.Equal(t, "answer", ac.Main)
}

func TestParseAssistantNoThink(t *testing.T) {
	ac := ParseAssistant("plain answer")

	assert.Empty(t, ac.Thoughts)
	assert.Equal(t, "plain answer", ac.Main)
	assert.False(t, HasThink("plain answer"))
	assert.True(t, HasThink("<think></think>x"))
}
