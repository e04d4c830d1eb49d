// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package content decodes the structured wrappers the backend embeds in
// plain message strings: search-augmented questions, file-context questions,
// and <think> reasoning blocks in assistant output.
//
// Wrappers are presentation overlays on top of the raw content. The raw
// string is always preserved so edit and regenerate can resubmit the
// original question, while display and copy work on the decoded form.
package content

import (
	"regexp"
	"strings"
)

// =============================================================================
// USER CONTENT CLASSIFICATION
// =============================================================================

// Kind identifies the wrapper format of a user message.
type Kind int

const (
	// KindPlain is an unwrapped user message.
	KindPlain Kind = iota
	// KindSearchAugmented embeds web search results ahead of the question.
	KindSearchAugmented
	// KindFileAugmented embeds an uploaded document ahead of the question.
	KindFileAugmented
)

func (k Kind) String() string {
	switch k {
	case KindSearchAugmented:
		return "search"
	case KindFileAugmented:
		return "file"
	default:
		return "plain"
	}
}

// UserContent is the decoded form of a user message.
type UserContent struct {
	Kind Kind

	// Question is the user's actual question. For plain messages it equals
	// Raw. Display and copy always use this, never Raw.
	Question string

	// SearchResults holds the retrieved web content for search-augmented
	// messages, rendered as a collapsible block on the following assistant
	// turn.
	SearchResults string

	// Filename and Document hold the uploaded file for file-augmented
	// messages. The document is never shown inline.
	Filename string
	Document string

	// Raw is the original wrapped string, kept for resubmission.
	Raw string
}

var (
	searchRe = regexp.MustCompile(`^Based on the following web search results, please answer the user's question\.\n\n--- SEARCH RESULTS ---\n([\s\S]*?)\n\n--- USER QUESTION ---\n([\s\S]*)$`)
	fileRe   = regexp.MustCompile(`^Based on the content of the document '(.+?)' provided below, please answer the following question\.\n\n---\n\nDOCUMENT CONTENT:\n([\s\S]*?)\n\n---\n\nQUESTION:\n([\s\S]*)$`)
)

// ParseUser classifies a user message. The match is attempted in the order
// the backend constructs the wrappers: search first, then file context.
func ParseUser(raw string) UserContent {
	if m := searchRe.FindStringSubmatch(raw); m != nil {
		return UserContent{
			Kind:          KindSearchAugmented,
			SearchResults: m[1],
			Question:      m[2],
			Raw:           raw,
		}
	}
	if m := fileRe.FindStringSubmatch(raw); m != nil {
		return UserContent{
			Kind:     KindFileAugmented,
			Filename: m[1],
			Document: m[2],
			Question: m[3],
			Raw:      raw,
		}
	}
	return UserContent{Kind: KindPlain, Question: raw, Raw: raw}
}

// CopyText returns what copy-to-clipboard yields for a message: the
// extracted question for user messages, the raw content otherwise.
func CopyText(role string, raw string) string {
	if role == "user" {
		return ParseUser(raw).Question
	}
	return raw
}

// =============================================================================
// THINK BLOCKS
// =============================================================================

var thinkRe = regexp.MustCompile(`<think>([\s\S]*?)</think>`)

// AssistantContent is the decoded form of an assistant message.
type AssistantContent struct {
	// Thoughts holds the bodies of non-empty <think> blocks in source
	// order. Whitespace-only blocks are dropped.
	Thoughts []string

	// Main is the content with all think blocks removed and the result
	// trimmed.
	Main string

	// Raw is the original string, used for copy.
	Raw string
}

// ParseAssistant splits assistant output into thought blocks and the
// remaining main content.
func ParseAssistant(raw string) AssistantContent {
	out := AssistantContent{Raw: raw}

	for _, m := range thinkRe.FindAllStringSubmatch(raw, -1) {
		body := strings.TrimSpace(m[1])
		if body == "" {
			continue
		}
		out.Thoughts = append(out.Thoughts, body)
	}

	out.Main = strings.TrimSpace(thinkRe.ReplaceAllString(raw, ""))
	return out
}

// HasThink reports whether the content contains at least one think block,
// empty or not.
func HasThink(raw string) bool {
	return thinkRe.MatchString(raw)
}
