package rag

import (
	"context"
	"fmt"
	"strings"
)

// Detail levels for history check outcomes, keyed off the raw check result.
const (
	DetailVague         = "vague"
	DetailBasic         = "basic"
	DetailDetailed      = "detailed"
	DetailComprehensive = "comprehensive"
)

// HistoryCheckOutcome is the result of resolving a character's History
// check against campaign lore.
type HistoryCheckOutcome struct {
	Success     bool
	CheckResult int
	DC          int
	Information string
	Source      string // "wiki", "fallback", or "failure"
	DetailLevel string
}

// Topic keyword tiers for DC estimation. Common knowledge is DC 10,
// uncommon 15, obscure 20, ancient or secret knowledge 25.
var (
	commonTopicWords      = []string{"tavern", "inn", "common", "well-known", "famous", "recent"}
	obscureTopicWords     = []string{"ancient", "lost", "forgotten", "secret", "hidden", "mysterious"}
	veryObscureTopicWords = []string{"primordial", "primeval", "legendary", "mythical", "forbidden"}
)

// HandleHistoryCheck resolves a History check: estimates a DC from the
// topic, compares the roll, and on success pulls graduated lore from the
// wiki, falling back to generic guidance when the subsystem is disabled or
// the page is missing. characterName may be empty.
func (s *System) HandleHistoryCheck(ctx context.Context, topic string, checkResult int, characterName string) HistoryCheckOutcome {
	dc := EstimateDC(topic)

	if checkResult < dc {
		return HistoryCheckOutcome{
			CheckResult: checkResult,
			DC:          dc,
			Information: fmt.Sprintf("You struggle to recall specific details about %s.", topic),
			Source:      "failure",
		}
	}

	outcome := HistoryCheckOutcome{
		Success:     true,
		CheckResult: checkResult,
		DC:          dc,
		DetailLevel: DetailLevel(checkResult),
	}

	if info, ok := s.HistoryCheckInfo(ctx, topic, checkResult); ok {
		prefix := "You recall: "
		if characterName != "" {
			prefix = characterName + " recalls: "
		}
		outcome.Information = prefix + info
		outcome.Source = "wiki"
		return outcome
	}

	outcome.Information = fallbackInformation(topic, checkResult)
	outcome.Source = "fallback"
	return outcome
}

// EstimateDC estimates the difficulty of recalling a topic from keyword
// cues in its name.
func EstimateDC(topic string) int {
	lower := strings.ToLower(topic)
	if containsAny(lower, commonTopicWords) {
		return 10
	}
	if containsAny(lower, obscureTopicWords) {
		return 20
	}
	if containsAny(lower, veryObscureTopicWords) {
		return 25
	}
	return 15
}

// DetailLevel maps a check result to its disclosure tier label.
func DetailLevel(checkResult int) string {
	switch {
	case checkResult < 10:
		return DetailVague
	case checkResult < 15:
		return DetailBasic
	case checkResult < 20:
		return DetailDetailed
	default:
		return DetailComprehensive
	}
}

// fallbackInformation is what the assistant offers when no wiki page backs
// the topic; the bracketed cues prompt the human DM to improvise.
func fallbackInformation(topic string, checkResult int) string {
	switch DetailLevel(checkResult) {
	case DetailVague:
		return fmt.Sprintf("You have heard of %s before, but can't recall specific details.", topic)
	case DetailBasic:
		return fmt.Sprintf("You know some basic facts about %s. [DM provides 1-2 key facts]", topic)
	case DetailDetailed:
		return fmt.Sprintf("You recall quite a bit about %s. [DM provides 3-4 significant details]", topic)
	default:
		return fmt.Sprintf("Your knowledge of %s is extensive. [DM provides comprehensive information including history, significance, and connections]", topic)
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
