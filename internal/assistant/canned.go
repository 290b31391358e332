package assistant

import (
	"strings"
	"unicode"
)

const (
	CrisisReply = "It sounds like you are going through something really painful, and you deserve support right now. " +
		"If you are in immediate danger or thinking about harming yourself, please call your local emergency number " +
		"or reach a crisis line such as 988 in the US. You are not alone."
	GreetingReply = "Hi, I am the MindHarbor assistant. I can point you to articles, community members and navigators. " +
		"What is on your mind today?"
	DefaultReply = "Thank you for sharing that. I am not able to answer in detail right now, but our blog and navigators " +
		"are good places to start. If things feel urgent, please reach out to a crisis line."
)

type cannedRule struct {
	keywords []string
	reply    string
}

var crisisKeywords = []string{
	"suicide",
	"suicidal",
	"kill myself",
	"end my life",
	"self-harm",
	"self harm",
	"hurt myself",
	"want to die",
}

var cannedRules = []cannedRule{
	{
		keywords: []string{"hello", " hi ", " hey ", "good morning", "good evening"},
		reply:    GreetingReply,
	},
	{
		keywords: []string{"anxious", "anxiety", "panic", "worry"},
		reply: "Anxiety can feel overwhelming. Try slowing your breath: in for four counts, hold for four, out for six. " +
			"Our blog has grounding exercises, and a navigator can help you build a longer-term plan.",
	},
	{
		keywords: []string{"sleep", "insomnia", "tired"},
		reply: "Sleep and mood are closely linked. A steady wake time and a screen-free wind-down hour are good first steps. " +
			"You can find more ideas in our sleep articles.",
	},
	{
		keywords: []string{"sad", "depressed", "depression", "hopeless", "lonely"},
		reply: "I am sorry you are feeling this way. Small routines and talking to someone you trust can help. " +
			"Our community directory and navigators are here when you are ready.",
	},
	{
		keywords: []string{"stress", "overwhelmed", "burnout", "pressure"},
		reply: "Stress builds up quietly. Short breaks, a walk outside or writing down what is on your plate can lighten the load. " +
			"Take a look at our stress management resources.",
	},
	{
		keywords: []string{"appointment", "book", "navigator", "therapist", "counselor"},
		reply: "You can browse navigators and their open slots on the appointments page. " +
			"Filter by specialty to find someone who fits what you need.",
	},
}

// IsCrisis reports whether message mentions self-harm or suicide.
func IsCrisis(message string) bool {
	normalized := normalizeMessage(message)
	for _, keyword := range crisisKeywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}

// Canned picks a fixed reply for message by keyword. Crisis wording always
// wins over every other rule.
func Canned(message string) string {
	if IsCrisis(message) {
		return CrisisReply
	}
	normalized := normalizeMessage(message)
	for _, rule := range cannedRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				return rule.reply
			}
		}
	}
	return DefaultReply
}

// normalizeMessage lower-cases message, turns punctuation into spaces and pads
// the result so whole-word keywords can be matched with surrounding spaces.
func normalizeMessage(message string) string {
	words := strings.FieldsFunc(strings.ToLower(message), func(char rune) bool {
		return !unicode.IsLetter(char) && !unicode.IsDigit(char) && char != '-' && char != '\''
	})
	return " " + strings.Join(words, " ") + " "
}
