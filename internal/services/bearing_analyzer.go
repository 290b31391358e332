package services

import (
	"strings"

	"github.com/terraincognita07/mindharbor/internal/models"
)

const paragraphSeparator = "\n\n"

// primaryStruggleParagraphs is a closed mapping. A value outside it produces
// no opening paragraph at all; there is deliberately no generic entry.
var primaryStruggleParagraphs = map[string]string{
	"anxiety": "You named anxiety as what weighs on you most. Anxiety often shows up as racing thoughts, " +
		"a tight chest or a constant sense that something is about to go wrong. Your bearing points toward " +
		"grounding practices, gentle exposure to what you avoid and a navigator who works with anxiety every day.",
	"depression": "You named low mood and depression as your main struggle. Depression can drain energy, " +
		"flatten interest in things you used to enjoy and make small tasks feel heavy. Your bearing points " +
		"toward small, steady routines, honest check-ins and support from someone trained to walk this road with you.",
	"stress": "You named stress as your main struggle. Ongoing pressure from work, study or home can wear " +
		"down sleep, patience and focus. Your bearing points toward naming your stressors, setting boundaries " +
		"you can keep and building short recovery moments into each day.",
	"relationships": "You named relationships as your main struggle. Conflict, distance or uncertainty with " +
		"the people close to you can touch every part of life. Your bearing points toward clearer communication, " +
		"understanding your own needs and, when it helps, guided conversations with a navigator.",
	"trauma": "You named past trauma as your main struggle. The effects of trauma can surface long after the " +
		"events themselves, in the body as much as the mind. Your bearing points toward safety first, a pace " +
		"you control and a navigator experienced in trauma-informed care.",
	"grief": "You named grief and loss as your main struggle. Grief has no fixed timeline and rarely moves in " +
		"a straight line. Your bearing points toward making room for remembrance, leaning on people who " +
		"knew what you lost and a community of others carrying a similar weight.",
	"self-esteem": "You named self-esteem as your main struggle. A harsh inner critic can shape how you " +
		"see every success and setback. Your bearing points toward noticing that voice, practicing " +
		"self-compassion and collecting evidence of your own worth over time.",
	"wellness": "You came here to look after your overall wellbeing. Caring for your mind before things feel " +
		"urgent is one of the most protective habits there is. Your bearing points toward steady routines, " +
		"curiosity about your own patterns and resources you can return to whenever you need them.",
}

const (
	sleepParagraph = "Your sleep could use some care. Rest and mood feed each other, so a consistent wind-down " +
		"routine, a steady wake time and less screen light late at night are worth trying first."
	stressParagraph = "Your stress level is running high. Short daily pauses such as slow breathing, a walk " +
		"outside or a few minutes of journaling can lower the load before it builds further."
	supportParagraph = "Your support network feels thin right now. Reaching out to one trusted person, joining " +
		"a community group or booking time with a navigator are ways to stop carrying this alone."
	copingParagraph = "The ways you cope are not serving you well at the moment. That is common and it can " +
		"change; a navigator can help you find strategies that relieve pressure without adding harm. If you " +
		"are ever in immediate danger, contact local emergency services or a crisis line right away."
	activityParagraph = "You are moving your body rarely. Even light activity such as a ten-minute walk or " +
		"gentle stretching can lift mood and ease tension, so start small and build from there."
	closingParagraph = "This bearing is a starting point, not a diagnosis. Revisit it whenever things change, " +
		"explore the resources we have picked for you and remember that asking for help is a sign of strength."
)

type conditionalParagraph struct {
	field    string
	triggers []string
	text     string
}

// conditionalParagraphs are emitted in this order after the opening paragraph.
var conditionalParagraphs = []conditionalParagraph{
	{field: models.FieldSleepQuality, triggers: []string{"poor", "fair"}, text: sleepParagraph},
	{field: models.FieldStressLevel, triggers: []string{"high", "severe"}, text: stressParagraph},
	{field: models.FieldSupportSystem, triggers: []string{"weak", "none"}, text: supportParagraph},
	{field: models.FieldCoping, triggers: []string{"struggling", "harmful"}, text: copingParagraph},
	{field: models.FieldPhysicalActivity, triggers: []string{"rarely", "never"}, text: activityParagraph},
}

// Analyze derives the compass bearing text from questionnaire answers. It is
// pure: unanswered fields take their defaults, unknown values simply trigger
// nothing, and equal input always yields byte-identical output.
func Analyze(answers models.QuestionnaireAnswers) string {
	filled := answers.WithDefaults()
	paragraphs := make([]string, 0, len(conditionalParagraphs)+2)

	if opening, ok := primaryStruggleParagraphs[filled.PrimaryStruggle]; ok {
		paragraphs = append(paragraphs, opening)
	}
	for _, candidate := range conditionalParagraphs {
		if containsValue(candidate.triggers, filled.Field(candidate.field)) {
			paragraphs = append(paragraphs, candidate.text)
		}
	}
	paragraphs = append(paragraphs, closingParagraph)

	return strings.Join(paragraphs, paragraphSeparator)
}

// ClosingParagraph is the text every analysis ends with.
func ClosingParagraph() string {
	return closingParagraph
}

func containsValue(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
