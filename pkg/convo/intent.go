package convo

import "strings"

// Intent is the command category classified from a user submission.
type Intent int

const (
	// IntentDefault hands the text to the primary streaming session.
	IntentDefault Intent = iota
	// IntentImage routes to the image-generation side channel.
	IntentImage
	// IntentTask routes to the structured-task side channel.
	IntentTask
	// IntentUI routes to the external UI-builder side channel.
	IntentUI
)

func (i Intent) String() string {
	switch i {
	case IntentImage:
		return "image"
	case IntentTask:
		return "task"
	case IntentUI:
		return "ui"
	default:
		return "default"
	}
}

// The phrase sets overlap: "create an image" also contains "create a", which
// is a UI phrase. Classification therefore tests image first, then task, and
// only falls through to the broad UI set when neither matched.
var (
	imagePhrases = []string{
		"generate image",
		"/image",
		"create an image",
		"create a image",
	}
	taskPhrases = []string{
		"create tasks",
		"generate tasks",
		"/task",
	}
	uiPhrases = []string{
		"build ui",
		"build a",
		"build an",
		"create ui",
		"create app",
		"design ui",
		"/v0",
		"generate ui",
	}
)

// Classify maps a submission to its intent. Matching is case-insensitive
// substring search, first match wins in the declared priority order. Pure
// function of the input.
func Classify(text string) Intent {
	t := strings.ToLower(text)
	if containsAny(t, imagePhrases) {
		return IntentImage
	}
	if containsAny(t, taskPhrases) {
		return IntentTask
	}
	if containsAny(t, uiPhrases) {
		return IntentUI
	}
	return IntentDefault
}

func containsAny(t string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}
