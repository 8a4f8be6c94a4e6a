package convo

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"plain chat", "what's the weather", IntentDefault},
		{"empty", "", IntentDefault},
		{"image phrase", "generate image of a sunset", IntentImage},
		{"image slash", "/image cat", IntentImage},
		{"image article an", "please create an image of a dog", IntentImage},
		{"image article a", "create a image of a dog", IntentImage},
		{"image case insensitive", "GENERATE IMAGE of snow", IntentImage},
		{"task phrase", "create tasks for the release", IntentTask},
		{"task slash", "please /task plan my week", IntentTask},
		{"task generate", "Generate Tasks now", IntentTask},
		{"ui build a", "build a landing page", IntentUI},
		{"ui build an", "build an admin panel", IntentUI},
		{"ui slash", "/v0 pricing page", IntentUI},
		{"ui create app", "create app for notes", IntentUI},
		{"ui design", "design ui for onboarding", IntentUI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassify_Priority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		// Image beats task when both phrase sets match.
		{"image over task", "generate image and create tasks", IntentImage},
		{"task over image order swapped", "create tasks then generate image", IntentImage},
		// "create an image" contains the UI phrase "create a"; image must win.
		{"image suppresses ui", "create an image of a city", IntentImage},
		// "build a" plus a task phrase: task wins, UI is evaluated last.
		{"task suppresses ui", "build a plan and create tasks", IntentTask},
		{"ui only", "build a dashboard", IntentUI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestIntent_String(t *testing.T) {
	tests := []struct {
		intent Intent
		want   string
	}{
		{IntentDefault, "default"},
		{IntentImage, "image"},
		{IntentTask, "task"},
		{IntentUI, "ui"},
		{Intent(99), "default"},
	}
	for _, tt := range tests {
		if got := tt.intent.String(); got != tt.want {
			t.Errorf("Intent.String() = %q, want %q", got, tt.want)
		}
	}
}
