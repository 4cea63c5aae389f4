package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestKey(t *testing.T) {
	cases := []struct {
		path, hint, text string
		want             string
	}{
		{"src/components/LoginForm.tsx", "", "Welcome back", "loginForm.welcomeBack"},
		{"src/components/LoginForm.tsx", "placeholder", "Enter your email", "loginForm.placeholder.enterYourEmail"},
		{"src/pages/settings/index.jsx", "aria-label", "Close the settings dialog now", "settings.ariaLabel.closeTheSettingsDialog"},
		{"src/user-profile.test.ts", "welcomeMessage", "", "userProfile.welcomeMessage"},
		{`src\win\Header.jsx`, "toast", "Don't go!", "header.toast.dontGo"},
		{"index.js", "", "Hi there", "index.hiThere"},
		{"src/Emoji.tsx", "", "!!!", "emoji.text"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, SuggestKey(tc.path, tc.hint, tc.text))
		})
	}
}

func TestSuggestKey_Deterministic(t *testing.T) {
	a := SuggestKey("src/App.tsx", "title", "Welcome back")
	b := SuggestKey("src/App.tsx", "title", "Welcome back")
	assert.Equal(t, a, b)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "somethingWentWrong", Slug("Something went wrong"))
	assert.Equal(t, "oneTwoThreeFour", Slug("one two three four five six"))
	assert.Equal(t, "text", Slug("   "))
	assert.Equal(t, "caféOuvert", Slug("Café ouvert"))
}

func TestIsDottedKey(t *testing.T) {
	valid := []string{"errors.notFound", "common:buttons.save", "a.b.c", "nav.sign-in", "$app.title"}
	invalid := []string{"save", "Not found", "errors.", ".errors", "errors..x", "a.1b", "http://x.y"}
	for _, key := range valid {
		assert.True(t, IsDottedKey(key), key)
	}
	for _, key := range invalid {
		assert.False(t, IsDottedKey(key), key)
	}
}
