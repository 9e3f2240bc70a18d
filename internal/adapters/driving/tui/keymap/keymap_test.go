package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_QuitDoesNotCaptureLetters(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Quit.Keys()
	assert.Equal(t, []string{"ctrl+c"}, keys)
	assert.NotContains(t, keys, "q")
}

func TestDefaultKeyMap_AskBinding(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.Ask.Keys(), "enter")
}

func TestDefaultKeyMap_ScrollBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.ScrollUp.Keys(), "pgup")
	assert.Contains(t, km.ScrollDown.Keys(), "pgdown")
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.ShortHelp()

	require.Len(t, bindings, 4)
	assert.Equal(t, km.Ask, bindings[0])
	assert.Equal(t, km.Quit, bindings[3])
}

func TestAnsweringHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.AnsweringHelp()

	assert.Len(t, bindings, 3)
	assert.NotContains(t, bindings, km.Ask)
}

func TestFullHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.FullHelp()

	assert.Len(t, bindings, 4)
	assert.Len(t, bindings[0], 3)
	assert.Len(t, bindings[1], 3)
	assert.Len(t, bindings[2], 2)
	assert.Len(t, bindings[3], 3)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("f1", km.Help))
	assert.True(t, Matches("tab", km.ToggleSources))
	assert.True(t, Matches("k", km.Up))

	assert.False(t, Matches("q", km.Quit))
	assert.False(t, Matches("down", km.Up))
}

func TestBindings_HaveHelp(t *testing.T) {
	km := DefaultKeyMap()

	testCases := []struct {
		name    string
		binding key.Binding
	}{
		{"Quit", km.Quit},
		{"Help", km.Help},
		{"Back", km.Back},
		{"Ask", km.Ask},
		{"Up", km.Up},
		{"Down", km.Down},
		{"Select", km.Select},
		{"ToggleSources", km.ToggleSources},
		{"ScrollUp", km.ScrollUp},
		{"ScrollDown", km.ScrollDown},
		{"Clear", km.Clear},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			help := tc.binding.Help()
			assert.NotEmpty(t, help.Key)
			assert.NotEmpty(t, help.Desc)
		})
	}
}
