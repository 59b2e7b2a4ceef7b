package catalog_test

import (
	"strings"
	"testing"

	"github.com/aretw0/shopbot/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Menus(t *testing.T) {
	c := catalog.Default()

	items := c.ItemMenu("Sam")
	assert.Equal(t, "So Sam, What would you like to buy?", items.Prompt)
	assert.Equal(t, []string{"Clothes", "Watches", "Glasses", "Footwear"}, items.Choices)
	assert.Empty(t, items.RetryPrompt)

	malls := c.MallMenu("Sam")
	assert.Equal(t, "So Sam, From which Shop would you like to buy?", malls.Prompt)
	assert.Equal(t, []string{"Central", "Shoppers Stop", "UB City Mall", "Meenakshi Mall"}, malls.Choices)
}

func TestSubtypeMenu(t *testing.T) {
	c := catalog.Default()

	tests := []struct {
		item      string
		choices   []string
		wantRetry bool
	}{
		{"Clothes", []string{"Shirts", "Trousers", "T-Shirts", "Shorts"}, false},
		{"cLoThEs", []string{"Shirts", "Trousers", "T-Shirts", "Shorts"}, false},
		{"Watches", []string{"Formal", "Sports", "Metal Body", "Smart"}, false},
		{"GLASSES", []string{"Sun Glasses", "Frameless"}, false},
		{"Footwear", []string{"Shoes", "Loafers", "Sandals", "Floaters"}, true},
		{"Hats", []string{"Shoes", "Loafers", "Sandals", "Floaters"}, true},
		{"", []string{"Shoes", "Loafers", "Sandals", "Floaters"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			m := c.SubtypeMenu(tt.item, "Ann")
			assert.Equal(t, tt.choices, m.Choices)
			assert.Contains(t, m.Prompt, "Ann")
			if tt.wantRetry {
				assert.Equal(t, "Please select from above options", m.RetryPrompt)
			} else {
				assert.Empty(t, m.RetryPrompt)
			}
		})
	}
}

func TestGlassesMenuIgnoresName(t *testing.T) {
	c := catalog.Default()
	for _, name := range []string{"", "Bob", "Bob Fox", "{{ .Name }}"} {
		assert.Equal(t, []string{"Sun Glasses", "Frameless"}, c.SubtypeMenu("Glasses", name).Choices)
	}
}

func TestMenu_ChoicesAreCopies(t *testing.T) {
	c := catalog.Default()
	m := c.ItemMenu("x")
	m.Choices[0] = "Mutated"
	assert.Equal(t, "Clothes", c.ItemMenu("x").Choices[0])
}

func TestLoad(t *testing.T) {
	t.Run("custom catalog", func(t *testing.T) {
		data := `
items: {prompt: "Hi {{ .Name }}", choices: [Books]}
subtypes:
  Books: {prompt: "Which?", choices: [Novel, Comic]}
fallback: BOOKS
malls: {prompt: "Where?", choices: [Corner Shop]}
`
		c, err := catalog.Load(strings.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, "Hi Zed", c.ItemMenu("Zed").Prompt)
		assert.Equal(t, []string{"Novel", "Comic"}, c.SubtypeMenu("anything", "Zed").Choices)
		assert.Contains(t, c.Document().Subtypes, "books")
	})

	invalid := map[string]string{
		"missing fallback": `
items: {prompt: "p", choices: [a]}
subtypes: {a: {prompt: "p", choices: [x]}}
fallback: b
malls: {prompt: "p", choices: [m]}`,
		"empty choices": `
items: {prompt: "p", choices: []}
subtypes: {a: {prompt: "p", choices: [x]}}
fallback: a
malls: {prompt: "p", choices: [m]}`,
		"bad template": `
items: {prompt: "{{ .Name", choices: [a]}
subtypes: {a: {prompt: "p", choices: [x]}}
fallback: a
malls: {prompt: "p", choices: [m]}`,
		"unknown field": `
items: {prompt: "p", choices: [a], colour: red}
subtypes: {a: {prompt: "p", choices: [x]}}
fallback: a
malls: {prompt: "p", choices: [m]}`,
	}
	for name, data := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := catalog.Load(strings.NewReader(data))
			assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
		})
	}
}
