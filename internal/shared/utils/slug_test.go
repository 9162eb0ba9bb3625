package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Sapiens", "sapiens"},
		{"multi word", "O Poder do Hábito", "o-poder-do-habito"},
		{"punctuation stripped", "Sapiens: Uma Breve História da Humanidade", "sapiens-uma-breve-historia-da-humanidade"},
		{"extra whitespace collapsed", "  Educated    A Memoir ", "educated-a-memoir"},
		{"numbers kept", "1984", "1984"},
		{"symbols removed", "Sap!ens (2015)", "sapens-2015"},
		{"empty input", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.input))
		})
	}
}

func TestGenerateSlugIsIdempotent(t *testing.T) {
	inputs := []string{
		"Sapiens",
		"O Gene: Uma História Íntima",
		"Why We Sleep",
		"Hillbilly Elegy — A Memoir",
	}

	for _, input := range inputs {
		first := GenerateSlug(input)
		second := GenerateSlug(first)
		assert.Equal(t, first, second, "slug of %q must be stable", input)
	}
}

func TestRemoveDiacritics(t *testing.T) {
	assert.Equal(t, "Historia Intima", RemoveDiacritics("História Íntima"))
	assert.Equal(t, "coracao", RemoveDiacritics("coração"))
	assert.Equal(t, "unchanged", RemoveDiacritics("unchanged"))
}

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"978-85-359-2517-3", "9788535925173"},
		{"9788535925173", "9788535925173"},
		{"85 359 2517 x", "853592517X"},
		{"ISBN: 978-0-06-231609-7", "9780062316097"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeISBN(tt.input))
	}
}
