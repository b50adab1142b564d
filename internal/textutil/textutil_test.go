package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveAccents(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Kábelek", "Kabelek"},
		{"Csatlakozók", "Csatlakozok"},
		{"árvíztűrő tükörfúrógép", "arvizturo tukorfurogep"},
		{"Größe", "Grosse"},
		{"plain ascii", "plain ascii"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoveAccents(tt.input))
		})
	}
}

func TestSlugify(t *testing.T) {
	slug := Slugify("Kábelek & Csatlakozók")
	assert.Equal(t, "kabelek-es-csatlakozok", slug)
	assert.NotContains(t, slug, "&")
	assert.NotContains(t, slug, " ")
	assert.Equal(t, strings.ToLower(slug), slug)

	assert.Equal(t, "autoapolas", Slugify("Autóápolás"))
	assert.Equal(t, "akkumulatorok-es-toltok", Slugify("Akkumulátorok & Töltők"))
}

func TestSanitizeSKU(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "ABC-123", "ABC-123"},
		{"whitespace to hyphen", "AB 12 C", "AB-12-C"},
		{"accents stripped", "TÚRÓ-42", "TURO-42"},
		{"disallowed dropped", "A/B#C.D", "ABCD"},
		{"hyphen runs collapse", "A--B---C", "A-B-C"},
		{"edge hyphens trimmed", "-ABC-", "ABC"},
		{"underscore kept", "AB_12", "AB_12"},
		{"only junk", "###", ""},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeSKU(tt.input))
		})
	}

	long := strings.Repeat("A", 80)
	assert.Len(t, SanitizeSKU(long), 64)
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Bosch wiper blade", StripHTML("<b>Bosch</b> wiper <i>blade</i>"))
	assert.Equal(t, "", StripHTML("  "))
	assert.Equal(t, "no markup", StripHTML("no markup"))
}

func TestDecodeEntities(t *testing.T) {
	assert.Equal(t, "Bosch & Co", DecodeEntities("Bosch &amp; Co"))
	assert.Equal(t, "é", DecodeEntities("&eacute;"))
}
