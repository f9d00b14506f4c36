package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocales(t *testing.T) {
	assert := assert.New(t)

	t.Setenv(LANG_ENV, "fr-FR")
	assert.Equal([]string{"fr-FR"}, Locales())

	t.Setenv(LANG_ENV, "")
	assert.NotEmpty(Locales())
}

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("line 3: bad", From("line %d: %v", 3, "bad"))
}
