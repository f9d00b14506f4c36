// Package translate formats user-facing messages for the locale of the host.
package translate

import (
	"log"
	"os"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LANG_ENV overrides the host locale when set, ie UVM_LANG=fr-FR.
const LANG_ENV = "UVM_LANG"

var (
	printer     *message.Printer
	printerOnce sync.Once
)

// Locales returns the preferred locales, most preferred first.
func Locales() (locales []string) {
	if lang, ok := os.LookupEnv(LANG_ENV); ok && len(lang) != 0 {
		locales = []string{lang}
		return
	}

	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("uvm: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	return
}

// Language returns the language messages are formatted for.
func Language() language.Tag {
	return message.MatchLanguage(Locales()...)
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	printerOnce.Do(func() {
		printer = message.NewPrinter(Language())
	})

	return printer.Sprintf(key, args...)
}
