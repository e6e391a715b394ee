// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

// package i18n provides internationalization support for the gadget CLI.
// It uses the go-i18n library to load and manage translation files,
// allowing the user interface to be displayed in multiple languages.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// localeFS embeds the YAML translation files from the 'locales' directory
// into the application binary.
//
//go:embed locales/*.yaml
var localeFS embed.FS

// bundle stores all the loaded translation messages from the locale files.
var bundle *i18n.Bundle

// localizer is used to translate messages into a specific language.
var localizer *i18n.Localizer

// lang is the currently active language tag.
var lang string

// Init initializes the i18n bundle and sets up the localizer for a specific
// language. It parses all embedded YAML files from the 'locales' directory.
func Init(tag string) {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, _ := localeFS.ReadFile("locales/" + f.Name())
		bundle.ParseMessageFileBytes(data, f.Name())
	}

	lang = tag
	localizer = i18n.NewLocalizer(bundle, tag)
}

// T translates a message by its ID. Additional arguments are applied with
// fmt.Sprintf semantics against the translated format string. If the i18n
// system has not been initialized, it defaults to English. If a translation
// is not found, the message ID itself is returned.
func T(messageID string, args ...any) string {
	if localizer == nil {
		Init("en")
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		// Unknown message IDs fall back to the ID itself.
		msg = messageID
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// GetLang returns the currently active language.
func GetLang() string {
	if lang == "" {
		return "en"
	}
	return lang
}

// SetLang changes the active language of the localizer.
func SetLang(tag string) {
	Init(tag)
}

// GetAvailableLocales returns the supported locale tags mapped to their
// human-readable display names.
func GetAvailableLocales() map[string]string {
	return map[string]string{
		"en": "English",
		"de": "Deutsch",
	}
}
