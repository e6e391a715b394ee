// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import (
	"strings"
	"testing"
)

func TestT_TranslatesKnownMessage(t *testing.T) {
	Init("en")
	got := T("list.empty")
	if got != "No deployments recorded." {
		t.Errorf("T(list.empty) = %q", got)
	}
}

func TestT_AppliesFormatArguments(t *testing.T) {
	Init("en")
	got := T("create.success", "/tmp/demo")
	if !strings.Contains(got, "/tmp/demo") {
		t.Errorf("T(create.success, path) = %q, missing argument", got)
	}
}

func TestT_UnknownIDFallsBack(t *testing.T) {
	Init("en")
	if got := T("does.not.exist"); got != "does.not.exist" {
		t.Errorf("unknown id = %q, want the id itself", got)
	}
}

func TestT_AutoInitializes(t *testing.T) {
	localizer = nil
	lang = ""
	if got := T("list.empty"); got != "No deployments recorded." {
		t.Errorf("T without Init = %q", got)
	}
	if GetLang() != "en" {
		t.Errorf("GetLang = %q, want en", GetLang())
	}
}

func TestSetLang_SwitchesLocale(t *testing.T) {
	SetLang("de")
	defer SetLang("en")

	got := T("list.empty")
	if got == "No deployments recorded." || got == "list.empty" {
		t.Errorf("german translation missing, got %q", got)
	}
	if GetLang() != "de" {
		t.Errorf("GetLang = %q, want de", GetLang())
	}
}

func TestGetAvailableLocales(t *testing.T) {
	locales := GetAvailableLocales()
	for _, code := range []string{"en", "de"} {
		if locales[code] == "" {
			t.Errorf("locale %s missing", code)
		}
	}
}

func TestMissingEnvMessageNamesVariable(t *testing.T) {
	Init("en")
	got := T("deploy.error_missing_env", "SIGNER")
	if !strings.Contains(got, "SIGNER") {
		t.Errorf("message %q does not name the variable", got)
	}
}
