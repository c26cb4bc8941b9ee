//go:build !integration

package i18n

import (
	"testing"
	"testing/fstest"
)

func TestTranslator(t *testing.T) {
	translator, err := newTranslatorFromBytes([]byte("empty_code: code is empty\nrate_limited: retry in %s"))
	if err != nil {
		t.Fatalf("newTranslatorFromBytes failed: %v", err)
	}

	t.Run("should translate a simple key", func(t *testing.T) {
		if got, want := translator.T("empty_code"), "code is empty"; got != want {
			t.Errorf("wanted '%s', got '%s'", want, got)
		}
	})

	t.Run("should return key if not found", func(t *testing.T) {
		if got := translator.T("nonexistent_key"); got != "nonexistent_key" {
			t.Errorf("wanted 'nonexistent_key', got '%s'", got)
		}
		if translator.Has("nonexistent_key") {
			t.Error("expected Has to be false")
		}
	})

	t.Run("should format arguments correctly", func(t *testing.T) {
		if got, want := translator.T("rate_limited", "1h0m0s"), "retry in 1h0m0s"; got != want {
			t.Errorf("wanted '%s', got '%s'", want, got)
		}
	})

	t.Run("should reject malformed yaml", func(t *testing.T) {
		if _, err := newTranslatorFromBytes([]byte("key: [unterminated")); err == nil {
			t.Error("expected a parse error")
		}
	})
}

func TestNewTranslator(t *testing.T) {
	t.Run("should load from any fs", func(t *testing.T) {
		fsys := fstest.MapFS{"locales/de.yaml": {Data: []byte("internal: interner Fehler")}}
		tr, err := NewTranslator(fsys, "de")
		if err != nil {
			t.Fatalf("NewTranslator failed: %v", err)
		}
		if tr.Lang() != "de" || tr.T("internal") != "interner Fehler" {
			t.Errorf("unexpected translator state: %s %q", tr.Lang(), tr.T("internal"))
		}
	})

	t.Run("should fail for a missing language", func(t *testing.T) {
		if _, err := NewTranslator(fstest.MapFS{}, "xx"); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("embedded english covers every error kind", func(t *testing.T) {
		tr, err := NewTranslator(LocalesFS, "en")
		if err != nil {
			t.Fatalf("NewTranslator failed: %v", err)
		}
		for _, k := range []string{"empty_code", "invalid_code", "transport_failure", "code_already_registered", "code_busy",
			"rate_limited", "not_found", "invalid_argument", "unauthorized", "internal"} {
			if !tr.Has(k) {
				t.Errorf("missing translation for %q", k)
			}
		}
	})
}
