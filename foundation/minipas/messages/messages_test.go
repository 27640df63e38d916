// File: messages_test.go
// Title: Message Catalog Tests
// Description: Embedded catalogs, locale resolution and rendered diagnostics.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial tests

package messages

import (
	"testing"

	"github.com/msto63/minipas/foundation/minipas/diag"
)

func mustLoad(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return c
}

func TestLoad(t *testing.T) {
	c := mustLoad(t)
	if !c.Has("en") || !c.Has("pt") {
		t.Errorf("locales = %v, want en and pt", c.Locales())
	}

	again, _ := Load()
	if again != c {
		t.Error("Load should return the cached catalog")
	}
}

func TestEnglishMatchesBuiltin(t *testing.T) {
	c := mustLoad(t)
	builtin := diag.DefaultRenderer()
	en := c.Renderer("en")

	for _, reason := range []diag.Reason{
		diag.ReasonInvalidKeyword,
		diag.ReasonInvalidAssignment,
		diag.ReasonUnknownCharacter,
		diag.ReasonUndeclaredIdentifier,
	} {
		d := diag.Diagnostic{Category: reason.Category(), Reason: reason, Line: 3, Lexeme: "x"}
		if got, want := en.Render(d), builtin.Render(d); got != want {
			t.Errorf("%s:\n catalog %q\n builtin %q", reason, got, want)
		}
	}
}

func TestPortugueseMessages(t *testing.T) {
	r := mustLoad(t).Renderer("pt")

	tests := []struct {
		reason diag.Reason
		line   int
		lexeme string
		want   string
	}{
		{diag.ReasonInvalidKeyword, 1, "progra", "Erro Léxico na Linha 1: Palavra-chave 'progra' inválida. Verifique a ortografia."},
		{diag.ReasonInvalidAssignment, 2, "=", "Erro de Atribuição na Linha 2: Operador de atribuição inválido '='. Use ':='."},
		{diag.ReasonUnknownCharacter, 3, "#", "Erro Léxico na Linha 3: Caractere desconhecido '#'."},
		{diag.ReasonUndeclaredIdentifier, 4, "y", "Erro Semântico na Linha 4: O identificador 'y' foi usado mas não foi declarado."},
	}

	for _, tt := range tests {
		t.Run(tt.reason.Key(), func(t *testing.T) {
			got := r.Render(diag.Diagnostic{Reason: tt.reason, Line: tt.line, Lexeme: tt.lexeme})
			if got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	c := mustLoad(t)
	tests := map[string]string{
		"":      "en",
		"pt":    "pt",
		"pt_BR": "pt",
		"PT-br": "pt",
		"de":    "en",
		"xx-yy": "en",
	}
	for in, want := range tests {
		if got := c.Resolve(in); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReportTexts(t *testing.T) {
	c := mustLoad(t)

	if got := c.Text("pt", "report.symbol_table", nil); got != "Tabela de Símbolos" {
		t.Errorf("symbol_table = %q", got)
	}
	if got := c.Text("en", "report.header", map[string]interface{}{"name": "a.pas"}); got != "Analyzing a.pas" {
		t.Errorf("header = %q", got)
	}
	if got := c.Count("en", "summary.errors", 1); got != "1 error" {
		t.Errorf("count = %q", got)
	}
	if got := c.Count("pt", "summary.symbols", 3); got != "3 símbolos" {
		t.Errorf("count = %q", got)
	}
	if got := c.Detect("pt-BR,en;q=0.5"); got != "pt" {
		t.Errorf("Detect = %q", got)
	}
}

func TestCatalogKeysAligned(t *testing.T) {
	c := mustLoad(t)
	en := c.manager.Keys("en")
	pt := c.manager.Keys("pt")

	if len(en) != len(pt) {
		t.Fatalf("key count differs: en=%v pt=%v", en, pt)
	}
	for i := range en {
		if en[i] != pt[i] {
			t.Errorf("key mismatch at %d: %s vs %s", i, en[i], pt[i])
		}
	}
}
