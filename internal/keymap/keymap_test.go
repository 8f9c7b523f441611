package keymap

import (
	"strings"
	"testing"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/assistive/internal/config"
)

func TestDefaultsMatchKeys(t *testing.T) {
	km := New(config.KeyMapConfig{})

	if !key.Matches(tea.KeyPressMsg{Code: 'q', Text: "q"}, km.Quit) {
		t.Fatal("expected q to quit")
	}
	if !key.Matches(tea.KeyPressMsg{Code: tea.KeyEscape}, km.Cancel) {
		t.Fatal("expected esc to cancel")
	}
	if key.Matches(tea.KeyPressMsg{Code: 'x', Text: "x"}, km.Reset) {
		t.Fatal("x should not reset")
	}
}

func TestOverridesReplaceDefaults(t *testing.T) {
	km := New(config.KeyMapConfig{Bindings: map[string][]string{"reset": {"x", "R"}}})

	if got := PrimaryKey(km.Reset); got != "x" {
		t.Fatalf("expected x as primary reset key, got %q", got)
	}
	if km.Reset.Help().Key != "x/R" {
		t.Fatalf("expected help key x/R, got %q", km.Reset.Help().Key)
	}
	if key.Matches(tea.KeyPressMsg{Code: 'r', Text: "r"}, km.Reset) {
		t.Fatal("default key should no longer match after override")
	}
}

func TestBindingForActionCoversDefaults(t *testing.T) {
	km := New(config.KeyMapConfig{})
	for _, def := range defaultDefs {
		if len(BindingForAction(km, def.action).Keys()) == 0 {
			t.Fatalf("action %s has no binding", def.action)
		}
	}
	if len(BindingForAction(km, "unknown").Keys()) != 0 {
		t.Fatal("unknown action should have an empty binding")
	}
}

func TestHelpSectionsAndStatusHint(t *testing.T) {
	km := New(config.KeyMapConfig{})
	sections := HelpSections(km)
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	var found bool
	for _, b := range sections[1].Bindings {
		if b.Key == "q/ctrl+c" && b.Desc == "quit" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected quit binding in global section: %+v", sections[1])
	}

	hint := StatusHint(km)
	if !strings.Contains(hint, "? help") || !strings.Contains(hint, "q quit") {
		t.Fatalf("unexpected hint %q", hint)
	}
}
