package keymap

import (
	"strings"

	"charm.land/bubbles/v2/key"

	"github.com/andyrewlee/assistive/internal/config"
	"github.com/andyrewlee/assistive/internal/ui/common"
)

// Action identifies a configurable keybinding.
type Action string

const (
	ActionQuit   Action = "quit"
	ActionHelp   Action = "help"
	ActionReset  Action = "reset"
	ActionCopy   Action = "copy"
	ActionTheme  Action = "theme"
	ActionCancel Action = "cancel"

	ActionMenuUp     Action = "menu_up"
	ActionMenuDown   Action = "menu_down"
	ActionMenuSelect Action = "menu_select"
)

type bindingDef struct {
	action Action
	keys   []string
	desc   string
}

var defaultDefs = []bindingDef{
	{action: ActionQuit, keys: []string{"q", "ctrl+c"}, desc: "quit"},
	{action: ActionHelp, keys: []string{"?"}, desc: "help"},
	{action: ActionReset, keys: []string{"r"}, desc: "reset position"},
	{action: ActionCopy, keys: []string{"y"}, desc: "copy position"},
	{action: ActionTheme, keys: []string{"t"}, desc: "toggle theme"},
	{action: ActionCancel, keys: []string{"esc"}, desc: "cancel drag / close menu"},
	{action: ActionMenuUp, keys: []string{"k", "up"}, desc: "previous item"},
	{action: ActionMenuDown, keys: []string{"j", "down"}, desc: "next item"},
	{action: ActionMenuSelect, keys: []string{"enter", "space"}, desc: "choose item"},
}

// KeyMap defines all keybindings for the application.
type KeyMap struct {
	Quit   key.Binding
	Help   key.Binding
	Reset  key.Binding
	Copy   key.Binding
	Theme  key.Binding
	Cancel key.Binding

	MenuUp     key.Binding
	MenuDown   key.Binding
	MenuSelect key.Binding
}

// New builds a keymap from defaults, applying any user overrides.
func New(cfg config.KeyMapConfig) KeyMap {
	b := make(map[Action]key.Binding, len(defaultDefs))
	for _, def := range defaultDefs {
		b[def.action] = bindingFromDef(cfg, def)
	}
	return KeyMap{
		Quit:       b[ActionQuit],
		Help:       b[ActionHelp],
		Reset:      b[ActionReset],
		Copy:       b[ActionCopy],
		Theme:      b[ActionTheme],
		Cancel:     b[ActionCancel],
		MenuUp:     b[ActionMenuUp],
		MenuDown:   b[ActionMenuDown],
		MenuSelect: b[ActionMenuSelect],
	}
}

func bindingFromDef(cfg config.KeyMapConfig, def bindingDef) key.Binding {
	keys, ok := cfg.BindingFor(string(def.action))
	if !ok {
		keys = def.keys
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), def.desc),
	)
}

// PrimaryKey returns the first key in the binding, if present.
func PrimaryKey(binding key.Binding) string {
	keys := binding.Keys()
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// BindingForAction returns the binding for the given action.
func BindingForAction(km KeyMap, action Action) key.Binding {
	switch action {
	case ActionQuit:
		return km.Quit
	case ActionHelp:
		return km.Help
	case ActionReset:
		return km.Reset
	case ActionCopy:
		return km.Copy
	case ActionTheme:
		return km.Theme
	case ActionCancel:
		return km.Cancel
	case ActionMenuUp:
		return km.MenuUp
	case ActionMenuDown:
		return km.MenuDown
	case ActionMenuSelect:
		return km.MenuSelect
	default:
		return key.Binding{}
	}
}

// HelpSections groups the bindings for the help overlay.
func HelpSections(km KeyMap) []common.HelpSection {
	section := func(title string, actions ...Action) common.HelpSection {
		s := common.HelpSection{Title: title}
		for _, action := range actions {
			h := BindingForAction(km, action).Help()
			s.Bindings = append(s.Bindings, common.HelpBinding{Key: h.Key, Desc: h.Desc})
		}
		return s
	}
	return []common.HelpSection{
		{
			Title: "Mouse",
			Bindings: []common.HelpBinding{
				{Key: "click", Desc: "open the quick menu"},
				{Key: "drag", Desc: "move the button; it snaps to an edge on release"},
			},
		},
		section("Global", ActionQuit, ActionHelp, ActionReset, ActionCopy, ActionTheme, ActionCancel),
		section("Quick menu", ActionMenuUp, ActionMenuDown, ActionMenuSelect),
	}
}

// StatusHint renders the compact key hint line.
func StatusHint(km KeyMap) string {
	var parts []string
	for _, b := range []key.Binding{km.Help, km.Reset, km.Theme, km.Quit} {
		if k := PrimaryKey(b); k != "" {
			parts = append(parts, k+" "+b.Help().Desc)
		}
	}
	return strings.Join(parts, " • ")
}
