// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	esc     key.Binding
	quit    key.Binding
	forceQ  key.Binding
	push    key.Binding
	pull    key.Binding
	sync    key.Binding
	refresh key.Binding
	upload  key.Binding
	copy    key.Binding
	info    key.Binding
}

var keys = keyMap{
	up:      key.NewBinding(key.WithKeys("up", "k")),
	down:    key.NewBinding(key.WithKeys("down", "j")),
	enter:   key.NewBinding(key.WithKeys("enter")),
	esc:     key.NewBinding(key.WithKeys("esc")),
	quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
	forceQ:  key.NewBinding(key.WithKeys("ctrl+c")),
	push:    key.NewBinding(key.WithKeys("p")),
	pull:    key.NewBinding(key.WithKeys("l")),
	sync:    key.NewBinding(key.WithKeys("s")),
	refresh: key.NewBinding(key.WithKeys("r")),
	upload:  key.NewBinding(key.WithKeys("u")),
	copy:    key.NewBinding(key.WithKeys("y")),
	info:    key.NewBinding(key.WithKeys("v")),
}
