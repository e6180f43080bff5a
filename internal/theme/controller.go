// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package theme implements the UI theme preference state machine: resolving
// the active theme from a persisted preference, applying it to a document,
// and toggling it in response to user interaction.
package theme

import "log/slog"

// Canonical theme names.
const (
	ThemeClassic = "classic"
	ThemeDark    = "dark"
)

// Attr is the document-level attribute reflecting the active theme.
const Attr = "data-theme"

// PreferenceKey is the key under which the theme preference is persisted.
const PreferenceKey = "theme"

// legacyAliases maps deprecated theme names to their canonical replacement.
// Kept as a table so new aliases can be added without touching control flow.
var legacyAliases = map[string]string{
	"midnight": ThemeDark,
}

// Normalize resolves a theme name to its canonical form, following the
// legacy alias table. The second return value reports whether the name
// resolved to a valid theme at all.
func Normalize(name string) (string, bool) {
	switch name {
	case ThemeClassic, ThemeDark:
		return name, true
	}
	if canonical, ok := legacyAliases[name]; ok {
		return canonical, true
	}
	return "", false
}

// Document is the presentation surface the controller mutates. In the
// browser this is the document element; in tests it is an in-memory fake.
type Document interface {
	Attribute(name string) string
	SetAttribute(name, value string)
}

// PreferenceStore persists the theme preference. Any call may fail; the
// controller degrades gracefully and never lets a storage fault propagate.
type PreferenceStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// ToggleControl is an optional UI control whose checked state mirrors the
// active theme.
type ToggleControl interface {
	SetChecked(checked bool)
}

// Label is an optional UI element whose text mirrors the active theme name.
type Label interface {
	SetText(text string)
}

// Controller owns the theme state for one document.
type Controller struct {
	doc    Document
	prefs  PreferenceStore
	toggle ToggleControl
	label  Label
	logger *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithToggle attaches a toggle control to sync on theme changes.
func WithToggle(t ToggleControl) Option {
	return func(c *Controller) { c.toggle = t }
}

// WithLabel attaches a text label to sync on theme changes.
func WithLabel(l Label) Option {
	return func(c *Controller) { c.label = l }
}

// WithLogger sets the logger used for storage failure warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController creates a Controller for the given document and store.
// The toggle control and label are optional.
func NewController(doc Document, prefs PreferenceStore, opts ...Option) *Controller {
	c := &Controller{
		doc:    doc,
		prefs:  prefs,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init determines the active theme and applies it. Resolution order:
// persisted preference (rewritten to canonical form when it arrived via a
// legacy alias, cleared when invalid), then an already-applied valid
// document attribute, then the default.
func (c *Controller) Init() string {
	resolved := ""

	stored := c.load()
	if stored != "" {
		if canonical, ok := Normalize(stored); ok {
			resolved = canonical
			if canonical != stored {
				// Migrate the legacy alias in place
				c.persist(canonical)
			}
		} else {
			c.clear()
		}
	}

	if resolved == "" {
		if canonical, ok := Normalize(c.doc.Attribute(Attr)); ok {
			resolved = canonical
		}
	}

	if resolved == "" {
		resolved = ThemeClassic
	}

	c.apply(resolved)
	return resolved
}

// Toggle flips the active theme to the other canonical value, applies it,
// and persists it. An unreadable current theme flips to dark, as if the
// default were active.
func (c *Controller) Toggle() string {
	current, ok := Normalize(c.doc.Attribute(Attr))
	if !ok {
		current = ThemeClassic
	}

	next := ThemeClassic
	if current == ThemeClassic {
		next = ThemeDark
	}

	c.apply(next)
	c.persist(next)
	return next
}

// HandleKey processes a keypress on the toggle control. Space and Enter
// activate the toggle; the second return value reports whether the key was
// handled, in which case the caller must suppress the default action.
func (c *Controller) HandleKey(key string) (string, bool) {
	switch key {
	case " ", "Space", "Enter":
		return c.Toggle(), true
	}
	return "", false
}

// apply mutates the document attribute and synchronizes the optional UI
// elements.
func (c *Controller) apply(name string) {
	c.doc.SetAttribute(Attr, name)
	if c.toggle != nil {
		c.toggle.SetChecked(name == ThemeDark)
	}
	if c.label != nil {
		c.label.SetText(name)
	}
}

func (c *Controller) load() string {
	value, err := c.prefs.Get(PreferenceKey)
	if err != nil {
		c.logger.Warn("reading theme preference failed", "error", err)
		return ""
	}
	return value
}

func (c *Controller) persist(name string) {
	if err := c.prefs.Set(PreferenceKey, name); err != nil {
		c.logger.Warn("persisting theme preference failed", "theme", name, "error", err)
	}
}

func (c *Controller) clear() {
	if err := c.prefs.Delete(PreferenceKey); err != nil {
		c.logger.Warn("clearing theme preference failed", "error", err)
	}
}
