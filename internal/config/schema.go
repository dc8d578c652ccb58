// Package config provides loading and validation of per-directory fixture
// option files (options.json, options.yaml, options.yml, options.toml).
package config

// FixtureOptions is the decoded form of a fixture options document after
// inheritance has been applied.
type FixtureOptions struct {
	Title             string         `json:"title,omitempty"`
	Only              bool           `json:"only,omitempty"`
	Skip              bool           `json:"skip,omitempty"`
	Throws            any            `json:"throws,omitempty"` // bool or string
	TransformOptions  map[string]any `json:"transformOptions,omitempty"`
	PluginOptions     map[string]any `json:"pluginOptions,omitempty"`
	PresetOptions     map[string]any `json:"presetOptions,omitempty"`
	FixtureOutputName string         `json:"fixtureOutputName,omitempty"`
	FixtureOutputExt  string         `json:"fixtureOutputExt,omitempty"`
	EndOfLine         string         `json:"endOfLine,omitempty"`
}

// OptionsFileNames lists the recognised option file names in lookup order.
var OptionsFileNames = []string{
	"options.json",
	"options.yaml",
	"options.yml",
	"options.toml",
}

// nonInheritedKeys are dropped before a directory's options are passed down
// to its subdirectories.
var nonInheritedKeys = []string{"title"}
