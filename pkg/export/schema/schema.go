// Copyright 2025 The Ingesta Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema declares the column schemas of exported collections and the
// value transforms (sanitization, type casting) that make documents safe for
// Athena-style engines to query.
package schema

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v3"
)

// Type is the declared type of an exported column.
type Type string

const (
	String Type = "string"
	Int    Type = "int"
	Float  Type = "float"
	Date   Type = "date"
)

func (t Type) valid() bool {
	switch t {
	case String, Int, Float, Date:
		return true
	}
	return false
}

// Column declares the name and target type of one exported field.
type Column struct {
	Name string `json:"name" yaml:"name"`
	Type Type   `json:"type" yaml:"type"`
}

// Collection describes one collection to export: its source name, the object
// key prefix it is exported under, and its column schema.
type Collection struct {
	Name    string   `json:"name" yaml:"name"`
	Prefix  string   `json:"prefix" yaml:"prefix"`
	Columns []Column `json:"columns" yaml:"columns"`
}

// Object returns the object key the collection's NDJSON export is written to.
func (c Collection) Object() string {
	return c.Prefix + c.Name + ".json"
}

// Config is the full set of collections exported by one run.
type Config struct {
	Collections []Collection `json:"collections" yaml:"collections"`
}

// metricsColumns returns the shared TikTok post metrics schema. The owner
// column differs between the user and admin collections.
func metricsColumns(owner string) []Column {
	return []Column{
		{Name: "postId", Type: String},
		{Name: "datePosted", Type: Date},
		{Name: "hourPosted", Type: String},
		{Name: "usernameTiktokAccount", Type: String},
		{Name: "postURL", Type: String},
		{Name: "views", Type: Int},
		{Name: "likes", Type: Int},
		{Name: "comments", Type: Int},
		{Name: "saves", Type: Int},
		{Name: "reposts", Type: Int},
		{Name: "totalInteractions", Type: Int},
		{Name: "engagement", Type: Float},
		{Name: "numberHashtags", Type: Int},
		{Name: "hashtags", Type: String},
		{Name: "soundId", Type: String},
		{Name: "soundURL", Type: String},
		{Name: "regionPost", Type: String},
		{Name: "dateTracking", Type: Date},
		{Name: "timeTracking", Type: String},
		{Name: owner, Type: Int},
	}
}

// Default returns the built-in export configuration: the user and admin
// TikTok metrics collections.
func Default() Config {
	return Config{
		Collections: []Collection{
			{Name: "UserTiktokMetrics", Prefix: "user_tiktok_metrics/", Columns: metricsColumns("userId")},
			{Name: "AdminTiktokMetrics", Prefix: "admin_tiktok_metrics/", Columns: metricsColumns("adminId")},
		},
	}
}

// Load reads an export configuration from a YAML file.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading config")
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parsing config")
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if len(cfg.Collections) == 0 {
		return errors.New("no collections configured")
	}
	seen := make(map[string]bool)
	for i := range cfg.Collections {
		c := &cfg.Collections[i]
		if c.Name == "" {
			return errors.Errorf("collection %d: missing name", i)
		}
		if seen[c.Name] {
			return errors.Errorf("duplicate collection %q", c.Name)
		}
		seen[c.Name] = true
		if c.Prefix == "" {
			c.Prefix = c.Name + "/"
		}
		for _, col := range c.Columns {
			if col.Name == "" {
				return errors.Errorf("collection %q: column with missing name", c.Name)
			}
			if !col.Type.valid() {
				return errors.Errorf("collection %q: column %q has unknown type %q", c.Name, col.Name, col.Type)
			}
		}
	}
	return nil
}
