// Package config handles jcc.toml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/stuforbes/java-compiler/classfile"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "jcc.toml"

// DefaultMaxStack is the operand stack depth given to every method. The
// expressions jcc accepts never need more.
const DefaultMaxStack = 8

// Config represents a jcc.toml file.
type Config struct {
	ClassFile ClassFileConfig `toml:"classfile"`
	Output    OutputConfig    `toml:"output"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Log       LogConfig       `toml:"log"`

	// Dir is the directory containing jcc.toml, empty when defaults are used.
	Dir string `toml:"-"`
}

type ClassFileConfig struct {
	MajorVersion uint16 `toml:"major_version"`
	MinorVersion uint16 `toml:"minor_version"`
	MaxStack     uint16 `toml:"max_stack"`
}

type OutputConfig struct {
	Dir string `toml:"dir"`
}

// CatalogConfig lists extra class catalogs, relative to the config file.
type CatalogConfig struct {
	Files []string `toml:"files"`
}

type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the configuration used when no jcc.toml is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.ClassFile.MajorVersion == 0 {
		c.ClassFile.MajorVersion = classfile.Java21
	}
	if c.ClassFile.MaxStack == 0 {
		c.ClassFile.MaxStack = DefaultMaxStack
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
}

// Load parses jcc.toml from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	c.applyDefaults()

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// FindAndLoad walks up from startDir to find jcc.toml. It returns the
// defaults when none is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

func (c *Config) validate() error {
	if c.ClassFile.MajorVersion < 45 {
		return fmt.Errorf("classfile.major_version %d is below the minimum 45", c.ClassFile.MajorVersion)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("log.verbosity must not be negative")
	}
	return nil
}

// CatalogPaths returns the catalog files resolved against the config
// directory.
func (c *Config) CatalogPaths() []string {
	var paths []string
	for _, f := range c.Catalog.Files {
		if filepath.IsAbs(f) || c.Dir == "" {
			paths = append(paths, f)
		} else {
			paths = append(paths, filepath.Join(c.Dir, f))
		}
	}
	return paths
}

// OutputDir returns the output directory resolved against the config
// directory.
func (c *Config) OutputDir() string {
	if filepath.IsAbs(c.Output.Dir) || c.Dir == "" {
		return c.Output.Dir
	}
	return filepath.Join(c.Dir, c.Output.Dir)
}
