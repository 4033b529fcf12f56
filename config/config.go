// Package config reads the configuration of the iiif command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"code.cloudfoundry.org/bytefmt"
	"github.com/BurntSushi/toml"
	"github.com/greut/iiif-pipeline/iiif"
	"github.com/joho/godotenv"
)

// Config stores the IIIF pipeline configuration.
type Config struct {
	BaseURI     string       `toml:"baseUri"`
	Output      string       `toml:"output"`
	Codec       string       `toml:"codec"`
	JPEGQuality int          `toml:"jpegQuality"`
	Fill        string       `toml:"fill"`
	MaxWidth    int          `toml:"maxWidth"`
	MaxHeight   int          `toml:"maxHeight"`
	MaxArea     int          `toml:"maxArea"`
	Source      SourceConfig `toml:"source"`
	Cache       CacheConfig  `toml:"cache"`
}

// SourceConfig selects where the source images are read from.
//
// Options holds the backend specific settings, see the source package.
type SourceConfig struct {
	Name    string                 `toml:"name"`
	Path    string                 `toml:"path"`
	Options map[string]interface{} `toml:"options"`
}

// CacheConfig represents the configuration information regarding the cache.
type CacheConfig struct {
	Images     string `toml:"images"`
	ImagesSize int64  `toml:"-"`
}

// Default returns the configuration used without any file.
func Default() *Config {
	return &Config{
		BaseURI: "http://localhost",
		Output:  ".",
		Codec:   "native",
		Fill:    "#ffffff",
		Source: SourceConfig{
			Name: "disk",
			Path: ".",
		},
	}
}

// Load reads the TOML file, then applies the IIIF_* environment variables,
// .env included.
func Load(file string) (*Config, error) {
	c := Default()

	if file != "" {
		if _, err := toml.DecodeFile(file, c); err != nil {
			return nil, err
		}
	}

	// A missing .env is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(".env: %w", err)
	}

	if err := c.fromEnv(); err != nil {
		return nil, err
	}

	if c.Cache.Images != "" {
		size, err := bytefmt.ToBytes(c.Cache.Images)
		if err != nil {
			return nil, fmt.Errorf("cache.images %#v: %w", c.Cache.Images, err)
		}
		c.Cache.ImagesSize = int64(size)
	}

	return c, nil
}

func (c *Config) fromEnv() error {
	strings := map[string]*string{
		"IIIF_BASE_URI":     &c.BaseURI,
		"IIIF_OUTPUT":       &c.Output,
		"IIIF_CODEC":        &c.Codec,
		"IIIF_FILL":         &c.Fill,
		"IIIF_SOURCE":       &c.Source.Name,
		"IIIF_SOURCE_PATH":  &c.Source.Path,
		"IIIF_CACHE_IMAGES": &c.Cache.Images,
	}
	for k, v := range strings {
		if value, ok := os.LookupEnv(k); ok {
			*v = value
		}
	}

	ints := map[string]*int{
		"IIIF_JPEG_QUALITY": &c.JPEGQuality,
		"IIIF_MAX_WIDTH":    &c.MaxWidth,
		"IIIF_MAX_HEIGHT":   &c.MaxHeight,
		"IIIF_MAX_AREA":     &c.MaxArea,
	}
	for k, v := range ints {
		value, ok := os.LookupEnv(k)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s=%#v: %w", k, value, err)
		}
		*v = n
	}

	return nil
}

// Options builds the pipeline options.
func (c *Config) Options() (iiif.Options, error) {
	opts := iiif.Options{
		Limits: iiif.Limits{
			MaxWidth:  c.MaxWidth,
			MaxHeight: c.MaxHeight,
			MaxArea:   c.MaxArea,
		},
	}

	if c.Fill != "" {
		fill, err := iiif.ParseFill(c.Fill)
		if err != nil {
			return opts, err
		}
		opts.Fill = fill
	}

	return opts, nil
}
