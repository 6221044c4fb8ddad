package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"imgdim/resolve"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	// SiteConfig describes how public URLs of the site map onto local files.
	SiteConfig struct {
		RootPath          string `yaml:"root_path" validate:"required"`
		BaseURL           string `yaml:"base_url" validate:"omitempty,url"`
		SecureBaseURL     string `yaml:"secure_base_url" validate:"omitempty,url"`
		UseRewrites       bool   `yaml:"use_rewrites"`
		CustomEntryPoint  bool   `yaml:"custom_entry_point"`
		ScriptFilename    string `yaml:"script_filename"`
		SignStatic        bool   `yaml:"sign_static"`
		DeploymentVersion string `yaml:"deployment_version" validate:"required_if=SignStatic true"`
	}

	RemoteConfig struct {
		Timeout          time.Duration `yaml:"timeout" validate:"gt=0"`
		MaxHeaderBytes   int64         `yaml:"max_header_bytes" validate:"min=64"`
		MaxDocumentBytes int64         `yaml:"max_document_bytes" validate:"min=1024"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Site      SiteConfig     `yaml:"site"`
		Remote    RemoteConfig   `yaml:"remote"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// PathContext returns translation context for the configured site.
func (conf *SiteConfig) PathContext() resolve.PathContext {
	return resolve.PathContext{
		RootPath:          conf.RootPath,
		BaseURL:           conf.BaseURL,
		SecureBaseURL:     conf.SecureBaseURL,
		UseRewrites:       conf.UseRewrites,
		CustomEntryPoint:  conf.CustomEntryPoint,
		ScriptFilename:    conf.ScriptFilename,
		SignStatic:        conf.SignStatic,
		DeploymentVersion: conf.DeploymentVersion,
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
