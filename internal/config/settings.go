package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Settings are tool-level defaults, not tax data: output format, an
// optional regime override file, and log level. They come from
// taxplan.yaml (working directory or ~/.config/taxplan) and TAXPLAN_*
// environment variables; flags override both.
type Settings struct {
	OutputFormat string
	RegimeFile   string
	LogLevel     string
}

// LoadSettings reads the optional settings file and environment. A missing
// settings file is not an error.
func LoadSettings() (*Settings, error) {
	v := viper.New()
	v.SetConfigName("taxplan")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/taxplan")
	v.SetEnvPrefix("TAXPLAN")
	v.AutomaticEnv()

	v.SetDefault("output_format", "console")
	v.SetDefault("regime_file", "")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return &Settings{
		OutputFormat: v.GetString("output_format"),
		RegimeFile:   v.GetString("regime_file"),
		LogLevel:     v.GetString("log_level"),
	}, nil
}
