package main

import (
	"errors"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultServer = "http://localhost:5001"

// settings resolves CLI options from flags, KANBAN_* env and an optional
// $HOME/.kanban.yaml, in that order of precedence.
type settings struct {
	v *viper.Viper
}

func newSettings() *settings {
	v := viper.New()
	v.SetDefault("server", defaultServer)
	v.SetDefault("verbose", false)
	v.SetEnvPrefix("kanban")
	v.AutomaticEnv()
	return &settings{v: v}
}

func (s *settings) bind(flags *pflag.FlagSet) error {
	for _, name := range []string{"server", "verbose"} {
		if err := s.v.BindPFlag(name, flags.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

// load reads the config file. An explicit path must exist; the default one may not.
func (s *settings) load(path string) error {
	if path != "" {
		s.v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		s.v.AddConfigPath(home)
		s.v.SetConfigName(".kanban")
		s.v.SetConfigType("yaml")
	}

	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

func (s *settings) server() string { return s.v.GetString("server") }
func (s *settings) verbose() bool  { return s.v.GetBool("verbose") }
