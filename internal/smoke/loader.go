package smoke

import (
	"fmt"

	"github.com/spf13/viper"
)

// Loader reads smoke suites with Viper. Environment variables win over the
// file:
//   - CASHOUT_SMOKE_NAME
//   - CASHOUT_SMOKE_BASE_URL
//   - CASHOUT_SMOKE_TIMEOUT
type Loader struct {
	v *viper.Viper
}

func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CASHOUT_SMOKE")
	v.SetDefault("name", "default")
	v.SetDefault("base_url", "")
	v.SetDefault("timeout", defaultTimeout.String())
	_ = v.BindEnv("name")
	_ = v.BindEnv("base_url")
	_ = v.BindEnv("timeout")
	return &Loader{v: v}
}

// Load returns the default checks with any environment overrides applied.
func (l *Loader) Load() (Suite, error) {
	return l.unmarshal()
}

// LoadFromFile reads a YAML suite. A file without checks runs the default ones.
func (l *Loader) LoadFromFile(path string) (Suite, error) {
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return Suite{}, fmt.Errorf("error reading config file: %w", err)
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (Suite, error) {
	var s Suite
	if err := l.v.Unmarshal(&s); err != nil {
		return Suite{}, fmt.Errorf("error decoding smoke suite: %w", err)
	}
	if len(s.Checks) == 0 {
		s.Checks = DefaultChecks()
	}
	if s.Timeout <= 0 {
		s.Timeout = defaultTimeout
	}
	for i, c := range s.Checks {
		if c.Path == "" {
			return Suite{}, fmt.Errorf("check %d (%s) has no path", i+1, c.Name)
		}
		if c.Name == "" {
			s.Checks[i].Name = c.method() + " " + c.Path
		}
	}
	return s, nil
}
