package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultLockTimeout  = 30 * time.Minute
	defaultRetryWait    = 2 * time.Second
	defaultRetryCount   = 3
	defaultSmtpPort     = 25
	defaultFtpPort      = 21
	defaultFtpTimeout   = 30 * time.Second
	defaultTwilioURL    = "https://api.twilio.com"
)

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Duration is a time.Duration written as "5s" / "2m" in settings files.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler (used by TOML).
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Std converts to time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Settings is the optional settings file shared by all activities.
type Settings struct {
	FailBuildOnError bool               `yaml:"fail_build_on_error" toml:"fail_build_on_error"`
	PowerShell       PowerShellSettings `yaml:"powershell"          toml:"powershell"`
	Robocopy         RobocopySettings   `yaml:"robocopy"            toml:"robocopy"`
	Lock             LockSettings       `yaml:"lock"                toml:"lock"`
	Smtp             SmtpServer         `yaml:"smtp"                toml:"smtp"`
	Sms              SmsAccount         `yaml:"sms"                 toml:"sms"`
	Ftp              FtpServer          `yaml:"ftp"                 toml:"ftp"`
	Retry            RetrySettings      `yaml:"retry"               toml:"retry"`
}

// PowerShellSettings selects the PowerShell host used for SharePoint commands.
type PowerShellSettings struct {
	Binary    string   `yaml:"binary"    toml:"binary"`
	Arguments []string `yaml:"arguments" toml:"arguments"`
}

// RobocopySettings selects the robocopy binary.
type RobocopySettings struct {
	Binary string `yaml:"binary" toml:"binary"`
}

// LockSettings configures the advisory environment lock.
type LockSettings struct {
	Share        string   `yaml:"share"         toml:"share"`
	PollInterval Duration `yaml:"poll_interval" toml:"poll_interval"`
	Timeout      Duration `yaml:"timeout"       toml:"timeout"`
}

// RetrySettings configures retries of transient network failures.
type RetrySettings struct {
	Interval    Duration `yaml:"interval"     toml:"interval"`
	MaxAttempts int      `yaml:"max_attempts" toml:"max_attempts"`
}

// NewDefaultSettings returns the settings used when no file is found.
func NewDefaultSettings() *Settings {
	powershell := "pwsh"
	if runtime.GOOS == "windows" {
		powershell = "powershell.exe"
	}

	return &Settings{
		FailBuildOnError: true,
		PowerShell: PowerShellSettings{
			Binary:    powershell,
			Arguments: []string{"-NoProfile", "-NonInteractive", "-Command"},
		},
		Robocopy: RobocopySettings{Binary: "robocopy"},
		Lock: LockSettings{
			PollInterval: Duration(defaultPollInterval),
			Timeout:      Duration(defaultLockTimeout),
		},
		Smtp:  SmtpServer{Port: defaultSmtpPort},
		Sms:   SmsAccount{BaseURL: defaultTwilioURL},
		Ftp:   FtpServer{Port: defaultFtpPort, Timeout: Duration(defaultFtpTimeout)},
		Retry: RetrySettings{Interval: Duration(defaultRetryWait), MaxAttempts: defaultRetryCount},
	}
}

// NewSettings reads a YAML or TOML settings file (by extension) on top of
// the defaults, expanding environment variables and resolving secret files.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	settings := NewDefaultSettings()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if unmarshalErr := toml.Unmarshal(data, settings); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
		}
	default:
		if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
		}
	}

	settings.resolve()

	if validateErr := validateSettings(settings); validateErr != nil {
		return nil, validateErr
	}
	return settings, nil
}

// LoadSettings loads the file at path, or the auto-detected file when path is
// empty, falling back to defaults when none exists.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		found, err := FindConfigFile()
		if err != nil {
			logger.Debug("No config file found, using defaults")
			return NewDefaultSettings(), nil //nolint:nilerr // absence of a config file is not an error
		}
		path = found
	}

	logger.Debugf("Using config file: %s", path)
	return NewSettings(path)
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".buildactivities.yaml",
		".buildactivities.yml",
		".buildactivities.toml",
		"buildactivities.yaml",
		"buildactivities.yml",
		"buildactivities.toml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

func (s *Settings) resolve() {
	s.PowerShell.Binary = expandEnv(s.PowerShell.Binary)
	s.Robocopy.Binary = expandEnv(s.Robocopy.Binary)
	s.Lock.Share = expandEnv(s.Lock.Share)

	s.Smtp.Host = expandEnv(s.Smtp.Host)
	s.Smtp.Username = expandEnv(s.Smtp.Username)
	s.Smtp.Password = resolveSecret(s.Smtp.Password)
	s.Smtp.From = expandEnv(s.Smtp.From)

	s.Sms.AccountSID = expandEnv(s.Sms.AccountSID)
	s.Sms.AuthToken = resolveSecret(s.Sms.AuthToken)
	s.Sms.From = expandEnv(s.Sms.From)

	s.Ftp.Host = expandEnv(s.Ftp.Host)
	s.Ftp.Username = expandEnv(s.Ftp.Username)
	s.Ftp.Password = resolveSecret(s.Ftp.Password)
}

// expandEnv expands ${ENV_VAR} references, warning about unset variables.
func expandEnv(raw string) string {
	if raw == "" {
		return raw
	}
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

// resolveSecret expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the secret from the file.
func resolveSecret(raw string) string {
	resolved := expandEnv(raw)
	if resolved == "" {
		return resolved
	}

	if info, statErr := os.Stat(resolved); statErr == nil && !info.IsDir() {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read secret file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Debugf("Read secret from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validateSettings checks value ranges; required values are checked per activity.
func validateSettings(s *Settings) error {
	if s.PowerShell.Binary == "" {
		return errors.New("powershell.binary must not be empty")
	}
	if s.Lock.PollInterval.Std() <= 0 {
		return errors.New("lock.poll_interval must be positive")
	}
	if s.Lock.Timeout.Std() < 0 {
		return errors.New("lock.timeout must not be negative")
	}
	if s.Smtp.Port <= 0 || s.Smtp.Port > 65535 {
		return fmt.Errorf("smtp.port %d is out of range", s.Smtp.Port)
	}
	if s.Ftp.Port <= 0 || s.Ftp.Port > 65535 {
		return fmt.Errorf("ftp.port %d is out of range", s.Ftp.Port)
	}
	if s.Retry.MaxAttempts < 0 {
		return errors.New("retry.max_attempts must not be negative")
	}
	return nil
}
