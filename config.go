package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// Config holds credentials and endpoint settings from an s3cmd-compatible
// .s3cfg file, plus the UI settings kept in its [s3cmdr] section.
type Config struct {
	AccessKey string
	SecretKey string
	HostBase  string
	UseHTTPS  bool
	Region    string

	// UI settings, persisted in the [s3cmdr] section.
	Theme   string
	Profile string

	path string
}

// configSearchPaths are tried in order; the first existing file wins.
func configSearchPaths() []string {
	return []string{
		".s3cfg",
		filepath.Join(os.Getenv("HOME"), ".s3cfg"),
		"/etc/s3cfg",
	}
}

// LoadConfig loads the first .s3cfg found in the standard locations.
// Credentials come from the profile section named by [s3cmdr]
// default_profile, falling back to [default].
func LoadConfig() (*Config, error) {
	var path string
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			path = p
			break
		}
	}
	if path == "" {
		return nil, fmt.Errorf(".s3cfg not found in any of the standard locations")
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	ui := file.Section("s3cmdr")
	profile := ui.Key("default_profile").MustString("default")

	section := file.Section(profile)
	cfg := &Config{
		AccessKey: section.Key("access_key").String(),
		SecretKey: section.Key("secret_key").String(),
		HostBase:  section.Key("host_base").MustString("s3.amazonaws.com"),
		UseHTTPS:  section.Key("use_https").MustBool(true),
		Region:    section.Key("bucket_location").MustString("us-east-1"),
		Theme:     ui.Key("theme").MustString(defaultThemeName),
		Profile:   profile,
		path:      path,
	}

	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("access_key and secret_key must be set in section [%s] of %s", profile, path)
	}
	return cfg, nil
}

// EndpointURL returns the S3 endpoint built from the host settings.
func (c *Config) EndpointURL() string {
	protocol := "https"
	if !c.UseHTTPS {
		protocol = "http"
	}
	return fmt.Sprintf("%s://%s", protocol, c.HostBase)
}

// SaveTheme writes the current theme name back to the config file so a
// theme switched at runtime sticks across sessions.
func (c *Config) SaveTheme(theme string) error {
	c.Theme = theme
	if c.path == "" {
		return nil
	}
	file, err := ini.Load(c.path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", c.path, err)
	}
	file.Section("s3cmdr").Key("theme").SetValue(theme)
	return file.SaveTo(c.path)
}

// InteractiveSetup prompts for the minimum viable configuration and
// writes it to ~/.s3cfg. Used on first run when no config exists.
func InteractiveSetup() (*Config, error) {
	scanner := bufio.NewScanner(os.Stdin)
	readLine := func(prompt string) (string, error) {
		fmt.Print(prompt)
		if !scanner.Scan() {
			return "", fmt.Errorf("failed to read input")
		}
		return strings.TrimSpace(scanner.Text()), nil
	}

	fmt.Println("s3cmdr setup")
	fmt.Println("No .s3cfg configuration file found. Create one now? (y/N)")
	answer, err := readLine("> ")
	if err != nil {
		return nil, err
	}
	if a := strings.ToLower(answer); a != "y" && a != "yes" {
		return nil, fmt.Errorf("setup declined")
	}

	cfg := &Config{Theme: defaultThemeName, Profile: "default"}

	if cfg.AccessKey, err = readLine("Access Key ID: "); err != nil {
		return nil, err
	}
	if cfg.AccessKey == "" {
		return nil, fmt.Errorf("access key cannot be empty")
	}
	if cfg.SecretKey, err = readLine("Secret Access Key: "); err != nil {
		return nil, err
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("secret key cannot be empty")
	}
	if cfg.HostBase, err = readLine("S3 endpoint (default: s3.amazonaws.com): "); err != nil {
		return nil, err
	}
	if cfg.HostBase == "" {
		cfg.HostBase = "s3.amazonaws.com"
	}
	if cfg.Region, err = readLine("Region (default: us-east-1): "); err != nil {
		return nil, err
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	// Local MinIO endpoints are normally plain HTTP.
	cfg.UseHTTPS = !strings.Contains(cfg.HostBase, "localhost") &&
		!strings.Contains(cfg.HostBase, "127.0.0.1")

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	cfg.path = filepath.Join(home, ".s3cfg")
	if err := saveConfig(cfg, cfg.path); err != nil {
		return nil, fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", cfg.path)
	return cfg, nil
}

func saveConfig(cfg *Config, path string) error {
	file := ini.Empty()

	section := file.Section(cfg.Profile)
	section.Key("access_key").SetValue(cfg.AccessKey)
	section.Key("secret_key").SetValue(cfg.SecretKey)
	section.Key("host_base").SetValue(cfg.HostBase)
	if cfg.UseHTTPS {
		section.Key("use_https").SetValue("True")
	} else {
		section.Key("use_https").SetValue("False")
	}
	section.Key("bucket_location").SetValue(cfg.Region)

	ui := file.Section("s3cmdr")
	ui.Key("theme").SetValue(cfg.Theme)
	ui.Key("default_profile").SetValue(cfg.Profile)

	return file.SaveTo(path)
}
