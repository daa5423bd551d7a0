package config

import (
	"os"
	"path/filepath"
)

const configTemplate = `# neo-trader configuration

[client]
# API environment: "prod" or "uat"
environment = "prod"
# Per-request timeout in seconds
timeout_seconds = 10
# Retry budget for transient failures
retry_attempts = 3

[ui]
color_enabled = true
date_format = "2006-01-02"
`

const credentialsTemplate = `# neo-trader credentials
# Keep this file private (chmod 600).

[neo]
consumer_key = ""
mobile_number = "+91"
ucc = ""
# pan = ""
# password = ""
mpin = ""
# Base32 TOTP secret for auto-generated login codes
totp_secret = ""
`

func createTemplateConfig(configDir string) error {
	return writeTemplate(configDir, "config.toml", configTemplate, 0644)
}

func createTemplateCredentials(configDir string) error {
	return writeTemplate(configDir, "credentials.toml", credentialsTemplate, 0600)
}

func writeTemplate(configDir, name, content string, perm os.FileMode) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	path := filepath.Join(configDir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(content), perm)
}
