package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type SystemConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

type StorageConfig struct {
	// Type selects the backend: "bolt" (local file, default) or "postgres"
	Type   string `yaml:"type" json:"type"`
	Path   string `yaml:"path" json:"path"`
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Name   string `yaml:"name" json:"name"`
	User   string `yaml:"user" json:"user"`
	Passwd string `yaml:"passwd" json:"passwd"`
}

type ReminderConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Wall-clock trigger time for the daily check
	Hour   int `yaml:"hour" json:"hour"`
	Minute int `yaml:"minute" json:"minute"`
	Second int `yaml:"second" json:"second"`
	// Title and Body template for reminder notifications; %s receives the product name
	Title string `yaml:"title" json:"title"`
	Body  string `yaml:"body" json:"body"`
}

type NotifyConfig struct {
	WebhookURL string `yaml:"webhook_url" json:"webhook_url"`
	Icon       string `yaml:"icon" json:"icon"`
	SmtpHost   string `yaml:"smtp_host" json:"smtp_host"`
	SmtpPort   int    `yaml:"smtp_port" json:"smtp_port"`
	SmtpUser   string `yaml:"smtp_user" json:"smtp_user"`
	SmtpPasswd string `yaml:"smtp_passwd" json:"smtp_passwd"`
	MailFrom   string `yaml:"mail_from" json:"mail_from"`
	MailTo     string `yaml:"mail_to" json:"mail_to"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SystemConfig   `yaml:"system" json:"system"`
	Web      WebConfig      `yaml:"web" json:"web"`
	Storage  StorageConfig  `yaml:"storage" json:"storage"`
	Reminder ReminderConfig `yaml:"reminder" json:"reminder"`
	Notify   NotifyConfig   `yaml:"notify" json:"notify"`
	Logger   LoggerConfig   `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetWebAddr() string {
	return fmt.Sprintf("%s:%d", c.Web.Host, c.Web.Port)
}

func (c *AppConfig) GetStoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return filepath.Join(c.System.Workdir, "products.db")
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

var DefaultAppConfig = &AppConfig{
	System: SystemConfig{
		Appid:    "ExpiryExpert",
		Location: "Asia/Jakarta",
		Workdir:  "/var/expiryexpert",
		Debug:    true,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1898,
	},
	Storage: StorageConfig{
		Type: "bolt",
		Host: "127.0.0.1",
		Port: 5432,
		Name: "expiryexpert",
		User: "postgres",
	},
	Reminder: ReminderConfig{
		Enabled: true,
		Hour:    16,
		Minute:  18,
		Second:  0,
		Title:   "Expiry Reminder",
		Body:    "Product %s is about to expire tomorrow",
	},
	Notify: NotifyConfig{
		SmtpPort: 25,
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/expiryexpert/expiryexpert.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvBoolValue(name string, f func(v bool)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue == "true" || evalue == "1" || evalue == "on")
	}
}

func setEnvIntValue(name string, f func(v int)) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	p, err := strconv.ParseInt(evalue, 10, 64)
	if err == nil {
		f(int(p))
	}
}

// LoadConfig reads the YAML config file when present and applies
// environment overrides on top of the built-in defaults.
func LoadConfig(cfile string) *AppConfig {
	// load .env first so the overrides below can see it
	_ = godotenv.Load()

	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "parse config %s error: %s\n", cfile, err.Error())
				cfg = DefaultAppConfig
			}
		}
	}

	setEnvValue("EXPIRYEXPERT_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvBoolValue("EXPIRYEXPERT_SYSTEM_DEBUG", func(v bool) { cfg.System.Debug = v })
	setEnvValue("EXPIRYEXPERT_SYSTEM_LOCATION", func(v string) { cfg.System.Location = v })

	setEnvValue("EXPIRYEXPERT_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvIntValue("EXPIRYEXPERT_WEB_PORT", func(v int) { cfg.Web.Port = v })

	setEnvValue("EXPIRYEXPERT_STORAGE_TYPE", func(v string) { cfg.Storage.Type = v })
	setEnvValue("EXPIRYEXPERT_STORAGE_PATH", func(v string) { cfg.Storage.Path = v })
	setEnvValue("EXPIRYEXPERT_STORAGE_HOST", func(v string) { cfg.Storage.Host = v })
	setEnvIntValue("EXPIRYEXPERT_STORAGE_PORT", func(v int) { cfg.Storage.Port = v })
	setEnvValue("EXPIRYEXPERT_STORAGE_NAME", func(v string) { cfg.Storage.Name = v })
	setEnvValue("EXPIRYEXPERT_STORAGE_USER", func(v string) { cfg.Storage.User = v })
	setEnvValue("EXPIRYEXPERT_STORAGE_PASSWD", func(v string) { cfg.Storage.Passwd = v })

	setEnvBoolValue("EXPIRYEXPERT_REMINDER_ENABLED", func(v bool) { cfg.Reminder.Enabled = v })
	setEnvIntValue("EXPIRYEXPERT_REMINDER_HOUR", func(v int) { cfg.Reminder.Hour = v })
	setEnvIntValue("EXPIRYEXPERT_REMINDER_MINUTE", func(v int) { cfg.Reminder.Minute = v })
	setEnvIntValue("EXPIRYEXPERT_REMINDER_SECOND", func(v int) { cfg.Reminder.Second = v })

	setEnvValue("EXPIRYEXPERT_NOTIFY_WEBHOOK_URL", func(v string) { cfg.Notify.WebhookURL = v })
	setEnvValue("EXPIRYEXPERT_NOTIFY_SMTP_HOST", func(v string) { cfg.Notify.SmtpHost = v })
	setEnvIntValue("EXPIRYEXPERT_NOTIFY_SMTP_PORT", func(v int) { cfg.Notify.SmtpPort = v })
	setEnvValue("EXPIRYEXPERT_NOTIFY_SMTP_USER", func(v string) { cfg.Notify.SmtpUser = v })
	setEnvValue("EXPIRYEXPERT_NOTIFY_SMTP_PASSWD", func(v string) { cfg.Notify.SmtpPasswd = v })
	setEnvValue("EXPIRYEXPERT_NOTIFY_MAIL_TO", func(v string) { cfg.Notify.MailTo = v })

	setEnvValue("EXPIRYEXPERT_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })
	setEnvBoolValue("EXPIRYEXPERT_LOGGER_FILE_ENABLE", func(v bool) { cfg.Logger.FileEnable = v })
	setEnvValue("EXPIRYEXPERT_LOGGER_FILENAME", func(v string) { cfg.Logger.Filename = v })

	return cfg
}
