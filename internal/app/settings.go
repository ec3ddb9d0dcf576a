package app

import (
	"fmt"
	"sync"

	"github.com/spf13/cast"

	"github.com/bjo163/expiryexpert/config"
)

// ConfigManager serves runtime settings as category/key pairs with typed
// accessors, seeded from the application config.
type ConfigManager struct {
	mu     sync.RWMutex
	values map[string]interface{}
}

func settingsKey(category, key string) string {
	return fmt.Sprintf("%s.%s", category, key)
}

func NewConfigManager(cfg *config.AppConfig) *ConfigManager {
	m := &ConfigManager{values: make(map[string]interface{})}
	m.seed(cfg)
	return m
}

func (m *ConfigManager) seed(cfg *config.AppConfig) {
	defaults := map[string]interface{}{
		"system.appid":       cfg.System.Appid,
		"system.location":    cfg.System.Location,
		"system.debug":       cfg.System.Debug,
		"reminder.enabled":   cfg.Reminder.Enabled,
		"reminder.hour":      cfg.Reminder.Hour,
		"reminder.minute":    cfg.Reminder.Minute,
		"reminder.second":    cfg.Reminder.Second,
		"reminder.title":     cfg.Reminder.Title,
		"reminder.body":      cfg.Reminder.Body,
		"notify.webhook_url": cfg.Notify.WebhookURL,
		"notify.icon":        cfg.Notify.Icon,
		"notify.mail_to":     cfg.Notify.MailTo,
		"storage.type":       cfg.Storage.Type,
		"job.sweep_enabled":  true,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range defaults {
		m.values[k] = v
	}
}

// List returns a copy of every setting keyed as "category.key".
func (m *ConfigManager) List() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]interface{}, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

func (m *ConfigManager) Set(category, key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[settingsKey(category, key)] = value
}

func (m *ConfigManager) get(category, key string) interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[settingsKey(category, key)]
}

func (m *ConfigManager) GetString(category, key string) string {
	return cast.ToString(m.get(category, key))
}

func (m *ConfigManager) GetInt(category, key string) int {
	return cast.ToInt(m.get(category, key))
}

func (m *ConfigManager) GetInt64(category, key string) int64 {
	return cast.ToInt64(m.get(category, key))
}

func (m *ConfigManager) GetBool(category, key string) bool {
	return cast.ToBool(m.get(category, key))
}
