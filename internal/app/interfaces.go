package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"

	"github.com/bjo163/expiryexpert/config"
	"github.com/bjo163/expiryexpert/internal/notify"
	"github.com/bjo163/expiryexpert/internal/reminder"
	"github.com/bjo163/expiryexpert/internal/store"
)

// StoreProvider provides product persistence access
type StoreProvider interface {
	Store() store.Store
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides runtime settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
}

// SchedulerProvider provides cron scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// ReminderProvider provides the reminder scheduler
type ReminderProvider interface {
	Reminder() *reminder.Scheduler
}

// BusProvider provides the in-process event bus
type BusProvider interface {
	Bus() EventBus.Bus
}

// ToastProvider provides the in-app toast hub
type ToastProvider interface {
	Toasts() *notify.ToastHub
}

// AppContext combines all provider interfaces for full application context.
// Services should depend on specific providers or this combined interface.
type AppContext interface {
	StoreProvider
	ConfigProvider
	SettingsProvider
	SchedulerProvider
	ReminderProvider
	BusProvider
	ToastProvider

	// RunSweepNow removes every product already past its expiry date.
	RunSweepNow() (int, error)
}
