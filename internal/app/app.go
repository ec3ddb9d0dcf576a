package app

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bjo163/expiryexpert/config"
	"github.com/bjo163/expiryexpert/internal/domain"
	"github.com/bjo163/expiryexpert/internal/notify"
	"github.com/bjo163/expiryexpert/internal/reminder"
	"github.com/bjo163/expiryexpert/internal/store"
	"github.com/bjo163/expiryexpert/pkg/metrics"
)

type Application struct {
	appConfig     *config.AppConfig
	productStore  store.Store
	sched         *cron.Cron
	bus           EventBus.Bus
	configManager *ConfigManager
	remSched      *reminder.Scheduler
	toastHub      *notify.ToastHub
}

// Ensure Application implements all interfaces
var (
	_ StoreProvider     = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ SettingsProvider  = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Store() store.Store {
	return a.productStore
}

// OverrideStore replaces the application's store handle (used in tests).
func (a *Application) OverrideStore(s store.Store) {
	a.productStore = s
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	if err := os.MkdirAll(cfg.System.Workdir, 0o755); err != nil {
		zap.S().Errorf("workdir create failed: %v", err)
	}

	// Initialize metrics with workdir convention
	if err := metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	a.bus = EventBus.New()
	a.toastHub = notify.NewToastHub(a.bus)

	// Initialize product storage
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "bolt"
	}
	a.productStore = a.getStore(cfg.Storage)
	zap.S().Infof("Product storage ready, type: %s", cfg.Storage.Type)

	// Initialize the configuration manager
	a.configManager = NewConfigManager(cfg)

	// Initialize the reminder scheduler from the settings manager
	cm := a.configManager
	a.remSched = reminder.New(reminder.Config{
		Hour:   cm.GetInt("reminder", "hour"),
		Minute: cm.GetInt("reminder", "minute"),
		Second: cm.GetInt("reminder", "second"),
		Title:  cm.GetString("reminder", "title"),
		Body:   cm.GetString("reminder", "body"),
	}, a.productStore, a.buildNotifier(cfg.Notify), a.toastHub)

	a.initBusSubscribers()
	a.initJob()
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// getStore opens the configured storage backend, falling back to the
// local bolt file when the database is unreachable.
func (a *Application) getStore(sc config.StorageConfig) store.Store {
	switch sc.Type {
	case "postgres", "postgresql":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			sc.Host, sc.Port, sc.User, sc.Passwd, sc.Name)
		gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			gs, gerr := store.NewGormStore(gdb, store.WithGormBus(a.bus))
			if gerr == nil {
				return gs
			}
			err = gerr
		}
		zap.L().Error("database storage unavailable, falling back to bolt", zap.Error(err))
	}

	bs, err := store.NewBoltStore(a.appConfig.GetStoragePath(), store.WithBus(a.bus))
	if err != nil {
		zap.S().Panicf("open product storage: %v", err)
	}
	return bs
}

func (a *Application) buildNotifier(nc config.NotifyConfig) notify.Notifier {
	var channels []notify.Notifier
	if nc.WebhookURL != "" {
		channels = append(channels, notify.NewWebhookNotifier(nc.WebhookURL, nc.Icon))
	}
	if nc.SmtpHost != "" {
		channels = append(channels, notify.NewMailNotifier(
			nc.SmtpHost, nc.SmtpPort, nc.SmtpUser, nc.SmtpPasswd, nc.MailFrom, nc.MailTo))
	}
	return notify.NewMultiNotifier(channels...)
}

func (a *Application) initBusSubscribers() {
	_ = a.bus.Subscribe(store.TopicProductsSaved, func(count int) {
		metrics.SetGauge("products_total", int64(len(a.productStore.Load())))
	})
	_ = a.bus.Subscribe(store.TopicProductRemoved, func(id int64) {
		metrics.SetGauge("products_total", int64(len(a.productStore.Load())))
	})
}

// ConfigMgr returns the configuration manager
func (a *Application) ConfigMgr() *ConfigManager {
	return a.configManager
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Reminder returns the reminder scheduler
func (a *Application) Reminder() *reminder.Scheduler {
	return a.remSched
}

// Bus returns the in-process event bus
func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

// Toasts returns the in-app toast hub
func (a *Application) Toasts() *notify.ToastHub {
	return a.toastHub
}

// GetSettingsStringValue retrieves a string configuration value
func (a *Application) GetSettingsStringValue(category, key string) string {
	return a.configManager.GetString(category, key)
}

// GetSettingsInt64Value retrieves an int64 configuration value
func (a *Application) GetSettingsInt64Value(category, key string) int64 {
	return a.configManager.GetInt64(category, key)
}

// GetSettingsBoolValue retrieves a boolean configuration value
func (a *Application) GetSettingsBoolValue(category, key string) bool {
	return a.configManager.GetBool(category, key)
}

// StartBackgroundJobs arms the reminder scheduler when enabled.
func (a *Application) StartBackgroundJobs() {
	if a.configManager.GetBool("reminder", "enabled") {
		a.remSched.Start()
	}
}

// RunSweepNow removes every product already past its expiry date.
func (a *Application) RunSweepNow() (int, error) {
	return a.productStore.SweepExpired(domain.DateOf(time.Now()))
}

// Release releases application resources
func (a *Application) Release() {
	if a.remSched != nil {
		a.remSched.Stop()
	}

	if a.sched != nil {
		a.sched.Stop()
	}

	if a.productStore != nil {
		_ = a.productStore.Close()
	}

	_ = metrics.Close()
	_ = zap.L().Sync()
}
