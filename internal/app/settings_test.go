package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjo163/expiryexpert/config"
	"github.com/bjo163/expiryexpert/internal/domain"
	"github.com/bjo163/expiryexpert/internal/notify"
	"github.com/bjo163/expiryexpert/internal/store"
)

func TestConfigManagerSeedsFromAppConfig(t *testing.T) {
	cm := NewConfigManager(config.DefaultAppConfig)

	assert.Equal(t, config.DefaultAppConfig.Reminder.Hour, cm.GetInt("reminder", "hour"))
	assert.Equal(t, config.DefaultAppConfig.Reminder.Title, cm.GetString("reminder", "title"))
	assert.True(t, cm.GetBool("job", "sweep_enabled"))
	assert.Contains(t, cm.List(), "reminder.body")
}

func TestConfigManagerSetOverridesSeed(t *testing.T) {
	cm := NewConfigManager(config.DefaultAppConfig)

	cm.Set("reminder", "hour", 9)
	cm.Set("job", "sweep_enabled", "false")

	assert.Equal(t, 9, cm.GetInt("reminder", "hour"))
	assert.False(t, cm.GetBool("job", "sweep_enabled"))
}

// newSweepTestApp seeds a stale product the post-save sweep cannot touch
// by pinning the store clock far in the past.
func newSweepTestApp(t *testing.T) (*Application, store.Store) {
	t.Helper()
	past := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	s, err := store.NewBoltStore(filepath.Join(t.TempDir(), "products.db"),
		store.WithNow(func() time.Time { return past }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Save([]domain.Product{
		{ID: 1, Name: "stale", Category: domain.CategoryFood, ExpiryDate: domain.NewDate(2020, time.June, 1)},
	}))

	a := &Application{
		appConfig:     config.DefaultAppConfig,
		productStore:  s,
		configManager: NewConfigManager(config.DefaultAppConfig),
		toastHub:      notify.NewToastHub(EventBus.New()),
	}
	return a, s
}

func TestSweepTaskHonorsDisabledSetting(t *testing.T) {
	a, s := newSweepTestApp(t)

	a.ConfigMgr().Set("job", "sweep_enabled", false)
	a.SchedSweepExpiredTask()
	assert.Len(t, s.Load(), 1)

	a.ConfigMgr().Set("job", "sweep_enabled", true)
	a.SchedSweepExpiredTask()
	assert.Empty(t, s.Load())
}
