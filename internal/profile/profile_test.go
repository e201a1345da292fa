package profile

import (
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CHATMEET_SUBMIT_TIMEOUT",
		"CHATMEET_SUBMIT_RATE",
		"CHATMEET_SUBMIT_BURST",
		"CHATMEET_BATCH_CONCURRENCY",
	} {
		t.Setenv(key, "")
	}
}

// TestProfileDefaults 测试默认配置
func TestProfileDefaults(t *testing.T) {
	clearEnvVars(t)

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, DefaultSubmitTimeout, p.SubmitTimeout)
	assert.Equal(t, DefaultSubmitRate, p.SubmitRate)
	assert.Equal(t, DefaultSubmitBurst, p.SubmitBurst)
	assert.Equal(t, DefaultBatchConcurrency, p.BatchConcurrency)
}

// TestProfileFromEnv 测试从环境变量读取配置
func TestProfileFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		check    func(t *testing.T, p *Profile)
	}{
		{
			name:     "CHATMEET_SUBMIT_TIMEOUT",
			envVar:   "CHATMEET_SUBMIT_TIMEOUT",
			envValue: "750ms",
			check:    func(t *testing.T, p *Profile) { assert.Equal(t, 750*time.Millisecond, p.SubmitTimeout) },
		},
		{
			name:     "CHATMEET_SUBMIT_RATE",
			envVar:   "CHATMEET_SUBMIT_RATE",
			envValue: "2.5",
			check:    func(t *testing.T, p *Profile) { assert.Equal(t, 2.5, p.SubmitRate) },
		},
		{
			name:     "CHATMEET_SUBMIT_BURST",
			envVar:   "CHATMEET_SUBMIT_BURST",
			envValue: "3",
			check:    func(t *testing.T, p *Profile) { assert.Equal(t, 3, p.SubmitBurst) },
		},
		{
			name:     "CHATMEET_BATCH_CONCURRENCY",
			envVar:   "CHATMEET_BATCH_CONCURRENCY",
			envValue: "16",
			check:    func(t *testing.T, p *Profile) { assert.Equal(t, 16, p.BatchConcurrency) },
		},
		{
			name:     "invalid value falls back",
			envVar:   "CHATMEET_SUBMIT_BURST",
			envValue: "lots",
			check:    func(t *testing.T, p *Profile) { assert.Equal(t, DefaultSubmitBurst, p.SubmitBurst) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			t.Setenv(tt.envVar, tt.envValue)

			p := &Profile{}
			p.FromEnv()
			tt.check(t, p)
		})
	}
}

func TestProfileValidate(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := &Profile{Mode: "unknown"}
		require.NoError(t, p.Validate())
		assert.Equal(t, "demo", p.Mode)
		assert.Equal(t, "memory", p.Driver)
		assert.Equal(t, DefaultSubmitTimeout, p.SubmitTimeout)
		assert.Equal(t, DefaultBatchConcurrency, p.BatchConcurrency)
		assert.True(t, p.IsDev())
	})

	t.Run("sqlite dsn derived from data dir", func(t *testing.T) {
		dir := t.TempDir()
		p := &Profile{Mode: "prod", Driver: "sqlite", Data: dir}
		require.NoError(t, p.Validate())
		assert.Equal(t, filepath.Join(dir, "chatmeet_prod.db"), p.DSN)
		assert.False(t, p.IsDev())
	})

	t.Run("sqlite missing data dir", func(t *testing.T) {
		p := &Profile{Mode: "dev", Driver: "sqlite", Data: filepath.Join(t.TempDir(), "missing")}
		assert.Error(t, p.Validate())
	})

	t.Run("postgres requires dsn", func(t *testing.T) {
		p := &Profile{Mode: "dev", Driver: "postgres"}
		assert.Error(t, p.Validate())
	})

	t.Run("unknown driver", func(t *testing.T) {
		p := &Profile{Mode: "dev", Driver: "mysql"}
		assert.Error(t, p.Validate())
	})

	t.Run("timezone", func(t *testing.T) {
		p := &Profile{Mode: "dev", Timezone: "Asia/Shanghai"}
		require.NoError(t, p.Validate())
		assert.Equal(t, "Asia/Shanghai", p.Location().String())

		bad := &Profile{Mode: "dev", Timezone: "Mars/Olympus"}
		assert.Error(t, bad.Validate())
		assert.Equal(t, time.Local, bad.Location())
	})
}
