package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/parkiez/internal/analytics"
	"github.com/DukeRupert/parkiez/internal/domain"
)

func TestNewConfig_DevelopmentDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("BACKEND_URL", "")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://localhost:8081", cfg.BackendURL)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
	assert.Equal(t, devSessionSecret, cfg.SessionSecret)
	assert.Equal(t, domain.PasswordReportAll, cfg.PasswordPolicy)
	assert.Equal(t, analytics.DefaultLayout(), cfg.ChartLayout)
	assert.True(t, cfg.IsDevelopment())
}

func TestNewConfig_ProductionRequiresSessionSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	_, err := NewConfig()
	assert.Error(t, err)

	t.Setenv("SESSION_SECRET", "short")
	_, err = NewConfig()
	assert.Error(t, err)

	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.False(t, cfg.IsDevelopment())
}

func TestNewConfig_ChartLayoutOverrides(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("CHART_NARROW_BREAKPOINT", "1024")
	t.Setenv("CHART_NARROW_MARGIN", "32")
	t.Setenv("CHART_WIDE_WIDTH", "640")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.ChartLayout.NarrowBreakpoint)
	assert.Equal(t, 32, cfg.ChartLayout.NarrowMargin)
	assert.Equal(t, 640, cfg.ChartLayout.WideWidth)
	assert.Equal(t, analytics.DefaultWideHeight, cfg.ChartLayout.WideHeight)
}

func TestNewConfig_PasswordPolicy(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("PASSWORD_POLICY", "first")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.PasswordReportFirst, cfg.PasswordPolicy)

	t.Setenv("PASSWORD_POLICY", "last")
	_, err = NewConfig()
	assert.Error(t, err)
}
