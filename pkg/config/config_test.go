package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, DriverPQ, cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, "X-Session-ID", cfg.Session.Header)
	assert.True(t, cfg.Roster.RequireProfileImage)
	assert.False(t, cfg.Roster.RequireSession)
	assert.Empty(t, cfg.Lecture.DefaultID)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxBodyBytes)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DB_DRIVER", "PGX")
	v.Set("DB_QUERY_TIMEOUT", "750ms")
	v.Set("LECTURE_DEFAULT_ID", " CS101_L1 ")
	v.Set("ROSTER_REQUIRE_PROFILE_IMAGE", false)
	v.Set("ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	v.Set("SESSION_TTL", "not-a-duration")

	cfg := fromViper(v)
	assert.Equal(t, DriverPGX, cfg.Database.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.Database.QueryTimeout)
	assert.Equal(t, "CS101_L1", cfg.Lecture.DefaultID)
	assert.False(t, cfg.Roster.RequireProfileImage)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 8*time.Hour, cfg.Session.TTL)
}
