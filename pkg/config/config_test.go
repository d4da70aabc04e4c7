package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, MarkPolicyAlways, cfg.Closing.MarkPolicy)
	assert.Equal(t, EventsDriverNone, cfg.Events.Driver)
	assert.Equal(t, 300, cfg.Closing.LockTTLSeconds)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_KafkaSinBrokers_Error(t *testing.T) {
	v := viper.New()
	v.Set("EVENTS_DRIVER", "kafka")

	_, err := fromViper(v)
	assert.Error(t, err, "kafka sin brokers debe fallar")
}

func TestFromViper_KafkaBrokersSeparadosPorComa(t *testing.T) {
	v := viper.New()
	v.Set("EVENTS_DRIVER", "KAFKA")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
}

func TestFromViper_MarkPolicyInvalida(t *testing.T) {
	v := viper.New()
	v.Set("CLOSING_MARK_POLICY", "never")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_PuertoComoString(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "9090")
	v.Set("CLOSING_MARK_POLICY", "on_success")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, MarkPolicyOnSuccess, cfg.Closing.MarkPolicy)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "dealroom", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/dealroom?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgresql://x"
	assert.Equal(t, "postgresql://x", c.ConnectionString())
}
