package server

import (
	"context"
	"testing"
	"time"

	"github.com/logicspark/logicspark/internal/logging"
	"github.com/logicspark/logicspark/internal/server/config"
	"github.com/logicspark/logicspark/internal/server/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.SecretKey = "test-secret"
	return c
}

func TestNewArchiver_DisabledWithoutBucket(t *testing.T) {
	a, err := newArchiver(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestNewDispatcher_DrainsImmediatelyWhenIdle(t *testing.T) {
	d := newDispatcher(testConfig(), logging.Nop{})
	require.NotNil(t, d)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, d.Wait(ctx))
}

func TestOpenStore_BadDSN(t *testing.T) {
	c := testConfig()
	c.DatabaseDSN = "postgres://u:p@localhost:notaport/db"

	_, _, err := OpenStore(context.Background(), c)
	assert.ErrorContains(t, err, "db init error")
}

func TestRunners(t *testing.T) {
	c := testConfig()
	app := &App{config: c, logger: logging.Nop{}, dispatcher: notify.NewDispatcher(notify.Nop{}, "", "", logging.Nop{})}

	r := app.runners()
	assert.Contains(t, r, "http")
	assert.Contains(t, r, "grpc")

	c.GRPCHealthAddr = ""
	r = app.runners()
	assert.Contains(t, r, "http")
	assert.NotContains(t, r, "grpc")
}
