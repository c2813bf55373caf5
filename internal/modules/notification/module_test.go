package notification_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/pulseboard/notification-relay/internal/modules/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModule_WiresEverything(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db := sqlx.NewDb(sqlDB, "sqlmock")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := notification.NewModule(db, logger)
	defer m.Stop()

	assert.NotNil(t, m.HTTPHandler())
	assert.NotNil(t, m.Service())
}

func TestModule_StopIsIdempotent(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db := sqlx.NewDb(sqlDB, "sqlmock")

	m := notification.NewModule(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.Stop()
	m.Stop()
}
