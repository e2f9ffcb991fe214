package observability_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"accord/internal/domain"
	"accord/internal/observability"
)

func TestMetrics_RecordMigration(t *testing.T) {
	m := observability.NewMetrics(nil)
	m.RecordMigration(domain.MigrationSummary{
		Total: 3,
		Details: []domain.MigrationRecord{
			{Status: domain.MigrationFixed},
			{Status: domain.MigrationFixed},
			{Status: domain.MigrationError},
		},
	}, 0.2)

	require.Equal(t, 2.0, testutil.ToFloat64(m.MigrationProfilesTotal.WithLabelValues("fixed")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.MigrationProfilesTotal.WithLabelValues("error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.MigrationRunsTotal.WithLabelValues("live")))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a := observability.NewMetrics(nil)
	b := observability.NewMetrics(nil)
	a.RecordDecryptFailure()
	require.Equal(t, 1.0, testutil.ToFloat64(a.DecryptFailuresTotal))
	require.Equal(t, 0.0, testutil.ToFloat64(b.DecryptFailuresTotal))
}

func TestLogger_DecryptFailedOmitsPayload(t *testing.T) {
	var buf bytes.Buffer
	log := observability.NewLogger("accord-test", "dev", "debug", &buf)
	log.DecryptFailed("m-1", "user-A", "user-B", errors.New("decryption failed"))

	out := buf.String()
	require.Contains(t, out, `"message_id":"m-1"`)
	require.Contains(t, out, `"service":"accord-test"`)
	require.False(t, strings.Contains(out, "plaintext"))
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := observability.NewLogger("accord-test", "dev", "warn", &buf)
	log.Info("hidden")
	require.Empty(t, buf.String())
	log.Warn("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestLogger_Listening(t *testing.T) {
	var buf bytes.Buffer
	log := observability.NewLogger("accordd", "dev", "info", &buf).WithComponent("server")
	log.Listening("127.0.0.1:8080")

	out := buf.String()
	require.Contains(t, out, `"addr":"127.0.0.1:8080"`)
	require.Contains(t, out, `"component":"server"`)
}
