package kross

import (
	"context"
	devenv "krossbooking/dev/env"
	"krossbooking/internal/components/telemetry"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLiveReservations(t *testing.T) {
	config, err := devenv.GetStateConfig[devenv.KrossTestConfig]("kross_config.json5")
	if err != nil {
		t.Skip("skipping test because no valid test config was found at dev/.state/kross_config.json5")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*60)
	defer cancel()

	rec := telemetry.NewRecorder()
	client, err := NewClient(Options{
		Tenant:    config.Tenant,
		Telemetry: rec,
	})
	require.NoError(t, err)
	defer client.Close()

	err = client.Login(ctx, config.Username, config.Password)
	require.NoError(t, err)

	since := time.Now().AddDate(0, 0, -7).Format("02/01/2006")
	table, err := client.ReservationsTable(ctx, Query{
		Filters: []Filter{
			{Field: FieldArrival, Operator: GreaterOrEqual, Value: since},
		},
		Fields: []Field{FieldArrival, FieldDeparture, FieldStatus},
	})
	require.NoError(t, err)
	require.NotEmpty(t, table.Headers)
	for _, row := range table.Rows {
		require.Len(t, row, len(table.Headers))
		require.NotEmpty(t, row[0])
	}

	t.Logf("%d reservations arriving since %s", len(table.Rows), since)
	require.Empty(t, rec.Find(telemetry.LEVEL_BROKEN, ""))
}
