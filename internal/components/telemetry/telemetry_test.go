package telemetry

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := NewRecorder()
	tel := NewScopedAPI("kross", rec)

	tel.ReportBroken("client.login", fmt.Errorf("boom"))
	tel.ReportWarning("table.row", 3)
	tel.ReportInfo("table.row-code")
	tel.ReportDebug("payload", "{}")
	tel.ReportCount("table.rows", 7)

	entries := rec.Entries()
	require.Len(t, entries, 5)
	require.Equal(t, "kross: client.login", entries[0].Id)
	require.Equal(t, LEVEL_BROKEN, entries[0].Level)
	require.Equal(t, "kross: table.row", entries[1].Id)
	require.Equal(t, []any{3}, entries[1].Params)
	require.Equal(t, LEVEL_INFO, entries[2].Level)
	require.Equal(t, "kross: payload", entries[3].Id)
	require.Equal(t, int64(7), entries[4].Count)

	require.Len(t, rec.Find(LEVEL_WARNING, "table.row"), 1)
	require.Len(t, rec.Find(LEVEL_INFO, "table.row"), 0)
}

func TestSlogAPI(t *testing.T) {
	var buff bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buff, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tel := SlogAPI{Logger: logger}

	tel.ReportWarning("table.row", "short")
	require.Contains(t, buff.String(), "level=WARN")
	require.Contains(t, buff.String(), "id=table.row")
	require.Contains(t, buff.String(), "params.0=short")

	buff.Reset()
	tel.ReportInfo("table.row-code")
	require.Contains(t, buff.String(), "level=INFO")

	buff.Reset()
	tel.ReportCount("table.rows", 2)
	require.Contains(t, buff.String(), "n=2")
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	rec := NewRecorder()
	client := resty.New()
	InstrumentResty(client, rec)

	_, err := client.R().Get(server.URL)
	require.NoError(t, err)

	debug := rec.Find(LEVEL_DEBUG, report_resty_response)
	require.Len(t, debug, 1)
	require.Equal(t, uint64(1), debug[0].Params[0])
	require.Contains(t, debug[0].Params[2], "418")

	_, err = client.R().Get("http://127.0.0.1:0/unreachable")
	require.Error(t, err)
	require.Len(t, rec.Find(LEVEL_BROKEN, report_resty_response), 1)
}
