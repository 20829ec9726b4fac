package kross

import (
	"context"
	"encoding/json"
	"errors"
	"krossbooking/internal/components/telemetry"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testTenant   = "demo"
	testUsername = "front-desk"
	testPassword = "hunter2"
	testSession  = "s3ss10n"
)

type fakeKross struct {
	server *httptest.Server
	hits   atomic.Int64

	mutex       sync.Mutex
	loginStatus int
	page        []byte
	status      int
	payloads    []map[string]any
}

func newFakeKross(t *testing.T) *fakeKross {
	f := &fakeKross{
		loginStatus: http.StatusOK,
		page:        reservationsPage,
		status:      http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/"+testTenant+"/login/v2", f.login)
	mux.HandleFunc("/"+testTenant+"/v2/reservations", f.reservations)
	mux.HandleFunc("/other/login/v2", f.login)

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeKross) login(w http.ResponseWriter, r *http.Request) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if r.Method == http.MethodGet {
		http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: testSession, Path: "/"})
		w.WriteHeader(http.StatusOK)
		return
	}

	cookie, err := r.Cookie("PHPSESSID")
	if err != nil || cookie.Value != testSession {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	if r.FormValue("username") != testUsername || r.FormValue("password") != testPassword {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.WriteHeader(f.loginStatus)
}

func (f *fakeKross) reservations(w http.ResponseWriter, r *http.Request) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	cookie, err := r.Cookie("PHPSESSID")
	if err != nil || cookie.Value != testSession {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	var payload map[string]any
	err = json.Unmarshal([]byte(r.FormValue("zt4_data")), &payload)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.payloads = append(f.payloads, payload)

	w.Header().Set("content-type", "text/html")
	w.WriteHeader(f.status)
	_, _ = w.Write(f.page)
}

func (f *fakeKross) lastPayload() map[string]any {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if len(f.payloads) == 0 {
		return nil
	}
	return f.payloads[len(f.payloads)-1]
}

func (f *fakeKross) config() *Config {
	return &Config{
		BaseUrlTemplate: f.server.URL + "/" + TenantPlaceholder,
	}
}

func newTestClient(t *testing.T, f *fakeKross, rec *telemetry.Recorder) *Client {
	client, err := NewClient(Options{
		Tenant:    testTenant,
		Config:    f.config(),
		Telemetry: rec,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, client.Close())
	})
	return client
}

func TestLogin(t *testing.T) {
	f := newFakeKross(t)
	rec := telemetry.NewRecorder()
	client := newTestClient(t, f, rec)

	require.False(t, client.Authenticated())
	err := client.Login(context.Background(), testUsername, testPassword)
	require.NoError(t, err)
	require.True(t, client.Authenticated())
	require.Equal(t, int64(2), f.hits.Load())

	require.NotEmpty(t, rec.Find(telemetry.LEVEL_DEBUG, "resty.request"))
	require.NotEmpty(t, rec.Find(telemetry.LEVEL_DEBUG, report_client_login))
}

func TestLoginRejected(t *testing.T) {
	f := newFakeKross(t)
	rec := telemetry.NewRecorder()
	client := newTestClient(t, f, rec)

	err := client.Login(context.Background(), testUsername, "wrong")
	require.ErrorIs(t, err, ErrLogin)
	require.ErrorContains(t, err, "401")
	require.False(t, client.Authenticated())
	require.Len(t, rec.Find(telemetry.LEVEL_WARNING, report_client_login), 1)
}

func TestLoginOnlyAcceptsOk(t *testing.T) {
	f := newFakeKross(t)
	f.loginStatus = http.StatusNoContent
	client := newTestClient(t, f, telemetry.NewRecorder())

	err := client.Login(context.Background(), testUsername, testPassword)
	require.ErrorIs(t, err, ErrLogin)
	require.False(t, client.Authenticated())
}

func TestLoginTransportError(t *testing.T) {
	f := newFakeKross(t)
	client := newTestClient(t, f, telemetry.NewRecorder())
	f.server.Close()

	err := client.Login(context.Background(), testUsername, testPassword)
	require.ErrorIs(t, err, ErrLogin)
	require.False(t, client.Authenticated())
}

func TestRequestBeforeLogin(t *testing.T) {
	f := newFakeKross(t)
	client := newTestClient(t, f, telemetry.NewRecorder())

	_, err := client.RequestReservations(context.Background(), Query{})
	require.ErrorIs(t, err, ErrLogin)

	_, err = client.Reservations(context.Background(), Query{})
	require.ErrorIs(t, err, ErrLogin)
	var reservationsErr *ReservationsError
	require.ErrorAs(t, err, &reservationsErr)
	require.Zero(t, reservationsErr.StatusCode)

	require.Zero(t, f.hits.Load())
}

func TestSetTenantResetsAuthentication(t *testing.T) {
	f := newFakeKross(t)
	client := newTestClient(t, f, telemetry.NewRecorder())

	require.NoError(t, client.Login(context.Background(), testUsername, testPassword))
	require.True(t, client.Authenticated())

	require.NoError(t, client.SetTenant("other"))
	require.Equal(t, "other", client.Tenant())
	require.False(t, client.Authenticated())

	base, err := client.BaseUrl()
	require.NoError(t, err)
	require.Equal(t, f.server.URL+"/other", base)

	hits := f.hits.Load()
	_, err = client.RequestReservations(context.Background(), Query{})
	require.ErrorIs(t, err, ErrLogin)
	require.Equal(t, hits, f.hits.Load())
}

func TestConfigurationErrors(t *testing.T) {
	f := newFakeKross(t)

	_, err := NewClient(Options{Tenant: "not a tenant", Config: f.config()})
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = NewClient(Options{Config: &Config{BaseUrlTemplate: "https://krossbooking.com"}})
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = NewClient(Options{Config: &Config{RequestsPerSecond: -1}})
	require.ErrorIs(t, err, ErrConfiguration)

	client, err := NewClient(Options{Config: f.config(), Telemetry: telemetry.NewRecorder()})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.BaseUrl()
	require.ErrorIs(t, err, ErrConfiguration)
	err = client.Login(context.Background(), testUsername, testPassword)
	require.ErrorIs(t, err, ErrConfiguration)

	require.ErrorIs(t, client.SetTenant(""), ErrConfiguration)
	require.ErrorIs(t, client.SetTenant("demo.evil.com"), ErrConfiguration)
	require.ErrorIs(t, client.SetTenant("-demo"), ErrConfiguration)
	require.Empty(t, client.Tenant())
	require.Zero(t, f.hits.Load())
}

func TestValidateTenant(t *testing.T) {
	for _, tenant := range []string{"demo", "hotel-42", "A1"} {
		require.NoError(t, ValidateTenant(tenant), tenant)
	}
	for _, tenant := range []string{"", "-demo", "demo-", "demo.evil.com", "not a tenant", strings.Repeat("a", 64)} {
		require.ErrorIs(t, ValidateTenant(tenant), ErrConfiguration, tenant)
	}
}

func TestDefaultConfig(t *testing.T) {
	client, err := NewClient(Options{Tenant: "myhotel", Telemetry: telemetry.NewRecorder()})
	require.NoError(t, err)
	defer client.Close()

	base, err := client.BaseUrl()
	require.NoError(t, err)
	require.Equal(t, "https://myhotel.krossbooking.com", base)

	partial := Config{BaseUrlTemplate: "http://{tenant}.localhost"}.withDefaults()
	require.Equal(t, "/login/v2", partial.LoginPath)
	require.Equal(t, "/v2/reservations", partial.ReservationsPath)
	require.Equal(t, DefaultConfig().Timeout, partial.Timeout)
	require.False(t, partial.CloudflareBypass)
}

func TestReservations(t *testing.T) {
	f := newFakeKross(t)
	rec := telemetry.NewRecorder()
	client := newTestClient(t, f, rec)
	require.NoError(t, client.Login(context.Background(), testUsername, testPassword))

	q := Query{
		Filters: []Filter{
			{Field: FieldArrival, Operator: GreaterOrEqual, Value: "15/02/2025"},
		},
		Fields: []Field{FieldArrival, FieldCode, FieldDeparture, FieldArrival, FieldStatus},
	}

	table, err := client.ReservationsTable(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, []string{"Code", "Arrival", "Departure", "Status"}, table.Headers)
	require.Len(t, table.Rows, 2)

	payload := f.lastPayload()
	require.Equal(t, "reservations", payload["id"])
	require.Equal(t, ",arrival asc,", payload["sort"])
	require.Equal(t, "", payload["text"])
	require.Equal(t, true, payload["refresh_ajax"])
	require.Equal(t, []any{"cod_reservation", "arrival", "departure", "name_reservation_status"}, payload["columns"])
	require.Equal(t, "zt4_cond[arrival]=mau&arrival=15/02/2025", payload["filters"])

	records, err := client.Reservations(context.Background(), Query{})
	require.NoError(t, err)
	require.Equal(t, table.Records(), records)

	payload = f.lastPayload()
	require.Equal(t, []any{"cod_reservation"}, payload["columns"])
	require.NotContains(t, payload, "filters")

	// the fixture carries one short row and one row without a code
	require.Len(t, rec.Find(telemetry.LEVEL_WARNING, report_table_row), 2)
	require.Len(t, rec.Find(telemetry.LEVEL_INFO, report_table_row_code), 2)
}

func TestQueryPayload(t *testing.T) {
	payload, err := Query{}.payload()
	require.NoError(t, err)
	require.Equal(
		t,
		`{"id":"reservations","sort":",arrival asc,","text":"","refresh_ajax":true,"columns":["cod_reservation"]}`,
		payload,
	)

	payload, err = Query{
		Filters: []Filter{{Field: FieldNights, Operator: GreaterThan, Value: "2"}},
		Fields:  []Field{FieldCode, FieldCode},
	}.payload()
	require.NoError(t, err)
	require.Equal(
		t,
		`{"id":"reservations","sort":",arrival asc,","text":"","refresh_ajax":true,"columns":["cod_reservation"],"filters":"zt4_cond[nights]=ma&nights=2"}`,
		payload,
	)
}

func TestReservationsInvalidFilter(t *testing.T) {
	f := newFakeKross(t)
	client := newTestClient(t, f, telemetry.NewRecorder())
	require.NoError(t, client.Login(context.Background(), testUsername, testPassword))
	hits := f.hits.Load()

	_, err := client.Reservations(context.Background(), Query{
		Filters: []Filter{{Field: FieldOwner, Operator: Equal, Value: "x"}},
	})
	require.ErrorIs(t, err, ErrUnsupportedFilterField)
	require.Equal(t, hits, f.hits.Load())
}

func TestReservationsErrorStatus(t *testing.T) {
	f := newFakeKross(t)
	f.status = http.StatusInternalServerError
	f.page = []byte("internal error")
	rec := telemetry.NewRecorder()
	client := newTestClient(t, f, rec)
	require.NoError(t, client.Login(context.Background(), testUsername, testPassword))

	_, err := client.Reservations(context.Background(), Query{})
	require.Error(t, err)

	var reservationsErr *ReservationsError
	require.True(t, errors.As(err, &reservationsErr))
	require.Equal(t, http.StatusInternalServerError, reservationsErr.StatusCode)
	require.Equal(t, "internal error", reservationsErr.Body)
	require.ErrorContains(t, err, "500")
	require.Len(t, rec.Find(telemetry.LEVEL_BROKEN, report_client_request_reservations), 1)
	require.Len(t, rec.Find(telemetry.LEVEL_DEBUG, report_client_reservations), 1)
}

func TestReservationsMissingTable(t *testing.T) {
	f := newFakeKross(t)
	f.page = []byte("<html><body><form id=\"login\"></form></body></html>")
	client := newTestClient(t, f, telemetry.NewRecorder())
	require.NoError(t, client.Login(context.Background(), testUsername, testPassword))

	_, err := client.ReservationsTable(context.Background(), Query{})
	require.ErrorIs(t, err, ErrTableNotFound)

	var reservationsErr *ReservationsError
	require.ErrorAs(t, err, &reservationsErr)
	require.Equal(t, http.StatusOK, reservationsErr.StatusCode)
	require.Contains(t, reservationsErr.Body, `<form id="login">`)
}

type memoryOutput struct {
	mutex    sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id string, contents string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.messages[id] = contents
}

func TestDumpExchanges(t *testing.T) {
	f := newFakeKross(t)
	output := &memoryOutput{messages: map[string]string{}}
	client, err := NewClient(Options{
		Tenant:    testTenant,
		Config:    f.config(),
		Telemetry: telemetry.NewRecorder(),
		Dump:      output,
	})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Login(context.Background(), testUsername, testPassword))

	output.mutex.Lock()
	defer output.mutex.Unlock()
	require.Len(t, output.messages, 2)
	require.Contains(t, output.messages["1"], "GET "+f.server.URL+"/demo/login/v2")
	require.Contains(t, output.messages["2"], "POST "+f.server.URL+"/demo/login/v2")
	require.Contains(t, output.messages["2"], "username=front-desk")
	require.Contains(t, output.messages["2"], "password=REDACTED")
	require.NotContains(t, output.messages["2"], testPassword)
}

func TestRequestPacing(t *testing.T) {
	f := newFakeKross(t)
	config := f.config()
	config.RequestsPerSecond = 1000
	client, err := NewClient(Options{
		Tenant:    testTenant,
		Config:    config,
		Telemetry: telemetry.NewRecorder(),
	})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Login(context.Background(), testUsername, testPassword))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = client.Login(ctx, testUsername, testPassword)
	require.ErrorIs(t, err, ErrLogin)
}
