package restyutil

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatRequestBodyWithoutBody(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://demo.krossbooking.com/login/v2", nil)
	require.NoError(t, err)
	req.GetBody = func() (io.ReadCloser, error) { return nil, nil }

	require.Equal(t, "", formatRequestBody(req))
	require.Equal(t, "", formatRequestBody(nil))
}

func TestFormatRequestBodyRedactsPassword(t *testing.T) {
	req, err := http.NewRequest(
		http.MethodPost,
		"https://demo.krossbooking.com/login/v2",
		strings.NewReader("password=hunter2&username=front-desk"),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body := formatRequestBody(req)
	require.Equal(t, "password=REDACTED&username=front-desk", body)
	require.NotContains(t, body, "hunter2")
}

func TestFormatRequestBodyKeepsOtherForms(t *testing.T) {
	req, err := http.NewRequest(
		http.MethodPost,
		"https://demo.krossbooking.com/v2/reservations",
		strings.NewReader(`zt4_data={"id":"reservations"}`),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	require.Equal(t, `zt4_data={"id":"reservations"}`, formatRequestBody(req))
}

func TestRedactForm(t *testing.T) {
	require.Equal(t, "password=REDACTED", redactForm("password=secret"))
	require.Equal(t, "username=front-desk", redactForm("username=front-desk"))
	require.Equal(t, "%zz", redactForm("%zz"))
}
