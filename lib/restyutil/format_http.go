package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := []string{}
	for _, k := range keys {
		for _, v := range headers[k] {
			lines = append(lines, fmt.Sprintf("%s: %s", k, v))
		}
	}
	return strings.Join(lines, "\n")
}

// form fields whose values never reach a dump
var redactedFormFields = []string{"password"}

const redacted = "REDACTED"

func redactForm(body string) string {
	values, err := url.ParseQuery(body)
	if err != nil {
		return body
	}
	changed := false
	for _, field := range redactedFormFields {
		if values.Has(field) {
			values.Set(field, redacted)
			changed = true
		}
	}
	if !changed {
		return body
	}
	return values.Encode()
}

func formatRequestBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("failed to get request body: %s", err.Error())
	}
	// resty sets GetBody even on requests without a body
	if body == nil {
		return ""
	}
	defer body.Close()

	readBody, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("failed to read request body: %s", err.Error())
	}
	if strings.HasPrefix(req.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		return redactForm(string(readBody))
	}
	return string(readBody)
}

// 1: request method
// 2: request url
// 3: request headers in ("Key: Value" format)
// 4: request body
// 5: response status
// 6: response url
// 7: response headers in ("Key: Value" format)
// 8: response body
const messageInfoTemplate = `---- REQUEST ----

%s %s

%s

%s

---- RESPONSE ----

%s %s

%s

%s`

func formatHttpMessage(res *resty.Response) string {
	var requestHeaders http.Header
	if res.Request.RawRequest != nil {
		requestHeaders = res.Request.RawRequest.Header
	}

	responseUrl := res.Request.URL
	if res.RawResponse != nil {
		redirected, err := res.RawResponse.Location()
		if err == nil {
			responseUrl = redirected.String()
		}
	}

	return fmt.Sprintf(
		messageInfoTemplate,

		res.Request.Method, res.Request.URL,
		formatHeaders(requestHeaders),
		formatRequestBody(res.Request.RawRequest),

		strconv.Itoa(res.StatusCode()), responseUrl,
		formatHeaders(res.Header()),
		res.String(),
	)
}
