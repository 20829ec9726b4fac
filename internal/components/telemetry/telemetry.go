package telemetry

import (
	"fmt"
	"krossbooking/internal/components/assert"
)

// API is an abstraction over logging/metrics.
// This allows for assertions and tests for working logging/metrics to exist.
//
// note: fault injection point
type API interface {
	// ReportBroken reports a component that has broken in a way that should be addressed.
	//
	// The `id` is a fully qualified identifier that should indicate what **component** broke, not what specific piece
	// of the implementation of a component broke. If the scraper fails to fetch the reservations page inside
	// `Client.RequestReservations`, the id should be `client.request-reservations`, no more granular than that.
	// If you need to disambiguate and specify that it was HTTP that failed, add a param or wrap the error with
	// fmt.Errorf.
	//
	// Formatting rules:
	// 1) all lowercase
	// 2) use underscores for large components
	// 3) use dashes for methods part of a larger component
	//
	// Note: an id is just a string that helps you locate where something is, it does not need to carry
	// additional semantic information like whether or not something broke. Ids like `table.broken-row`
	// should just be `table.row`.
	ReportBroken(id string, params ...any)

	// ReportWarning reports a scenario that does not necessarily indicate brokenness, but may be subject to investigation
	//
	// For what value to provide as `id` refer to ReportBroken.
	ReportWarning(id string, params ...any)

	// ReportInfo reports an expected event that is still worth noticing when reading logs.
	//
	// For what value to provide as `id` refer to ReportBroken.
	ReportInfo(id string, params ...any)

	// ReportDebug reports some debug information that will be ignored in production
	ReportDebug(msg string, params ...any)

	// ReportCount reports the current count of a specific event at the current time, these counts should
	// not be summed but interpreted as points of data over time.
	//
	// For what value to provide as `id` refer to ReportBroken.
	ReportCount(id string, count int64)
}

// ScopedAPI is a telemetry API that attaches a namespace for a given API, kind of like creating a
// "sub" logger using things like log.New(), in which you can define the prefix for the logs.
type ScopedAPI struct {
	namespace string
	inner     API
}

// NewScopedAPI creates a ScopedAPI out of a given namespace and another api.
func NewScopedAPI(namespace string, inner API) ScopedAPI {
	assert.NotEmptyStr(namespace)
	assert.NotNil(inner)
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportInfo(id string, params ...any) {
	s.inner.ReportInfo(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(fmt.Sprintf("%s: %s", s.namespace, msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(fmt.Sprintf("%s: %s", s.namespace, id), count)
}
