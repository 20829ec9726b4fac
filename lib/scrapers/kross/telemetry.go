package kross

import (
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("krossbooking.lib.scrapers.kross")
