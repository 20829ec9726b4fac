package chrono

import "time"

// API is the clock everything that needs "today" should depend on.
type API interface {
	Now() time.Time
	Location() *time.Location
}

// StandardImpl reads the system clock in a fixed location, dates are
// derived with Year()/Month()/Day() so the location must be the hotel's and
// not the machine's.
type StandardImpl struct {
	location *time.Location
}

func NewStandardImpl(location string) (StandardImpl, error) {
	loc, err := time.LoadLocation(location)
	if err != nil {
		return StandardImpl{}, err
	}
	return StandardImpl{location: loc}, nil
}

func (s StandardImpl) Now() time.Time {
	return time.Now().In(s.location)
}

func (s StandardImpl) Location() *time.Location {
	return s.location
}

// FixedImpl always returns the same instant.
type FixedImpl struct {
	Time time.Time
}

func (f FixedImpl) Now() time.Time {
	return f.Time
}

func (f FixedImpl) Location() *time.Location {
	return f.Time.Location()
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
