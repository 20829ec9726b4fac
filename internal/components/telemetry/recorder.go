package telemetry

import (
	"strings"
	"sync"
)

type Level int

const (
	LEVEL_DEBUG Level = iota
	LEVEL_INFO
	LEVEL_WARNING
	LEVEL_BROKEN
	LEVEL_COUNT
)

func (l Level) String() string {
	switch l {
	case LEVEL_DEBUG:
		return "debug"
	case LEVEL_INFO:
		return "info"
	case LEVEL_WARNING:
		return "warning"
	case LEVEL_BROKEN:
		return "broken"
	case LEVEL_COUNT:
		return "count"
	}
	return "unknown"
}

type Entry struct {
	Level Level
	// Id is the report id, or the message for debug entries.
	Id     string
	Params []any
	Count  int64
}

// Recorder is an in-memory API used for asserting on reports in tests.
type Recorder struct {
	mutex   sync.Mutex
	entries []Entry
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) push(e Entry) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.entries = append(r.entries, e)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.push(Entry{Level: LEVEL_BROKEN, Id: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.push(Entry{Level: LEVEL_WARNING, Id: id, Params: params})
}

func (r *Recorder) ReportInfo(id string, params ...any) {
	r.push(Entry{Level: LEVEL_INFO, Id: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.push(Entry{Level: LEVEL_DEBUG, Id: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.push(Entry{Level: LEVEL_COUNT, Id: id, Count: count})
}

// Entries returns a copy of everything reported so far.
func (r *Recorder) Entries() []Entry {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Find returns the entries of the given level whose id ends with `suffix`,
// scoped ids ("kross: table.row") match on their unscoped part.
func (r *Recorder) Find(level Level, suffix string) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Level == level && strings.HasSuffix(e.Id, suffix) {
			out = append(out, e)
		}
	}
	return out
}
