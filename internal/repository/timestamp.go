package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/study-room-reservation/internal/model"
)

// stampLayout is how instants are written.  The fixed width keeps text
// columns in SQLite sortable; MySQL parses it into DATETIME.
const stampLayout = "2006-01-02 15:04:05.000000"

func stamp(t time.Time) string { return t.UTC().Format(stampLayout) }

func dateValue(t time.Time) string { return t.UTC().Format(model.DateLayout) }

var readLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	model.DateLayout,
}

// timeScanner reads DATE/DATETIME columns whether the driver hands back a
// time.Time (MySQL with parseTime) or text (SQLite).
type timeScanner struct{ dst *time.Time }

func (s timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*s.dst = v.UTC()
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	case nil:
		*s.dst = time.Time{}
		return nil
	}
	return fmt.Errorf("repository: cannot scan %T into time", src)
}

func (s timeScanner) parse(v string) error {
	v = strings.TrimSpace(v)
	for _, layout := range readLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			*s.dst = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("repository: unrecognised time %q", v)
}

// dateOnly drops any time-of-day a driver may have attached to a DATE value.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
