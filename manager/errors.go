package manager

import "errors"

// ErrNotFound is returned by Frozen.Get and wrapped by the config
// loader when a referenced name (a schedule's or index's calendar, a
// day counter's schedule, an index's day_counter) is absent from the
// registry at resolution time. Unresolvable joint-calendar c1/c2
// references are reported by a separate error listing those entries.
var ErrNotFound = errors.New("manager: name not found")

// ErrInvalidValue is returned when a config enum string or date string
// is not recognized.
var ErrInvalidValue = errors.New("manager: invalid value")

// ErrJsonParse wraps a json.Unmarshal failure with field context.
var ErrJsonParse = errors.New("manager: malformed configuration")

// ErrICMAScheduleNotMaterializable is returned when a day_count entry
// names ICMAActualActual: its period bounds depend on a schedule's
// concrete effective/maturity dates, which a configuration file (built
// from a bare calculation_period_generator) does not carry. Callers
// must build the daycount.ICMAActualActual denominator themselves from
// daycount.NewICMAActualActual once schedule.Generate has produced real
// dates, rather than loading it out of the registry.
var ErrICMAScheduleNotMaterializable = errors.New("manager: ICMAActualActual day-count requires a materialized schedule; build it from schedule.Generate's output instead of loading it from config")
