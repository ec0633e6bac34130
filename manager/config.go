package manager

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/meenmo/ratecore/calendar"
	"github.com/meenmo/ratecore/daycount"
	"github.com/meenmo/ratecore/period"
	"github.com/meenmo/ratecore/rateindex"
	"github.com/meenmo/ratecore/schedule"
)

// ConfigFile is the top-level configuration shape: three required
// arrays plus an optional fourth. Each element carries at least a name
// and a type discriminator.
type ConfigFile struct {
	HolidayCalendar   []calendarEntry   `json:"holiday_calendar"`
	Schedule          []scheduleEntry   `json:"schedule"`
	DayCount          []dayCountEntry   `json:"day_count"`
	InterestRateIndex []indexEntry      `json:"interest_rate_index"`
}

type calendarEntry struct {
	Name                   string                 `json:"name"`
	CalendarType           string                 `json:"calendar_type"`
	Weekends               []string               `json:"weekends"`
	RecurringHolidays      []recurringHolidayEntry `json:"recurring_holidays"`
	AdditionalHolidays     []string               `json:"additional_holidays"`
	AdditionalBusinessDays []string               `json:"additional_business_days"`
	Precomputation         *precomputationEntry   `json:"precomputation"`
	C1                     string                 `json:"c1"`
	C2                     string                 `json:"c2"`
	MethodOfJoint          string                 `json:"method_of_joint"`
}

type recurringHolidayEntry struct {
	HolidayType       string         `json:"holiday_type"`
	Month             int            `json:"month"`
	Day               int            `json:"day"`
	Weekday           string         `json:"weekday"`
	N                 int            `json:"n"`
	ShiftDays         int            `json:"shift_days"`
	WeekendAdjustment map[string]int `json:"weekend_adjustment"`
}

type precomputationEntry struct {
	Apply     bool `json:"apply"`
	StartYear int  `json:"start_year"`
	EndYear   int  `json:"end_year"`
}

type adjusterEntry struct {
	Convention string `json:"convention"`
	Eom        bool   `json:"eom"`
}

type relativeDateGeneratorEntry struct {
	Shape        string        `json:"shape"`
	Anchor       string        `json:"anchor"`
	Days         int           `json:"days"`
	EveryNPeriod int           `json:"every_n_period"`
	Direction    string        `json:"direction"`
	Calendar     string        `json:"calendar"`
	Adjuster     adjusterEntry `json:"adjuster"`
}

type calculationPeriodGeneratorEntry struct {
	StartLag         int           `json:"start_lag"`
	Frequency        string        `json:"frequency"`
	FreqAdjuster     adjusterEntry `json:"freq_adjuster"`
	MaturityAdjuster adjusterEntry `json:"maturity_adjuster"`
	Mode             string        `json:"mode"`
	Direction        string        `json:"direction"`
	StubConvention   string        `json:"stub_convention"`
	Calendar         string        `json:"calendar"`
}

type scheduleEntry struct {
	Name                       string                      `json:"name"`
	CalculationPeriodGenerator calculationPeriodGeneratorEntry `json:"calculation_period_generator"`
	FixingDateGenerator        *relativeDateGeneratorEntry `json:"fixing_date_generator"`
	PaymentDateGenerator       *relativeDateGeneratorEntry `json:"payment_date_generator"`
}

type numeratorEntry struct {
	NumeratorType string `json:"numerator_type"`
}

type denominatorEntry struct {
	DenominatorType string  `json:"dominator_type"`
	D               float64 `json:"d"`
	FreqMonths      int     `json:"freq_months"`
}

type dayCountEntry struct {
	Name       string           `json:"name"`
	Numerator  numeratorEntry   `json:"numerator"`
	Dominator  denominatorEntry `json:"dominator"`
	IncludeD1  bool             `json:"include_d1"`
	IncludeD2  bool             `json:"include_d2"`
	Schedule   string           `json:"schedule"`
}

type indexEntry struct {
	Name      string          `json:"name"`
	IndexType string          `json:"index_type"`
	Props     json.RawMessage `json:"props"`
}

type indexProps struct {
	Tenor               string `json:"tenor"`
	StartLag            int    `json:"start_lag"`
	Calendar            string `json:"calendar"`
	Adjuster            adjusterEntry `json:"adjuster"`
	DayCounter          string `json:"day_counter"`
	ReferenceCurveName  string `json:"reference_curve_name"`
	LookbackDays        int    `json:"lookback_days"`
	LockoutDays         int    `json:"lockout_days"`
	Fixing              string `json:"fixing"`
	MissingFixing       string `json:"missing_fixing"`
	ResultCompound      string `json:"result_compound"`
	PerYearN            int    `json:"per_year_n"`
}

// ScheduleSpec pairs a resolved schedule.Generator with the calendar
// names its fixing/payment date generators read from, since
// schedule.Generate takes those calendars as explicit arguments rather
// than storing them on the Generator itself.
type ScheduleSpec struct {
	Generator      schedule.Generator
	FixingCalendar string
	PaymentCalendar string
}

// Registry holds every frozen object a loaded configuration produced.
type Registry struct {
	Calendars  *Frozen[calendar.HolidayCalendar]
	Schedules  *Frozen[ScheduleSpec]
	DayCounts  *Frozen[daycount.DayCounter]
	Indices    *Frozen[rateindex.Index]
}

// LoadConfig parses data and resolves every entry into its registry,
// retrying joint calendars across rounds until all dependencies
// resolve or no round makes progress.
func LoadConfig(data []byte) (*Registry, error) {
	var file ConfigFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJsonParse, err)
	}

	calendars, err := loadCalendars(file.HolidayCalendar)
	if err != nil {
		return nil, err
	}

	schedules, err := loadSchedules(file.Schedule, calendars)
	if err != nil {
		return nil, err
	}

	dayCounts, err := loadDayCounts(file.DayCount, schedules)
	if err != nil {
		return nil, err
	}

	indices, err := loadIndices(file.InterestRateIndex, calendars, dayCounts)
	if err != nil {
		return nil, err
	}

	return &Registry{
		Calendars: calendars,
		Schedules: schedules,
		DayCounts: dayCounts,
		Indices:   indices,
	}, nil
}

func loadCalendars(entries []calendarEntry) (*Frozen[calendar.HolidayCalendar], error) {
	builder := NewBuilder[calendar.HolidayCalendar]()

	var pending []calendarEntry
	for _, e := range entries {
		if e.CalendarType == "JointCalendar" {
			pending = append(pending, e)
			continue
		}
		cal, err := buildSimpleCalendar(e)
		if err != nil {
			return nil, fmt.Errorf("calendar %q: %w", e.Name, err)
		}
		builder.Set(e.Name, cal)
	}

	// Retry joint calendars across rounds until every dependency
	// resolves or a round makes no progress.
	for len(pending) > 0 {
		var next []calendarEntry
		progressed := false
		for _, e := range pending {
			c1, ok1 := builder.Get(e.C1)
			c2, ok2 := builder.Get(e.C2)
			if !ok1 || !ok2 {
				next = append(next, e)
				continue
			}
			kind, err := parseJointKind(e.MethodOfJoint)
			if err != nil {
				return nil, fmt.Errorf("calendar %q: %w", e.Name, err)
			}
			builder.Set(e.Name, calendar.NewJointCalendar(kind, c1, c2))
			progressed = true
		}
		if !progressed && len(next) > 0 {
			return nil, fmt.Errorf("calendar: unresolved joint calendars (circular or missing references): %v", names(next))
		}
		pending = next
	}

	return builder.Freeze(), nil
}

func names(entries []calendarEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func parseJointKind(s string) (calendar.JointKind, error) {
	switch s {
	case "Union":
		return calendar.Union, nil
	case "Intersection":
		return calendar.Intersection, nil
	default:
		return 0, fmt.Errorf("%w: method_of_joint %q", ErrInvalidValue, s)
	}
}

func buildSimpleCalendar(e calendarEntry) (calendar.HolidayCalendar, error) {
	weekends := make([]time.Weekday, 0, len(e.Weekends))
	for _, w := range e.Weekends {
		wd, err := parseWeekday(w)
		if err != nil {
			return nil, err
		}
		weekends = append(weekends, wd)
	}

	recurring := make([]calendar.RecurringRule, 0, len(e.RecurringHolidays))
	for _, rh := range e.RecurringHolidays {
		rule, err := buildRecurringRule(rh)
		if err != nil {
			return nil, err
		}
		recurring = append(recurring, rule)
	}

	additionalHolidays, err := parseDates(e.AdditionalHolidays)
	if err != nil {
		return nil, err
	}
	additionalBusinessDays, err := parseDates(e.AdditionalBusinessDays)
	if err != nil {
		return nil, err
	}

	base := calendar.NewRuleBasedCalendar(weekends, recurring, additionalHolidays, additionalBusinessDays)

	if e.Precomputation != nil && e.Precomputation.Apply {
		return calendar.NewPrecomputedCalendar(base, e.Precomputation.StartYear, e.Precomputation.EndYear), nil
	}
	return base, nil
}

func buildRecurringRule(e recurringHolidayEntry) (calendar.RecurringRule, error) {
	switch e.HolidayType {
	case "EasterRelated":
		return calendar.EasterRelatedRule{ShiftDays: e.ShiftDays}, nil
	case "FixedDate":
		adj := calendar.WeekendAdjustment{}
		if len(e.WeekendAdjustment) > 0 {
			adj.Shift = make(map[time.Weekday]int, len(e.WeekendAdjustment))
			for k, v := range e.WeekendAdjustment {
				wd, err := parseWeekday(k)
				if err != nil {
					return nil, err
				}
				adj.Shift[wd] = v
			}
		}
		return calendar.FixedDateRule{Month: time.Month(e.Month), Day: e.Day, Adjustment: adj}, nil
	case "NthWeekday":
		wd, err := parseWeekday(e.Weekday)
		if err != nil {
			return nil, err
		}
		return calendar.NthWeekdayRule{Month: time.Month(e.Month), Weekday: wd, N: e.N}, nil
	case "LastWeekday":
		wd, err := parseWeekday(e.Weekday)
		if err != nil {
			return nil, err
		}
		return calendar.LastWeekdayRule{Month: time.Month(e.Month), Weekday: wd}, nil
	default:
		return nil, fmt.Errorf("%w: holiday_type %q", ErrInvalidValue, e.HolidayType)
	}
}

func parseWeekday(s string) (time.Weekday, error) {
	switch s {
	case "Sunday":
		return time.Sunday, nil
	case "Monday":
		return time.Monday, nil
	case "Tuesday":
		return time.Tuesday, nil
	case "Wednesday":
		return time.Wednesday, nil
	case "Thursday":
		return time.Thursday, nil
	case "Friday":
		return time.Friday, nil
	case "Saturday":
		return time.Saturday, nil
	default:
		return 0, fmt.Errorf("%w: weekday %q", ErrInvalidValue, s)
	}
}

func parseDates(values []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, fmt.Errorf("%w: date %q: %v", ErrInvalidValue, v, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func parseAdjuster(e adjusterEntry) (calendar.BusinessDayAdjuster, error) {
	var conv calendar.Convention
	switch e.Convention {
	case "Unadjusted":
		conv = calendar.Unadjusted
	case "Following":
		conv = calendar.Following
	case "Preceding":
		conv = calendar.Preceding
	case "ModifiedFollowing":
		conv = calendar.ModifiedFollowing
	case "ModifiedPreceding":
		conv = calendar.ModifiedPreceding
	case "HalfMonthModifiedFollowing":
		conv = calendar.HalfMonthModifiedFollowing
	case "Nearest":
		conv = calendar.Nearest
	default:
		return calendar.BusinessDayAdjuster{}, fmt.Errorf("%w: convention %q", ErrInvalidValue, e.Convention)
	}
	return calendar.BusinessDayAdjuster{Convention: conv, EOM: e.Eom}, nil
}

func parseDirection(s string) (schedule.Direction, error) {
	switch s {
	case "Forward":
		return schedule.Forward, nil
	case "Backward":
		return schedule.Backward, nil
	default:
		return 0, fmt.Errorf("%w: direction %q", ErrInvalidValue, s)
	}
}

func loadSchedules(entries []scheduleEntry, calendars *Frozen[calendar.HolidayCalendar]) (*Frozen[ScheduleSpec], error) {
	builder := NewBuilder[ScheduleSpec]()
	for _, e := range entries {
		spec, err := buildScheduleSpec(e, calendars)
		if err != nil {
			return nil, fmt.Errorf("schedule %q: %w", e.Name, err)
		}
		builder.Set(e.Name, spec)
	}
	return builder.Freeze(), nil
}

func buildScheduleSpec(e scheduleEntry, calendars *Frozen[calendar.HolidayCalendar]) (ScheduleSpec, error) {
	cp := e.CalculationPeriodGenerator

	freq, err := period.Parse(cp.Frequency)
	if err != nil {
		return ScheduleSpec{}, err
	}
	freqAdj, err := parseAdjuster(cp.FreqAdjuster)
	if err != nil {
		return ScheduleSpec{}, err
	}
	matAdj, err := parseAdjuster(cp.MaturityAdjuster)
	if err != nil {
		return ScheduleSpec{}, err
	}
	direction, err := parseDirection(cp.Direction)
	if err != nil {
		return ScheduleSpec{}, err
	}
	stub, err := parseStubConvention(cp.StubConvention)
	if err != nil {
		return ScheduleSpec{}, err
	}
	mode, err := parseMode(cp.Mode)
	if err != nil {
		return ScheduleSpec{}, err
	}
	cal, err := calendars.Get(cp.Calendar)
	if err != nil {
		return ScheduleSpec{}, err
	}

	gen := schedule.Generator{
		StartLag:         cp.StartLag,
		Frequency:        freq,
		FreqAdjuster:     freqAdj,
		MaturityAdjuster: matAdj,
		Mode:             mode,
		Direction:        direction,
		StubConvention:   stub,
		Calendar:         cal,
	}

	spec := ScheduleSpec{Generator: gen}

	if e.FixingDateGenerator != nil {
		rdg, adj, err := buildRelativeDateGenerator(*e.FixingDateGenerator)
		if err != nil {
			return ScheduleSpec{}, err
		}
		gen.FixingDates = rdg
		gen.FixingAdjuster = adj
		spec.FixingCalendar = e.FixingDateGenerator.Calendar
	}
	if e.PaymentDateGenerator != nil {
		rdg, adj, err := buildRelativeDateGenerator(*e.PaymentDateGenerator)
		if err != nil {
			return ScheduleSpec{}, err
		}
		gen.PaymentDates = rdg
		gen.PaymentAdjuster = adj
		spec.PaymentCalendar = e.PaymentDateGenerator.Calendar
	}

	spec.Generator = gen
	return spec, nil
}

func parseMode(s string) (schedule.Mode, error) {
	switch s {
	case "Normal":
		return schedule.Normal, nil
	case "Recursive":
		return schedule.Recursive, nil
	default:
		return 0, fmt.Errorf("%w: mode %q", ErrInvalidValue, s)
	}
}

func parseStubConvention(s string) (schedule.StubConvention, error) {
	switch s {
	case "Extend":
		return schedule.Extend, nil
	case "Remove":
		return schedule.Remove, nil
	case "Retain":
		return schedule.Retain, nil
	case "Combine":
		return schedule.Combine, nil
	case "SmartCombine":
		return schedule.SmartCombine, nil
	default:
		return 0, fmt.Errorf("%w: stub_convention %q", ErrInvalidValue, s)
	}
}

func buildRelativeDateGenerator(e relativeDateGeneratorEntry) (schedule.RelativeDateGenerator, calendar.BusinessDayAdjuster, error) {
	adj, err := parseAdjuster(e.Adjuster)
	if err != nil {
		return nil, calendar.BusinessDayAdjuster{}, err
	}

	var anchor schedule.Anchor
	switch e.Anchor {
	case "Start":
		anchor = schedule.AnchorStart
	case "End":
		anchor = schedule.AnchorEnd
	default:
		return nil, calendar.BusinessDayAdjuster{}, fmt.Errorf("%w: anchor %q", ErrInvalidValue, e.Anchor)
	}

	base := schedule.ShiftDays{Anchor: anchor, Days: e.Days}

	switch e.Shape {
	case "ShiftDays":
		return base, adj, nil
	case "FrequencyRatio":
		direction, err := parseDirection(e.Direction)
		if err != nil {
			return nil, calendar.BusinessDayAdjuster{}, err
		}
		return schedule.FrequencyRatio{EveryNPeriod: e.EveryNPeriod, Direction: direction, Base: base}, adj, nil
	default:
		return nil, calendar.BusinessDayAdjuster{}, fmt.Errorf("%w: shape %q", ErrInvalidValue, e.Shape)
	}
}

func loadDayCounts(entries []dayCountEntry, schedules *Frozen[ScheduleSpec]) (*Frozen[daycount.DayCounter], error) {
	builder := NewBuilder[daycount.DayCounter]()
	for _, e := range entries {
		dc, err := buildDayCounter(e, schedules)
		if err != nil {
			return nil, fmt.Errorf("day_count %q: %w", e.Name, err)
		}
		builder.Set(e.Name, dc)
	}
	return builder.Freeze(), nil
}

func buildDayCounter(e dayCountEntry, schedules *Frozen[ScheduleSpec]) (daycount.DayCounter, error) {
	var num daycount.Numerator
	switch e.Numerator.NumeratorType {
	case "Actual":
		num = daycount.Actual{}
	case "NoLeap":
		num = daycount.NoLeap{}
	case "One":
		num = daycount.One{}
	case "ThirtyE360":
		num = daycount.Thirty30{Adjustment: daycount.ThirtyE360}
	case "Thirty360US":
		num = daycount.Thirty30{Adjustment: daycount.Thirty360US}
	default:
		return daycount.DayCounter{}, fmt.Errorf("%w: numerator_type %q", ErrInvalidValue, e.Numerator.NumeratorType)
	}

	var denom daycount.Denominator
	switch e.Dominator.DenominatorType {
	case "Const":
		denom = daycount.Const{D: e.Dominator.D}
	case "ISDAActualActual":
		denom = daycount.ISDAActualActual{}
	case "ICMAActualActual":
		// Verify the named schedule exists (catches a typo'd reference
		// early), but its period bounds cannot be materialized here: that
		// needs the contract's concrete effective/maturity dates, which
		// only a caller driving schedule.Generate has.
		if _, err := schedules.Get(e.Schedule); err != nil {
			return daycount.DayCounter{}, err
		}
		return daycount.DayCounter{}, ErrICMAScheduleNotMaterializable
	default:
		return daycount.DayCounter{}, fmt.Errorf("%w: denominator_type %q", ErrInvalidValue, e.Dominator.DenominatorType)
	}

	return daycount.DayCounter{
		Numerator:   num,
		Denominator: denom,
		IncludeD1:   e.IncludeD1,
		IncludeD2:   e.IncludeD2,
	}, nil
}

func loadIndices(entries []indexEntry, calendars *Frozen[calendar.HolidayCalendar], dayCounts *Frozen[daycount.DayCounter]) (*Frozen[rateindex.Index], error) {
	builder := NewBuilder[rateindex.Index]()
	for _, e := range entries {
		idx, err := buildIndex(e, calendars, dayCounts)
		if err != nil {
			return nil, fmt.Errorf("interest_rate_index %q: %w", e.Name, err)
		}
		builder.Set(e.Name, idx)
	}
	return builder.Freeze(), nil
}

func buildIndex(e indexEntry, calendars *Frozen[calendar.HolidayCalendar], dayCounts *Frozen[daycount.DayCounter]) (rateindex.Index, error) {
	var props indexProps
	if err := json.Unmarshal(e.Props, &props); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJsonParse, err)
	}

	tenor, err := period.Parse(props.Tenor)
	if err != nil {
		return nil, err
	}
	cal, err := calendars.Get(props.Calendar)
	if err != nil {
		return nil, err
	}
	adj, err := parseAdjuster(props.Adjuster)
	if err != nil {
		return nil, err
	}
	dc, err := dayCounts.Get(props.DayCounter)
	if err != nil {
		return nil, err
	}

	switch e.IndexType {
	case "TermRate":
		return &rateindex.TermRateIndex{
			TenorValue:      tenor,
			StartLagValue:   props.StartLag,
			CalendarValue:   cal,
			AdjusterValue:   adj,
			DayCounterValue: dc,
			RefCurveName:    props.ReferenceCurveName,
			PastFixings:     make(map[time.Time]float64),
		}, nil

	case "CompoundingRate":
		fixing, err := parseFixingConvention(props.Fixing)
		if err != nil {
			return nil, err
		}
		missing, err := parseMissingFixing(props.MissingFixing)
		if err != nil {
			return nil, err
		}
		compound, err := parseCompoundingConvention(props.ResultCompound, props.PerYearN)
		if err != nil {
			return nil, err
		}
		idx := rateindex.NewCompoundingRateIndex(&rateindex.CompoundingRateIndex{
			TenorValue:      tenor,
			StartLagValue:   props.StartLag,
			CalendarValue:   cal,
			AdjusterValue:   adj,
			DayCounterValue: dc,
			RefCurveName:    props.ReferenceCurveName,
			LookbackDays:    props.LookbackDays,
			LockoutDays:     props.LockoutDays,
			Fixing:          fixing,
			MissingFixing:   missing,
			ResultCompound:  compound,
			DailyFixings:    make(map[time.Time]float64),
		})
		return idx, nil

	default:
		return nil, fmt.Errorf("%w: index_type %q", ErrInvalidValue, e.IndexType)
	}
}

func parseFixingConvention(s string) (rateindex.FixingConvention, error) {
	switch s {
	case "Advance":
		return rateindex.Advance, nil
	case "Arrear":
		return rateindex.Arrear, nil
	default:
		return 0, fmt.Errorf("%w: fixing %q", ErrInvalidValue, s)
	}
}

func parseMissingFixing(s string) (rateindex.MissingFixingHandler, error) {
	switch s {
	case "", "Null":
		return rateindex.MissingFixingNull, nil
	case "PreviousFixing":
		return rateindex.MissingFixingPreviousFixing, nil
	default:
		return 0, fmt.Errorf("%w: missing_fixing %q", ErrInvalidValue, s)
	}
}
