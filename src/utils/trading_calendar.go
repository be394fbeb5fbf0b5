package utils

import (
	"strings"
	"time"

	"github.com/scmhub/calendar"
)

// TradingCalendar answers "is this a trading day" for a symbol's exchange
// using scmhub/calendar, with a Mon-Fri fallback when no calendar is found.
type TradingCalendar struct {
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// -----------------------------------------------------------------------------

func GetCalendar(symbol string) *TradingCalendar {
	// Simple mapping based on suffix to MIC code (ISO 10383).
	// See scmhub/calendar for supported MICs.
	mic := "xnys" // Default US NYSE
	if strings.HasSuffix(symbol, ".KS") || strings.HasSuffix(symbol, ".KQ") {
		mic = "xkrx"
	} else if strings.HasSuffix(symbol, ".L") {
		mic = "xlon"
	} else if strings.HasSuffix(symbol, ".PA") {
		mic = "xpar"
	} else if strings.HasSuffix(symbol, ".DE") {
		mic = "xfra"
	} else if strings.HasSuffix(symbol, ".T") {
		mic = "xtks"
	} else if strings.HasSuffix(symbol, ".HK") {
		mic = "xhkg"
	} else if strings.HasSuffix(symbol, ".SS") {
		mic = "xshg"
	} else if strings.HasSuffix(symbol, ".SZ") {
		mic = "xshe"
	}

	cal := calendar.GetCalendar(mic)
	if cal == nil {
		// Fallback to xnys if not found
		cal = calendar.GetCalendar("xnys")
	}

	if cal == nil {
		// Simple fallback (Mon-Fri)
		nyLoc, _ := time.LoadLocation("America/New_York")
		if nyLoc == nil {
			nyLoc = time.UTC
		}
		return &TradingCalendar{Fallback: true, Timezone: nyLoc}
	}

	return &TradingCalendar{Calendar: cal, Fallback: false, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}

	if tc.Fallback {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}
