package utils

import (
	"time"

	cal "github.com/rickar/cal/v2"
)

// Kenyan public holidays. Easter-linked days (Good Friday, Easter Monday)
// are derived from the Gregorian Easter offset.
var kenyaCal = cal.NewBusinessCalendar()

func init() {
	kenyaCal.AddHoliday(
		&cal.Holiday{Name: "New Year's Day", Month: time.January, Day: 1, Func: cal.CalcDayOfMonth},
		&cal.Holiday{Name: "Good Friday", Offset: -2, Func: cal.CalcEasterOffset},
		&cal.Holiday{Name: "Easter Monday", Offset: 1, Func: cal.CalcEasterOffset},
		&cal.Holiday{Name: "Labour Day", Month: time.May, Day: 1, Func: cal.CalcDayOfMonth},
		&cal.Holiday{Name: "Madaraka Day", Month: time.June, Day: 1, Func: cal.CalcDayOfMonth},
		&cal.Holiday{Name: "Mazingira Day", Month: time.October, Day: 10, Func: cal.CalcDayOfMonth},
		&cal.Holiday{Name: "Mashujaa Day", Month: time.October, Day: 20, Func: cal.CalcDayOfMonth},
		&cal.Holiday{Name: "Jamhuri Day", Month: time.December, Day: 12, Func: cal.CalcDayOfMonth},
		&cal.Holiday{Name: "Christmas Day", Month: time.December, Day: 25, Func: cal.CalcDayOfMonth},
		&cal.Holiday{Name: "Boxing Day", Month: time.December, Day: 26, Func: cal.CalcDayOfMonth},
	)
}

// IsKenyanHoliday reports whether t falls on a Kenyan public holiday.
// Reminder dispatch holds off on these days.
func IsKenyanHoliday(t time.Time) bool {
	ok, _, _ := kenyaCal.IsHoliday(t)
	return ok
}
