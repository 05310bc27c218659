package timezone

import (
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "America/Sao_Paulo"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location cai no fuso padrão quando tz é vazio ou desconhecido.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// ParseDay interpreta "2006-01-02" como o início do dia no fuso da oficina.
func ParseDay(tz, day string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", day, Location(tz))
}

// DayRange devolve [início, início do dia seguinte) no fuso da oficina.
func DayRange(tz, day string) (time.Time, time.Time, error) {
	start, err := ParseDay(tz, day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 1), nil
}
