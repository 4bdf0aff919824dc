// Package timezone resolve o fuso usado para datas de filtro da API.
package timezone

import "time"

const DefaultTimezone = "America/Sao_Paulo"

const DateLayout = "2006-01-02"

func Location(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// DayRange devolve [início do dia, início do dia seguinte) para uma data
// YYYY-MM-DD no fuso informado.
func DayRange(tz, date string) (from, to time.Time, err error) {
	from, err = time.ParseInLocation(DateLayout, date, Location(tz))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, from.AddDate(0, 0, 1), nil
}
