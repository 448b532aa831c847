package utils

import "time"

// startOfDay zera o horário mantendo o fuso
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateLabel rótulo de data relativa usado no agrupamento do histórico:
// Today, Yesterday, nome do dia da semana (2 a 6 dias) ou DD/MM
func DateLabel(t, now time.Time) string {
	days := int(startOfDay(now).Sub(startOfDay(t)).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return t.Weekday().String()
	default:
		return t.Format("02/01")
	}
}
