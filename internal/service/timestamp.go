package service

import (
	"strconv"
	"strings"
	"time"
)

// historyInputLayout 同时接受补零与不补零的月、日、时、分
const historyInputLayout = "2006-1-2 15:4"

// FormatHistoryTimestamp 将管理员录入的日期与时间格式化为轨迹展示字符串
// 例如 2026-01-30 18:20 -> "fri, 30th jan '26 - 06:20pm"；解析失败时原样返回 "<date> <time>"
func FormatHistoryTimestamp(date, clock string) string {
	raw := date + " " + clock
	t, err := time.Parse(historyInputLayout, raw)
	if err != nil {
		return raw
	}
	day := t.Day()
	formatted := t.Format("Mon") + ", " + strconv.Itoa(day) + ordinalSuffix(day) + " " + t.Format("Jan '06 - 03:04PM")
	return strings.ToLower(formatted)
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
