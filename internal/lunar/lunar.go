// Package lunar переводит григорианские даты в китайский лунный
// календарь. Таблица покрывает лунные годы 1900..2049, даты вне
// диапазона дают ошибку.
package lunar

import (
	"errors"
	"fmt"
	"time"
)

// Кодировка года: биты 16..4 длины месяцев (1 = 30 дней),
// бит 16 длина вставного месяца, младшие 4 бита его номер.
var lunarInfo = [...]int{
	0x04bd8, 0x04ae0, 0x0a570, 0x054d5, 0x0d260, 0x0d950, 0x16554, 0x056a0, 0x09ad0, 0x055d2,
	0x04ae0, 0x0a5b6, 0x0a4d0, 0x0d250, 0x1d255, 0x0b540, 0x0d6a0, 0x0ada2, 0x095b0, 0x14977,
	0x04970, 0x0a4b0, 0x0b4b5, 0x06a50, 0x06d40, 0x1ab54, 0x02b60, 0x09570, 0x052f2, 0x04970,
	0x06566, 0x0d4a0, 0x0ea50, 0x06e95, 0x05ad0, 0x02b60, 0x186e3, 0x092e0, 0x1c8d7, 0x0c950,
	0x0d4a0, 0x1d8a6, 0x0b550, 0x056a0, 0x1a5b4, 0x025d0, 0x092d0, 0x0d2b2, 0x0a950, 0x0b557,
	0x06ca0, 0x0b550, 0x15355, 0x04da0, 0x0a5d0, 0x14573, 0x052d0, 0x0a9a8, 0x0e950, 0x06aa0,
	0x0aea6, 0x0ab50, 0x04b60, 0x0aae4, 0x0a570, 0x05260, 0x0f263, 0x0d950, 0x05b57, 0x056a0,
	0x096d0, 0x04dd5, 0x04ad0, 0x0a4d0, 0x0d4d4, 0x0d250, 0x0d558, 0x0b540, 0x0b6a0, 0x195a6,
	0x095b0, 0x049b0, 0x0a974, 0x0a4b0, 0x0b27a, 0x06a50, 0x06d40, 0x0af46, 0x0ab60, 0x09570,
	0x04af5, 0x04970, 0x064b0, 0x074a3, 0x0ea50, 0x06b58, 0x05ac0, 0x0ab60, 0x096d5, 0x092e0,
	0x0c960, 0x0d954, 0x0d4a0, 0x0da50, 0x07552, 0x056a0, 0x0abb7, 0x025d0, 0x092d0, 0x0cab5,
	0x0a950, 0x0b4a0, 0x0baa4, 0x0ad50, 0x055d9, 0x04ba0, 0x0a5b0, 0x15176, 0x052b0, 0x0a930,
	0x07954, 0x06aa0, 0x0ad50, 0x05b52, 0x04b60, 0x0a6e6, 0x0a4e0, 0x0d260, 0x0ea65, 0x0d530,
	0x05aa0, 0x076a3, 0x096d0, 0x04bd7, 0x04ad0, 0x0a4d0, 0x1d0b6, 0x0d250, 0x0d520, 0x0dd45,
	0x0b5a0, 0x056d0, 0x055b2, 0x049b0, 0x0a577, 0x0a4b0, 0x0aa50, 0x1b255, 0x06d20, 0x0ada0,
}

var (
	stems       = []rune("甲乙丙丁戊己庚辛壬癸")
	branches    = []rune("子丑寅卯辰巳午未申酉戌亥")
	zodiacSigns = []rune("鼠牛虎兔龙蛇马羊猴鸡狗猪")
	monthNames  = []string{"正", "二", "三", "四", "五", "六", "七", "八", "九", "十", "冬", "腊"}
	dayPrefixes = []string{"初", "十", "廿", "三"}
	dayNumerals = []string{"一", "二", "三", "四", "五", "六", "七", "八", "九", "十"}
)

// Последний лунный год, закодированный в таблице.
const lastYear = 1900 + len(lunarInfo) - 1

// ErrOutOfRange дата вне покрытия таблицы.
var ErrOutOfRange = errors.New("дата вне диапазона лунных лет 1900..2049")

// Date лунная дата с готовыми китайскими подписями.
type Date struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Day     int    `json:"day"`
	IsLeap  bool   `json:"isLeap"`
	YearCn  string `json:"yearCn"`
	Zodiac  string `json:"zodiac"`
	MonthCn string `json:"monthCn"`
	DayCn   string `json:"dayCn"`
}

func yearDays(y int) int {
	sum := 348
	info := lunarInfo[y-1900]
	for i := 0x8000; i > 0x8; i >>= 1 {
		if info&i != 0 {
			sum++
		}
	}
	return sum + leapDays(y)
}

func leapMonth(y int) int {
	return lunarInfo[y-1900] & 0xf
}

func leapDays(y int) int {
	if leapMonth(y) == 0 {
		return 0
	}
	if lunarInfo[y-1900]&0x10000 != 0 {
		return 30
	}
	return 29
}

func monthDays(y, m int) int {
	if lunarInfo[y-1900]&(0x10000>>uint(m)) != 0 {
		return 30
	}
	return 29
}

func cyclical(num int) string {
	return string(stems[num%10]) + string(branches[num%12])
}

func dayCn(d int) string {
	switch d {
	case 10:
		return "初十"
	case 20:
		return "二十"
	case 30:
		return "三十"
	}
	return dayPrefixes[(d-1)/10] + dayNumerals[(d-1)%10]
}

func monthCn(m int, isLeap bool) string {
	name := monthNames[m-1] + "月"
	if isLeap {
		return "闰" + name
	}
	return name
}

// FromTime возвращает лунную дату для календарного дня момента t в
// зоне tzName. Считается только дата, время суток не влияет.
func FromTime(t time.Time, tzName string) (Date, error) {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return FromDate(local.Year(), int(local.Month()), local.Day())
}

// FromDate переводит григорианскую дату (год, месяц, день).
func FromDate(gy, gm, gd int) (Date, error) {
	// Начало отсчёта: 1900-01-31 соответствует 1900-01-01 по лунному.
	base := time.Date(1900, time.January, 31, 0, 0, 0, 0, time.UTC)
	target := time.Date(gy, time.Month(gm), gd, 0, 0, 0, 0, time.UTC)
	offset := int(target.Sub(base).Hours() / 24)
	if offset < 0 {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrOutOfRange, gy, gm, gd)
	}

	year := 1900
	for days := yearDays(year); offset >= days; days = yearDays(year) {
		if year == lastYear {
			return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrOutOfRange, gy, gm, gd)
		}
		offset -= days
		year++
	}

	lm := leapMonth(year)
	isLeap := false
	month := 1
	for month <= 12 {
		var days int
		if lm > 0 && month == lm+1 && !isLeap {
			month--
			isLeap = true
			days = leapDays(year)
		} else {
			days = monthDays(year, month)
		}
		if offset < days {
			break
		}
		offset -= days
		if isLeap && month == lm {
			isLeap = false
		}
		month++
	}

	day := offset + 1
	return Date{
		Year:    year,
		Month:   month,
		Day:     day,
		IsLeap:  isLeap,
		YearCn:  cyclical(year - 1900 + 36),
		Zodiac:  string(zodiacSigns[(year-1900)%12]),
		MonthCn: monthCn(month, isLeap),
		DayCn:   dayCn(day),
	}, nil
}
