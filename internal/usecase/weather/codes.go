package weather

// Справочник погодных кодов WMO: иконка и подписи на двух языках.
type codeInfo struct {
	icon   string
	textZh string
	textEn string
}

var weatherCodes = map[int]codeInfo{
	0:  {"☀️", "晴", "Clear"},
	1:  {"🌤️", "晴间多云", "Mainly Clear"},
	2:  {"⛅", "多云", "Partly Cloudy"},
	3:  {"☁️", "阴", "Overcast"},
	45: {"🌫️", "雾", "Fog"},
	48: {"🌫️", "雾凇", "Depositing Fog"},
	51: {"🌦️", "小毛毛雨", "Light Drizzle"},
	53: {"🌦️", "毛毛雨", "Drizzle"},
	55: {"🌦️", "密集毛毛雨", "Dense Drizzle"},
	56: {"🌧️", "冻毛毛雨", "Freezing Drizzle"},
	57: {"🌧️", "密集冻毛毛雨", "Dense Freezing Drizzle"},
	61: {"🌧️", "小雨", "Slight Rain"},
	63: {"🌧️", "中雨", "Moderate Rain"},
	65: {"🌧️", "大雨", "Heavy Rain"},
	66: {"🌧️", "小冻雨", "Light Freezing Rain"},
	67: {"🌧️", "大冻雨", "Heavy Freezing Rain"},
	71: {"🌨️", "小雪", "Slight Snow"},
	73: {"🌨️", "中雪", "Moderate Snow"},
	75: {"❄️", "大雪", "Heavy Snow"},
	77: {"🌨️", "雪粒", "Snow Grains"},
	80: {"🌧️", "小阵雨", "Slight Showers"},
	81: {"🌧️", "中阵雨", "Moderate Showers"},
	82: {"🌧️", "强阵雨", "Violent Showers"},
	85: {"🌨️", "小阵雪", "Slight Snow Showers"},
	86: {"🌨️", "大阵雪", "Heavy Snow Showers"},
	95: {"⛈️", "雷暴", "Thunderstorm"},
	96: {"⛈️", "雷暴伴小冰雹", "Thunderstorm with Hail"},
	99: {"⛈️", "雷暴伴大冰雹", "Thunderstorm with Heavy Hail"},
}

var weatherUnknown = codeInfo{"🌡️", "未知", "Unknown"}

// describeCode возвращает иконку и подпись для кода на языке lang.
func describeCode(code int, lang string) (icon, text string) {
	info, ok := weatherCodes[code]
	if !ok {
		info = weatherUnknown
	}
	if lang == "zh" {
		return info.icon, info.textZh
	}
	return info.icon, info.textEn
}

// aqiLevel возвращает подпись и иконку уровня качества воздуха
// по шкале US AQI.
func aqiLevel(aqi int, lang string) (level, icon string) {
	type band struct {
		max     int
		levelZh string
		levelEn string
		icon    string
	}
	bands := []band{
		{50, "优", "Good", "🟢"},
		{100, "良", "Moderate", "🟡"},
		{150, "轻度污染", "Unhealthy for Sensitive", "🟠"},
		{200, "中度污染", "Unhealthy", "🔴"},
		{300, "重度污染", "Very Unhealthy", "🟣"},
	}
	pick := band{0, "严重污染", "Hazardous", "⚫"}
	for _, b := range bands {
		if aqi <= b.max {
			pick = b
			break
		}
	}
	if aqi < 0 {
		pick = band{0, "未知", "Unknown", "❓"}
	}
	if lang == "zh" {
		return pick.levelZh, pick.icon
	}
	return pick.levelEn, pick.icon
}
