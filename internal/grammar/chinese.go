package grammar

import (
	"github.com/y00281951/fst-time-nlu/data"
	"github.com/y00281951/fst-time-nlu/internal/fst"
)

// Chinese 构建中文语法：规则片段按家族组织，词典在构建时展开。
// 返回值是纯数据，可直接编译或通过缓存 artifact 复用。
func Chinese() *fst.RuleSet {
	rs := &fst.RuleSet{
		Version:  Version,
		Defs:     map[string]fst.Pattern{},
		Lexicons: map[string][]fst.LexEntry{},
	}

	rs.Lexicons["cn_digit"] = cnDigitLex()
	rs.Lexicons["cn_num12"] = cnNumberLex(12)
	rs.Lexicons["cn_num24"] = cnNumberLex(24)
	rs.Lexicons["cn_num31"] = cnNumberLex(31)
	rs.Lexicons["cn_num59"] = cnNumberLex(59)
	rs.Lexicons["cn_num99"] = cnNumberLex(99)
	rs.Lexicons["lunar_month"] = lunarMonthLex()
	rs.Lexicons["lunar_month_strict"] = []fst.LexEntry{
		{Surface: "正", Value: "1"}, {Surface: "冬", Value: "11"}, {Surface: "腊", Value: "12"},
	}
	rs.Lexicons["lunar_day"] = lunarDayLex()

	rs.Lexicons["weekday_zh"] = []fst.LexEntry{
		{Surface: "一", Value: "1"}, {Surface: "二", Value: "2"}, {Surface: "三", Value: "3"},
		{Surface: "四", Value: "4"}, {Surface: "五", Value: "5"}, {Surface: "六", Value: "6"},
		{Surface: "日", Value: "7"}, {Surface: "天", Value: "7"},
		{Surface: "1", Value: "1"}, {Surface: "2", Value: "2"}, {Surface: "3", Value: "3"},
		{Surface: "4", Value: "4"}, {Surface: "5", Value: "5"}, {Surface: "6", Value: "6"},
		{Surface: "7", Value: "7"},
	}

	rs.Lexicons["rel_day"] = []fst.LexEntry{
		{Surface: "大前天", Value: "-3"}, {Surface: "前天", Value: "-2"},
		{Surface: "昨天", Value: "-1"}, {Surface: "昨日", Value: "-1"},
		{Surface: "今天", Value: "0"}, {Surface: "今日", Value: "0"}, {Surface: "今儿", Value: "0"},
		{Surface: "明天", Value: "1"}, {Surface: "明日", Value: "1"}, {Surface: "明儿", Value: "1"},
		{Surface: "后天", Value: "2"}, {Surface: "大后天", Value: "3"},
	}
	rs.Lexicons["rel_year"] = []fst.LexEntry{
		{Surface: "大前年", Value: "-3"}, {Surface: "前年", Value: "-2"},
		{Surface: "去年", Value: "-1"}, {Surface: "今年", Value: "0"},
		{Surface: "明年", Value: "1"}, {Surface: "后年", Value: "2"},
	}
	rs.Lexicons["rel_month"] = []fst.LexEntry{
		{Surface: "上上个月", Value: "-2"}, {Surface: "上上月", Value: "-2"},
		{Surface: "上个月", Value: "-1"}, {Surface: "上月", Value: "-1"},
		{Surface: "这个月", Value: "0"}, {Surface: "本月", Value: "0"}, {Surface: "当月", Value: "0"},
		{Surface: "下个月", Value: "1"}, {Surface: "下月", Value: "1"},
		{Surface: "下下个月", Value: "2"}, {Surface: "下下月", Value: "2"},
	}

	rs.Lexicons["period_zh"] = []fst.LexEntry{
		{Surface: "凌晨", Value: "dawn"}, {Surface: "清晨", Value: "dawn"}, {Surface: "拂晓", Value: "dawn"},
		{Surface: "早晨", Value: "morning"}, {Surface: "早上", Value: "morning"}, {Surface: "上午", Value: "morning"},
		{Surface: "中午", Value: "noon"}, {Surface: "正午", Value: "noon"}, {Surface: "午间", Value: "noon"},
		{Surface: "下午", Value: "afternoon"}, {Surface: "午后", Value: "afternoon"},
		{Surface: "傍晚", Value: "evening"}, {Surface: "晚上", Value: "evening"}, {Surface: "晚间", Value: "evening"},
		{Surface: "夜里", Value: "night"}, {Surface: "夜间", Value: "night"}, {Surface: "深夜", Value: "night"},
		{Surface: "半夜", Value: "midnight"}, {Surface: "午夜", Value: "midnight"},
	}
	rs.Lexicons["evening_day"] = []fst.LexEntry{
		{Surface: "今", Value: "0"}, {Surface: "明", Value: "1"}, {Surface: "昨", Value: "-1"},
	}

	rs.Lexicons["clock_frac"] = []fst.LexEntry{
		{Surface: "半", Value: "30"}, {Surface: "一刻", Value: "15"}, {Surface: "三刻", Value: "45"},
	}
	rs.Lexicons["delta_unit"] = []fst.LexEntry{
		{Surface: "年", Value: "year"}, {Surface: "月", Value: "month"},
		{Surface: "星期", Value: "week"}, {Surface: "礼拜", Value: "week"}, {Surface: "周", Value: "week"},
		{Surface: "天", Value: "day"}, {Surface: "日", Value: "day"},
		{Surface: "小时", Value: "hour"}, {Surface: "钟头", Value: "hour"},
		{Surface: "分钟", Value: "minute"},
		{Surface: "秒钟", Value: "second"}, {Surface: "秒", Value: "second"},
	}
	rs.Lexicons["delta_dir_post"] = []fst.LexEntry{
		{Surface: "之后", Value: "1"}, {Surface: "以后", Value: "1"},
		{Surface: "过后", Value: "1"}, {Surface: "后", Value: "1"},
		{Surface: "之前", Value: "-1"}, {Surface: "以前", Value: "-1"}, {Surface: "前", Value: "-1"},
	}
	rs.Lexicons["fuzzy_num"] = []fst.LexEntry{
		{Surface: "几", Value: "3"}, {Surface: "数", Value: "3"},
	}
	rs.Lexicons["qual_zh"] = []fst.LexEntry{
		{Surface: "前期", Value: "early"}, {Surface: "初期", Value: "early"}, {Surface: "初", Value: "early"},
		{Surface: "中期", Value: "mid"}, {Surface: "中叶", Value: "mid"},
		{Surface: "末期", Value: "late"}, {Surface: "末", Value: "late"}, {Surface: "后期", Value: "late"},
	}
	rs.Lexicons["century_rel"] = []fst.LexEntry{
		{Surface: "上个世纪", Value: "-1"}, {Surface: "上世纪", Value: "-1"},
		{Surface: "本世纪", Value: "0"}, {Surface: "这个世纪", Value: "0"},
	}

	rs.Lexicons["holiday_zh"] = aliasLex(data.HolidayAliasesZH())

	noiseZH := make([]fst.LexEntry, 0, 32)
	for _, w := range data.NoiseWordsZH() {
		noiseZH = append(noiseZH, fst.LexEntry{Surface: w, Value: "1"})
	}
	rs.Lexicons["noise_zh"] = noiseZH

	// 共享子规则:时钟表达,供 UTC 日期后缀与独立时钟规则复用
	rs.Defs["clock_cn"] = fst.Seq(
		fst.Cap("hour", fst.Alt(fst.Digits(1, 2), fst.Lex("cn_num24"))),
		fst.Alt(fst.Lit("点钟"), fst.Lit("点"), fst.Lit("时")),
		fst.Opt(fst.Alt(
			fst.Lit("整"),
			fst.Cap("minute", fst.Lex("clock_frac")),
			fst.Seq(
				fst.Cap("minute", fst.Alt(fst.Digits(1, 2), fst.Lex("cn_num59"))),
				fst.Opt(fst.Lit("分")),
				fst.Opt(fst.Seq(
					fst.Cap("second", fst.Alt(fst.Digits(1, 2), fst.Lex("cn_num59"))),
					fst.Lit("秒"),
				)),
			),
		)),
	)
	rs.Defs["clock_hms"] = fst.Seq(
		fst.Cap("hour", fst.Digits(1, 2)),
		fst.Lit(":"),
		fst.Cap("minute", fst.Digits(2, 2)),
		fst.Opt(fst.Seq(fst.Lit(":"), fst.Cap("second", fst.Digits(2, 2)))),
	)
	rs.Defs["year4"] = fst.Cap("year", fst.Alt(fst.Digits(4, 4), fst.Rep(fst.Lex("cn_digit"), 4, 4)))
	rs.Defs["month_num"] = fst.Cap("month", fst.Alt(fst.Digits(1, 2), fst.Lex("cn_num12")))
	rs.Defs["day_num"] = fst.Cap("day", fst.Alt(fst.Digits(1, 2), fst.Lex("cn_num31")))

	rs.Rules = []fst.Rule{
		// ---- 消歧 NOISE ----
		rule(famNOISE, weightNoise, fst.Lex("noise_zh")),
		// 裸长数字串(证件号、订单号等)不是时间
		rule(famNOISE, weightNoiseNum, fst.Digits(5, 32)),

		// ---- UTC 绝对日期 ----
		// 2025年1月21日 / 二〇二五年一月二十一日,可带时钟后缀
		rule(famUTC, weightUTC, fst.Seq(
			fst.Ref("year4"), fst.Lit("年"),
			fst.Ref("month_num"), fst.Lit("月"),
			fst.Ref("day_num"), fst.Alt(fst.Lit("日"), fst.Lit("号")),
			fst.Opt(fst.Alt(fst.Ref("clock_cn"), fst.Ref("clock_hms"))),
		)),
		// 2025-01-21 / 2025/1/21 / 2025.1.21,可带时钟后缀
		rule(famUTC, weightUTC, fst.Seq(
			fst.Cap("year", fst.Digits(4, 4)),
			fst.Alt(fst.Lit("-"), fst.Lit("/"), fst.Lit(".")),
			fst.Cap("month", fst.Digits(1, 2)),
			fst.Alt(fst.Lit("-"), fst.Lit("/"), fst.Lit(".")),
			fst.Cap("day", fst.Digits(1, 2)),
			fst.Opt(fst.Seq(fst.Opt(fst.Lit(" ")), fst.Ref("clock_hms"))),
		)),
		// 1月21日,年份由上下文或基准时间补全
		rule(famUTC, weightUTCShort, fst.Seq(
			fst.Ref("month_num"), fst.Lit("月"),
			fst.Ref("day_num"), fst.Alt(fst.Lit("日"), fst.Lit("号")),
			fst.Opt(fst.Alt(fst.Ref("clock_cn"), fst.Ref("clock_hms"))),
		)),
		// 2025年3月(无日)
		rule(famUTC, weightUTCShort, fst.Seq(
			fst.Ref("year4"), fst.Lit("年"),
			fst.Ref("month_num"), fst.Lit("月"),
		)),
		// 2025年(整年区间)
		rule(famUTC, weightUTCMonth, fst.Seq(fst.Ref("year4"), fst.Lit("年"))),
		// 3月(整月区间)
		rule(famUTC, weightUTCMonth, fst.Seq(fst.Ref("month_num"), fst.Lit("月"))),

		// ---- 农历 ----
		rule(famLUNAR, weightLunar, fst.Seq(
			fst.Alt(fst.Lit("农历"), fst.Lit("阴历"), fst.Lit("旧历")),
			fst.Opt(fst.Seq(fst.Ref("year4"), fst.Lit("年"))),
			fst.Cap("month", fst.Lex("lunar_month")), fst.Lit("月"),
			fst.Cap("day", fst.Lex("lunar_day")),
		)),
		// 正月初一、腊月廿三:月份用字足以判定农历
		rule(famLUNAR, weightLunar, fst.Seq(
			fst.Cap("month", fst.Lex("lunar_month_strict")), fst.Lit("月"),
			fst.Cap("day", fst.Lex("lunar_day")),
		)),

		// ---- 节日与节气 ----
		rule(famHOLIDAY, weightHoliday, fst.Seq(
			fst.Opt(fst.Alt(
				fst.Seq(fst.Cap("year_offset", fst.Lex("rel_year")), fst.Opt(fst.Lit("的"))),
				fst.Seq(fst.Alt(fst.Lit("下一个"), fst.Lit("下个"), fst.Lit("下次")), fst.Out("seek", "1")),
			)),
			fst.Cap("id", fst.Lex("holiday_zh")),
			fst.Opt(fst.Alt(fst.Lit("那一天"), fst.Lit("那天"), fst.Lit("当天"))),
		)),

		// ---- 相对时间 ----
		rule(famREL, weightRel, fst.Seq(fst.Out("unit", "day"), fst.Cap("offset", fst.Lex("rel_day")))),
		rule(famREL, weightRel, fst.Seq(fst.Out("unit", "year"), fst.Cap("offset", fst.Lex("rel_year")))),
		rule(famREL, weightRel, fst.Seq(fst.Out("unit", "month"), fst.Cap("offset", fst.Lex("rel_month")))),
		// 链式周偏移:下下下周一、上上周、本周五
		rule(famREL, weightRelWeek, fst.Seq(
			fst.Out("unit", "week"),
			fst.Alt(
				fst.Seq(fst.Cap("chain", fst.Rep(fst.Lit("下"), 1, 4)), fst.Opt(fst.Lit("个"))),
				fst.Seq(fst.Cap("chain", fst.Rep(fst.Lit("上"), 1, 4)), fst.Opt(fst.Lit("个"))),
				fst.Seq(fst.Cap("chain", fst.Alt(fst.Lit("本"), fst.Lit("这"))), fst.Opt(fst.Lit("个"))),
			),
			fst.Alt(fst.Lit("星期"), fst.Lit("礼拜"), fst.Lit("周")),
			fst.Opt(fst.Cap("weekday", fst.Lex("weekday_zh"))),
		)),

		// ---- 星期 ----
		// 周末(可带前缀)
		rule(famWEEK, weightWeek, fst.Seq(
			fst.Opt(fst.Cap("chain", fst.Alt(fst.Lit("下"), fst.Lit("上"), fst.Lit("这"), fst.Lit("本")))),
			fst.Opt(fst.Lit("个")),
			fst.Lit("周末"),
			fst.Out("weekend", "1"),
		)),
		// 裸星期:周四、星期天(中文习惯指本周)
		rule(famWEEK, weightWeek, fst.Seq(
			fst.Alt(fst.Lit("星期"), fst.Lit("礼拜"), fst.Lit("周")),
			fst.Cap("weekday", fst.Lex("weekday_zh")),
			fst.Out("mod", "0"),
		)),
		// 第N个星期X(锚定月份由上下文决定)
		rule(famWEEK, weightWeekNth, fst.Seq(
			fst.Lit("第"),
			fst.Cap("n", fst.Alt(fst.Digits(1, 2), fst.Lex("cn_num59"))),
			fst.Opt(fst.Lit("个")),
			fst.Alt(fst.Lit("星期"), fst.Lit("礼拜"), fst.Lit("周")),
			fst.Opt(fst.Cap("weekday", fst.Lex("weekday_zh"))),
			fst.Out("mod", "nth"),
		)),

		// ---- 时段 ----
		rule(famPERIOD, weightPeriod, fst.Cap("kind", fst.Lex("period_zh"))),
		// 今晚/明晚/昨夜:自带日偏移
		rule(famPERIOD, weightPeriod, fst.Seq(
			fst.Cap("day", fst.Lex("evening_day")),
			fst.Alt(fst.Lit("晚上"), fst.Lit("晚"), fst.Lit("夜")),
			fst.Out("kind", "evening"),
		)),

		// ---- 时钟 ----
		rule(famCLOCK, weightClock, fst.Ref("clock_cn")),
		rule(famCLOCK, weightClock, fst.Ref("clock_hms")),

		// ---- 时间偏移 DELTA ----
		rule(famDELTA, weightDelta, fst.Seq(
			fst.Cap("amount", fst.Alt(fst.Digits(1, 3), fst.Lex("cn_num99"), fst.Lex("fuzzy_num"))),
			fst.Opt(fst.Lit("个")),
			fst.Cap("unit", fst.Lex("delta_unit")),
			fst.Cap("dir", fst.Lex("delta_dir_post")),
		)),
		// 半小时后
		rule(famDELTA, weightDelta, fst.Seq(
			fst.Alt(fst.Lit("半个小时"), fst.Lit("半小时"), fst.Lit("半个钟头"), fst.Lit("半钟头")),
			fst.Out("amount", "30"), fst.Out("unit", "minute"),
			fst.Cap("dir", fst.Lex("delta_dir_post")),
		)),
		// 过三天(方向隐含向后)
		rule(famDELTA, weightDelta, fst.Seq(
			fst.Lit("过"),
			fst.Out("dir", "1"),
			fst.Cap("amount", fst.Alt(fst.Digits(1, 3), fst.Lex("cn_num99"), fst.Lex("fuzzy_num"))),
			fst.Opt(fst.Lit("个")),
			fst.Cap("unit", fst.Lex("delta_unit")),
			fst.Opt(fst.Cap("dir", fst.Lex("delta_dir_post"))),
		)),
		// 近一年/最近三个月:回溯区间
		rule(famDELTA, weightDelta, fst.Seq(
			fst.Alt(fst.Lit("最近"), fst.Lit("近")),
			fst.Cap("amount", fst.Alt(fst.Digits(1, 3), fst.Lex("cn_num99"))),
			fst.Opt(fst.Lit("个")),
			fst.Cap("unit", fst.Lex("delta_unit")),
			fst.Out("approx", "1"), fst.Out("dir", "-1"),
		)),

		// ---- 区间标记 ----
		rule(famRangeOpen, weightRangeOpen, fst.Alt(fst.Lit("自从"), fst.Lit("从"), fst.Lit("自"))),
		rule(famRangeSep, weightRangeSep, fst.Alt(
			fst.Lit("一直到"), fst.Lit("直到"), fst.Lit("到"), fst.Lit("至"),
			fst.Lit("~"), fst.Lit("-"), fst.Lit("–"), fst.Lit("—"),
		)),

		// ---- 世纪/年代 ----
		rule(famCENTURY, weightCentury, fst.Seq(
			fst.Cap("century", fst.Alt(fst.Digits(1, 2), fst.Lex("cn_num99"))),
			fst.Lit("世纪"),
			fst.Opt(fst.Alt(
				fst.Seq(
					fst.Cap("decade", fst.Alt(fst.Digits(1, 2), fst.Lex("cn_num99"))),
					fst.Lit("年代"),
					fst.Opt(fst.Cap("qualifier", fst.Lex("qual_zh"))),
				),
				fst.Cap("qualifier", fst.Lex("qual_zh")),
			)),
		)),
		rule(famCENTURY, weightCentury, fst.Seq(
			fst.Cap("centuryrel", fst.Lex("century_rel")),
			fst.Opt(fst.Alt(
				fst.Seq(
					fst.Cap("decade", fst.Alt(fst.Digits(1, 2), fst.Lex("cn_num99"))),
					fst.Lit("年代"),
					fst.Opt(fst.Cap("qualifier", fst.Lex("qual_zh"))),
				),
				fst.Cap("qualifier", fst.Lex("qual_zh")),
			)),
		)),
		rule(famDECADE, weightCentury, fst.Seq(
			fst.Cap("decade", fst.Digits(2, 2)),
			fst.Lit("年代"),
			fst.Opt(fst.Cap("qualifier", fst.Lex("qual_zh"))),
		)),

		// ---- 周期性 ----
		rule(famRECUR, weightRecur, fst.Seq(
			fst.Lit("每"),
			fst.Alt(
				fst.Seq(fst.Alt(fst.Lit("天"), fst.Lit("日")), fst.Out("unit", "day")),
				fst.Seq(fst.Lit("年"), fst.Out("unit", "year")),
				fst.Seq(
					fst.Opt(fst.Lit("个")), fst.Lit("月"), fst.Out("unit", "month"),
					fst.Opt(fst.Seq(fst.Ref("day_num"), fst.Alt(fst.Lit("日"), fst.Lit("号")))),
				),
				fst.Seq(
					fst.Alt(fst.Lit("个星期"), fst.Lit("星期"), fst.Lit("礼拜"), fst.Lit("周")),
					fst.Out("unit", "week"),
					fst.Opt(fst.Cap("weekday", fst.Lex("weekday_zh"))),
				),
			),
		)),

		// ---- 序数 ----
		rule(famORDINAL, weightOrdinal, fst.Seq(
			fst.Lit("第"),
			fst.Cap("n", fst.Alt(fst.Digits(1, 2), fst.Lex("cn_num99"))),
			fst.Opt(fst.Lit("个")),
		)),
	}

	return rs
}
