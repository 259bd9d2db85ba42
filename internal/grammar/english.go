package grammar

import (
	"github.com/y00281951/fst-time-nlu/data"
	"github.com/y00281951/fst-time-nlu/internal/fst"
)

// English builds the English grammar. Input text reaches the tagger
// lowercased with collapsed whitespace, so all surfaces here are lower case
// and single-spaced.
func English() *fst.RuleSet {
	rs := &fst.RuleSet{
		Version:  Version,
		Defs:     map[string]fst.Pattern{},
		Lexicons: map[string][]fst.LexEntry{},
	}

	rs.Lexicons["weekday_en"] = []fst.LexEntry{
		{Surface: "monday", Value: "1"}, {Surface: "mon", Value: "1"},
		{Surface: "tuesday", Value: "2"}, {Surface: "tues", Value: "2"}, {Surface: "tue", Value: "2"},
		{Surface: "wednesday", Value: "3"}, {Surface: "wed", Value: "3"},
		{Surface: "thursday", Value: "4"}, {Surface: "thurs", Value: "4"}, {Surface: "thur", Value: "4"}, {Surface: "thu", Value: "4"},
		{Surface: "friday", Value: "5"}, {Surface: "fri", Value: "5"},
		{Surface: "saturday", Value: "6"}, {Surface: "sat", Value: "6"},
		{Surface: "sunday", Value: "7"}, {Surface: "sun", Value: "7"},
	}
	rs.Lexicons["month_en"] = []fst.LexEntry{
		{Surface: "january", Value: "1"}, {Surface: "jan", Value: "1"},
		{Surface: "february", Value: "2"}, {Surface: "feb", Value: "2"},
		{Surface: "march", Value: "3"}, {Surface: "mar", Value: "3"},
		{Surface: "april", Value: "4"}, {Surface: "apr", Value: "4"},
		{Surface: "may", Value: "5"},
		{Surface: "june", Value: "6"}, {Surface: "jun", Value: "6"},
		{Surface: "july", Value: "7"}, {Surface: "jul", Value: "7"},
		{Surface: "august", Value: "8"}, {Surface: "aug", Value: "8"},
		{Surface: "september", Value: "9"}, {Surface: "sept", Value: "9"}, {Surface: "sep", Value: "9"},
		{Surface: "october", Value: "10"}, {Surface: "oct", Value: "10"},
		{Surface: "november", Value: "11"}, {Surface: "nov", Value: "11"},
		{Surface: "december", Value: "12"}, {Surface: "dec", Value: "12"},
	}
	// standalone month mentions exclude abbreviations and the full names that
	// collide with common words ("may", "march")
	rs.Lexicons["month_alone_en"] = []fst.LexEntry{
		{Surface: "january", Value: "1"}, {Surface: "february", Value: "2"},
		{Surface: "april", Value: "4"}, {Surface: "june", Value: "6"},
		{Surface: "july", Value: "7"}, {Surface: "august", Value: "8"},
		{Surface: "september", Value: "9"}, {Surface: "october", Value: "10"},
		{Surface: "november", Value: "11"}, {Surface: "december", Value: "12"},
	}
	rs.Lexicons["rel_day_en"] = []fst.LexEntry{
		{Surface: "the day after tomorrow", Value: "2"},
		{Surface: "day after tomorrow", Value: "2"},
		{Surface: "tomorrow", Value: "1"},
		{Surface: "today", Value: "0"},
		{Surface: "yesterday", Value: "-1"},
		{Surface: "the day before yesterday", Value: "-2"},
		{Surface: "day before yesterday", Value: "-2"},
	}
	rs.Lexicons["rel_mod_en"] = []fst.LexEntry{
		{Surface: "next", Value: "1"}, {Surface: "last", Value: "-1"}, {Surface: "this", Value: "0"},
	}
	rs.Lexicons["bare_unit_en"] = []fst.LexEntry{
		{Surface: "week", Value: "week"}, {Surface: "month", Value: "month"}, {Surface: "year", Value: "year"},
	}
	rs.Lexicons["unit_en"] = []fst.LexEntry{
		{Surface: "days", Value: "day"}, {Surface: "day", Value: "day"},
		{Surface: "weeks", Value: "week"}, {Surface: "week", Value: "week"},
		{Surface: "months", Value: "month"}, {Surface: "month", Value: "month"},
		{Surface: "years", Value: "year"}, {Surface: "year", Value: "year"},
		{Surface: "hours", Value: "hour"}, {Surface: "hour", Value: "hour"},
		{Surface: "minutes", Value: "minute"}, {Surface: "minute", Value: "minute"},
		{Surface: "seconds", Value: "second"}, {Surface: "second", Value: "second"},
	}
	rs.Lexicons["period_en"] = []fst.LexEntry{
		{Surface: "dawn", Value: "dawn"}, {Surface: "daybreak", Value: "dawn"},
		{Surface: "morning", Value: "morning"},
		{Surface: "noon", Value: "noon"}, {Surface: "midday", Value: "noon"},
		{Surface: "afternoon", Value: "afternoon"},
		{Surface: "evening", Value: "evening"},
		{Surface: "night", Value: "night"},
		{Surface: "midnight", Value: "midnight"},
	}
	rs.Lexicons["meridiem_en"] = []fst.LexEntry{
		{Surface: "a.m.", Value: "am"}, {Surface: "p.m.", Value: "pm"},
		{Surface: "am", Value: "am"}, {Surface: "pm", Value: "pm"},
	}
	rs.Lexicons["num_word_en"] = numberWordLexEN()
	rs.Lexicons["dir_post_en"] = []fst.LexEntry{
		{Surface: "later", Value: "1"}, {Surface: "after", Value: "1"},
		{Surface: "from now", Value: "1"}, {Surface: "hence", Value: "1"},
		{Surface: "ago", Value: "-1"},
	}
	rs.Lexicons["ord_word_en"] = []fst.LexEntry{
		{Surface: "first", Value: "1"}, {Surface: "second", Value: "2"},
		{Surface: "third", Value: "3"}, {Surface: "fourth", Value: "4"},
		{Surface: "fifth", Value: "5"},
	}
	// "last" joins the ordinals only when an "of <month>" clause follows,
	// so bare "last friday" keeps its previous-week reading
	rs.Lexicons["ord_word_all_en"] = []fst.LexEntry{
		{Surface: "first", Value: "1"}, {Surface: "second", Value: "2"},
		{Surface: "third", Value: "3"}, {Surface: "fourth", Value: "4"},
		{Surface: "fifth", Value: "5"}, {Surface: "last", Value: "-1"},
	}
	rs.Lexicons["ord_century_en"] = []fst.LexEntry{
		{Surface: "eighteenth", Value: "18"}, {Surface: "nineteenth", Value: "19"},
		{Surface: "twentieth", Value: "20"}, {Surface: "twenty-first", Value: "21"},
	}
	rs.Lexicons["decade_word_en"] = []fst.LexEntry{
		{Surface: "twenties", Value: "20"}, {Surface: "thirties", Value: "30"},
		{Surface: "forties", Value: "40"}, {Surface: "fifties", Value: "50"},
		{Surface: "sixties", Value: "60"}, {Surface: "seventies", Value: "70"},
		{Surface: "eighties", Value: "80"}, {Surface: "nineties", Value: "90"},
	}
	rs.Lexicons["qual_en"] = []fst.LexEntry{
		{Surface: "early", Value: "early"}, {Surface: "mid", Value: "mid"}, {Surface: "late", Value: "late"},
	}
	rs.Lexicons["recur_adv_en"] = []fst.LexEntry{
		{Surface: "daily", Value: "day"}, {Surface: "weekly", Value: "week"},
		{Surface: "monthly", Value: "month"}, {Surface: "yearly", Value: "year"},
		{Surface: "annually", Value: "year"},
	}
	rs.Lexicons["holiday_en"] = aliasLex(data.HolidayAliasesEN())

	ordSuffix := fst.Alt(fst.Lit("st"), fst.Lit("nd"), fst.Lit("rd"), fst.Lit("th"))

	rs.Defs["clock_hms"] = fst.Seq(
		fst.Cap("hour", fst.Digits(1, 2)),
		fst.Lit(":"),
		fst.Cap("minute", fst.Digits(2, 2)),
		fst.Opt(fst.Seq(fst.Lit(":"), fst.Cap("second", fst.Digits(2, 2)))),
	)
	rs.Defs["meridiem_opt"] = fst.Opt(fst.Seq(
		fst.Opt(fst.Lit(" ")),
		fst.Cap("meridiem", fst.Lex("meridiem_en")),
	))
	rs.Defs["amount"] = fst.Cap("amount", fst.Alt(fst.Digits(1, 3), fst.Lex("num_word_en")))

	rs.Rules = []fst.Rule{
		// ---- noise: bare long digit runs are identifiers, not times ----
		rule(famNOISE, weightNoiseNum, fst.Digits(5, 32)),

		// ---- absolute dates ----
		rule(famUTC, weightUTC, fst.Seq(
			fst.Cap("year", fst.Digits(4, 4)),
			fst.Lit("-"),
			fst.Cap("month", fst.Digits(1, 2)),
			fst.Lit("-"),
			fst.Cap("day", fst.Digits(1, 2)),
			fst.Opt(fst.Seq(fst.Alt(fst.Lit(" "), fst.Lit("t")), fst.Ref("clock_hms"))),
		)),
		rule(famUTC, weightUTC, fst.Seq(
			fst.Cap("month", fst.Digits(1, 2)),
			fst.Lit("/"),
			fst.Cap("day", fst.Digits(1, 2)),
			fst.Lit("/"),
			fst.Cap("year", fst.Digits(4, 4)),
		)),
		// "january 21st, 2025" / "jan 21"
		rule(famUTC, weightUTCShort, fst.Seq(
			fst.Cap("month", fst.Lex("month_en")),
			fst.Lit(" "),
			fst.Opt(fst.Lit("the ")),
			fst.Cap("day", fst.Digits(1, 2)),
			fst.Opt(ordSuffix),
			fst.Opt(fst.Seq(fst.Opt(fst.Lit(",")), fst.Lit(" "), fst.Cap("year", fst.Digits(4, 4)))),
		)),
		// "the 3rd of march 2026"
		rule(famUTC, weightUTCShort, fst.Seq(
			fst.Opt(fst.Lit("the ")),
			fst.Cap("day", fst.Digits(1, 2)),
			fst.Opt(ordSuffix),
			fst.Lit(" of "),
			fst.Cap("month", fst.Lex("month_en")),
			fst.Opt(fst.Seq(fst.Opt(fst.Lit(",")), fst.Lit(" "), fst.Cap("year", fst.Digits(4, 4)))),
		)),
		// "january 2025" → whole-month interval of that year
		rule(famUTC, weightUTCShort, fst.Seq(
			fst.Cap("month", fst.Lex("month_en")),
			fst.Lit(" "),
			fst.Cap("year", fst.Digits(4, 4)),
		)),
		// standalone month → whole-month interval
		rule(famUTC, weightUTCMonth, fst.Cap("month", fst.Lex("month_alone_en"))),

		// ---- holidays ----
		rule(famHOLIDAY, weightHoliday, fst.Seq(
			fst.Opt(fst.Seq(fst.Cap("seek", fst.Lex("rel_mod_en")), fst.Lit(" "))),
			fst.Cap("id", fst.Lex("holiday_en")),
		)),

		// ---- relative days and units ----
		rule(famREL, weightRel, fst.Seq(fst.Out("unit", "day"), fst.Cap("offset", fst.Lex("rel_day_en")))),
		rule(famREL, weightRel, fst.Seq(
			fst.Cap("offset", fst.Lex("rel_mod_en")),
			fst.Lit(" "),
			fst.Cap("unit", fst.Lex("bare_unit_en")),
		)),

		// ---- weekdays ----
		rule(famWEEK, weightWeek, fst.Seq(
			fst.Opt(fst.Seq(fst.Cap("mod", fst.Lex("rel_mod_en")), fst.Lit(" "))),
			fst.Opt(fst.Lit("on ")),
			fst.Cap("weekday", fst.Lex("weekday_en")),
			fst.Opt(fst.Seq(fst.Lit(" after next"), fst.Out("mod", "2"))),
		)),
		// "first tuesday of october", "last friday of the month"
		rule(famWEEK, weightWeekNth, fst.Seq(
			fst.Opt(fst.Lit("the ")),
			fst.Cap("n", fst.Alt(fst.Lex("ord_word_all_en"), fst.Digits(1, 1))),
			fst.Opt(ordSuffix),
			fst.Lit(" "),
			fst.Cap("weekday", fst.Lex("weekday_en")),
			fst.Out("mod", "nth"),
			fst.Lit(" of "),
			fst.Alt(
				fst.Cap("month", fst.Lex("month_en")),
				fst.Seq(fst.Opt(fst.Lit("the ")), fst.Lit("month")),
			),
		)),
		// "first tuesday" without a month clause anchors on the context month
		rule(famWEEK, weightWeekNth, fst.Seq(
			fst.Opt(fst.Lit("the ")),
			fst.Cap("n", fst.Alt(fst.Lex("ord_word_en"), fst.Digits(1, 1))),
			fst.Opt(ordSuffix),
			fst.Lit(" "),
			fst.Cap("weekday", fst.Lex("weekday_en")),
			fst.Out("mod", "nth"),
		)),

		// ---- periods ----
		rule(famPERIOD, weightPeriod, fst.Seq(
			fst.Opt(fst.Alt(fst.Lit("in the "), fst.Lit("at "), fst.Lit("this "))),
			fst.Cap("kind", fst.Lex("period_en")),
		)),
		rule(famPERIOD, weightPeriod, fst.Seq(
			fst.Lit("tonight"), fst.Out("kind", "evening"), fst.Out("day", "0"),
		)),

		// ---- clock times ----
		rule(famCLOCK, weightClock, fst.Seq(fst.Ref("clock_hms"), fst.Ref("meridiem_opt"))),
		rule(famCLOCK, weightClock, fst.Seq(
			fst.Cap("hour", fst.Digits(1, 2)),
			fst.Opt(fst.Lit(" ")),
			fst.Cap("meridiem", fst.Lex("meridiem_en")),
		)),
		rule(famCLOCK, weightClock, fst.Seq(
			fst.Cap("hour", fst.Digits(1, 2)),
			fst.Alt(fst.Lit(" o'clock"), fst.Lit(" oclock")),
		)),

		// ---- deltas ----
		rule(famDELTA, weightDelta, fst.Seq(
			fst.Lit("in "),
			fst.Ref("amount"),
			fst.Lit(" "),
			fst.Cap("unit", fst.Lex("unit_en")),
			fst.Out("dir", "1"),
		)),
		rule(famDELTA, weightDelta, fst.Seq(
			fst.Lit("after "),
			fst.Ref("amount"),
			fst.Lit(" "),
			fst.Cap("unit", fst.Lex("unit_en")),
			fst.Out("dir", "1"),
		)),
		rule(famDELTA, weightDelta, fst.Seq(
			fst.Ref("amount"),
			fst.Lit(" "),
			fst.Cap("unit", fst.Lex("unit_en")),
			fst.Lit(" "),
			fst.Cap("dir", fst.Lex("dir_post_en")),
		)),

		// ---- range markers ----
		rule(famRangeOpen, weightRangeOpen, fst.Alt(fst.Lit("from"), fst.Lit("between"))),
		rule(famRangeSep, weightRangeSep, fst.Alt(
			fst.Lit("until"), fst.Lit("till"), fst.Lit("through"),
			fst.Lit("to"),
			fst.Lit("-"), fst.Lit("–"), fst.Lit("~"),
		)),
		// "and" separates endpoints only inside a between/from construction
		rule(famRangeSep, weightRangeSep, fst.Seq(fst.Lit("and"), fst.Out("weak", "1"))),

		// ---- centuries and decades ----
		rule(famDECADE, weightCentury, fst.Seq(
			fst.Opt(fst.Lit("the ")),
			fst.Opt(fst.Seq(fst.Cap("qualifier", fst.Lex("qual_en")), fst.Alt(fst.Lit(" "), fst.Lit("-")))),
			fst.Alt(
				fst.Seq(fst.Cap("decade4", fst.Digits(4, 4)), fst.Alt(fst.Lit("'s"), fst.Lit("s"))),
				fst.Seq(fst.Cap("decade", fst.Digits(2, 2)), fst.Alt(fst.Lit("'s"), fst.Lit("s"))),
				fst.Cap("decade", fst.Lex("decade_word_en")),
			),
		)),
		rule(famCENTURY, weightCentury, fst.Seq(
			fst.Opt(fst.Lit("the ")),
			fst.Alt(
				fst.Seq(fst.Cap("century", fst.Digits(1, 2)), ordSuffix),
				fst.Cap("century", fst.Lex("ord_century_en")),
			),
			fst.Lit(" century"),
		)),
		rule(famCENTURY, weightCentury, fst.Seq(
			fst.Cap("centuryrel", fst.Lex("rel_mod_en")),
			fst.Lit(" century"),
		)),

		// ---- recurrence ----
		rule(famRECUR, weightRecur, fst.Seq(
			fst.Lit("every "),
			fst.Alt(
				fst.Seq(fst.Lit("day"), fst.Out("unit", "day")),
				fst.Seq(fst.Lit("week"), fst.Out("unit", "week")),
				fst.Seq(fst.Lit("month"), fst.Out("unit", "month")),
				fst.Seq(fst.Lit("year"), fst.Out("unit", "year")),
				fst.Seq(fst.Cap("weekday", fst.Lex("weekday_en")), fst.Out("unit", "week")),
			),
		)),
		rule(famRECUR, weightRecur, fst.Cap("unit", fst.Lex("recur_adv_en"))),
	}

	return rs
}
