package grammar

import (
	"strconv"

	"github.com/y00281951/fst-time-nlu/internal/fst"
)

// 中文数词词表在构建语法时展开成 surface→阿拉伯值 的词典，
// 保持标注 span 与原文逐字对应。

var cnDigitPairs = []struct {
	s string
	v int
}{
	{"〇", 0}, {"零", 0},
	{"一", 1}, {"二", 2}, {"两", 2}, {"三", 3}, {"四", 4},
	{"五", 5}, {"六", 6}, {"七", 7}, {"八", 8}, {"九", 9},
}

// cnDigitLex maps single Chinese numerals to digits, for year sequences
// like 二〇二五.
func cnDigitLex() []fst.LexEntry {
	out := make([]fst.LexEntry, 0, len(cnDigitPairs))
	for _, p := range cnDigitPairs {
		out = append(out, fst.LexEntry{Surface: p.s, Value: strconv.Itoa(p.v)})
	}
	return out
}

// cnNumberLex generates 1..max (max ≤ 99) in standard readings, including
// the 廿 contraction for twenties.
func cnNumberLex(max int) []fst.LexEntry {
	if max > 99 {
		max = 99
	}
	units := []string{"", "一", "二", "三", "四", "五", "六", "七", "八", "九"}
	var out []fst.LexEntry
	add := func(surface string, v int) {
		if v >= 1 && v <= max {
			out = append(out, fst.LexEntry{Surface: surface, Value: strconv.Itoa(v)})
		}
	}
	for v := 1; v <= 9; v++ {
		add(units[v], v)
	}
	add("两", 2)
	add("十", 10)
	for v := 11; v <= 19; v++ {
		add("十"+units[v-10], v)
	}
	for tens := 2; tens <= 9; tens++ {
		add(units[tens]+"十", tens*10)
		for u := 1; u <= 9; u++ {
			add(units[tens]+"十"+units[u], tens*10+u)
		}
	}
	add("廿", 20)
	for u := 1; u <= 9; u++ {
		add("廿"+units[u], 20+u)
	}
	return out
}

// lunarMonthLex covers 正月..腊月 readings (surface excludes the 月 itself).
func lunarMonthLex() []fst.LexEntry {
	out := []fst.LexEntry{
		{Surface: "正", Value: "1"},
		{Surface: "冬", Value: "11"},
		{Surface: "腊", Value: "12"},
	}
	units := []string{"", "一", "二", "三", "四", "五", "六", "七", "八", "九", "十", "十一", "十二"}
	for m := 1; m <= 12; m++ {
		out = append(out, fst.LexEntry{Surface: units[m], Value: strconv.Itoa(m)})
	}
	return out
}

// lunarDayLex covers 初一..三十 including the 廿 contraction.
func lunarDayLex() []fst.LexEntry {
	units := []string{"", "一", "二", "三", "四", "五", "六", "七", "八", "九", "十"}
	var out []fst.LexEntry
	for d := 1; d <= 10; d++ {
		out = append(out, fst.LexEntry{Surface: "初" + units[d], Value: strconv.Itoa(d)})
	}
	for d := 11; d <= 19; d++ {
		out = append(out, fst.LexEntry{Surface: "十" + units[d-10], Value: strconv.Itoa(d)})
	}
	out = append(out, fst.LexEntry{Surface: "二十", Value: "20"}, fst.LexEntry{Surface: "廿", Value: "20"})
	for d := 21; d <= 29; d++ {
		out = append(out,
			fst.LexEntry{Surface: "二十" + units[d-20], Value: strconv.Itoa(d)},
			fst.LexEntry{Surface: "廿" + units[d-20], Value: strconv.Itoa(d)},
		)
	}
	out = append(out, fst.LexEntry{Surface: "三十", Value: "30"})
	return out
}

// numberWordLexEN maps English number words and fuzzy quantifiers used in
// delta expressions ("a couple of" → 2, "a few" → 3).
func numberWordLexEN() []fst.LexEntry {
	words := []struct {
		s string
		v int
	}{
		{"one", 1}, {"two", 2}, {"three", 3}, {"four", 4}, {"five", 5},
		{"six", 6}, {"seven", 7}, {"eight", 8}, {"nine", 9}, {"ten", 10},
		{"eleven", 11}, {"twelve", 12},
		{"a couple of", 2}, {"a couple", 2}, {"a few", 3}, {"several", 3},
		{"an", 1}, {"a", 1},
	}
	out := make([]fst.LexEntry, 0, len(words))
	for _, w := range words {
		out = append(out, fst.LexEntry{Surface: w.s, Value: strconv.Itoa(w.v)})
	}
	return out
}
