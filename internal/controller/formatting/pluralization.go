package formatting

func pluralize(count int, one, few, many string) string {
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizeMentors возвращает правильное склонение слова "ментор"
func PluralizeMentors(count int) string {
	return pluralize(count, "ментор", "ментора", "менторов")
}

// PluralizeRows возвращает правильное склонение слова "строка"
func PluralizeRows(count int) string {
	return pluralize(count, "строка", "строки", "строк")
}
