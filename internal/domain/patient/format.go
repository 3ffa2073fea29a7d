package patient

import (
	"regexp"
)

// CPFLength is the length of a fully formatted CPF (NNN.NNN.NNN-NN).
const CPFLength = 14

// PhoneLength is the length of a fully formatted mobile number ((NN) NNNNN-NNNN).
const PhoneLength = 15

var (
	nonDigit     = regexp.MustCompile(`\D`)
	threeThenOne = regexp.MustCompile(`(\d{3})(\d)`)
	cpfCheck     = regexp.MustCompile(`(\d{3})(\d{1,2})$`)
	areaCode     = regexp.MustCompile(`(\d{2})(\d)`)
	fiveThenOne  = regexp.MustCompile(`(\d{5})(\d)`)
)

// FormatCPF applies the NNN.NNN.NNN-NN mask progressively, so partial input
// yields a partial mask ("1234" -> "123.4").
func FormatCPF(value string) string {
	s := nonDigit.ReplaceAllString(value, "")
	s = replaceFirst(threeThenOne, s, "$1.$2")
	s = replaceFirst(threeThenOne, s, "$1.$2")
	s = replaceFirst(cpfCheck, s, "$1-$2")
	return truncate(s, CPFLength)
}

// FormatPhone applies the (NN) NNNNN-NNNN mask progressively.
func FormatPhone(value string) string {
	s := nonDigit.ReplaceAllString(value, "")
	s = replaceFirst(areaCode, s, "($1) $2")
	s = replaceFirst(fiveThenOne, s, "$1-$2")
	return truncate(s, PhoneLength)
}

func replaceFirst(re *regexp.Regexp, s, template string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	var dst []byte
	dst = re.ExpandString(dst, template, s, loc)
	return s[:loc[0]] + string(dst) + s[loc[1]:]
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
