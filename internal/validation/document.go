package validation

// OnlyDigits strips formatting such as dots, dashes and slashes.
func OnlyDigits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

func repeated(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}

func checkDigit(d string, weights []int) byte {
	sum := 0
	for i, w := range weights {
		sum += int(d[i]-'0') * w
	}
	r := sum % 11
	if r < 2 {
		return '0'
	}
	return byte('0' + 11 - r)
}

// ValidCPF checks the two CPF verification digits. Formatting characters are
// ignored; sequences of one repeated digit are rejected.
func ValidCPF(cpf string) bool {
	d := OnlyDigits(cpf)
	if len(d) != 11 || repeated(d) {
		return false
	}
	first := checkDigit(d, []int{10, 9, 8, 7, 6, 5, 4, 3, 2})
	second := checkDigit(d, []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2})
	return d[9] == first && d[10] == second
}

// ValidCNPJ checks the two CNPJ verification digits.
func ValidCNPJ(cnpj string) bool {
	d := OnlyDigits(cnpj)
	if len(d) != 14 || repeated(d) {
		return false
	}
	first := checkDigit(d, []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	second := checkDigit(d, []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	return d[12] == first && d[13] == second
}
