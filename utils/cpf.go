package utils

import (
	"fmt"
	"strings"
)

// FormattedCPFLength tamanho de um CPF formatado (123.456.789-01)
const FormattedCPFLength = 14

// cpfDigits descarta tudo que não for dígito, limitado aos 11 do CPF
func cpfDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 11 {
				break
			}
		}
	}
	return b.String()
}

// FormatCPF aplica a máscara 123.456.789-01 conforme o usuário digita
func FormatCPF(value string) string {
	digits := cpfDigits(value)
	switch {
	case len(digits) <= 3:
		return digits
	case len(digits) <= 6:
		return fmt.Sprintf("%s.%s", digits[:3], digits[3:])
	case len(digits) <= 9:
		return fmt.Sprintf("%s.%s.%s", digits[:3], digits[3:6], digits[6:])
	default:
		return fmt.Sprintf("%s.%s.%s-%s", digits[:3], digits[3:6], digits[6:9], digits[9:])
	}
}

// ValidateCPF bloqueia o envio quando o CPF está incompleto
func ValidateCPF(value string) error {
	if len(FormatCPF(value)) < FormattedCPFLength {
		return fmt.Errorf("CPF incompleto")
	}
	return nil
}
