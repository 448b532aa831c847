package utils

import (
	"fmt"
	"unicode"
)

// Rótulos das faixas de força de senha, da mais fraca para a mais forte
var strengthLabels = []string{"Muito fraca", "Fraca", "Média", "Forte", "Muito forte"}

// MinPasswordLength tamanho mínimo aceito no cadastro
const MinPasswordLength = 6

// PasswordStrength pontua a senha (0-5) e retorna o rótulo da faixa
func PasswordStrength(password string) (int, string) {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	score := 0
	if len(password) >= 8 {
		score++
	}
	for _, ok := range []bool{hasUpper, hasLower, hasDigit, hasSymbol} {
		if ok {
			score++
		}
	}

	label := strengthLabels[0]
	switch {
	case score >= 5:
		label = strengthLabels[4]
	case score == 4:
		label = strengthLabels[3]
	case score == 3:
		label = strengthLabels[2]
	case score == 2:
		label = strengthLabels[1]
	}
	return score, label
}

// ValidatePassword rejeita credenciais fracas antes de qualquer chamada de rede
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("a senha deve ter pelo menos %d caracteres", MinPasswordLength)
	}
	return nil
}
