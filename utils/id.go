package utils

import "github.com/google/uuid"

// GenerateID gera o identificador de novos registros
func GenerateID() string {
	return uuid.New().String()
}
