package models

import (
	"encoding/json"
	"time"
)

// Papéis das mensagens
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Canais de origem
const (
	ChannelApp      = "app"
	ChannelWhatsApp = "whatsapp"
)

// GroundingSource citação retornada junto com a resposta do modelo
type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// ChatMessage mensagem do histórico de conversa, imutável após criada
type ChatMessage struct {
	ID          string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID      string    `gorm:"type:varchar(50);index" json:"userId"`
	Role        string    `gorm:"type:varchar(10)" json:"role"`
	Text        string    `gorm:"type:text" json:"text"`
	ImageData   []byte    `gorm:"type:mediumblob" json:"-"`
	ImageMIME   string    `gorm:"type:varchar(50)" json:"imageMime,omitempty"`
	SourcesJSON string    `gorm:"type:text" json:"-"`
	Channel     string    `gorm:"type:varchar(10);default:app" json:"channel"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`

	// Indica se a gravação remota foi confirmada; falso marca a mensagem
	// como não sincronizada na resposta da API
	Synced bool `gorm:"-" json:"synced"`
}

// SetSources serializa as citações para a coluna de texto
func (m *ChatMessage) SetSources(sources []GroundingSource) {
	if len(sources) == 0 {
		m.SourcesJSON = ""
		return
	}
	data, err := json.Marshal(sources)
	if err != nil {
		return
	}
	m.SourcesJSON = string(data)
}

// Sources desserializa as citações armazenadas
func (m *ChatMessage) Sources() []GroundingSource {
	if m.SourcesJSON == "" {
		return nil
	}
	var sources []GroundingSource
	if err := json.Unmarshal([]byte(m.SourcesJSON), &sources); err != nil {
		return nil
	}
	return sources
}

// MarshalJSON inclui as citações desserializadas no payload
func (m ChatMessage) MarshalJSON() ([]byte, error) {
	type alias ChatMessage
	return json.Marshal(struct {
		alias
		Sources []GroundingSource `json:"sources,omitempty"`
	}{
		alias:   alias(m),
		Sources: m.Sources(),
	})
}
