package models

import "time"

// Anamnesis respostas do questionário de entrada, um registro por usuário
type Anamnesis struct {
	UserID        string    `gorm:"type:varchar(50);primaryKey" json:"userId"`
	Mood          string    `gorm:"type:varchar(50)" json:"mood"`
	MainComplaint string    `gorm:"type:text" json:"mainComplaint"`
	SleepQuality  int       `json:"sleepQuality"` // escala 1-5
	AnxietyLevel  int       `json:"anxietyLevel"` // escala 1-5
	Routine       string    `gorm:"type:text" json:"routine"`
	History       string    `gorm:"type:text" json:"history"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// MoodEntry registro de humor, apenas inserção
type MoodEntry struct {
	ID        string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(50);index" json:"userId"`
	Mood      string    `gorm:"type:varchar(50)" json:"mood"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

// GratitudeEntry registro do diário de gratidão, apenas inserção
type GratitudeEntry struct {
	ID        string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(50);index" json:"userId"`
	Text      string    `gorm:"type:text" json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// WinEntry registro do exercício de ressignificação, apenas inserção
type WinEntry struct {
	ID        string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(50);index" json:"userId"`
	Thought   string    `gorm:"type:text" json:"thought"`
	Reframe   string    `gorm:"type:text" json:"reframe"`
	CreatedAt time.Time `json:"createdAt"`
}

// IntentionEntry intenção diária, apenas inserção; Date agrupa por dia
type IntentionEntry struct {
	ID        string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(50);index" json:"userId"`
	Text      string    `gorm:"type:text" json:"text"`
	Date      string    `gorm:"type:varchar(10);index" json:"date"` // aaaa-mm-dd
	CreatedAt time.Time `json:"createdAt"`
}
