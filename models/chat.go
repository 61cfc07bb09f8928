package models

import "time"

// ChatMessage — одна запись в ограниченном логе канала. Хранится в кеше
// строкой JSON, newest-first.
type ChatMessage struct {
	UserID       string    `json:"userId"`
	DisplayName  string    `json:"displayName"`
	Text         string    `json:"text"`
	TimestampUTC time.Time `json:"timestampUtc"`
}
