package model

// ChatMessage is one persisted turn of the learner's conversation with the
// course assistant. SessionID groups turns into a conversation.
type ChatMessage struct {
	UUIDBase
	UserID    uint   `gorm:"index;not null" json:"userId"`
	SessionID string `gorm:"size:36;index;not null" json:"sessionId"`
	Role      string `gorm:"size:20;not null" json:"role"`
	Content   string `gorm:"type:text" json:"content"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
