package model

import "time"

// SectionProgress is the ledger row for one learner's state on one
// (module, section) pair. The triple (user, module, section) is unique;
// later events mutate the row in place, rows are never deleted.
//
// CompletedAt is monotonic: once set it is only overwritten by another
// completing event. TimeSpent accumulates across calls and is never reset.
type SectionProgress struct {
	BaseModel
	UserID       uint       `gorm:"index:idx_user_module_section,unique;not null" json:"userId"`
	ModuleID     uint       `gorm:"index:idx_user_module_section,unique;not null" json:"moduleId"`
	SectionID    string     `gorm:"size:100;index:idx_user_module_section,unique;not null" json:"sectionId"`
	Completed    bool       `gorm:"default:false" json:"completed"`
	Score        *float64   `json:"score,omitempty"`
	TimeSpent    int        `gorm:"default:0" json:"timeSpent"`
	LastAccessed time.Time  `json:"lastAccessed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

func (SectionProgress) TableName() string {
	return "section_progress"
}
