package model

type SectionKind string

const (
	SectionTopic SectionKind = "topic"
	SectionQuiz  SectionKind = "quiz"
)

// Course is one track of the curriculum (Bitcoin, Ethereum, DeFi, ...).
type Course struct {
	BaseModel
	Slug        string         `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Level       string         `gorm:"size:50;default:'beginner'" json:"level"`
	Modules     []CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseModule is one numbered learning module inside a course. Number is
// unique across the whole platform; clients address modules by it.
type CourseModule struct {
	BaseModel
	CourseID uint      `gorm:"index;not null" json:"courseId"`
	Number   uint      `gorm:"uniqueIndex;not null" json:"number"`
	Title    string    `gorm:"size:255;not null" json:"title"`
	Sections []Section `gorm:"foreignKey:ModuleID" json:"sections,omitempty"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

// Section is a single page inside a module: either a readable topic or the
// module quiz. Slug is what the progress ledger keys on ("bitcoin-quiz").
type Section struct {
	BaseModel
	ModuleID uint        `gorm:"index;not null" json:"moduleId"`
	Slug     string      `gorm:"size:100;not null" json:"slug"`
	Title    string      `gorm:"size:255;not null" json:"title"`
	Kind     SectionKind `gorm:"size:10;default:'topic'" json:"kind"`
	Order    int         `gorm:"default:0" json:"order"`
}

func (Section) TableName() string {
	return "sections"
}
