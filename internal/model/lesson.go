package model

import (
	"time"
)

// LessonExtra 课程附加信息
type LessonExtra struct {
	CoverURL string `json:"coverUrl"`
	VideoURL string `json:"videoUrl"`
}

// Lesson 课程，归属于创建它的用户
type Lesson struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64       `gorm:"index;not null" json:"userId"`
	LessonName string      `gorm:"type:varchar(128);not null" json:"lessonName"`
	SubjectID  int64       `json:"subjectId"`
	URL        *string     `gorm:"type:varchar(255);uniqueIndex" json:"url"`
	Goals      string      `gorm:"type:text" json:"goals"`
	Extra      LessonExtra `gorm:"serializer:json" json:"extra"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// Skill 技能
type Skill struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SkillName string    `gorm:"type:varchar(64);not null" json:"skillName"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Skill) TableName() string {
	return "skills"
}

// LessonSkill 课程技能评分
type LessonSkill struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index;not null" json:"userId"`
	LessonID  int64     `gorm:"index;not null" json:"lessonId"`
	SkillID   int64     `gorm:"index;not null" json:"skillId"`
	Score     int       `gorm:"default:0" json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

func (LessonSkill) TableName() string {
	return "lesson_skills"
}
