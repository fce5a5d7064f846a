package service

import (
	"errors"
	"fmt"

	"lesson-server/internal/model"

	"gorm.io/gorm"
)

// SkillScoreEntry 技能评分项
type SkillScoreEntry struct {
	SkillID int64 `json:"id" binding:"required"`
	Score   int   `json:"score"`
}

// LessonParams 创建/更新课程参数
type LessonParams struct {
	LessonName string            `json:"lessonName"`
	SubjectID  int64             `json:"subjectId"`
	URL        *string           `json:"url"`
	Goals      string            `json:"goals"`
	Extra      model.LessonExtra `json:"extra"`
	Skills     []SkillScoreEntry `json:"skills"`
}

// GetLesson 按 id 查找课程，userId 不为 0 时校验归属
func GetLesson(lessonID, userID int64) (*model.Lesson, error) {
	query := model.DB.Where("id = ?", lessonID)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}

	var lesson model.Lesson
	if err := query.First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

// ListLessons 获取用户创建的全部课程
func ListLessons(userID int64) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := model.DB.Where("user_id = ?", userID).Order("id DESC").Find(&lessons).Error
	return lessons, err
}

// CreateLesson 创建课程，传了 skills 时同时批量创建技能评分
func CreateLesson(userID int64, params LessonParams) (*model.Lesson, error) {
	lesson := model.Lesson{
		UserID:     userID,
		LessonName: params.LessonName,
		SubjectID:  params.SubjectID,
		URL:        params.URL,
		Goals:      params.Goals,
		Extra:      params.Extra,
	}
	if err := model.DB.Create(&lesson).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDB, err)
	}

	if len(params.Skills) > 0 {
		rows := skillRows(userID, lesson.ID, params.Skills)
		if err := model.DB.Create(&rows).Error; err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDB, err)
		}
	}
	return &lesson, nil
}

// UpdateLesson 更新课程。传了 skills 时评分整体替换：
// 先删除原有评分再批量重建。
func UpdateLesson(lessonID, userID int64, params LessonParams) error {
	lesson, err := GetLesson(lessonID, userID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if params.LessonName != "" {
		updates["lesson_name"] = params.LessonName
	}
	if params.SubjectID != 0 {
		updates["subject_id"] = params.SubjectID
	}
	if params.URL != nil {
		updates["url"] = *params.URL
	}
	if params.Goals != "" {
		updates["goals"] = params.Goals
	}
	if len(updates) > 0 {
		if err := model.DB.Model(lesson).Updates(updates).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrDB, err)
		}
	}

	if params.Skills == nil {
		return nil
	}

	tx := model.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.Where("lesson_id = ?", lessonID).Delete(&model.LessonSkill{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: %v", ErrDB, err)
	}
	if len(params.Skills) > 0 {
		rows := skillRows(userID, lessonID, params.Skills)
		if err := tx.Create(&rows).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("%w: %v", ErrDB, err)
		}
	}
	return tx.Commit().Error
}

// DestroyLesson 删除课程，连同它的技能评分一起删除
func DestroyLesson(lessonID, userID int64) error {
	tx := model.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.Where("lesson_id = ? AND user_id = ?", lessonID, userID).
		Delete(&model.LessonSkill{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("id = ? AND user_id = ?", lessonID, userID).
		Delete(&model.Lesson{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func skillRows(userID, lessonID int64, skills []SkillScoreEntry) []model.LessonSkill {
	rows := make([]model.LessonSkill, 0, len(skills))
	for _, s := range skills {
		if s.SkillID == 0 {
			continue
		}
		rows = append(rows, model.LessonSkill{
			UserID:   userID,
			LessonID: lessonID,
			SkillID:  s.SkillID,
			Score:    s.Score,
		})
	}
	return rows
}

// SkillScoreView 技能评分及技能名称
type SkillScoreView struct {
	model.LessonSkill
	SkillName string `json:"skillName"`
}

// GetSkillsWithName 获取课程的技能评分，带技能名称
func GetSkillsWithName(lessonID int64) ([]SkillScoreView, error) {
	var list []SkillScoreView
	err := model.DB.Model(&model.LessonSkill{}).
		Select("lesson_skills.*, skills.skill_name AS skill_name").
		Joins("LEFT JOIN skills ON skills.id = lesson_skills.skill_id").
		Where("lesson_skills.lesson_id = ?", lessonID).
		Scan(&list).Error
	return list, err
}

// AddSkillScore 给课程增加一项技能评分，课程和技能都必须存在
func AddSkillScore(userID, lessonID, skillID int64, score int) error {
	if _, err := GetLesson(lessonID, userID); err != nil {
		return err
	}

	var skill model.Skill
	if err := model.DB.First(&skill, "id = ?", skillID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArgs
		}
		return err
	}

	row := model.LessonSkill{
		UserID:   userID,
		LessonID: lessonID,
		SkillID:  skillID,
		Score:    score,
	}
	if err := model.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrDB, err)
	}
	return nil
}

// GetPackagesByLessonID 获取课程所属的全部课程包（跨关联表联查）
func GetPackagesByLessonID(lessonID int64) ([]model.Package, error) {
	var packages []model.Package
	err := model.DB.Raw(`SELECT packages.*
		FROM package_lessons, packages
		WHERE package_lessons.package_id = packages.id
		  AND package_lessons.lesson_id = ?`, lessonID).Scan(&packages).Error
	return packages, err
}
