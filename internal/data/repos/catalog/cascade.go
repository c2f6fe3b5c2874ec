package catalog

import (
	"github.com/google/uuid"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"gorm.io/gorm"
)

// Foreign keys are not created at migration time, so child rows are removed here.
// Learner rows (progress, attempts, entitlements) are kept as history.

func deleteLessonChildren(tx *gorm.DB, lessonIDs []uuid.UUID) error {
	if len(lessonIDs) == 0 {
		return nil
	}
	var quizIDs []uuid.UUID
	if err := tx.Model(&types.Quiz{}).Where("lesson_id IN ?", lessonIDs).Pluck("id", &quizIDs).Error; err != nil {
		return err
	}
	if len(quizIDs) > 0 {
		if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&types.Question{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&types.Quiz{}).Error; err != nil {
		return err
	}
	return tx.Where("lesson_id IN ?", lessonIDs).Delete(&types.Attachment{}).Error
}

func deleteSectionChildren(tx *gorm.DB, sectionIDs []uuid.UUID) error {
	if len(sectionIDs) == 0 {
		return nil
	}
	var lessonIDs []uuid.UUID
	if err := tx.Model(&types.Lesson{}).Where("section_id IN ?", sectionIDs).Pluck("id", &lessonIDs).Error; err != nil {
		return err
	}
	if err := deleteLessonChildren(tx, lessonIDs); err != nil {
		return err
	}
	return tx.Where("section_id IN ?", sectionIDs).Delete(&types.Lesson{}).Error
}

func deleteCourseChildren(tx *gorm.DB, courseID uuid.UUID) error {
	var sectionIDs []uuid.UUID
	if err := tx.Model(&types.Section{}).Where("course_id = ?", courseID).Pluck("id", &sectionIDs).Error; err != nil {
		return err
	}
	if err := deleteSectionChildren(tx, sectionIDs); err != nil {
		return err
	}
	return tx.Where("course_id = ?", courseID).Delete(&types.Section{}).Error
}
