package models

import (
	"time"

	"coursegate/internal/shared/constants"
)

// NodeFields are the columns shared by courses, modules and lessons.
type NodeFields struct {
	Slug             string `gorm:"uniqueIndex;not null;size:191"`
	Name             string `gorm:"not null;size:255"`
	Description      string `gorm:"type:text"`
	Thumbnail        string `gorm:"size:512"`
	MarketingContent string `gorm:"type:text;comment:markdown"`
	MarketingVideo   string `gorm:"size:512"`
	Content          string `gorm:"type:text;comment:markdown, gated"`
	Video            string `gorm:"size:512;comment:gated"`
	Published        bool   `gorm:"not null;default:false"`
	PublicationDate  *time.Time
}

type CourseModel struct {
	ID          uint       `gorm:"primarykey"`
	NodeFields  `gorm:"embedded"`
	Modules     []CourseModuleModel     `gorm:"foreignKey:CourseID"`
	Delegations []CourseDelegationModel `gorm:"foreignKey:CourseID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CourseModel) TableName() string {
	return constants.TableCourses
}

type ModuleModel struct {
	ID         uint `gorm:"primarykey"`
	NodeFields `gorm:"embedded"`
	Lessons    []ModuleLessonModel `gorm:"foreignKey:ModuleID"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ModuleModel) TableName() string {
	return constants.TableModules
}

type LessonModel struct {
	ID         uint `gorm:"primarykey"`
	NodeFields `gorm:"embedded"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (LessonModel) TableName() string {
	return constants.TableLessons
}

// CourseModuleModel places a module inside a course with its own schedule.
type CourseModuleModel struct {
	ID              uint        `gorm:"primarykey"`
	CourseID        uint        `gorm:"not null;uniqueIndex:uk_course_module,priority:1"`
	ModuleID        uint        `gorm:"not null;uniqueIndex:uk_course_module,priority:2"`
	SortOrder       int         `gorm:"not null;default:0"`
	Published       bool        `gorm:"not null;default:false"`
	PublicationDate *time.Time
	Module          ModuleModel `gorm:"foreignKey:ModuleID"`
}

func (CourseModuleModel) TableName() string {
	return constants.TableCourseModules
}

// ModuleLessonModel places a lesson inside a module.
type ModuleLessonModel struct {
	ID              uint        `gorm:"primarykey"`
	ModuleID        uint        `gorm:"not null;uniqueIndex:uk_module_lesson,priority:1"`
	LessonID        uint        `gorm:"not null;uniqueIndex:uk_module_lesson,priority:2"`
	SortOrder       int         `gorm:"not null;default:0"`
	Published       bool        `gorm:"not null;default:false"`
	PublicationDate *time.Time
	Lesson          LessonModel `gorm:"foreignKey:LessonID"`
}

func (ModuleLessonModel) TableName() string {
	return constants.TableModuleLessons
}

// CourseDelegationModel: an active subscription to DelegateCourseID unlocks CourseID.
type CourseDelegationModel struct {
	ID               uint `gorm:"primarykey"`
	CourseID         uint `gorm:"not null;uniqueIndex:uk_course_delegation,priority:1"`
	DelegateCourseID uint `gorm:"not null;uniqueIndex:uk_course_delegation,priority:2"`
}

func (CourseDelegationModel) TableName() string {
	return constants.TableCourseDelegations
}

type LessonCommentModel struct {
	ID        uint   `gorm:"primarykey"`
	LessonID  uint   `gorm:"not null;index:idx_lesson_comment"`
	ParentID  *uint  `gorm:"index:idx_comment_parent"`
	Author    string `gorm:"not null;size:255"`
	Body      string `gorm:"type:text;not null"`
	Published bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LessonCommentModel) TableName() string {
	return constants.TableLessonComments
}
