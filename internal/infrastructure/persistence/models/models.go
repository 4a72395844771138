// Package models holds the gorm persistence models.
package models

// All returns every model, in an order that satisfies foreign keys, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&SubscriptionModel{},
		&CourseModel{},
		&ModuleModel{},
		&LessonModel{},
		&CourseModuleModel{},
		&ModuleLessonModel{},
		&CourseDelegationModel{},
		&LessonCommentModel{},
		&ProviderCredentialModel{},
		&WebhookEventModel{},
	}
}
