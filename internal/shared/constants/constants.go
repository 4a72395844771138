package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderWebhookSecret = "X-Webhook-Secret"

	// Context keys set by the viewer middleware
	ContextKeyViewer    = "viewer"
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"

	RoleAdmin   = "admin"
	RoleStudent = "student"

	// Database table names
	TableSubscriptions       = "subscriptions"
	TableCourses             = "courses"
	TableModules             = "modules"
	TableLessons             = "lessons"
	TableCourseModules       = "course_modules"
	TableModuleLessons       = "module_lessons"
	TableCourseDelegations   = "course_delegations"
	TableLessonComments      = "lesson_comments"
	TableProviderCredentials = "provider_credentials"
	TableWebhookEvents       = "webhook_events"

	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
)
