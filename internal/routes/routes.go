package routes

import (
	"github.com/JimmyISL/atu-med-edu-sub000/internal/handlers"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func Setup(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)

	protected := api.Group("/", middleware.Protected())

	protected.Get("/me", handlers.GetMe)

	// Personnel
	people := protected.Group("/people")
	people.Get("/", handlers.GetPeople)
	people.Post("/", handlers.CreatePerson)
	people.Get("/:id", handlers.GetPerson)
	people.Put("/:id", handlers.UpdatePerson)
	people.Delete("/:id", handlers.DeletePerson)

	// CME credit ledger
	people.Get("/:id/cme", handlers.GetCMECredits)
	people.Post("/:id/cme", handlers.CreateCMECredit)
	people.Get("/:id/cme/summary", handlers.GetCMESummary)

	// Course catalog
	courses := protected.Group("/courses")
	courses.Get("/", handlers.GetCourses)
	courses.Post("/", handlers.CreateCourse)
	courses.Get("/:id", handlers.GetCourse)
	courses.Put("/:id", handlers.UpdateCourse)
	courses.Delete("/:id", handlers.DeleteCourse)

	// Training paths
	paths := protected.Group("/paths")
	paths.Get("/", handlers.GetPaths)
	paths.Post("/", handlers.CreatePath)
	paths.Get("/:id", handlers.GetPath)
	paths.Put("/:id", handlers.UpdatePath)
	paths.Delete("/:id", handlers.DeletePath)

	paths.Put("/:id/steps", handlers.ReplaceSteps)
	paths.Get("/:id/pipeline", handlers.GetPipeline)

	// Enrollment & progress
	paths.Post("/:id/trainees", handlers.EnrollTrainee)
	paths.Delete("/:id/trainees/:personId", handlers.UnenrollTrainee)
	paths.Patch("/:id/trainees/:personId", handlers.UpdateTraineeStatus)
	paths.Get("/:id/progress/:traineePathId", handlers.GetStepProgress)
	paths.Patch("/:id/progress/:traineePathId/:stepId", handlers.UpdateStepProgress)

	// Action items
	paths.Get("/:id/actions", handlers.GetPathActions)
	paths.Post("/:id/actions", handlers.CreateActionItem)
	paths.Patch("/:id/actions/:actionId", handlers.UpdateActionItem)

	// Meetings & attendance
	meetings := protected.Group("/meetings")
	meetings.Get("/", handlers.GetMeetings)
	meetings.Post("/", handlers.CreateMeeting)
	meetings.Get("/:id", handlers.GetMeeting)
	meetings.Put("/:id", handlers.UpdateMeeting)
	meetings.Delete("/:id", handlers.DeleteMeeting)
	meetings.Get("/:id/attendance", handlers.GetAttendance)
	meetings.Post("/:id/attendance", handlers.MarkAttendance)
	meetings.Delete("/:id/attendance/:personId", handlers.RemoveAttendance)

	// Certificate templates
	certificates := protected.Group("/certificates")
	certificates.Get("/", handlers.GetCertificateTemplates)
	certificates.Post("/", handlers.CreateCertificateTemplate)
	certificates.Get("/:id", handlers.GetCertificateTemplate)
	certificates.Put("/:id", handlers.UpdateCertificateTemplate)
	certificates.Delete("/:id", handlers.DeleteCertificateTemplate)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.Get("/", handlers.GetNotifications)
	notifications.Put("/:id/read", handlers.MarkNotificationRead)
	notifications.Post("/read-all", handlers.MarkAllRead)

	// Device token for push notifications
	protected.Post("/device-token", handlers.RegisterDeviceToken)

	// File upload
	protected.Post("/upload", handlers.UploadFile)

	// WebSocket for real-time path updates
	app.Use("/ws", handlers.WebSocketUpgrade())
	app.Get("/ws/paths/:id", websocket.New(handlers.HandleWebSocket))
}
