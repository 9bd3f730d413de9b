package services

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/database"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/logger"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/models"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// PushService handles sending push notifications via Firebase Cloud Messaging
type PushService struct {
	client *messaging.Client
}

// Global push service instance
var Push *PushService

// InitPush initializes the Firebase push notification service.
// Returns nil gracefully if no service account is configured (dev mode).
func InitPush(serviceAccountPath string) error {
	if serviceAccountPath == "" {
		logger.L.Info("fcm: no service account configured, push notifications disabled")
		Push = &PushService{client: nil}
		return nil
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		logger.L.Warn("fcm: failed to initialize firebase app", "error", err)
		Push = &PushService{client: nil}
		return nil
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		logger.L.Warn("fcm: failed to get messaging client", "error", err)
		Push = &PushService{client: nil}
		return nil
	}

	Push = &PushService{client: client}
	logger.L.Info("fcm: push notifications enabled")
	return nil
}

// SendToPerson sends a push notification to a person by their ID.
// No-op if push is not configured or the person has no FCM token.
func (p *PushService) SendToPerson(personID uuid.UUID, title, body string, data map[string]string) {
	if p == nil || p.client == nil {
		return
	}

	var person models.Person
	if err := database.DB.Select("fcm_token").First(&person, personID).Error; err != nil {
		return
	}

	if person.FCMToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: person.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}

	if data != nil {
		msg.Data = data
	}

	_, err := p.client.Send(context.Background(), msg)
	if err != nil {
		logger.L.Warn("fcm: failed to send", "person_id", personID, "error", err)
	}
}
