package notification

import (
	"context"

	userRepo "safarihub/database/repository/user"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService delivers push notifications to marketplace users.
type NotificationService interface {
	SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error
}

// DefaultNotificationService implements NotificationService over FCM.
type DefaultNotificationService struct {
	Users  userRepo.UserRepository
	FCM    *messaging.Client
	Logger *zap.Logger
}
