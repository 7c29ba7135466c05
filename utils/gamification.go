package utils

import (
	"log"

	"lms/config"

	"github.com/go-resty/resty/v2"
)

// Gamification event types consumed by the points/badge service
const (
	EventContentCompleted = "content_completed"
	EventAssignmentPassed = "assignment_passed"
	EventCourseCompleted  = "course_completed"
)

// EmitGamificationEvent posts an event to the gamification webhook in the
// background. Fire and forget: delivery failures are logged and dropped, the
// core never depends on the outcome.
func EmitGamificationEvent(event string, payload map[string]interface{}) {
	webhookURL := config.AppConfig.GamificationWebhookURL
	if webhookURL == "" {
		return
	}

	go func() {
		client := resty.New()
		resp, err := client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]interface{}{
				"event":   event,
				"payload": payload,
			}).
			Post(webhookURL)
		if err != nil {
			log.Printf("Error sending gamification event %s: %v", event, err)
			return
		}
		if resp.StatusCode() >= 300 {
			log.Printf("Gamification event %s rejected with status %d", event, resp.StatusCode())
		}
	}()
}
