package constant

const (
	NotificationExchange   = "relief_notification_exchange"
	NotificationQueue      = "relief_notification_queue"
	NotificationBindingKey = "#"
	TopicVolunteers        = "volunteers"
	userTopicPrefix        = "user."
)

// UserTopic is the routing key for messages addressed to a single user.
func UserTopic(userID string) string {
	return userTopicPrefix + userID
}
