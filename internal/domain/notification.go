package domain

// Notification is a scheduled notification for a user.
// PK: username, SK: timestamp (creation time, stamped by the server).
type Notification struct {
	Username    string `json:"username" dynamodbav:"username"`
	Timestamp   string `json:"timestamp" dynamodbav:"timestamp"`
	Message     string `json:"message" dynamodbav:"message"`
	Device      string `json:"device" dynamodbav:"device"`
	Room        string `json:"room" dynamodbav:"room"`
	TurnOnTime  string `json:"turnOnTime" dynamodbav:"turnOnTime"`
	TurnOffTime string `json:"turnOffTime" dynamodbav:"turnOffTime"`
}

// NotificationInput is the body of an add-notification request.
type NotificationInput struct {
	Username    string `json:"username" validate:"required"`
	Message     string `json:"message" validate:"required"`
	Device      string `json:"device" validate:"required"`
	Room        string `json:"room" validate:"required"`
	TurnOnTime  string `json:"turnOnTime" validate:"required"`
	TurnOffTime string `json:"turnOffTime" validate:"required"`
}
