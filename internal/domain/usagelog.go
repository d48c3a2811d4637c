package domain

// UsageLog is one device usage entry. PK: username, SK: timestamp.
type UsageLog struct {
	Username  string `json:"username" dynamodbav:"username" validate:"required"`
	Timestamp string `json:"timestamp" dynamodbav:"timestamp" validate:"required"`
	Device    string `json:"device" dynamodbav:"device" validate:"required"`
	Room      string `json:"room" dynamodbav:"room" validate:"required"`
	Action    string `json:"action" dynamodbav:"action" validate:"required"`
}

// UsageLogQuery selects usage logs. All marks the admin full-scan path.
// Start and End are bare dates or full timestamps; empty means unbounded.
type UsageLogQuery struct {
	Username string
	All      bool
	Start    string
	End      string
}

// UsageLogDeleteRequest deletes a user's logs between two inclusive bounds.
type UsageLogDeleteRequest struct {
	Username  string `json:"username" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}
