package models

import "time"

type LearningEvent struct {
	ID        string                 `bson:"_id,omitempty" json:"id"`
	UserID    string                 `bson:"user_id" json:"user_id"`
	EventType string                 `bson:"event_type" json:"event_type"`
	EventData map[string]interface{} `bson:"event_data" json:"event_data"`
	Context   map[string]interface{} `bson:"context" json:"context"`
	Timestamp time.Time              `bson:"timestamp" json:"timestamp"`
}
