package models

const RoleStudent = "student"

type User struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	Email     string `bson:"email" json:"email"`
	FullName  string `bson:"full_name" json:"full_name"`
	Grade     int    `bson:"grade" json:"grade"`
	Role      string `bson:"role" json:"role"`
	AvatarURL string `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
}

type UserProfile struct {
	ID                      string `bson:"_id,omitempty" json:"id"`
	UserID                  string `bson:"user_id" json:"user_id"`
	LearningStyle           string `bson:"learning_style" json:"learning_style"`
	PreferredDifficulty     string `bson:"preferred_difficulty" json:"preferred_difficulty"`
	SessionLengthPreference int    `bson:"session_length_preference" json:"session_length_preference"`
}
