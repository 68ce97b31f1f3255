package models

type Subject struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	Name      string `bson:"name" json:"name"`
	ColorHex  string `bson:"color_hex" json:"color_hex"`
	Icon      string `bson:"icon" json:"icon"`
	SortOrder int    `bson:"sort_order" json:"sort_order"`
	IsActive  bool   `bson:"is_active" json:"is_active"`
}

type Topic struct {
	ID                 string   `bson:"_id,omitempty" json:"id"`
	SubjectID          string   `bson:"subject_id" json:"subject_id"`
	Name               string   `bson:"name" json:"name"`
	Description        string   `bson:"description" json:"description"`
	GradeLevel         int      `bson:"grade_level" json:"grade_level"`
	LearningObjectives []string `bson:"learning_objectives" json:"learning_objectives"`
	SortOrder          int      `bson:"sort_order" json:"sort_order"`
	IsActive           bool     `bson:"is_active" json:"is_active"`
}
