// Package types contains read shapes shared between the service and the API.
package types

// UserStats is the aggregate progression view for one user.
type UserStats struct {
	PRPPoints        int     `json:"prp_points"`
	SkillLevel       int     `json:"skill_level"`
	TotalXP          int     `json:"total_xp"`
	SubmissionsCount int     `json:"submissions_count"`
	ReviewsCount     int     `json:"reviews_count"`
	AverageRating    float64 `json:"average_rating"`
}
