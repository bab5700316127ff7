package models

import "time"

type User struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	DisplayName string    `db:"display_name" json:"display_name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type ReadingEntry struct {
	ID               int64         `db:"id" json:"id"`
	UserID           int64         `db:"user_id" json:"user_id"`
	Title            string        `db:"title" json:"title"`
	Author           *string       `db:"author" json:"author"`
	ISBN             *string       `db:"isbn" json:"isbn"`
	ReadingType      ReadingType   `db:"reading_type" json:"reading_type"`
	LengthPages      *int          `db:"length_pages" json:"length_pages"`
	LengthDuration   *string       `db:"length_duration" json:"length_duration"`
	Status           ReadingStatus `db:"status" json:"status"`
	ProgressFraction *float64      `db:"progress_fraction" json:"progress_fraction"`
	StartedDate      *time.Time    `db:"started_date" json:"started_date"`
	PausedDate       *time.Time    `db:"paused_date" json:"paused_date"`
	CompletedDate    *time.Time    `db:"completed_date" json:"completed_date"`
	Notes            *string       `db:"notes" json:"notes"`
	PauseReason      *string       `db:"pause_reason" json:"pause_reason"`
	SeriesInfo       *string       `db:"series_info" json:"series_info"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updated_at"`
}

type DrawingEntry struct {
	ID                 int64          `db:"id" json:"id"`
	UserID             int64          `db:"user_id" json:"user_id"`
	Title              string         `db:"title" json:"title"`
	Subject            *string        `db:"subject" json:"subject"`
	Medium             *DrawingMedium `db:"medium" json:"medium"`
	Context            *string        `db:"context" json:"context"`
	Location           *string        `db:"location" json:"location"`
	StartDate          *time.Time     `db:"start_date" json:"start_date"`
	EndDate            *time.Time     `db:"end_date" json:"end_date"`
	DurationHours      *float64       `db:"duration_hours" json:"duration_hours"`
	SessionsCount      *int           `db:"sessions_count" json:"sessions_count"`
	ProcessDescription *string        `db:"process_description" json:"process_description"`
	TemplateUsed       *string        `db:"template_used" json:"template_used"`
	AssistanceLevel    *string        `db:"assistance_level" json:"assistance_level"`
	TechnicalNotes     *string        `db:"technical_notes" json:"technical_notes"`
	MaterialsCount     *int           `db:"materials_count" json:"materials_count"`
	ComplexityLevel    *string        `db:"complexity_level" json:"complexity_level"`
	Status             DrawingStatus  `db:"status" json:"status"`
	CompletionNotes    *string        `db:"completion_notes" json:"completion_notes"`
	ContinuationPlans  *string        `db:"continuation_plans" json:"continuation_plans"`
	ReferenceLink      *string        `db:"reference_link" json:"reference_link"`
	ImageURL           *string        `db:"image_url" json:"image_url"`
	ImageFilename      *string        `db:"image_filename" json:"image_filename"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

type FitnessEntry struct {
	ID              int64         `db:"id" json:"id"`
	UserID          int64         `db:"user_id" json:"user_id"`
	Title           string        `db:"title" json:"title"`
	ActivityType    *FitnessType  `db:"activity_type" json:"activity_type"`
	Description     *string       `db:"description" json:"description"`
	ActivityDate    *time.Time    `db:"activity_date" json:"activity_date"`
	DurationMinutes *float64      `db:"duration_minutes" json:"duration_minutes"`
	PlannedDuration *float64      `db:"planned_duration" json:"planned_duration"`
	DistanceKm      *float64      `db:"distance_km" json:"distance_km"`
	CaloriesBurned  *int          `db:"calories_burned" json:"calories_burned"`
	HeartRateAvg    *int          `db:"heart_rate_avg" json:"heart_rate_avg"`
	HeartRateMax    *int          `db:"heart_rate_max" json:"heart_rate_max"`
	IntensityLevel  *string       `db:"intensity_level" json:"intensity_level"`
	PerceivedEffort *int          `db:"perceived_effort" json:"perceived_effort"`
	Location        *string       `db:"location" json:"location"`
	Weather         *string       `db:"weather" json:"weather"`
	EquipmentUsed   *string       `db:"equipment_used" json:"equipment_used"`
	Status          FitnessStatus `db:"status" json:"status"`
	Notes           *string       `db:"notes" json:"notes"`
	Achievements    *string       `db:"achievements" json:"achievements"`
	NextGoals       *string       `db:"next_goals" json:"next_goals"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

type JournalEntry struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	Date          Date      `db:"date" json:"date"`
	Title         *string   `db:"title" json:"title"`
	Location      *string   `db:"location" json:"location"`
	Context       string    `db:"context" json:"context"`
	ParentalInput *string   `db:"parental_input" json:"parental_input"`
	AIAnalysis    *string   `db:"ai_analysis" json:"ai_analysis"`
	Tags          *string   `db:"tags" json:"tags"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// MonthCount is one bucket of a sparse monthly series.
type MonthCount struct {
	Year  int `db:"year" json:"year"`
	Month int `db:"month" json:"month"`
	Count int `db:"count" json:"count"`
}

// CategoryStats aggregates one category's entries created in a period.
// Hours is filled for drawing, Minutes and DistanceKm for fitness.
type CategoryStats struct {
	Count      int      `db:"count" json:"count"`
	Completed  int      `db:"completed" json:"completed"`
	Hours      *float64 `db:"hours" json:"total_hours,omitempty"`
	Minutes    *float64 `db:"minutes" json:"total_minutes,omitempty"`
	DistanceKm *float64 `db:"distance_km" json:"total_distance_km,omitempty"`
}
