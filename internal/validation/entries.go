package validation

import "progress-tracker-go/internal/models"

// Each Parse method coerces every field it knows about, then runs struct
// bounds, and returns all problems at once as FieldErrors.

func (p *Parser) Reading(src Source) (models.ReadingPatch, error) {
	errs := FieldErrors{}
	patch := models.ReadingPatch{
		UserID:           ID(src, errs, "user_id"),
		Title:            Text(src, "title"),
		Author:           Text(src, "author"),
		ISBN:             Text(src, "isbn"),
		ReadingType:      Enum(src, errs, "reading_type", models.ReadingTypes),
		LengthPages:      Int(src, errs, "length_pages"),
		LengthDuration:   Text(src, "length_duration"),
		Status:           Enum(src, errs, "status", models.ReadingStatuses),
		ProgressFraction: Float(src, errs, "progress_fraction"),
		StartedDate:      p.Timestamp(src, errs, "started_date", StartOfDay),
		PausedDate:       p.Timestamp(src, errs, "paused_date", Midday),
		CompletedDate:    p.Timestamp(src, errs, "completed_date", EndOfDay),
		Notes:            Text(src, "notes"),
		PauseReason:      Text(src, "pause_reason"),
		SeriesInfo:       Text(src, "series_info"),
	}
	if err := Check(patch, errs); err != nil {
		return patch, err
	}
	return patch, errs.Err()
}

func (p *Parser) Drawing(src Source) (models.DrawingPatch, error) {
	errs := FieldErrors{}
	patch := models.DrawingPatch{
		UserID:             ID(src, errs, "user_id"),
		Title:              Text(src, "title"),
		Subject:            Text(src, "subject"),
		Medium:             Enum(src, errs, "medium", models.DrawingMediums),
		Context:            Text(src, "context"),
		Location:           Text(src, "location"),
		StartDate:          p.Timestamp(src, errs, "start_date", StartOfDay),
		EndDate:            p.Timestamp(src, errs, "end_date", EndOfDay),
		DurationHours:      Float(src, errs, "duration_hours"),
		SessionsCount:      Int(src, errs, "sessions_count"),
		ProcessDescription: Text(src, "process_description"),
		TemplateUsed:       Text(src, "template_used"),
		AssistanceLevel:    Text(src, "assistance_level"),
		TechnicalNotes:     Text(src, "technical_notes"),
		MaterialsCount:     Int(src, errs, "materials_count"),
		ComplexityLevel:    Text(src, "complexity_level"),
		Status:             Enum(src, errs, "status", models.DrawingStatuses),
		CompletionNotes:    Text(src, "completion_notes"),
		ContinuationPlans:  Text(src, "continuation_plans"),
		ReferenceLink:      Text(src, "reference_link"),
		ImageURL:           Text(src, "image_url"),
		ImageFilename:      Text(src, "image_filename"),
	}
	if (patch.ImageURL == nil) != (patch.ImageFilename == nil) {
		errs.Add("image_url", "image_url and image_filename must be supplied together")
	}
	if err := Check(patch, errs); err != nil {
		return patch, err
	}
	return patch, errs.Err()
}

func (p *Parser) Fitness(src Source) (models.FitnessPatch, error) {
	errs := FieldErrors{}
	patch := models.FitnessPatch{
		UserID:          ID(src, errs, "user_id"),
		Title:           Text(src, "title"),
		ActivityType:    Enum(src, errs, "activity_type", models.FitnessTypes),
		Description:     Text(src, "description"),
		ActivityDate:    p.Timestamp(src, errs, "activity_date", StartOfDay),
		DurationMinutes: Float(src, errs, "duration_minutes"),
		PlannedDuration: Float(src, errs, "planned_duration"),
		DistanceKm:      Float(src, errs, "distance_km"),
		CaloriesBurned:  Int(src, errs, "calories_burned"),
		HeartRateAvg:    Int(src, errs, "heart_rate_avg"),
		HeartRateMax:    Int(src, errs, "heart_rate_max"),
		IntensityLevel:  Text(src, "intensity_level"),
		PerceivedEffort: Int(src, errs, "perceived_effort"),
		Location:        Text(src, "location"),
		Weather:         Text(src, "weather"),
		EquipmentUsed:   Text(src, "equipment_used"),
		Status:          Enum(src, errs, "status", models.FitnessStatuses),
		Notes:           Text(src, "notes"),
		Achievements:    Text(src, "achievements"),
		NextGoals:       Text(src, "next_goals"),
	}
	if err := Check(patch, errs); err != nil {
		return patch, err
	}
	return patch, errs.Err()
}

func (p *Parser) Journal(src Source) (models.JournalPatch, error) {
	errs := FieldErrors{}
	patch := models.JournalPatch{
		UserID:        ID(src, errs, "user_id"),
		Date:          p.Date(src, errs, "date"),
		Title:         Text(src, "title"),
		Location:      Text(src, "location"),
		Context:       Text(src, "context"),
		ParentalInput: Text(src, "parental_input"),
		AIAnalysis:    Text(src, "ai_analysis"),
		Tags:          Text(src, "tags"),
	}
	if err := Check(patch, errs); err != nil {
		return patch, err
	}
	return patch, errs.Err()
}

// UserInput is the payload of a user registration.
type UserInput struct {
	Name        string `db:"name" validate:"required,max=100"`
	DisplayName string `db:"display_name" validate:"required,max=200"`
}

func ParseUser(src Source) (UserInput, error) {
	errs := FieldErrors{}
	input := UserInput{}
	if name := Text(src, "name"); name != nil {
		input.Name = *name
	}
	if display := Text(src, "display_name"); display != nil {
		input.DisplayName = *display
	}
	if err := Check(input, errs); err != nil {
		return input, err
	}
	return input, errs.Err()
}
