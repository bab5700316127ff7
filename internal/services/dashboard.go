package services

import (
	"context"
	"time"

	"progress-tracker-go/internal/config"
	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/store"
)

type DashboardLimits struct {
	HistoryMonths int
	Recent        int
	Dashboard     int
}

// Dashboard computes read-only summaries. Which categories a user sees
// comes from tracking profiles keyed by user name.
type Dashboard struct {
	Store    store.Store
	Profiles config.TrackingProfiles
	Limits   DashboardLimits
	Location *time.Location
	Now      func() time.Time
}

func NewDashboard(st store.Store, profiles config.TrackingProfiles, limits DashboardLimits, loc *time.Location) *Dashboard {
	if loc == nil {
		loc = time.UTC
	}
	return &Dashboard{Store: st, Profiles: profiles, Limits: limits, Location: loc, Now: time.Now}
}

type RecentEntries struct {
	Reading []models.ReadingEntry `json:"reading,omitempty"`
	Drawing []models.DrawingEntry `json:"drawing,omitempty"`
	Fitness []models.FitnessEntry `json:"fitness,omitempty"`
	Journal []models.JournalEntry `json:"journal,omitempty"`
}

type UserDashboard struct {
	User          models.User                              `json:"user"`
	PeriodStart   time.Time                                `json:"period_start"`
	PeriodEnd     time.Time                                `json:"period_end"`
	Stats         map[models.Category]models.CategoryStats `json:"stats"`
	History       map[models.Category][]models.MonthCount  `json:"history"`
	FilledHistory map[models.Category][]models.MonthCount  `json:"filled_history,omitempty"`
	Recent        RecentEntries                            `json:"recent"`
}

type Overview struct {
	Users  []models.User `json:"users"`
	Recent RecentEntries `json:"recent"`
}

func (d *Dashboard) now() time.Time {
	return d.Now().In(d.Location)
}

// MonthStart is 00:00 on the first day of t's month, in t's location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthlyStats summarizes the given categories for entries created from the
// start of the current month up to now.
func (d *Dashboard) MonthlyStats(ctx context.Context, userID int64, categories []models.Category) (map[models.Category]models.CategoryStats, time.Time, time.Time, error) {
	now := d.now()
	from := MonthStart(now)
	out := make(map[models.Category]models.CategoryStats, len(categories))
	for _, category := range categories {
		stats, err := d.Store.CategoryStats(ctx, category, userID, from, now)
		if err != nil {
			return nil, from, now, err
		}
		out[category] = stats
	}
	return out, from, now, nil
}

// History returns sparse completed-per-month counts over the trailing
// months window. Categories without a completion date are skipped.
func (d *Dashboard) History(ctx context.Context, userID int64, categories []models.Category, months int) (map[models.Category][]models.MonthCount, time.Time, error) {
	if months <= 0 {
		months = d.Limits.HistoryMonths
	}
	since := d.now().AddDate(0, -months, 0)
	out := make(map[models.Category][]models.MonthCount, len(categories))
	for _, category := range categories {
		if _, ok := store.CompletionColumn(category); !ok {
			continue
		}
		series, err := d.Store.CompletedByMonth(ctx, category, userID, since, d.Location)
		if err != nil {
			return nil, since, err
		}
		out[category] = series
	}
	return out, since, nil
}

func (d *Dashboard) limit(name config.LimitName) int {
	if name == config.LimitDashboard {
		return d.Limits.Dashboard
	}
	return d.Limits.Recent
}

// Recent lists the newest entries per slot, optionally for one owner.
func (d *Dashboard) Recent(ctx context.Context, userID *int64, slots []config.RecentSlot) (RecentEntries, error) {
	var out RecentEntries
	for _, slot := range slots {
		filter := store.Filter{UserID: userID, Limit: d.limit(slot.Limit)}
		var err error
		switch slot.Category {
		case models.CategoryReading:
			out.Reading, err = d.Store.ListReadings(ctx, filter)
		case models.CategoryDrawing:
			out.Drawing, err = d.Store.ListDrawings(ctx, filter)
		case models.CategoryFitness:
			out.Fitness, err = d.Store.ListFitness(ctx, filter)
		case models.CategoryJournal:
			out.Journal, err = d.Store.ListJournal(ctx, filter)
		}
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

// ForUser assembles one user's dashboard. fill adds zero-filled series.
func (d *Dashboard) ForUser(ctx context.Context, userID int64, months int, fill bool) (UserDashboard, error) {
	user, err := d.Store.GetUser(ctx, userID)
	if err != nil {
		return UserDashboard{}, fromStore(err, "User not found")
	}
	profile := d.Profiles.For(user.Name)

	stats, from, now, err := d.MonthlyStats(ctx, user.ID, profile.Stats)
	if err != nil {
		return UserDashboard{}, err
	}
	history, since, err := d.History(ctx, user.ID, profile.Stats, months)
	if err != nil {
		return UserDashboard{}, err
	}
	recent, err := d.Recent(ctx, &user.ID, profile.Recent)
	if err != nil {
		return UserDashboard{}, err
	}

	result := UserDashboard{
		User:        user,
		PeriodStart: from,
		PeriodEnd:   now,
		Stats:       stats,
		History:     history,
		Recent:      recent,
	}
	if fill {
		result.FilledHistory = make(map[models.Category][]models.MonthCount, len(history))
		for category, series := range history {
			result.FilledHistory[category] = FillMonthlyGaps(series, since, now)
		}
	}
	return result, nil
}

// Overview lists every user and the newest entries across all of them,
// capped at the dashboard limit per category.
func (d *Dashboard) Overview(ctx context.Context) (Overview, error) {
	users, err := d.Store.ListUsers(ctx)
	if err != nil {
		return Overview{}, err
	}
	recent, err := d.Recent(ctx, nil, []config.RecentSlot{
		{Category: models.CategoryReading, Limit: config.LimitDashboard},
		{Category: models.CategoryDrawing, Limit: config.LimitDashboard},
		{Category: models.CategoryFitness, Limit: config.LimitDashboard},
	})
	if err != nil {
		return Overview{}, err
	}
	return Overview{Users: users, Recent: recent}, nil
}

// FillMonthlyGaps expands a sparse series into one bucket per calendar month
// from from's month to to's month inclusive. Missing months count zero.
func FillMonthlyGaps(series []models.MonthCount, from, to time.Time) []models.MonthCount {
	counts := make(map[[2]int]int, len(series))
	for _, item := range series {
		counts[[2]int{item.Year, item.Month}] += item.Count
	}
	out := []models.MonthCount{}
	cursor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(last) {
		year, month := cursor.Year(), int(cursor.Month())
		out = append(out, models.MonthCount{Year: year, Month: month, Count: counts[[2]int{year, month}]})
		cursor = cursor.AddDate(0, 1, 0)
	}
	return out
}
