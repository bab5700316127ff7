package models

// Enumerated values are persisted as Postgres enum labels and compared
// case-sensitively; never change the string values.

type ReadingStatus string

const (
	ReadingPending    ReadingStatus = "pending"
	ReadingInProgress ReadingStatus = "in_progress"
	ReadingPaused     ReadingStatus = "paused"
	ReadingCompleted  ReadingStatus = "completed"
	ReadingAbandoned  ReadingStatus = "abandoned"
)

var ReadingStatuses = []ReadingStatus{ReadingPending, ReadingInProgress, ReadingPaused, ReadingCompleted, ReadingAbandoned}

type ReadingType string

const (
	PhysicalBook ReadingType = "physical_book"
	Audiobook    ReadingType = "audiobook"
	Ebook        ReadingType = "ebook"
	Magazine     ReadingType = "magazine"
	Comic        ReadingType = "comic"
)

var ReadingTypes = []ReadingType{PhysicalBook, Audiobook, Ebook, Magazine, Comic}

type DrawingStatus string

const (
	DrawingPlanned          DrawingStatus = "planned"
	DrawingInProgress       DrawingStatus = "in_progress"
	DrawingCompleted        DrawingStatus = "completed"
	DrawingAbandoned        DrawingStatus = "abandoned"
	DrawingContinuedNextDay DrawingStatus = "continued_next_day"
)

var DrawingStatuses = []DrawingStatus{DrawingPlanned, DrawingInProgress, DrawingCompleted, DrawingAbandoned, DrawingContinuedNextDay}

type DrawingMedium string

const (
	ColoredPencils DrawingMedium = "colored_pencils"
	Pencil         DrawingMedium = "pencil"
	Crayons        DrawingMedium = "crayons"
	Markers        DrawingMedium = "markers"
	Watercolor     DrawingMedium = "watercolor"
	Digital        DrawingMedium = "digital"
	Beads          DrawingMedium = "beads"
	MixedMedia     DrawingMedium = "mixed_media"
)

var DrawingMediums = []DrawingMedium{ColoredPencils, Pencil, Crayons, Markers, Watercolor, Digital, Beads, MixedMedia}

type FitnessStatus string

const (
	FitnessPlanned    FitnessStatus = "planned"
	FitnessInProgress FitnessStatus = "in_progress"
	FitnessCompleted  FitnessStatus = "completed"
	FitnessSkipped    FitnessStatus = "skipped"
	FitnessCancelled  FitnessStatus = "cancelled"
)

var FitnessStatuses = []FitnessStatus{FitnessPlanned, FitnessInProgress, FitnessCompleted, FitnessSkipped, FitnessCancelled}

type FitnessType string

const (
	Cardio      FitnessType = "cardio"
	Strength    FitnessType = "strength"
	Flexibility FitnessType = "flexibility"
	Sports      FitnessType = "sports"
	Walking     FitnessType = "walking"
	Running     FitnessType = "running"
	Cycling     FitnessType = "cycling"
	Swimming    FitnessType = "swimming"
	Yoga        FitnessType = "yoga"
	OtherSport  FitnessType = "other"
)

var FitnessTypes = []FitnessType{Cardio, Strength, Flexibility, Sports, Walking, Running, Cycling, Swimming, Yoga, OtherSport}

// Category names one entry family. It doubles as the URL segment and the
// key used by tracking profiles.
type Category string

const (
	CategoryReading Category = "reading"
	CategoryDrawing Category = "drawing"
	CategoryFitness Category = "fitness"
	CategoryJournal Category = "journal"
)

var Categories = []Category{CategoryReading, CategoryDrawing, CategoryFitness, CategoryJournal}

// Values returns the wire strings of an enumerated value set.
func Values[T ~string](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, string(item))
	}
	return out
}

// IsMember reports whether raw is one of the allowed values.
func IsMember[T ~string](raw string, allowed []T) bool {
	for _, item := range allowed {
		if string(item) == raw {
			return true
		}
	}
	return false
}
