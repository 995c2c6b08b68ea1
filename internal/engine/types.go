package engine

// TaskPriority controls how many points a task is worth when completed.
type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// PointValue is the number of points awarded when a task of this priority
// is completed. Frozen onto the task at completion time.
func (p TaskPriority) PointValue() int {
	switch p {
	case PriorityLow:
		return 10
	case PriorityMedium:
		return 25
	case PriorityHigh:
		return 50
	case PriorityCritical:
		return 100
	default:
		return 0
	}
}

// ExperienceValue is the XP weight assigned to a task at creation time.
func (p TaskPriority) ExperienceValue() int {
	switch p {
	case PriorityLow:
		return 5
	case PriorityMedium:
		return 10
	case PriorityHigh:
		return 25
	case PriorityCritical:
		return 50
	default:
		return 0
	}
}

// DefaultPriority is used when user input is missing/invalid.
const DefaultPriority TaskPriority = PriorityMedium

// TaskCategory groups tasks for statistics and generation preferences.
type TaskCategory string

const (
	CategoryWork     TaskCategory = "work"
	CategoryHealth   TaskCategory = "health"
	CategoryPersonal TaskCategory = "personal"
	CategoryLearning TaskCategory = "learning"
	CategorySocial   TaskCategory = "social"
	CategoryFinance  TaskCategory = "finance"
	CategoryOther    TaskCategory = "other"
)

func (c TaskCategory) IsValid() bool {
	switch c {
	case CategoryWork, CategoryHealth, CategoryPersonal, CategoryLearning,
		CategorySocial, CategoryFinance, CategoryOther:
		return true
	default:
		return false
	}
}

// DefaultCategory is used when user input is missing/invalid.
const DefaultCategory TaskCategory = CategoryOther

// AllCategories returns every category in display order.
func AllCategories() []TaskCategory {
	return []TaskCategory{
		CategoryWork,
		CategoryHealth,
		CategoryPersonal,
		CategoryLearning,
		CategorySocial,
		CategoryFinance,
		CategoryOther,
	}
}
