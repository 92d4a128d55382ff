package model

// Status của podcast trong publication pipeline
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether s is a target of an admin decision.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Category
const (
	CategoryTechnology    = "Technology"
	CategoryEducation     = "Education"
	CategoryHealth        = "Health"
	CategoryBusiness      = "Business"
	CategoryEntertainment = "Entertainment"
	CategoryOther         = "Other"

	// CategoryAll is the search sentinel that disables the category filter
	CategoryAll = "All"
)

var Categories = []string{
	CategoryTechnology,
	CategoryEducation,
	CategoryHealth,
	CategoryBusiness,
	CategoryEntertainment,
	CategoryOther,
}

const (
	// Podcast limits
	MinTitleLength       = 3
	MaxTitleLength       = 200
	MinDescriptionLength = 10
	MaxDescriptionLength = 2000
	MinAuthorLength      = 2
	MaxAuthorLength      = 100

	// Episode limits
	MaxEpisodeTitleLength       = 300
	MaxEpisodeDescriptionLength = 2000
	MaxDurationSeconds          = 86400

	// Pagination
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)
