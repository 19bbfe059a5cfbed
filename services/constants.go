package services

const (
	PercentageTotal = 100.0
)

const (
	MinDescriptionLength = 3
	MaxDescriptionLength = 100
	MinGroupNameLength   = 2
	MaxGroupNameLength   = 50
)

const (
	GeneralRateLimit = 500
)
