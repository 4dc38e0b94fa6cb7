package layer

// Priority levels for configuration layers.
// Higher values override lower values during merging.
const (
	PriorityBuiltin = 0
	PriorityUser    = 100
	PriorityProject = 200
	PriorityVSCode  = 300
	PriorityEnv     = 500
	PriorityArgs    = 600
)

// DefaultPriority returns the priority for a given source.
func DefaultPriority(source Source) int {
	switch source {
	case SourceUser:
		return PriorityUser
	case SourceProject:
		return PriorityProject
	case SourceVSCode:
		return PriorityVSCode
	case SourceEnv:
		return PriorityEnv
	case SourceArgs:
		return PriorityArgs
	default:
		return PriorityBuiltin
	}
}
