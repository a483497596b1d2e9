package performed

type ServiceType string

const (
	TypeLesson ServiceType = "LESSON"
	TypeCare   ServiceType = "CARE"
)

func (t ServiceType) Valid() bool {
	return t == TypeLesson || t == TypeCare
}

// DefaultType applies when a request omits serviceType.
func DefaultType() ServiceType {
	return TypeLesson
}
