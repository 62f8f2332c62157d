package metadata

import "fmt"

type Status string

const (
	StatusInUse       Status = "In use"
	StatusInStorage   Status = "In storage"
	StatusUnderRepair Status = "Under repair"
	StatusRetired     Status = "Retired/Disposed"
)

// NewStatus validates a raw status value. Transitions between statuses are
// deliberately unrestricted; retirement is not terminal.
func NewStatus(value string) (Status, error) {
	status := Status(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return status, nil
}

func (s Status) isValid() bool {
	switch s {
	case StatusInUse, StatusInStorage, StatusUnderRepair, StatusRetired:
		return true
	default:
		return false
	}
}

type Condition string

const (
	ConditionNew  Condition = "New"
	ConditionGood Condition = "Good"
	ConditionFair Condition = "Fair"
	ConditionPoor Condition = "Poor"
)

func NewCondition(value string) (Condition, error) {
	condition := Condition(value)
	if !condition.isValid() {
		return "", fmt.Errorf("invalid condition: %s", value)
	}
	return condition, nil
}

func (c Condition) isValid() bool {
	switch c {
	case ConditionNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	default:
		return false
	}
}

type DepreciationMethod string

const (
	MethodStraightLine     DepreciationMethod = "straight-line"
	MethodDecliningBalance DepreciationMethod = "declining-balance"
)

func NewDepreciationMethod(value string) (DepreciationMethod, error) {
	method := DepreciationMethod(value)
	switch method {
	case MethodStraightLine, MethodDecliningBalance:
		return method, nil
	default:
		return "", fmt.Errorf("invalid depreciation method: %s", value)
	}
}
