package gpu

import "math"

// DeviceClass selects the calibration row of the memory predictor.
type DeviceClass string

const (
	HighMemory DeviceClass = "high_memory"
	LowMemory  DeviceClass = "low_memory"
)

const (
	// SafetyMargin is the fraction of free memory a run may plan against.
	SafetyMargin = 0.95
	// HighMemoryThresholdMiB splits the two device classes.
	HighMemoryThresholdMiB = 17000
	// FallbackBudgetMiB is planned against when no device is detected.
	FallbackBudgetMiB = 15200
)

// MemoryBudget is the working budget of one batch run.
type MemoryBudget struct {
	DevicePresent bool
	DeviceName    string
	AvailableMiB  int64
	TotalMiB      int64
	BudgetMiB     float64
	Class         DeviceClass
}

// Unlimited is a budget no batch can reach.
func Unlimited(class DeviceClass) MemoryBudget {
	return MemoryBudget{BudgetMiB: math.Inf(1), Class: class}
}

// ComputeBudget applies the safety margin to the probed free memory, picks
// the device class, then clamps to capMiB when it is positive and smaller.
// The class is decided before the cap.
func ComputeBudget(info DeviceInfo, capMiB int64) MemoryBudget {
	b := MemoryBudget{
		DevicePresent: info.Present,
		DeviceName:    info.Name,
		AvailableMiB:  info.AvailableMiB,
		TotalMiB:      info.TotalMiB,
	}
	if info.Present {
		b.BudgetMiB = float64(info.AvailableMiB) * SafetyMargin
	} else {
		b.BudgetMiB = FallbackBudgetMiB
	}
	if b.BudgetMiB >= HighMemoryThresholdMiB {
		b.Class = HighMemory
	} else {
		b.Class = LowMemory
	}
	if capMiB > 0 && float64(capMiB) < b.BudgetMiB {
		b.BudgetMiB = float64(capMiB)
	}
	return b
}

//Personal.AI order the ending
