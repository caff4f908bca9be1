package vehicles

import "fmt"

// Status is the ownership/lock state of a vehicle.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusInUse       Status = "IN_USE"
	StatusMaintenance Status = "MAINTENANCE"
)

// Vehicle is a rentable kickboard. Location is a "x,y" grid coordinate
// pair, battery is a 0..100 percentage.
type Vehicle struct {
	ID       string `json:"id"`
	Model    string `json:"model"`
	Status   Status `json:"status"`
	Location string `json:"location"`
	Battery  int    `json:"battery"`
}

// NewVehicle creates an AVAILABLE vehicle, validating the battery level.
func NewVehicle(id, model, location string, battery int) (*Vehicle, error) {
	v := &Vehicle{
		ID:       id,
		Model:    model,
		Status:   StatusAvailable,
		Location: location,
	}
	if err := v.SetBatteryLevel(battery); err != nil {
		return nil, err
	}
	return v, nil
}

// Unlock transitions AVAILABLE -> IN_USE at rental start. Returns false
// when the vehicle is not available; callers treat that as "operation
// not applicable", not an error.
func (v *Vehicle) Unlock() bool {
	if v.Status != StatusAvailable {
		return false
	}
	v.Status = StatusInUse
	return true
}

// Lock transitions IN_USE -> AVAILABLE on return. Returns false when the
// vehicle is not in use.
func (v *Vehicle) Lock() bool {
	if v.Status != StatusInUse {
		return false
	}
	v.Status = StatusAvailable
	return true
}

// MoveToMaintenance takes the vehicle out of the rentable fleet.
func (v *Vehicle) MoveToMaintenance() {
	v.Status = StatusMaintenance
}

// BackToAvailable returns the vehicle to the rentable fleet.
func (v *Vehicle) BackToAvailable() {
	v.Status = StatusAvailable
}

// SetBatteryLevel validates and applies a battery reading.
func (v *Vehicle) SetBatteryLevel(level int) error {
	if level < 0 || level > 100 {
		return fmt.Errorf("battery level must be 0..100, got %d", level)
	}
	v.Battery = level
	return nil
}
