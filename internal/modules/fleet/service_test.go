// README: Fleet service validation tests.
package fleet

import (
	"context"
	"errors"
	"testing"
)

// The guards under test all reject before the store is touched, so a nil
// store is safe here.

func TestRegister_RequiredFields(t *testing.T) {
	svc := NewService(nil, nil)
	tests := []struct {
		name string
		cmd  RegisterCommand
	}{
		{"missing name", RegisterCommand{PlateNumber: "B123456"}},
		{"missing plate", RegisterCommand{Name: "Karim"}},
		{"both missing", RegisterCommand{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.cmd)
			if !errors.Is(err, ErrBadRequest) {
				t.Errorf("expected ErrBadRequest, got %v", err)
			}
		})
	}
}

func TestSetDutyStatus_RejectsUnknownValue(t *testing.T) {
	svc := NewService(nil, nil)
	err := svc.SetDutyStatus(context.Background(), "abc123", DutyStatus("napping"))
	if !errors.Is(err, ErrBadRequest) {
		t.Errorf("expected ErrBadRequest, got %v", err)
	}
}

func TestUpdateMileage_RejectsNegativeReading(t *testing.T) {
	svc := NewService(nil, nil)
	err := svc.UpdateMileage(context.Background(), "abc123", -100)
	if !errors.Is(err, ErrBadRequest) {
		t.Errorf("expected ErrBadRequest, got %v", err)
	}
}
