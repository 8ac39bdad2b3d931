package workflow

import (
	"context"
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StatePending, false},
		{StateCoordinatorApproved, false},
		{StateApproved, false},
		{StateRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"pending", StatePending, true},
		{"coordinator approved", StateCoordinatorApproved, true},
		{"approved", StateApproved, true},
		{"rejected", StateRejected, true},
		{"invalid state", State("INVALID"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	if got := StateCoordinatorApproved.String(); got != "COORDINATOR_APPROVED" {
		t.Errorf("State.String() = %v, want %v", got, "COORDINATOR_APPROVED")
	}
}

func TestTrigger_String(t *testing.T) {
	if got := TriggerProcessInvoice.String(); got != "PROCESS_INVOICE" {
		t.Errorf("Trigger.String() = %v, want %v", got, "PROCESS_INVOICE")
	}
}

func TestBuilder_Configure(t *testing.T) {
	builder := NewBuilder()

	config := builder.Configure(StatePending)
	if config == nil {
		t.Fatal("Configure() returned nil")
	}

	// Configure same state again should return same config
	config2 := builder.Configure(StatePending)
	if config != config2 {
		t.Error("Configure() should return same config for same state")
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid state")
		}
	}()

	builder.Configure(State("INVALID"))
}

func TestBuilder_BuildPanicsOnInvalidInitialState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Build() should panic on invalid initial state")
		}
	}()

	builder.Build(State("INVALID"))
}

func TestStateConfiguration_Permit(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		Permit(TriggerCoordinatorApprove, StateCoordinatorApproved)

	machine := builder.Build(StatePending)

	if !machine.CanFire(TriggerCoordinatorApprove) {
		t.Error("CanFire() should return true for permitted trigger")
	}
	if machine.CanFire(TriggerManagerApprove) {
		t.Error("CanFire() should return false for unconfigured trigger")
	}
}

func TestStateConfiguration_PermitIf(t *testing.T) {
	allowed := true
	builder := NewBuilder()
	builder.Configure(StateApproved).
		PermitIf(TriggerProcessInvoice, StateApproved, func(ctx context.Context) bool {
			return allowed
		})

	machine := builder.Build(StateApproved)

	if err := machine.Fire(context.Background(), TriggerProcessInvoice); err != nil {
		t.Errorf("Fire() with passing guard returned error: %v", err)
	}

	allowed = false
	err := machine.Fire(context.Background(), TriggerProcessInvoice)
	if !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Fire() with failing guard = %v, want ErrGuardFailed", err)
	}
}

func TestMachine_Fire(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		Permit(TriggerCoordinatorApprove, StateCoordinatorApproved).
		Permit(TriggerReject, StateRejected)
	builder.Configure(StateCoordinatorApproved).
		Permit(TriggerManagerApprove, StateApproved).
		Permit(TriggerReject, StateRejected)

	machine := builder.Build(StatePending)

	if err := machine.Fire(context.Background(), TriggerCoordinatorApprove); err != nil {
		t.Fatalf("Fire(COORDINATOR_APPROVE) returned error: %v", err)
	}
	if machine.State() != StateCoordinatorApproved {
		t.Errorf("State() = %v, want %v", machine.State(), StateCoordinatorApproved)
	}

	if err := machine.Fire(context.Background(), TriggerManagerApprove); err != nil {
		t.Fatalf("Fire(MANAGER_APPROVE) returned error: %v", err)
	}
	if machine.State() != StateApproved {
		t.Errorf("State() = %v, want %v", machine.State(), StateApproved)
	}
}

func TestMachine_FireInvalidTransition(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		Permit(TriggerCoordinatorApprove, StateCoordinatorApproved)

	machine := builder.Build(StatePending)

	err := machine.Fire(context.Background(), TriggerManagerApprove)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() from wrong state = %v, want ErrInvalidTransition", err)
	}
	if machine.State() != StatePending {
		t.Errorf("State() after failed Fire = %v, want %v", machine.State(), StatePending)
	}
}

func TestMachine_FireFromUnconfiguredState(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		Permit(TriggerCoordinatorApprove, StateCoordinatorApproved)

	machine := builder.Build(StateRejected)

	err := machine.Fire(context.Background(), TriggerCoordinatorApprove)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() from terminal state = %v, want ErrInvalidTransition", err)
	}
}

func TestMachine_PermittedTriggers(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		Permit(TriggerCoordinatorApprove, StateCoordinatorApproved).
		Permit(TriggerReject, StateRejected)

	machine := builder.Build(StatePending)

	triggers := machine.PermittedTriggers()
	if len(triggers) != 2 {
		t.Fatalf("PermittedTriggers() returned %d triggers, want 2", len(triggers))
	}

	found := map[Trigger]bool{}
	for _, trig := range triggers {
		found[trig] = true
	}
	if !found[TriggerCoordinatorApprove] || !found[TriggerReject] {
		t.Errorf("PermittedTriggers() = %v, want COORDINATOR_APPROVE and REJECT", triggers)
	}
}

func TestMachine_PermittedTriggersEmptyForUnconfigured(t *testing.T) {
	machine := NewBuilder().Build(StateRejected)

	if triggers := machine.PermittedTriggers(); len(triggers) != 0 {
		t.Errorf("PermittedTriggers() = %v, want empty", triggers)
	}
}

func TestBuilder_BuildIsolatesMachines(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		Permit(TriggerCoordinatorApprove, StateCoordinatorApproved)

	machine := builder.Build(StatePending)

	// Later builder mutations must not leak into already-built machines
	builder.Configure(StatePending).
		Permit(TriggerReject, StateRejected)

	if machine.CanFire(TriggerReject) {
		t.Error("built machine should not see transitions added after Build()")
	}
}
