package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/sjperalta/fintera-schedule/internal/schedule"
)

// Slot display states
const (
	SlotStateScheduled = "scheduled"
	SlotStateOverdue   = "overdue"
	SlotStatePaid      = "paid"
	SlotStatePaidLate  = "paid_late"
	SlotStatePartial   = "partial"
	SlotStateOverpaid  = "overpaid"
)

// Slot events
const (
	SlotEventLapse  = "lapse"
	SlotEventSettle = "settle"
	SlotEventLate   = "late"
	SlotEventShort  = "short"
	SlotEventExcess = "excess"
)

// SlotFSM derives the display status of a reconciled schedule slot by
// replaying what happened to it.
type SlotFSM struct {
	slot schedule.ScheduleSlot
	fsm  *fsm.FSM
}

// NewSlotFSM creates a slot state machine in the scheduled state
func NewSlotFSM(slot schedule.ScheduleSlot) *SlotFSM {
	sfsm := &SlotFSM{slot: slot}

	sfsm.fsm = fsm.NewFSM(
		SlotStateScheduled,
		fsm.Events{
			// scheduled → overdue (due date passed without payment)
			{Name: SlotEventLapse, Src: []string{SlotStateScheduled}, Dst: SlotStateOverdue},

			// scheduled/overdue → paid
			{Name: SlotEventSettle, Src: []string{SlotStateScheduled, SlotStateOverdue}, Dst: SlotStatePaid},

			// paid → paid_late
			{Name: SlotEventLate, Src: []string{SlotStatePaid}, Dst: SlotStatePaidLate},

			// paid/paid_late → partial (shortage remains)
			{Name: SlotEventShort, Src: []string{SlotStatePaid, SlotStatePaidLate}, Dst: SlotStatePartial},

			// paid/paid_late → overpaid (overage carried forward)
			{Name: SlotEventExcess, Src: []string{SlotStatePaid, SlotStatePaidLate}, Dst: SlotStateOverpaid},
		},
		fsm.Callbacks{},
	)

	return sfsm
}

// Resolve replays the slot's history and returns its final state.
func (s *SlotFSM) Resolve(ctx context.Context) (string, error) {
	for _, event := range s.events() {
		if err := s.fsm.Event(ctx, event); err != nil {
			return s.fsm.Current(), fmt.Errorf("slot %d: %s: %w", s.slot.Index, event, err)
		}
	}
	return s.fsm.Current(), nil
}

func (s *SlotFSM) events() []string {
	slot := s.slot
	if !slot.IsPaid {
		if slot.IsOverdue() {
			return []string{SlotEventLapse}
		}
		return nil
	}

	events := []string{SlotEventSettle}
	if slot.DelayDays > 0 {
		events = append(events, SlotEventLate)
	}
	switch {
	case slot.HasShortage():
		events = append(events, SlotEventShort)
	case slot.OverageCarriedForward.GreaterThan(schedule.Tolerance):
		events = append(events, SlotEventExcess)
	}
	return events
}

// Current returns the current state
func (s *SlotFSM) Current() string {
	return s.fsm.Current()
}

// Can checks if a transition is possible
func (s *SlotFSM) Can(event string) bool {
	return s.fsm.Can(event)
}

// SlotStatus labels a slot for API responses and reports.
func SlotStatus(slot schedule.ScheduleSlot) string {
	state, err := NewSlotFSM(slot).Resolve(context.Background())
	if err != nil {
		return SlotStateScheduled
	}
	return state
}
