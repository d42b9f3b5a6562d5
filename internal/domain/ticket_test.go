package domain

import "testing"

func TestNextStatusTable(t *testing.T) {
	allStatuses := []TicketStatus{
		TicketStatusNotStarted,
		TicketStatusInProgress,
		TicketStatusDone,
		TicketStatusReferred,
	}

	legal := map[TicketEvent]map[TicketStatus]TicketStatus{
		TicketEventStartWork: {
			TicketStatusNotStarted: TicketStatusInProgress,
			TicketStatusReferred:   TicketStatusInProgress,
		},
		TicketEventStopWork: {
			TicketStatusInProgress: TicketStatusDone,
		},
		TicketEventRefer: {
			TicketStatusNotStarted: TicketStatusReferred,
			TicketStatusInProgress: TicketStatusReferred,
		},
		TicketEventReopen: {
			TicketStatusDone: TicketStatusNotStarted,
		},
		TicketEventForceComplete: {
			TicketStatusNotStarted: TicketStatusDone,
			TicketStatusInProgress: TicketStatusDone,
			TicketStatusReferred:   TicketStatusDone,
		},
	}

	events := []TicketEvent{
		TicketEventStartWork,
		TicketEventStopWork,
		TicketEventRefer,
		TicketEventReopen,
		TicketEventForceComplete,
	}

	for _, event := range events {
		for _, status := range allStatuses {
			want, wantOK := legal[event][status]
			got, gotOK := NextStatus(status, event)
			if gotOK != wantOK {
				t.Errorf("NextStatus(%s, %s) ok = %v, want %v", status, event, gotOK, wantOK)
				continue
			}
			if wantOK && got != want {
				t.Errorf("NextStatus(%s, %s) = %s, want %s", status, event, got, want)
			}
		}
	}
}

func TestCanTransitionRejectsUnknownEvent(t *testing.T) {
	if CanTransition(TicketStatusNotStarted, TicketEvent("escalate")) {
		t.Error("unknown event should not be a legal transition")
	}
}

func TestReferFromDoneRejected(t *testing.T) {
	if CanTransition(TicketStatusDone, TicketEventRefer) {
		t.Error("DONE tickets must not be referrable")
	}
}
