package domain

import "time"

// Score orders tickets for display. It is a pure function of the
// ticket and its customer/contract context; the stored score column is
// a cache, never the source of truth, and is refreshed by an explicit
// rescore step.
func Score(t *Ticket, customer *Customer, contract *SupportContract, now time.Time) int {
	score := priorityScore(t.Priority)
	if customer != nil {
		score += levelScore(customer.Level)
	}
	if contract != nil && contract.Covers(now) {
		score += contractScore(contract.Level)
	}
	return score
}

func priorityScore(p TicketPriority) int {
	switch p {
	case TicketPriorityUrgent:
		return 100
	case TicketPriorityMedium:
		return 50
	case TicketPriorityLow:
		return 10
	default:
		return 0
	}
}

func levelScore(l CustomerLevel) int {
	switch l {
	case CustomerLevelA:
		return 40
	case CustomerLevelB:
		return 30
	case CustomerLevelC:
		return 20
	case CustomerLevelD:
		return 10
	default:
		return 0
	}
}

func contractScore(l ContractLevel) int {
	switch l {
	case ContractLevelGold:
		return 30
	case ContractLevelSilver:
		return 20
	case ContractLevelBronze:
		return 10
	default:
		return 0
	}
}
