package models

// JobStatus константы статусов заявок
const (
	JobStatusActive         = "active"
	JobStatusAwaitingAccept = "awaiting-accept"
	JobStatusInProgress     = "in-progress"
	JobStatusCompleted      = "completed"
	JobStatusCancelled      = "cancelled"
)

// QuoteStatus константы статусов откликов
const (
	QuoteStatusPending  = "pending"
	QuoteStatusAwarded  = "awarded"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"
)

// MilestoneStatus константы статусов этапов оплаты
const (
	MilestoneStatusAwaitingAccept = "awaiting-accept"
	MilestoneStatusInProgress     = "in-progress"
	MilestoneStatusReleased       = "released"
	MilestoneStatusDisputed       = "disputed"
)

// TimingMode константы режимов сроков выполнения
const (
	TimingModeUrgent   = "urgent"
	TimingModeFlexible = "flexible"
	TimingModeSpecific = "specific"
)

// BudgetType константы типов бюджета
const (
	BudgetTypeFixed      = "fixed"
	BudgetTypeHourly     = "hourly"
	BudgetTypeNegotiable = "negotiable"
)

// ValidJobStatuses список валидных статусов заявок
var ValidJobStatuses = map[string]struct{}{
	JobStatusActive:         {},
	JobStatusAwaitingAccept: {},
	JobStatusInProgress:     {},
	JobStatusCompleted:      {},
	JobStatusCancelled:      {},
}

// ValidQuoteStatuses список валидных статусов откликов
var ValidQuoteStatuses = map[string]struct{}{
	QuoteStatusPending:  {},
	QuoteStatusAwarded:  {},
	QuoteStatusAccepted: {},
	QuoteStatusRejected: {},
}

// ValidMilestoneStatuses список валидных статусов этапов
var ValidMilestoneStatuses = map[string]struct{}{
	MilestoneStatusAwaitingAccept: {},
	MilestoneStatusInProgress:     {},
	MilestoneStatusReleased:       {},
	MilestoneStatusDisputed:       {},
}

// ValidTimingModes список валидных режимов сроков
var ValidTimingModes = map[string]struct{}{
	TimingModeUrgent:   {},
	TimingModeFlexible: {},
	TimingModeSpecific: {},
}

// jobStatusTransitions таблица разрешённых переходов статусов заявки.
// Заявка движется только вперёд; cancelled — терминальный статус из любого состояния.
var jobStatusTransitions = map[string]map[string]struct{}{
	JobStatusActive: {
		JobStatusAwaitingAccept: {},
		JobStatusInProgress:     {},
		JobStatusCancelled:      {},
	},
	JobStatusAwaitingAccept: {
		JobStatusInProgress: {},
		JobStatusCancelled:  {},
	},
	JobStatusInProgress: {
		JobStatusCompleted: {},
		JobStatusCancelled: {},
	},
	JobStatusCompleted: {},
	JobStatusCancelled: {},
}

// quoteStatusTransitions таблица разрешённых переходов статусов отклика.
// rejected и accepted — терминальные, awarded — промежуточный до решения специалиста.
var quoteStatusTransitions = map[string]map[string]struct{}{
	QuoteStatusPending: {
		QuoteStatusAwarded:  {},
		QuoteStatusRejected: {},
	},
	QuoteStatusAwarded: {
		QuoteStatusAccepted: {},
		QuoteStatusRejected: {},
	},
	QuoteStatusAccepted: {},
	QuoteStatusRejected: {},
}

// milestoneStatusTransitions таблица разрешённых переходов статусов этапа.
var milestoneStatusTransitions = map[string]map[string]struct{}{
	MilestoneStatusAwaitingAccept: {
		MilestoneStatusInProgress: {},
	},
	MilestoneStatusInProgress: {
		MilestoneStatusReleased: {},
		MilestoneStatusDisputed: {},
	},
	MilestoneStatusReleased: {},
	MilestoneStatusDisputed: {},
}

// CanJobTransition проверяет допустимость перехода статуса заявки.
func CanJobTransition(from, to string) bool {
	targets, ok := jobStatusTransitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// CanQuoteTransition проверяет допустимость перехода статуса отклика.
func CanQuoteTransition(from, to string) bool {
	targets, ok := quoteStatusTransitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// CanMilestoneTransition проверяет допустимость перехода статуса этапа.
func CanMilestoneTransition(from, to string) bool {
	targets, ok := milestoneStatusTransitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}
