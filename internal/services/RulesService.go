package services

import (
	"akd/internal/catalog"
	"akd/internal/models"
	"akd/internal/providers"
)

// domainsForUnlock is how many distinct life domains a user's goals must
// span before the diversity achievements fire.
const domainsForUnlock = 3

type RulesServiceInterface interface {
	Evaluate(evt models.Event)
}

// RulesService decides which achievements an event qualifies for. Every
// rule is idempotent on its own: it checks the ledger before unlocking, and
// the ledger's Unlock is the backstop either way.
type RulesService struct {
	achievements AchievementServiceInterface
	logger       providers.Logger
}

func NewRulesService(achievements AchievementServiceInterface, logger providers.Logger) RulesServiceInterface {
	return &RulesService{
		achievements: achievements,
		logger:       logger,
	}
}

func (rs *RulesService) Evaluate(evt models.Event) {
	switch evt.Type {
	case models.EventGoalCreated:
		if evt.First {
			rs.tryUnlock(catalog.FirstGoal)
		}
		rs.checkDomainDiversity(evt.Goals, evt.Pro)

	case models.EventProjectCreated:
		if evt.First {
			rs.tryUnlock(catalog.FirstProject)
		}

	case models.EventTaskCompleted:
		if evt.First {
			rs.tryUnlock(catalog.FirstTask)
		}

	case models.EventGoalCompleted:
		// Intentional monetization gate: free-tier completions never
		// unlock this one.
		if evt.Pro {
			rs.tryUnlock(catalog.GoalCrusher)
		}

	case models.EventTimeBlockCreated:
		if evt.First {
			rs.tryUnlock(catalog.FirstTimeBlock)
		}

	case models.EventAIConversation:
		if evt.First {
			rs.tryUnlock(catalog.FirstAIChat)
		}

	case models.EventDocumentUploaded:
		if evt.First {
			rs.tryUnlock(catalog.FirstDocument)
		}

	case models.EventReferralSent:
		if evt.First {
			rs.tryUnlock(catalog.FirstReferral)
		}

	default:
		rs.logger.Debugf(providers.TypeApp, "No rules for event type %q", evt.Type)
	}
}

// checkDomainDiversity unlocks the diversity achievements once the goal
// list spans enough distinct life domains. Goals without an explicit domain
// tag fall back to the icon lookup; goals that resolve to no domain at all
// are skipped.
func (rs *RulesService) checkDomainDiversity(goals []models.Goal, pro bool) {
	domains := make(map[string]struct{})
	for _, g := range goals {
		domain := g.Domain
		if domain == "" {
			domain = catalog.DomainForIcon(g.Icon)
		}
		if domain == "" {
			continue
		}
		domains[domain] = struct{}{}
	}

	if len(domains) < domainsForUnlock {
		return
	}

	rs.tryUnlock(catalog.DomainExplorer)
	if pro {
		rs.tryUnlock(catalog.RenaissanceMind)
	}
}

func (rs *RulesService) tryUnlock(id string) {
	if rs.achievements.IsUnlocked(id) {
		return
	}
	rs.achievements.Unlock(id)
}
