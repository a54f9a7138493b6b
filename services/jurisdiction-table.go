package services

import "lawbench-project/microservices/tasks-service/models"

// StaticJurisdictionTable is the built-in rule table. Rule order within a
// jurisdiction matters: "after response" offsets chain off the previous
// rule's computed deadline.
type StaticJurisdictionTable struct {
	rules map[string][]models.CourtRule
}

func NewStaticJurisdictionTable() *StaticJurisdictionTable {
	return &StaticJurisdictionTable{
		rules: map[string][]models.CourtRule{
			"Federal": {
				{Title: "Response Deadline", OffsetType: models.OffsetAfterService, Days: 30},
				{Title: "Reply Deadline", OffsetType: models.OffsetAfterResponse, Days: 14},
			},
			"California": {
				{Title: "Response Deadline", OffsetType: models.OffsetAfterService, Days: 30},
				{Title: "Demurrer Deadline", OffsetType: models.OffsetAfterResponse, Days: 10},
				{Title: "Reply Deadline", OffsetType: models.OffsetAfterResponse, Days: 5},
			},
			"New York": {
				{Title: "Answer Deadline", OffsetType: models.OffsetAfterService, Days: 20},
				{Title: "Reply Deadline", OffsetType: models.OffsetAfterResponse, Days: 10},
			},
			"Texas": {
				{Title: "Answer Deadline", OffsetType: models.OffsetAfterService, Days: 21},
			},
		},
	}
}

// RulesFor returns the ordered rules for a jurisdiction, or an empty list
// for an unknown key.
func (t *StaticJurisdictionTable) RulesFor(jurisdiction string) []models.CourtRule {
	return append([]models.CourtRule(nil), t.rules[jurisdiction]...)
}
