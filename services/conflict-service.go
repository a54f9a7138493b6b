package services

import (
	"context"
	"strings"

	"lawbench-project/microservices/tasks-service/models"
)

// ConflictService scans a case reference against the firm's known-conflicts
// table. The match is a case-insensitive substring test of either party name
// against the case display title. This is deliberately coarse: it flags
// anything worth a human look rather than attempting structured party
// extraction, so near-miss names can slip through.
type ConflictService struct {
	registry ConflictRegistry
}

func NewConflictService(registry ConflictRegistry) *ConflictService {
	return &ConflictService{registry: registry}
}

// DetectConflict returns the first matching entry in table order, or nil
// when there is no case reference or nothing matches.
func (s *ConflictService) DetectConflict(ctx context.Context, caseRef *models.CaseReference) (*models.ConflictEntry, error) {
	if caseRef == nil || caseRef.Title == "" {
		return nil, nil
	}

	entries, err := s.registry.Entries(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.ToLower(caseRef.Title)
	for i := range entries {
		client := strings.ToLower(entries[i].ClientName)
		opposing := strings.ToLower(entries[i].OpposingParty)
		if (client != "" && strings.Contains(title, client)) ||
			(opposing != "" && strings.Contains(title, opposing)) {
			match := entries[i]
			return &match, nil
		}
	}
	return nil, nil
}
