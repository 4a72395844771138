package provider

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"coursegate/internal/domain/catalog"
	"coursegate/internal/domain/subscription"
)

// PlanMapping is the static provider plan/product identifier -> course slug table.
type PlanMapping struct {
	byProvider map[subscription.Provider]map[string]string
}

// planFile mirrors configs/plans.yaml:
//
//	recurring:
//	  plan_escola_mensal: escola-online
//	installment:
//	  "4051234": escola-online
type planFile map[string]map[string]string

func LoadPlanMapping(path string) (*PlanMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan mapping %s: %w", path, err)
	}
	return ParsePlanMapping(data)
}

func ParsePlanMapping(data []byte) (*PlanMapping, error) {
	var file planFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse plan mapping: %w", err)
	}

	m := &PlanMapping{byProvider: make(map[subscription.Provider]map[string]string, len(file))}
	for name, plans := range file {
		p, err := subscription.ParseProvider(name)
		if err != nil {
			return nil, err
		}
		table := make(map[string]string, len(plans))
		for planID, course := range plans {
			if course == "" {
				return nil, fmt.Errorf("plan %s of provider %s maps to an empty course", planID, name)
			}
			table[planID] = catalog.NormalizeSlug(course)
		}
		m.byProvider[p] = table
	}
	return m, nil
}

// NewPlanMapping builds a mapping in code; used by tests and the manual provider.
func NewPlanMapping(table map[subscription.Provider]map[string]string) *PlanMapping {
	m := &PlanMapping{byProvider: make(map[subscription.Provider]map[string]string, len(table))}
	for p, plans := range table {
		m.byProvider[p] = make(map[string]string, len(plans))
		for planID, course := range plans {
			m.byProvider[p][planID] = catalog.NormalizeSlug(course)
		}
	}
	return m
}

// CourseFor returns the course slug for planID, or an error wrapping ErrUnmappedPlanIdentifier.
func (m *PlanMapping) CourseFor(p subscription.Provider, planID string) (string, error) {
	if course, ok := m.byProvider[p][planID]; ok {
		return course, nil
	}
	return "", subscription.UnmappedPlanError(p, planID)
}
