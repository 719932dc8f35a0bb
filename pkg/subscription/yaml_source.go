package subscription

import (
	"context"
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlPlan mirrors Plan for YAML decoding.
type yamlPlan struct {
	ID              string            `yaml:"id"`
	Name            string            `yaml:"name"`
	Cycle           string            `yaml:"cycle"`
	Price           float64           `yaml:"price"`
	Currency        string            `yaml:"currency"`
	TrialDays       int               `yaml:"trial_days"`
	GracePeriodDays int               `yaml:"grace_period_days"`
	Features        map[string]string `yaml:"features"`
	Public          bool              `yaml:"public"`
}

type yamlCatalog struct {
	Plans []yamlPlan `yaml:"plans"`
}

// yamlSource loads the plan catalog from YAML, so plans can live in a
// config file next to the deployment instead of in code.
//
//	plans:
//	  - id: starter
//	    name: Starter
//	    cycle: monthly
//	    price: 29
//	    currency: USD
//	    trial_days: 14
//	    features:
//	      max_projects: "10"
type yamlSource struct {
	data []byte
}

// NewYAMLSource returns a PlansSource that decodes the given YAML document
// on Load.
func NewYAMLSource(data []byte) PlansSource {
	return &yamlSource{data: data}
}

// NewYAMLFileSource returns a PlansSource that reads and decodes the file
// at path on Load, so catalog edits apply on service restart without a
// rebuild.
func NewYAMLFileSource(path string) PlansSource {
	return &yamlFileSource{path: path}
}

func (s *yamlSource) Load(ctx context.Context) (map[string]Plan, error) {
	return decodeCatalog(s.data)
}

type yamlFileSource struct {
	path string
}

func (s *yamlFileSource) Load(ctx context.Context) (map[string]Plan, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}
	return decodeCatalog(data)
}

func decodeCatalog(data []byte) (map[string]Plan, error) {
	var catalog yamlCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	plans := make(map[string]Plan, len(catalog.Plans))
	for _, yp := range catalog.Plans {
		plans[yp.ID] = Plan{
			ID:              yp.ID,
			Name:            yp.Name,
			Cycle:           BillingCycle(yp.Cycle),
			Price:           yp.Price,
			Currency:        yp.Currency,
			TrialDays:       yp.TrialDays,
			GracePeriodDays: yp.GracePeriodDays,
			Features:        yp.Features,
			Public:          yp.Public,
		}
	}
	return plans, nil
}
