package entities

// Service is a billable role or offering from the service catalog.
//
// Storage model (DynamoDB):
//   - PK: key ("<category>#<name>")
//
// Name is unique within its Category.
type Service struct {
	Name        string  `json:"name" yaml:"name"`
	Category    string  `json:"category" yaml:"category"`
	DefaultRate float64 `json:"default_rate" yaml:"default_rate"`
	BillingUnit string  `json:"billing_unit" yaml:"billing_unit"`
}

// DefaultCategory is used for services that arrive without a category.
const DefaultCategory = "other"

// DefaultBillingUnit is the unit assumed when the catalog does not state one.
const DefaultBillingUnit = "hour"
