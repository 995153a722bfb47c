package repository

import (
	"context"
	"sort"
	"strings"

	"proposal_builder/internal/domain/entities"
	"proposal_builder/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rotisserie/eris"
)

const (
	defaultServicesTableName = "services"
	defaultPackagesTableName = "packages"
)

type serviceItem struct {
	Key         string  `dynamodbav:"key"`
	Name        string  `dynamodbav:"name"`
	Category    string  `dynamodbav:"category"`
	DefaultRate float64 `dynamodbav:"default_rate"`
	BillingUnit string  `dynamodbav:"billing_unit"`
}

// ServiceDynamoRepository reads and writes the service catalog.
//
// Table requirements:
//   - PK: key (string) = "<category>#<name>"
//
// The catalog is small; ListServices scans the table and orders the result
// by category, then name.
type ServiceDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IServiceCatalogRepository = (*ServiceDynamoRepository)(nil)

func NewServiceDynamoRepository(ddb DynamoAPI, tableName string) *ServiceDynamoRepository {
	return &ServiceDynamoRepository{ddb: ddb, tableName: orDefault(tableName, defaultServicesTableName)}
}

func serviceKey(category, name string) string {
	return strings.ToLower(category) + "#" + name
}

func (r *ServiceDynamoRepository) ListServices(ctx context.Context) ([]entities.Service, error) {
	raw, err := scanAll(ctx, r.ddb, r.tableName)
	if err != nil {
		return nil, eris.Wrap(err, "services: scan")
	}
	var items []serviceItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, eris.Wrap(err, "services: unmarshal")
	}

	out := make([]entities.Service, 0, len(items))
	for _, it := range items {
		out = append(out, entities.Service{
			Name:        it.Name,
			Category:    it.Category,
			DefaultRate: it.DefaultRate,
			BillingUnit: it.BillingUnit,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *ServiceDynamoRepository) PutService(ctx context.Context, s entities.Service) error {
	av, err := attributevalue.MarshalMap(serviceItem{
		Key:         serviceKey(s.Category, s.Name),
		Name:        s.Name,
		Category:    s.Category,
		DefaultRate: s.DefaultRate,
		BillingUnit: s.BillingUnit,
	})
	if err != nil {
		return eris.Wrap(err, "services: marshal item")
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return eris.Wrapf(err, "services: put %s", s.Name)
	}
	return nil
}

type packageItem struct {
	ID             string             `dynamodbav:"id"`
	Name           string             `dynamodbav:"name"`
	ServiceType    string             `dynamodbav:"service_type"`
	TierLevel      *int               `dynamodbav:"tier_level,omitempty"`
	TotalCost      float64            `dynamodbav:"total_cost"`
	TotalHours     float64            `dynamodbav:"total_hours"`
	Description    string             `dynamodbav:"description,omitempty"`
	IsFixedPackage bool               `dynamodbav:"is_fixed_package"`
	Phases         []packagePhaseItem `dynamodbav:"phases"`
}

type packagePhaseItem struct {
	Name      string                `dynamodbav:"name"`
	TotalCost float64               `dynamodbav:"total_cost"`
	LineItems []packageLineItemItem `dynamodbav:"line_items"`
}

type packageLineItemItem struct {
	Name       string  `dynamodbav:"name"`
	Hours      float64 `dynamodbav:"hours"`
	Rate       float64 `dynamodbav:"rate"`
	Cost       float64 `dynamodbav:"cost"`
	IsOptional bool    `dynamodbav:"is_optional"`
}

// PackageDynamoRepository reads and writes package templates.
//
// Table requirements:
//   - PK: id (string)
//
// Phases and their line items are nested lists on the package item, in
// display order. ListPackages orders packages by total cost.
type PackageDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IPackageCatalogRepository = (*PackageDynamoRepository)(nil)

func NewPackageDynamoRepository(ddb DynamoAPI, tableName string) *PackageDynamoRepository {
	return &PackageDynamoRepository{ddb: ddb, tableName: orDefault(tableName, defaultPackagesTableName)}
}

func (r *PackageDynamoRepository) ListPackages(ctx context.Context) ([]entities.Package, error) {
	raw, err := scanAll(ctx, r.ddb, r.tableName)
	if err != nil {
		return nil, eris.Wrap(err, "packages: scan")
	}
	var items []packageItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, eris.Wrap(err, "packages: unmarshal")
	}

	out := make([]entities.Package, 0, len(items))
	for _, it := range items {
		out = append(out, fromPackageItem(it))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalCost != out[j].TotalCost {
			return out[i].TotalCost < out[j].TotalCost
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PackageDynamoRepository) PutPackage(ctx context.Context, p entities.Package) error {
	av, err := attributevalue.MarshalMap(toPackageItem(p))
	if err != nil {
		return eris.Wrap(err, "packages: marshal item")
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return eris.Wrapf(err, "packages: put %s", p.ID)
	}
	return nil
}

func toPackageItem(p entities.Package) packageItem {
	it := packageItem{
		ID:             p.ID,
		Name:           p.Name,
		ServiceType:    p.ServiceType,
		TierLevel:      p.TierLevel,
		TotalCost:      p.TotalCost,
		TotalHours:     p.TotalHours,
		Description:    p.Description,
		IsFixedPackage: p.IsFixedPackage,
		Phases:         make([]packagePhaseItem, 0, len(p.Phases)),
	}
	for _, ph := range p.Phases {
		pi := packagePhaseItem{Name: ph.Name, TotalCost: ph.TotalCost, LineItems: make([]packageLineItemItem, 0, len(ph.LineItems))}
		for _, li := range ph.LineItems {
			pi.LineItems = append(pi.LineItems, packageLineItemItem(li))
		}
		it.Phases = append(it.Phases, pi)
	}
	return it
}

func fromPackageItem(it packageItem) entities.Package {
	p := entities.Package{
		ID:             it.ID,
		Name:           it.Name,
		ServiceType:    it.ServiceType,
		TierLevel:      it.TierLevel,
		TotalCost:      it.TotalCost,
		TotalHours:     it.TotalHours,
		Description:    it.Description,
		IsFixedPackage: it.IsFixedPackage,
		Phases:         make([]entities.PackagePhase, 0, len(it.Phases)),
	}
	for _, ph := range it.Phases {
		pp := entities.PackagePhase{Name: ph.Name, TotalCost: ph.TotalCost, LineItems: make([]entities.PackageLineItem, 0, len(ph.LineItems))}
		for _, li := range ph.LineItems {
			pp.LineItems = append(pp.LineItems, entities.PackageLineItem(li))
		}
		p.Phases = append(p.Phases, pp)
	}
	return p
}

func scanAll(ctx context.Context, ddb DynamoAPI, table string) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	p := dynamodb.NewScanPaginator(ddb, &dynamodb.ScanInput{TableName: aws.String(table)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}
