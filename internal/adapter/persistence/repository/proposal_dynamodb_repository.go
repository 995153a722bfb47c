package repository

import (
	"context"
	"encoding/json"

	"proposal_builder/internal/domain/entities"
	"proposal_builder/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rotisserie/eris"
)

const defaultProposalsTableName = "proposals"

type proposalItem struct {
	ID          string  `dynamodbav:"id"`
	ClientName  string  `dynamodbav:"client_name"`
	ProjectType string  `dynamodbav:"project_type,omitempty"`
	Mode        string  `dynamodbav:"mode,omitempty"`
	Total       float64 `dynamodbav:"total"`
	Payload     string  `dynamodbav:"payload"`
	CreatedAt   string  `dynamodbav:"created_at"`
	UpdatedAt   string  `dynamodbav:"updated_at"`
}

// ProposalDynamoRepository persists saved proposals in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// The full proposal is kept as JSON in payload; client_name, total and the
// timestamps are duplicated as top-level attributes for console browsing.
// Saves are upserts: saving again replaces the previous version.
type ProposalDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IProposalRepository = (*ProposalDynamoRepository)(nil)

func NewProposalDynamoRepository(ddb DynamoAPI, tableName string) *ProposalDynamoRepository {
	return &ProposalDynamoRepository{
		ddb:       ddb,
		tableName: orDefault(tableName, defaultProposalsTableName),
	}
}

func (r *ProposalDynamoRepository) Save(ctx context.Context, p entities.Proposal) (entities.Proposal, error) {
	it, err := toProposalItem(p)
	if err != nil {
		return entities.Proposal{}, err
	}
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Proposal{}, eris.Wrap(err, "proposals: marshal item")
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return entities.Proposal{}, eris.Wrapf(err, "proposals: put %s", p.ID)
	}
	return p, nil
}

func (r *ProposalDynamoRepository) GetByID(ctx context.Context, id string) (entities.Proposal, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Proposal{}, eris.Wrapf(err, "proposals: get %s", id)
	}
	if len(out.Item) == 0 {
		return entities.Proposal{}, nil
	}

	var it proposalItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Proposal{}, eris.Wrap(err, "proposals: unmarshal item")
	}
	return fromProposalItem(it)
}

func toProposalItem(p entities.Proposal) (proposalItem, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return proposalItem{}, eris.Wrap(err, "proposals: encode payload")
	}
	return proposalItem{
		ID:          p.ID,
		ClientName:  p.ClientName,
		ProjectType: p.ProjectType,
		Mode:        string(p.Mode),
		Total:       p.Total,
		Payload:     string(payload),
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}, nil
}

func fromProposalItem(it proposalItem) (entities.Proposal, error) {
	var p entities.Proposal
	if err := json.Unmarshal([]byte(it.Payload), &p); err != nil {
		return entities.Proposal{}, eris.Wrapf(err, "proposals: decode payload %s", it.ID)
	}
	// top-level attributes win over the payload copy
	p.ID = it.ID
	if t := parseTime(it.CreatedAt); !t.IsZero() {
		p.CreatedAt = t
	}
	if t := parseTime(it.UpdatedAt); !t.IsZero() {
		p.UpdatedAt = t
	}
	return p, nil
}
