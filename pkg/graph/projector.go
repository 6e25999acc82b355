package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/normalizers"
	"github.com/Ramsey-B/laurel/pkg/tracing"
)

// Projector mirrors checked cases into the graph: party nodes merged by
// normalized identifier or name, connected to the case by REPRESENTS,
// OPPOSES and AFFILIATED_WITH edges. Projection is best effort and never
// affects the conflict report. Implements conflicts.Notifier.
type Projector struct {
	client *Client
	logger *zap.Logger
}

// NewProjector creates a graph projector.
func NewProjector(client *Client, logger *zap.Logger) *Projector {
	return &Projector{
		client: client,
		logger: logger,
	}
}

// ConflictChecked projects the checked case and its parties.
func (p *Projector) ConflictChecked(ctx context.Context, snapshot models.CaseSnapshot, report models.ConflictReport) {
	if snapshot.ID == 0 {
		// Ad-hoc checks have no stable case identity to merge on.
		return
	}

	ctx, span := tracing.StartSpan(ctx, "graph.Projector.ConflictChecked")
	defer span.End()

	_, err := p.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx,
			`MERGE (c:Case {id: $id})
			 SET c.case_number = $case_number, c.severity = $severity`,
			map[string]any{
				"id":          snapshot.ID,
				"case_number": snapshot.CaseNumber,
				"severity":    string(report.Severity),
			},
		); err != nil {
			return nil, err
		}

		if err := p.mergeParty(ctx, tx, snapshot.ID, snapshot.Client, "REPRESENTS"); err != nil {
			return nil, err
		}
		if err := p.mergeParty(ctx, tx, snapshot.ID, snapshot.Opponent, "OPPOSES"); err != nil {
			return nil, err
		}
		for _, a := range snapshot.Affiliates {
			if err := p.mergeAffiliate(ctx, tx, snapshot.ID, a); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		p.logger.Warn("graph projection failed", zap.Int64("case_id", snapshot.ID), zap.Error(err))
	}
}

// partyKey derives the merge key for a party node: identifier when
// present, normalized name otherwise.
func partyKey(party models.PartyDescriptor) string {
	if id := normalizers.CompanyID(party.CompanyID); id != "" {
		return "inn:" + id
	}
	if id := normalizers.PersonID(party.PersonID); id != "" {
		return "pinfl:" + id
	}
	if name := normalizers.MatchName(party.Name); name != "" {
		return "name:" + name
	}
	return ""
}

func (p *Projector) mergeParty(ctx context.Context, tx neo4j.ManagedTransaction, caseID int64, party models.PartyDescriptor, rel string) error {
	key := partyKey(party)
	if key == "" {
		return nil
	}

	// rel is one of the package's fixed edge labels, never user input.
	_, err := tx.Run(ctx,
		`MERGE (p:Party {key: $key})
		 SET p.name = $name, p.kind = $kind
		 WITH p
		 MATCH (c:Case {id: $case_id})
		 MERGE (p)-[:`+rel+`]->(c)`,
		map[string]any{
			"key":     key,
			"name":    party.DisplayName(),
			"kind":    string(party.Kind),
			"case_id": caseID,
		},
	)
	return err
}

func (p *Projector) mergeAffiliate(ctx context.Context, tx neo4j.ManagedTransaction, caseID int64, affiliate models.AffiliatedEntity) error {
	key := partyKey(affiliate.PartyDescriptor)
	if key == "" {
		return nil
	}

	_, err := tx.Run(ctx,
		`MERGE (p:Party {key: $key})
		 SET p.name = $name, p.kind = $kind
		 WITH p
		 MATCH (c:Case {id: $case_id})
		 MERGE (p)-[r:AFFILIATED_WITH]->(c)
		 SET r.role = $role`,
		map[string]any{
			"key":     key,
			"name":    affiliate.DisplayName(),
			"kind":    string(affiliate.Kind),
			"case_id": caseID,
			"role":    string(affiliate.Role),
		},
	)
	return err
}
