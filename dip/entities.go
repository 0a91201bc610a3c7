package dip

import (
	"context"
	"fmt"
	"strings"
)

// maxProcedureSteps bounds the steps fetched for one procedure.
const maxProcedureSteps = 1000

// getOne fetches a single record by id.
func (c *Client) getOne(ctx context.Context, kind ResourceKind, id string) (Entity, error) {
	res, err := c.Query(ctx, kind, QueryFilters{IDs: []string{id}}, 1, FormatObject)
	if err != nil {
		return nil, err
	}
	if res.NoData() || len(res.Objects) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	for _, e := range res.Objects {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}

// RefreshPerson reloads p from the API and replaces its contents.
func (c *Client) RefreshPerson(ctx context.Context, p *Person) error {
	e, err := c.getOne(ctx, ResourcePerson, p.ID)
	if err != nil {
		return fmt.Errorf("failed to refresh person %s: %w", p.ID, err)
	}
	*p = *e.(*Person)
	return nil
}

// FetchProcedureSteps loads the steps of proc in API order and stores them on proc.Steps.
func (c *Client) FetchProcedureSteps(ctx context.Context, proc *Procedure) ([]ProcedureStep, error) {
	res, err := c.Query(ctx, ResourceProcedureStep, QueryFilters{ProcessID: proc.ID}, maxProcedureSteps, FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch steps of procedure %s: %w", proc.ID, err)
	}

	steps := make([]ProcedureStep, 0, res.Len())
	for i, raw := range res.Records {
		e, err := MapRecord(ResourceProcedureStep, raw)
		if err != nil {
			return nil, &MappingError{Resource: ResourceProcedureStep, Index: i, Err: err}
		}
		steps = append(steps, *e.(*ProcedureStep))
	}

	proc.Steps = steps
	return steps, nil
}

// ActivityProcedure resolves the first procedure the activity refers to.
func (c *Client) ActivityProcedure(ctx context.Context, a *Activity) (*Procedure, error) {
	if a.ProcedureID == nil {
		return nil, fmt.Errorf("%w: activity %s has no procedure reference", ErrNotFound, a.ID)
	}
	e, err := c.getOne(ctx, ResourceProcedure, *a.ProcedureID)
	if err != nil {
		return nil, err
	}
	return e.(*Procedure), nil
}

// ActivityDocument resolves the publication of an activity. It returns a
// *PlenaryProtocol when the reference points at a plenary protocol and a
// *Document otherwise.
func (c *Client) ActivityDocument(ctx context.Context, a *Activity) (Entity, error) {
	if a.DocumentID == nil {
		return nil, fmt.Errorf("%w: activity %s has no document reference", ErrNotFound, a.ID)
	}
	kind := ResourceDocument
	if a.Reference != nil && strings.EqualFold(str(a.Reference.DocKind), "Plenarprotokoll") {
		kind = ResourcePlenaryProtocol
	}
	return c.getOne(ctx, kind, *a.DocumentID)
}

// StepProcedure resolves the procedure a step belongs to.
func (c *Client) StepProcedure(ctx context.Context, s *ProcedureStep) (*Procedure, error) {
	if s.ProcedureID == nil {
		return nil, fmt.Errorf("%w: procedure step %s has no procedure id", ErrNotFound, s.ID)
	}
	e, err := c.getOne(ctx, ResourceProcedure, *s.ProcedureID)
	if err != nil {
		return nil, err
	}
	return e.(*Procedure), nil
}
