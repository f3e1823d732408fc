package membership

import (
	"context"
	"errors"
	"log"
	"time"

	"kahawa-backend/internal/domain/farmer"
	"kahawa-backend/internal/domain/organization"
	"kahawa-backend/internal/domain/outbox"
)

// Usecase keeps a farmer's organization back-reference and the organization's
// cached farmerCount mutually consistent under non-atomic writes. The farmer
// document is always written first; the counter follows as a store-native
// atomic increment, journaled in the outbox so a crash between the two writes
// leaves a replayable record instead of silent drift.
type Usecase struct {
	farmers farmer.Repository
	orgs    organization.Repository
	journal outbox.Repository
}

func NewUsecase(farmers farmer.Repository, orgs organization.Repository, journal outbox.Repository) *Usecase {
	return &Usecase{farmers: farmers, orgs: orgs, journal: journal}
}

// ResolvedMembership is the display view of a farmer's organization link.
// Orphaned marks a reference whose organization document no longer exists;
// such farmers read as independent instead of failing.
type ResolvedMembership struct {
	Type     organization.Type `json:"type"`
	ID       string            `json:"id,omitempty"`
	Name     string            `json:"name,omitempty"`
	Orphaned bool              `json:"orphaned,omitempty"`
}

// AddFarmerToOrganization links one farmer and bumps the counter by one.
func (u *Usecase) AddFarmerToOrganization(ctx context.Context, farmerID string, typ organization.Type, orgID string) error {
	org, err := u.orgs.Get(ctx, typ, orgID)
	if err != nil {
		return err
	}
	if _, err := u.farmers.Get(ctx, farmerID); err != nil {
		return err
	}

	m := farmer.Membership{Type: typ, ID: org.ID, Name: org.Name}
	if err := u.farmers.SetOrganization(ctx, farmerID, m); err != nil {
		return err
	}
	return u.adjustCount(ctx, typ, orgID, 1)
}

type BatchResult struct {
	Requested int `json:"requested"`
	Updated   int `json:"updated"`
}

// AddFarmersToOrganization links each farmer in turn and applies one counter
// increment sized by the number of farmer writes that succeeded, not the
// number attempted. Per-farmer failures are reported through the result.
func (u *Usecase) AddFarmersToOrganization(ctx context.Context, farmerIDs []string, typ organization.Type, orgID string) (BatchResult, error) {
	res := BatchResult{Requested: len(farmerIDs)}

	org, err := u.orgs.Get(ctx, typ, orgID)
	if err != nil {
		return res, err
	}
	m := farmer.Membership{Type: typ, ID: org.ID, Name: org.Name}

	for _, fid := range farmerIDs {
		if err := u.farmers.SetOrganization(ctx, fid, m); err != nil {
			log.Printf("membership: link farmer %s to %s %s: %v", fid, typ, orgID, err)
			continue
		}
		res.Updated++
	}
	if res.Updated == 0 {
		return res, nil
	}
	return res, u.adjustCount(ctx, typ, orgID, res.Updated)
}

// RemoveFarmerFromOrganization resets the farmer to independent and decrements
// the previous organization's counter, floored at zero. Removing an already
// independent farmer is a no-op.
func (u *Usecase) RemoveFarmerFromOrganization(ctx context.Context, farmerID string) error {
	f, err := u.farmers.Get(ctx, farmerID)
	if err != nil {
		return err
	}
	if f.Organization.IsIndependent() {
		return nil
	}
	prev := f.Organization

	if err := u.farmers.SetOrganization(ctx, farmerID, farmer.Independent()); err != nil {
		return err
	}
	if err := u.adjustCount(ctx, prev.Type, prev.ID, -1); err != nil {
		// The previous organization may have been deleted since; the farmer is
		// already independent, which is the state we wanted.
		if errors.Is(err, organization.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// TransferFarmer moves a farmer between organizations as remove-then-add.
func (u *Usecase) TransferFarmer(ctx context.Context, farmerID string, typ organization.Type, orgID string) error {
	if err := u.RemoveFarmerFromOrganization(ctx, farmerID); err != nil {
		return err
	}
	return u.AddFarmerToOrganization(ctx, farmerID, typ, orgID)
}

// ReconcileFarmerCount recomputes the cached counter from the authoritative
// farmer scan and overwrites the stored value. Run on demand or after batch
// mutations to correct drift.
func (u *Usecase) ReconcileFarmerCount(ctx context.Context, typ organization.Type, orgID string) (int, error) {
	if _, err := u.orgs.Get(ctx, typ, orgID); err != nil {
		return 0, err
	}
	count, err := u.farmers.CountByOrganization(ctx, orgID)
	if err != nil {
		return 0, err
	}
	if err := u.orgs.SetFarmerCount(ctx, typ, orgID, count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListMembers returns the farmers whose back-reference points at the
// organization; membership is recovered by scanning farmers, organizations
// keep no member id lists.
func (u *Usecase) ListMembers(ctx context.Context, typ organization.Type, orgID string) ([]farmer.Farmer, error) {
	if _, err := u.orgs.Get(ctx, typ, orgID); err != nil {
		return nil, err
	}
	return u.farmers.ListByOrganization(ctx, orgID)
}

// ResolveOrganization returns the farmer's effective organization. A reference
// to a deleted organization yields the independent fallback with Orphaned set,
// never an error.
func (u *Usecase) ResolveOrganization(ctx context.Context, farmerID string) (*ResolvedMembership, error) {
	f, err := u.farmers.Get(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	if f.Organization.IsIndependent() {
		return &ResolvedMembership{Type: organization.TypeIndependent}, nil
	}
	org, err := u.orgs.Get(ctx, f.Organization.Type, f.Organization.ID)
	if err != nil {
		if errors.Is(err, organization.ErrNotFound) {
			return &ResolvedMembership{Type: organization.TypeIndependent, Orphaned: true}, nil
		}
		return nil, err
	}
	return &ResolvedMembership{Type: org.Type, ID: org.ID, Name: org.Name}, nil
}

// DrainOutbox replays journal rows whose counter increment may never have
// reached the store. Rows younger than the grace period are skipped; their
// increments are normally still in flight.
func (u *Usecase) DrainOutbox(ctx context.Context, grace time.Duration) (int, error) {
	stale, err := u.journal.ListStale(ctx, time.Now().UTC().Add(-grace))
	if err != nil {
		return 0, err
	}
	applied := 0
	for i := range stale {
		adj := &stale[i]
		err := u.orgs.IncrementFarmerCount(ctx, organization.Type(adj.OrgType), adj.OrgID, adj.Delta)
		if err != nil && !errors.Is(err, organization.ErrNotFound) {
			return applied, err
		}
		if err := u.journal.Delete(ctx, adj.ID); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// adjustCount journals the delta, applies the atomic increment, then clears
// the journal row. A failure after the farmer write leaves the counter
// under-reporting until drain or reconciliation catches up; that is drift,
// not corruption, and is surfaced to the caller either way.
func (u *Usecase) adjustCount(ctx context.Context, typ organization.Type, orgID string, delta int) error {
	adj := &outbox.CounterAdjustment{OrgID: orgID, OrgType: string(typ), Delta: delta}
	journaled := true
	if err := u.journal.Append(ctx, adj); err != nil {
		// Journal unavailability must not block the membership change; the
		// increment still goes straight to the store.
		log.Printf("membership: outbox append for %s %s: %v", typ, orgID, err)
		journaled = false
	}

	if err := u.orgs.IncrementFarmerCount(ctx, typ, orgID, delta); err != nil {
		return err
	}
	if journaled {
		if err := u.journal.Delete(ctx, adj.ID); err != nil {
			log.Printf("membership: outbox delete %d: %v", adj.ID, err)
		}
	}
	return nil
}
