package handlers

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/famcare-dev/famcare/internal/models"
	"github.com/famcare-dev/famcare/internal/store"
)

// Record loaders shared by the resource handlers. All listings come back
// newest first.

func loadFamily(ctx context.Context, records store.RecordStore, familyID string) (models.Family, error) {
	raw, err := records.Get(ctx, models.FamilyKey(familyID))

	if err != nil {
		return models.Family{}, err
	}

	var family models.Family

	if err := json.Unmarshal(raw, &family); err != nil {
		return models.Family{}, err
	}

	return family, nil
}

func loadMember(ctx context.Context, records store.RecordStore, memberID string) (models.Member, error) {
	raw, err := records.Get(ctx, models.MemberKey(memberID))

	if err != nil {
		return models.Member{}, err
	}

	var member models.Member

	if err := json.Unmarshal(raw, &member); err != nil {
		return models.Member{}, err
	}

	return member, nil
}

func loadFamilyMembers(ctx context.Context, records store.RecordStore, family models.Family) ([]models.Member, error) {
	keys := make([]string, 0, len(family.MemberIDs))

	for _, memberID := range family.MemberIDs {
		keys = append(keys, models.MemberKey(memberID))
	}

	raws, err := records.MGet(ctx, keys...)

	if err != nil {
		return nil, err
	}

	members := make([]models.Member, 0, len(raws))

	for _, raw := range raws {
		var member models.Member

		if err := json.Unmarshal(raw, &member); err != nil {
			return nil, err
		}

		members = append(members, member)
	}

	return members, nil
}

func loadMemberChecks(ctx context.Context, records store.RecordStore, memberID string) ([]models.HealthCheck, error) {
	raws, err := records.GetByPrefix(ctx, models.HealthCheckPrefix(memberID))

	if err != nil {
		return nil, err
	}

	checks := make([]models.HealthCheck, 0, len(raws))

	for _, raw := range raws {
		var check models.HealthCheck

		if err := json.Unmarshal(raw, &check); err != nil {
			return nil, err
		}

		checks = append(checks, check)
	}

	sort.SliceStable(checks, func(i, j int) bool {
		return checks[i].Timestamp.After(checks[j].Timestamp)
	})

	return checks, nil
}

func loadFamilyNotes(ctx context.Context, records store.RecordStore, familyGroupID string) ([]models.Note, error) {
	raws, err := records.GetByPrefix(ctx, models.NotePrefix)

	if err != nil {
		return nil, err
	}

	notes := make([]models.Note, 0, len(raws))

	for _, raw := range raws {
		var note models.Note

		if err := json.Unmarshal(raw, &note); err != nil {
			return nil, err
		}

		if note.FamilyGroupID == familyGroupID {
			notes = append(notes, note)
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})

	return notes, nil
}
