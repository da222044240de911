package social

import (
	"context"
	"sort"
	"strconv"

	"friend-service/internal/models"
)

// MaxVisibleLabels is how many labels a friend entry shows before it is
// marked as overflowing.
const MaxVisibleLabels = 3

// FilterFriends computes the friend list a viewer sees. With an empty
// selection every accepted friend is returned; otherwise only friends whose
// viewer-side attribute list shares an id with the selection. Labels always
// come from the viewer's own slot. The result is ordered by relationship id.
func FilterFriends(viewerID string, relationships []models.Relationship, selection []int64, labels map[int64]string, profiles map[string]models.Profile) []models.FriendView {
	rels := make([]models.Relationship, len(relationships))
	copy(rels, relationships)
	sort.SliceStable(rels, func(i, j int) bool { return rels[i].ID < rels[j].ID })

	views := make([]models.FriendView, 0, len(rels))
	for _, rel := range rels {
		if rel.Status != models.StatusAccepted || !rel.Involves(viewerID) {
			continue
		}
		own := rel.AttributesOf(viewerID)
		if len(selection) > 0 && !intersects(own, selection) {
			continue
		}

		other := rel.OtherParty(viewerID)
		resolved := ResolveLabels(own, labels)
		view := models.FriendView{
			RelationshipID: rel.ID,
			UserID:         other,
			DisplayName:    profiles[other].DisplayName,
			AvatarURL:      profiles[other].AvatarURL,
			Labels:         resolved,
		}
		if len(resolved) > MaxVisibleLabels {
			view.Labels = resolved[:MaxVisibleLabels]
			view.Overflow = true
		}
		views = append(views, view)
	}
	return views
}

// ResolveLabels maps attribute ids to labels. Ids without a label (deleted
// attributes) render as "ID:<n>".
func ResolveLabels(ids []int64, labels map[int64]string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if label, ok := labels[id]; ok {
			out = append(out, label)
			continue
		}
		out = append(out, "ID:"+strconv.FormatInt(id, 10))
	}
	return out
}

func intersects(have, want []int64) bool {
	if len(have) == 0 || len(want) == 0 {
		return false
	}
	set := make(map[int64]struct{}, len(want))
	for _, id := range want {
		set[id] = struct{}{}
	}
	for _, id := range have {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

// Friends loads the viewer's accepted relationships and applies
// FilterFriends with the given selection.
func (s *Service) Friends(ctx context.Context, viewerID string, selection []int64) ([]models.FriendView, error) {
	rels, err := s.relationships.ListForUser(ctx, viewerID, models.StatusAccepted)
	if err != nil {
		return nil, storeError(err, "list friends")
	}
	attrs, err := s.attributes.ListByOwner(ctx, viewerID)
	if err != nil {
		return nil, storeError(err, "list attributes")
	}
	labels := make(map[int64]string, len(attrs))
	for _, attr := range attrs {
		labels[attr.ID] = attr.Label
	}

	others := make([]string, 0, len(rels))
	for _, rel := range rels {
		others = append(others, rel.OtherParty(viewerID))
	}
	profiles, err := s.lookupProfiles(ctx, others)
	if err != nil {
		return nil, err
	}
	return FilterFriends(viewerID, rels, selection, labels, profiles), nil
}
