package social

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friend-service/internal/models"
)

func accepted(id int64, initiator, recipient string, initiatorAttrs, recipientAttrs []int64) models.Relationship {
	return models.Relationship{
		ID:                  id,
		InitiatorID:         initiator,
		RecipientID:         recipient,
		Status:              models.StatusAccepted,
		InitiatorAttributes: pq.Int64Array(initiatorAttrs),
		RecipientAttributes: pq.Int64Array(recipientAttrs),
	}
}

func friendIDs(views []models.FriendView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.UserID)
	}
	return out
}

func TestFilterFriendsEmptySelectionReturnsAllAccepted(t *testing.T) {
	rels := []models.Relationship{
		accepted(2, carol, alice, nil, nil),
		accepted(1, alice, bob, []int64{7}, nil),
		{ID: 3, InitiatorID: alice, RecipientID: "d", Status: models.StatusPending},
		accepted(4, bob, carol, nil, nil),
	}

	views := FilterFriends(alice, rels, nil, nil, nil)
	assert.Equal(t, []string{bob, carol}, friendIDs(views))
	assert.Equal(t, int64(1), views[0].RelationshipID)
}

func TestFilterFriendsUsesViewerSlotOnly(t *testing.T) {
	rels := []models.Relationship{
		// bob tagged alice with 7 from his side; alice did not tag bob.
		accepted(1, alice, bob, nil, []int64{7}),
		accepted(2, carol, alice, []int64{9}, []int64{7}),
	}

	views := FilterFriends(alice, rels, []int64{7}, nil, nil)
	assert.Equal(t, []string{carol}, friendIDs(views))

	views = FilterFriends(bob, rels, []int64{7}, nil, nil)
	assert.Equal(t, []string{alice}, friendIDs(views))
}

func TestFilterFriendsLabelsAndOverflow(t *testing.T) {
	labels := map[int64]string{1: "work", 2: "gym", 3: "family", 4: "climbing"}
	profiles := map[string]models.Profile{bob: {ID: bob, DisplayName: "bob", AvatarURL: "https://img/bob"}}
	rels := []models.Relationship{
		accepted(1, alice, bob, []int64{1, 2, 3, 4}, nil),
		accepted(2, alice, carol, []int64{2, 99}, nil),
	}

	views := FilterFriends(alice, rels, nil, labels, profiles)
	require.Len(t, views, 2)

	assert.Equal(t, "bob", views[0].DisplayName)
	assert.Equal(t, "https://img/bob", views[0].AvatarURL)
	assert.Equal(t, []string{"work", "gym", "family"}, views[0].Labels)
	assert.True(t, views[0].Overflow)

	assert.Equal(t, []string{"gym", "ID:99"}, views[1].Labels)
	assert.False(t, views[1].Overflow)
	assert.Empty(t, views[1].DisplayName)
}

func TestFilterFriendsDoesNotReorderInput(t *testing.T) {
	rels := []models.Relationship{
		accepted(5, alice, bob, nil, nil),
		accepted(1, alice, carol, nil, nil),
	}
	FilterFriends(alice, rels, nil, nil, nil)
	assert.Equal(t, int64(5), rels[0].ID)
}

func TestResolveLabels(t *testing.T) {
	got := ResolveLabels([]int64{1, 2}, map[int64]string{1: "work"})
	assert.Equal(t, []string{"work", "ID:2"}, got)
	assert.Empty(t, ResolveLabels(nil, nil))
}

func TestIntersects(t *testing.T) {
	assert.True(t, intersects([]int64{1, 2}, []int64{2, 3}))
	assert.False(t, intersects([]int64{1, 2}, []int64{3}))
	assert.False(t, intersects(nil, []int64{3}))
	assert.False(t, intersects([]int64{1}, nil))
}

// climbing builds the scenario of a user alice with friends bob and carol,
// where only bob carries alice's "climbing" attribute.
func climbing(t *testing.T) (*Service, *recordingNotifier, models.Attribute) {
	t.Helper()
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	attr, err := svc.CreateAttribute(ctx, alice, "climbing")
	require.NoError(t, err)

	withBob := makeFriends(t, svc, alice, bob)
	makeFriends(t, svc, carol, alice)

	side, ok := withBob.SlotFor(alice)
	require.True(t, ok)
	require.NoError(t, svc.AssignAttributes(ctx, alice, withBob.ID, side, []int64{attr.ID}))

	notifier.intents = nil
	return svc, notifier, attr
}

func TestFriendsSelectionScenario(t *testing.T) {
	svc, _, attr := climbing(t)
	ctx := context.Background()

	all, err := svc.Friends(ctx, alice, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{bob, carol}, friendIDs(all))

	tagged, err := svc.Friends(ctx, alice, []int64{attr.ID})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, bob, tagged[0].UserID)
	assert.Equal(t, "bob", tagged[0].DisplayName)
	assert.Equal(t, []string{"climbing"}, tagged[0].Labels)

	// bob never tagged alice, so his view is unaffected by alice's labels.
	fromBob, err := svc.Friends(ctx, bob, []int64{attr.ID})
	require.NoError(t, err)
	assert.Empty(t, fromBob)
}

func TestFriendsShowsDeletedAttributeByID(t *testing.T) {
	svc, _, attr := climbing(t)
	ctx := context.Background()
	require.NoError(t, svc.DeleteAttribute(ctx, alice, attr.ID))

	tagged, err := svc.Friends(ctx, alice, []int64{attr.ID})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, []string{"ID:1"}, tagged[0].Labels)
}

func TestFriendsDropsFriendOnceAttributeUnassigned(t *testing.T) {
	svc, _, attr := climbing(t)
	ctx := context.Background()

	_, rel, err := svc.Status(ctx, alice, bob)
	require.NoError(t, err)
	require.NotNil(t, rel)
	require.NoError(t, svc.AssignOwnAttributes(ctx, alice, rel.ID, []int64{}))

	tagged, err := svc.Friends(ctx, alice, []int64{attr.ID})
	require.NoError(t, err)
	assert.Empty(t, tagged)

	all, err := svc.Friends(ctx, alice, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{bob, carol}, friendIDs(all))
}
