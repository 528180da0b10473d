package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	"github.com/soundroom/SRS-BookingEngine/internal/integrations/identitysvc"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeClient struct {
	users  map[int64]*identitysvc.User
	groups map[int64]*identitysvc.Group
}

func (f *fakeClient) GetUser(_ context.Context, userID int64) (*identitysvc.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, identitysvc.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeClient) GetGroup(_ context.Context, groupID int64) (*identitysvc.Group, error) {
	g, ok := f.groups[groupID]
	if !ok {
		return nil, identitysvc.ErrGroupNotFound
	}
	return g, nil
}

func newResolver() (*Resolver, *fakeClient) {
	client := &fakeClient{
		users: map[int64]*identitysvc.User{
			10: {ID: 10, Name: "Мария"},
			11: {ID: 11, Name: "Ким"},
		},
		groups: map[int64]*identitysvc.Group{
			5: {ID: 5, Name: "The Band", OwnerUserID: 10, MemberIDs: []int64{11}},
		},
	}
	return NewResolver(client, nopLogger{}), client
}

func TestResolveIndividual(t *testing.T) {
	r, _ := newResolver()

	res, err := r.Resolve(context.Background(), 10, domain.IdentityRef{Kind: domain.IdentityIndividual, ID: 10})

	require.NoError(t, err)
	assert.Equal(t, "Мария", res.HolderName)
	assert.Equal(t, domain.IdentityIndividual, res.Customer.Kind)
	assert.Equal(t, int64(10), res.Customer.ID)
}

func TestResolveIndividualMustMatchActor(t *testing.T) {
	r, _ := newResolver()

	_, err := r.Resolve(context.Background(), 10, domain.IdentityRef{Kind: domain.IdentityIndividual, ID: 11})

	assert.ErrorIs(t, err, ErrInvalidIdentity)
}

func TestResolveGroupMember(t *testing.T) {
	r, _ := newResolver()

	res, err := r.Resolve(context.Background(), 11, domain.IdentityRef{Kind: domain.IdentityGroup, ID: 5})

	require.NoError(t, err)
	// Имя держателя - имя инициатора, а не группы
	assert.Equal(t, "Ким", res.HolderName)
	assert.Equal(t, domain.IdentityGroup, res.Customer.Kind)
}

func TestResolveGroupOwnerCountsAsMember(t *testing.T) {
	r, _ := newResolver()

	_, err := r.Resolve(context.Background(), 10, domain.IdentityRef{Kind: domain.IdentityGroup, ID: 5})

	assert.NoError(t, err)
}

func TestResolveGroupNonMemberRejected(t *testing.T) {
	r, c := newResolver()
	c.users[12] = &identitysvc.User{ID: 12, Name: "Лена"}

	_, err := r.Resolve(context.Background(), 12, domain.IdentityRef{Kind: domain.IdentityGroup, ID: 5})

	assert.ErrorIs(t, err, ErrNotGroupMember)
}

func TestResolveUnknownGroup(t *testing.T) {
	r, _ := newResolver()

	_, err := r.Resolve(context.Background(), 10, domain.IdentityRef{Kind: domain.IdentityGroup, ID: 404})

	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestResolveUnknownActor(t *testing.T) {
	r, _ := newResolver()

	_, err := r.Resolve(context.Background(), 404, domain.IdentityRef{Kind: domain.IdentityIndividual, ID: 404})

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResolveInvalidRef(t *testing.T) {
	r, _ := newResolver()

	tests := []domain.IdentityRef{
		{},
		{Kind: "company", ID: 10},
		{Kind: domain.IdentityIndividual},
	}
	for _, ref := range tests {
		_, err := r.Resolve(context.Background(), 10, ref)
		assert.ErrorIs(t, err, ErrInvalidIdentity)
	}
}
