package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-membership-api/internal/domain/entity"
	"github.com/oksasatya/go-ddd-membership-api/internal/domain/repository"
	"github.com/oksasatya/go-ddd-membership-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-membership-api/pkg/api"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store    *memory.Store
	events   *recordingPublisher
	users    *UserService
	accounts *AccountService
}

func newFixture() *fixture {
	store := memory.NewStore()
	events := &recordingPublisher{}
	return &fixture{
		store:    store,
		events:   events,
		users:    NewUserService(store.Users(), store.Accounts(), store, events, nil, nil),
		accounts: NewAccountService(store.Accounts(), store.Users(), store, events, nil),
	}
}

func (f *fixture) user(t *testing.T, email string) api.User {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), api.User{Email: email, Name: "N", Surname: "S"})
	require.NoError(t, err)
	return u
}

func (f *fixture) account(t *testing.T, name string) api.Account {
	t.Helper()
	a, err := f.accounts.CreateAccount(context.Background(), api.Account{Name: name, Industry: "Tech"})
	require.NoError(t, err)
	return a
}

// assertSymmetric checks that the user view and the account view agree on the pair.
func (f *fixture) assertSymmetric(t *testing.T, userID, accountID int64, linked bool) {
	t.Helper()
	ctx := context.Background()
	u, err := f.users.GetUser(ctx, userID)
	require.NoError(t, err)
	a, err := f.accounts.GetAccount(ctx, accountID)
	require.NoError(t, err)

	if linked {
		assert.Contains(t, *u.AccountIds, accountID)
		assert.Contains(t, *a.UserIds, userID)
	} else {
		assert.NotContains(t, *u.AccountIds, accountID)
		assert.NotContains(t, *a.UserIds, userID)
	}
}

func TestUserService_CreateUser_AssignsIDAndIgnoresClientID(t *testing.T) {
	f := newFixture()
	clientID := int64(999)

	u, err := f.users.CreateUser(context.Background(), api.User{Id: &clientID, Email: "a@x.com", Name: "A", Surname: "B"})
	require.NoError(t, err)

	require.NotNil(t, u.Id)
	assert.NotEqual(t, clientID, *u.Id)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "A", u.Name)
	assert.Equal(t, "B", u.Surname)
	require.NotNil(t, u.AccountIds)
	assert.Empty(t, *u.AccountIds)
	assert.Equal(t, []string{EventUserCreated}, f.events.types())
}

func TestUserService_GetUsers_RoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	empty, err := f.users.GetUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	created := f.user(t, "a@x.com")
	all, err := f.users.GetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created, all[0])
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.users.GetUser(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_Link_UpdatesBothSides(t *testing.T) {
	f := newFixture()
	u := f.user(t, "a@x.com")
	a := f.account(t, "Acme")

	require.NoError(t, f.users.LinkUserToAccountWithMembership(context.Background(), *u.Id, *a.Id))

	f.assertSymmetric(t, *u.Id, *a.Id, true)
	assert.True(t, f.store.Linked(*u.Id, *a.Id))
	assert.Equal(t, []string{EventUserCreated, EventMembershipLinked}, f.events.types())
}

func TestUserService_Link_IsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.user(t, "a@x.com")
	a := f.account(t, "Acme")

	require.NoError(t, f.users.LinkUserToAccountWithMembership(ctx, *u.Id, *a.Id))
	once, err := f.users.GetUser(ctx, *u.Id)
	require.NoError(t, err)

	require.NoError(t, f.users.LinkUserToAccountWithMembership(ctx, *u.Id, *a.Id))
	twice, err := f.users.GetUser(ctx, *u.Id)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, []int64{*a.Id}, *twice.AccountIds)
	assert.Equal(t, []string{EventUserCreated, EventMembershipLinked}, f.events.types(), "second link publishes nothing")
}

func TestUserService_Unlink_RestoresPreLinkState(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.user(t, "a@x.com")
	a := f.account(t, "Acme")

	beforeUser, err := f.users.GetUser(ctx, *u.Id)
	require.NoError(t, err)
	beforeAccount, err := f.accounts.GetAccount(ctx, *a.Id)
	require.NoError(t, err)

	require.NoError(t, f.users.LinkUserToAccountWithMembership(ctx, *u.Id, *a.Id))
	require.NoError(t, f.users.UnlinkUserFromAccountWithMembership(ctx, *u.Id, *a.Id))

	afterUser, err := f.users.GetUser(ctx, *u.Id)
	require.NoError(t, err)
	afterAccount, err := f.accounts.GetAccount(ctx, *a.Id)
	require.NoError(t, err)

	assert.Equal(t, beforeUser, afterUser)
	assert.Equal(t, beforeAccount, afterAccount)
	f.assertSymmetric(t, *u.Id, *a.Id, false)
}

func TestUserService_Unlink_NotLinkedIsNoop(t *testing.T) {
	f := newFixture()
	u := f.user(t, "a@x.com")
	a := f.account(t, "Acme")

	require.NoError(t, f.users.UnlinkUserFromAccountWithMembership(context.Background(), *u.Id, *a.Id))
	f.assertSymmetric(t, *u.Id, *a.Id, false)
	assert.Equal(t, []string{EventUserCreated}, f.events.types())
}

func TestUserService_LinkUnlink_UnknownIDs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.user(t, "a@x.com")
	a := f.account(t, "Acme")

	tests := []struct {
		name      string
		userID    int64
		accountID int64
		want      error
	}{
		{"unknown account", *u.Id, 404, ErrAccountNotFound},
		{"unknown user", 404, *a.Id, ErrUserNotFound},
		{"both unknown", 404, 405, ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, f.users.LinkUserToAccountWithMembership(ctx, tt.userID, tt.accountID), tt.want)
			assert.ErrorIs(t, f.users.UnlinkUserFromAccountWithMembership(ctx, tt.userID, tt.accountID), tt.want)
		})
	}
	f.assertSymmetric(t, *u.Id, *a.Id, false)
}

type failingAccounts struct {
	repository.AccountRepository
	err error
}

func (f failingAccounts) Save(context.Context, *entity.Account) error { return f.err }

func TestUserService_Link_RollsBackUserSideWhenAccountSaveFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.user(t, "a@x.com")
	a := f.account(t, "Acme")

	boom := errors.New("disk full")
	svc := NewUserService(f.store.Users(), failingAccounts{f.store.Accounts(), boom}, f.store, f.events, nil, nil)

	err := svc.LinkUserToAccountWithMembership(ctx, *u.Id, *a.Id)
	assert.ErrorIs(t, err, boom)
	assert.False(t, f.store.Linked(*u.Id, *a.Id))
	f.assertSymmetric(t, *u.Id, *a.Id, false)
}

func TestUserService_CreateUserWithMemberships(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a1 := f.account(t, "One")
	a2 := f.account(t, "Two")

	ids := []int64{*a2.Id, *a1.Id, *a2.Id}
	u, err := f.users.CreateUser(ctx, api.User{Email: "m@x.com", Name: "M", Surname: "S", AccountIds: &ids})
	require.NoError(t, err)

	assert.Equal(t, []int64{*a1.Id, *a2.Id}, *u.AccountIds)
	f.assertSymmetric(t, *u.Id, *a1.Id, true)
	f.assertSymmetric(t, *u.Id, *a2.Id, true)
}

func TestUserService_CreateUserWithMemberships_UnknownAccountCreatesNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.account(t, "One")

	_, err := f.users.CreateUserWithMemberships(ctx, api.User{Email: "m@x.com"}, []int64{*a.Id, 77})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	users, err := f.users.GetUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserService_PublishFailureDoesNotFailLink(t *testing.T) {
	f := newFixture()
	u := f.user(t, "a@x.com")
	a := f.account(t, "Acme")
	f.events.err = errors.New("broker down")

	require.NoError(t, f.users.LinkUserToAccountWithMembership(context.Background(), *u.Id, *a.Id))
	f.assertSymmetric(t, *u.Id, *a.Id, true)
}

func TestUserService_ConcurrentLinkUnlinkKeepsSidesConsistent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.user(t, "a@x.com")
	a := f.account(t, "Acme")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.users.LinkUserToAccountWithMembership(ctx, *u.Id, *a.Id))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, f.users.UnlinkUserFromAccountWithMembership(ctx, *u.Id, *a.Id))
		}()
	}
	wg.Wait()

	f.assertSymmetric(t, *u.Id, *a.Id, f.store.Linked(*u.Id, *a.Id))
}

type stubSearcher struct {
	gotQuery string
	gotSize  int
}

func (s *stubSearcher) Search(_ context.Context, q string, size int) ([]api.User, error) {
	s.gotQuery, s.gotSize = q, size
	return []api.User{{Email: "hit@x.com"}}, nil
}

func TestUserService_SearchUsers(t *testing.T) {
	f := newFixture()

	res, err := f.users.SearchUsers(context.Background(), "hit", 5)
	require.NoError(t, err)
	assert.Empty(t, res, "search disabled returns no hits")

	s := &stubSearcher{}
	f.users.Search = s
	res, err = f.users.SearchUsers(context.Background(), "hit", 500)
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, "hit", s.gotQuery)
	assert.Equal(t, 10, s.gotSize)
}
