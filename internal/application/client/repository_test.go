package client

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/atelier/backend/internal/domain/client"
	"github.com/atelier/backend/internal/domain/company"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/atelier/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockGateway is a mock implementation of Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) List(ctx context.Context) ([]*client.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*client.Client), args.Error(1)
}

func (m *MockGateway) Create(ctx context.Context, c *client.Client) (*client.Client, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockGateway) Update(ctx context.Context, id int64, c *client.Client) (*client.Client, error) {
	args := m.Called(ctx, id, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockGateway) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func mustClient(t *testing.T, name string) *client.Client {
	t.Helper()
	c, err := client.NewClient(name, "", valueobject.NewCPF("000.000.000-00"), client.GenderOther)
	require.NoError(t, err)
	return c
}

func remoteClient(t *testing.T, name string, remoteID int64) *client.Client {
	t.Helper()
	c := mustClient(t, name)
	c.SetRemoteID(remoteID)
	return c
}

func TestRepositoryRefresh(t *testing.T) {
	t.Run("starts idle", func(t *testing.T) {
		repo := NewRepository(new(MockGateway), company.New(), zap.NewNop())
		assert.Equal(t, PhaseIdle, repo.State().Phase)
	})

	t.Run("success replaces the list wholesale", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("List", mock.Anything).Return([]*client.Client{remoteClient(t, "Ana", 1)}, nil).Once()
		gw.On("List", mock.Anything).Return([]*client.Client{remoteClient(t, "Bruno", 2)}, nil).Once()
		repo := NewRepository(gw, company.New(), zap.NewNop())

		require.NoError(t, repo.Refresh(context.Background()))
		state := repo.State()
		assert.Equal(t, PhaseReady, state.Phase)
		require.Len(t, state.Clients, 1)
		assert.Equal(t, "Ana", state.Clients[0].Name)

		require.NoError(t, repo.Refresh(context.Background()))
		state = repo.State()
		require.Len(t, state.Clients, 1)
		assert.Equal(t, "Bruno", state.Clients[0].Name)
	})

	t.Run("failure keeps the message until cleared", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("List", mock.Anything).Return(nil, errors.New("connection refused"))
		repo := NewRepository(gw, company.New(), zap.NewNop())

		err := repo.Refresh(context.Background())

		require.Error(t, err)
		state := repo.State()
		assert.Equal(t, PhaseError, state.Phase)
		assert.NotEmpty(t, state.Error)
	})

	t.Run("superseded response is discarded", func(t *testing.T) {
		gw := new(MockGateway)
		release := make(chan struct{})
		started := make(chan struct{})

		// first refresh blocks until the second has completed
		gw.On("List", mock.Anything).Return([]*client.Client{remoteClient(t, "Stale", 1)}, nil).Once().Run(func(mock.Arguments) {
			close(started)
			<-release
		})
		gw.On("List", mock.Anything).Return([]*client.Client{remoteClient(t, "Fresh", 2)}, nil).Once()

		repo := NewRepository(gw, company.New(), zap.NewNop())

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Refresh(context.Background())
		}()
		<-started

		require.NoError(t, repo.Refresh(context.Background()))
		close(release)
		wg.Wait()

		state := repo.State()
		assert.Equal(t, PhaseReady, state.Phase)
		require.Len(t, state.Clients, 1)
		assert.Equal(t, "Fresh", state.Clients[0].Name)
	})
}

func TestRepositoryCreate(t *testing.T) {
	t.Run("remote success merges into the held list", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("List", mock.Anything).Return([]*client.Client{}, nil)
		gw.On("Create", mock.Anything, mock.Anything).Return(remoteClient(t, "Ana", 10), nil)
		co := company.New()
		repo := NewRepository(gw, co, zap.NewNop())
		require.NoError(t, repo.Refresh(context.Background()))

		c := mustClient(t, "Ana")
		outcome, err := repo.Create(context.Background(), c)

		require.NoError(t, err)
		assert.Equal(t, SavedRemote, outcome.Mode)
		require.NotNil(t, outcome.Client.RemoteID)
		assert.EqualValues(t, 10, *outcome.Client.RemoteID)
		assert.Len(t, repo.State().Clients, 1)
		assert.Empty(t, co.Snapshot().Clients, "no local fallback on remote success")
	})

	t.Run("before the first refresh the held list stays empty", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Create", mock.Anything, mock.Anything).Return(remoteClient(t, "Ana", 10), nil)
		co := company.New()
		repo := NewRepository(gw, co, zap.NewNop())

		outcome, err := repo.Create(context.Background(), mustClient(t, "Ana"))

		require.NoError(t, err)
		assert.Equal(t, SavedRemote, outcome.Mode)

		// an idle repository reports no clients; the created client
		// lives remotely and surfaces on the first successful refresh
		state := repo.State()
		assert.Equal(t, PhaseIdle, state.Phase)
		assert.Empty(t, state.Clients)
		assert.Empty(t, co.Snapshot().Clients)
	})

	t.Run("remote failure falls back to the company aggregate", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
		co := company.New()
		repo := NewRepository(gw, co, zap.NewNop())

		c := mustClient(t, "Ana")
		outcome, err := repo.Create(context.Background(), c)

		require.NoError(t, err, "degraded success is not an error")
		assert.Equal(t, SavedLocal, outcome.Mode)
		assert.Nil(t, outcome.Client.RemoteID)
		require.Len(t, co.Snapshot().Clients, 1)
		assert.Equal(t, "Ana", co.Snapshot().Clients[0].Name)
		assert.Empty(t, repo.State().Clients)
	})
}

func TestRepositoryUpdateProfile(t *testing.T) {
	cpf := valueobject.NewCPF("000.000.000-00")

	t.Run("held client updates remotely", func(t *testing.T) {
		c := remoteClient(t, "Ana", 10)
		gw := new(MockGateway)
		gw.On("List", mock.Anything).Return([]*client.Client{c}, nil)
		gw.On("Update", mock.Anything, int64(10), mock.Anything).Return(remoteClient(t, "Ana Paula", 10), nil)
		repo := NewRepository(gw, company.New(), zap.NewNop())
		require.NoError(t, repo.Refresh(context.Background()))

		outcome, err := repo.UpdateProfile(context.Background(), c.ID, "Ana Paula", "", client.GenderFeminine, cpf)

		require.NoError(t, err)
		assert.Equal(t, SavedRemote, outcome.Mode)
		assert.Equal(t, "Ana Paula", outcome.Client.Name)

		held := repo.State().Clients
		require.Len(t, held, 1)
		assert.Equal(t, "Ana Paula", held[0].Name)
		gw.AssertExpectations(t)
	})

	t.Run("remote failure lands the edit locally", func(t *testing.T) {
		c := remoteClient(t, "Ana", 10)
		gw := new(MockGateway)
		gw.On("List", mock.Anything).Return([]*client.Client{c}, nil)
		gw.On("Update", mock.Anything, int64(10), mock.Anything).Return(nil, errors.New("boom"))
		co := company.New()
		repo := NewRepository(gw, co, zap.NewNop())
		require.NoError(t, repo.Refresh(context.Background()))

		outcome, err := repo.UpdateProfile(context.Background(), c.ID, "Ana Paula", "", client.GenderFeminine, cpf)

		require.NoError(t, err)
		assert.Equal(t, SavedLocal, outcome.Mode)
		require.Len(t, co.Snapshot().Clients, 1)
		assert.Equal(t, "Ana Paula", co.Snapshot().Clients[0].Name)
	})

	t.Run("local-only client never touches the gateway", func(t *testing.T) {
		gw := new(MockGateway)
		co := company.New()
		c := mustClient(t, "Ana")
		co.AddClient(c)
		repo := NewRepository(gw, co, zap.NewNop())

		outcome, err := repo.UpdateProfile(context.Background(), c.ID, "Ana Paula", "", client.GenderOther, cpf)

		require.NoError(t, err)
		assert.Equal(t, SavedLocal, outcome.Mode)
		assert.Equal(t, "Ana Paula", co.Snapshot().Clients[0].Name)
		gw.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("validation failure leaves the stores untouched", func(t *testing.T) {
		gw := new(MockGateway)
		co := company.New()
		c := mustClient(t, "Ana")
		co.AddClient(c)
		repo := NewRepository(gw, co, zap.NewNop())

		_, err := repo.UpdateProfile(context.Background(), c.ID, "", "", client.GenderOther, cpf)

		require.Error(t, err)
		assert.Equal(t, "Ana", co.Snapshot().Clients[0].Name)
		gw.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown client fails", func(t *testing.T) {
		repo := NewRepository(new(MockGateway), company.New(), zap.NewNop())
		_, err := repo.UpdateProfile(context.Background(), uuid.New(), "Ana", "", client.GenderOther, cpf)
		require.Error(t, err)
	})
}

func TestRepositoryMutateClient(t *testing.T) {
	t.Run("held client mutates under the repository lock", func(t *testing.T) {
		c := remoteClient(t, "Ana", 10)
		gw := new(MockGateway)
		gw.On("List", mock.Anything).Return([]*client.Client{c}, nil)
		repo := NewRepository(gw, company.New(), zap.NewNop())
		require.NoError(t, repo.Refresh(context.Background()))

		updated, err := repo.MutateClient(c.ID, func(cl *client.Client) error {
			cl.AttachPhone(valueobject.NewPhoneNumber("11", "999990000"))
			return nil
		})

		require.NoError(t, err)
		require.Len(t, updated.Phones, 1)

		// the returned value is a copy, detached from the held list
		updated.Name = "changed on the copy"
		held := repo.State().Clients
		require.Len(t, held, 1)
		assert.Equal(t, "Ana", held[0].Name)
		assert.Len(t, held[0].Phones, 1)
	})

	t.Run("delegates to the company aggregate for local clients", func(t *testing.T) {
		gw := new(MockGateway)
		co := company.New()
		c := mustClient(t, "Ana")
		co.AddClient(c)
		repo := NewRepository(gw, co, zap.NewNop())

		updated, err := repo.MutateClient(c.ID, func(cl *client.Client) error {
			cl.AttachDocument(valueobject.NewRG("12.345.678-9"))
			return nil
		})

		require.NoError(t, err)
		assert.Len(t, updated.Documents, 1)
		assert.Len(t, co.Snapshot().Clients[0].Documents, 1)
	})

	t.Run("unknown client fails", func(t *testing.T) {
		repo := NewRepository(new(MockGateway), company.New(), zap.NewNop())
		_, err := repo.MutateClient(uuid.New(), func(*client.Client) error { return nil })
		require.Error(t, err)
	})
}

func TestRepositoryDelete(t *testing.T) {
	t.Run("remote failure is a hard failure with no local fallback", func(t *testing.T) {
		c := remoteClient(t, "Ana", 10)
		gw := new(MockGateway)
		gw.On("Delete", mock.Anything, int64(10)).Return(errors.New("boom"))
		co := company.New()
		co.AddClient(c)
		repo := NewRepository(gw, co, zap.NewNop())

		err := repo.Delete(context.Background(), c.ID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "REMOTE_UNAVAILABLE", domainErr.Code)
		assert.Len(t, co.Snapshot().Clients, 1, "client must not be removed locally")
	})

	t.Run("remote success removes from the held list", func(t *testing.T) {
		c := remoteClient(t, "Ana", 10)
		gw := new(MockGateway)
		gw.On("List", mock.Anything).Return([]*client.Client{c}, nil)
		gw.On("Delete", mock.Anything, int64(10)).Return(nil)
		repo := NewRepository(gw, company.New(), zap.NewNop())
		require.NoError(t, repo.Refresh(context.Background()))

		require.NoError(t, repo.Delete(context.Background(), c.ID))
		assert.Empty(t, repo.State().Clients)
	})

	t.Run("local-only client is removed from the aggregate", func(t *testing.T) {
		gw := new(MockGateway)
		co := company.New()
		c := mustClient(t, "Ana")
		co.AddClient(c)
		repo := NewRepository(gw, co, zap.NewNop())

		require.NoError(t, repo.Delete(context.Background(), c.ID))
		assert.Empty(t, co.Snapshot().Clients)
		gw.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unknown client fails without touching the gateway", func(t *testing.T) {
		gw := new(MockGateway)
		repo := NewRepository(gw, company.New(), zap.NewNop())

		err := repo.Delete(context.Background(), uuid.New())

		require.Error(t, err)
		gw.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestRepositoryAllClients(t *testing.T) {
	t.Run("unions the held list with local fallbacks", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("List", mock.Anything).Return([]*client.Client{remoteClient(t, "Ana", 1)}, nil)
		co := company.New()
		co.AddClient(mustClient(t, "Bruna"))
		repo := NewRepository(gw, co, zap.NewNop())
		require.NoError(t, repo.Refresh(context.Background()))

		all := repo.AllClients()

		require.Len(t, all, 2)
		assert.Equal(t, "Ana", all[0].Name)
		assert.Equal(t, "Bruna", all[1].Name)
	})

	t.Run("a client present in both stores appears once", func(t *testing.T) {
		c := remoteClient(t, "Ana", 1)
		gw := new(MockGateway)
		gw.On("List", mock.Anything).Return([]*client.Client{c}, nil)
		co := company.New()
		co.AddClient(c)
		repo := NewRepository(gw, co, zap.NewNop())
		require.NoError(t, repo.Refresh(context.Background()))

		assert.Len(t, repo.AllClients(), 1)
	})
}

func TestRepositoryClearError(t *testing.T) {
	t.Run("returns to last ready state without re-fetching", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("List", mock.Anything).Return([]*client.Client{remoteClient(t, "Ana", 1)}, nil).Once()
		gw.On("List", mock.Anything).Return(nil, errors.New("boom")).Once()
		repo := NewRepository(gw, company.New(), zap.NewNop())

		require.NoError(t, repo.Refresh(context.Background()))
		require.Error(t, repo.Refresh(context.Background()))
		require.Equal(t, PhaseError, repo.State().Phase)

		repo.ClearError()

		state := repo.State()
		assert.Equal(t, PhaseReady, state.Phase)
		assert.Empty(t, state.Error)
		gw.AssertNumberOfCalls(t, "List", 2)
	})

	t.Run("falls back to idle when never ready", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("List", mock.Anything).Return(nil, errors.New("boom"))
		repo := NewRepository(gw, company.New(), zap.NewNop())

		require.Error(t, repo.Refresh(context.Background()))
		repo.ClearError()

		assert.Equal(t, PhaseIdle, repo.State().Phase)
	})

	t.Run("is a no-op outside the error state", func(t *testing.T) {
		repo := NewRepository(new(MockGateway), company.New(), zap.NewNop())
		repo.ClearError()
		assert.Equal(t, PhaseIdle, repo.State().Phase)
	})
}
