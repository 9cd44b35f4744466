package client

import (
	"context"
	"sync"

	"github.com/atelier/backend/internal/domain/client"
	"github.com/atelier/backend/internal/domain/company"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/atelier/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gateway abstracts the remote client service consumed by the
// repository. Implemented by the remote package's gateway; mocked in
// tests.
type Gateway interface {
	List(ctx context.Context) ([]*client.Client, error)
	Create(ctx context.Context, c *client.Client) (*client.Client, error)
	Update(ctx context.Context, id int64, c *client.Client) (*client.Client, error)
	Delete(ctx context.Context, id int64) error
}

// Phase is the repository's observable loading state
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseError   Phase = "error"
	PhaseReady   Phase = "ready"
)

// State is a snapshot of the repository's externally visible state
type State struct {
	Phase   Phase
	Clients []*client.Client
	Error   string
}

// SaveMode distinguishes where a mutating operation ended up
type SaveMode string

const (
	// SavedRemote means the remote service accepted the write
	SavedRemote SaveMode = "remote"
	// SavedLocal means the remote service was unavailable and the
	// write landed in the local company aggregate instead.
	SavedLocal SaveMode = "local"
)

// SaveOutcome is the uniform degraded-success result of create and
// update: every call site learns whether the write reached the remote
// service or only the local fallback, without ad hoc branching.
type SaveOutcome struct {
	Mode   SaveMode
	Client *client.Client
}

// Repository orchestrates try-remote-then-local persistence for
// clients. Reads prefer the remote service; when it is unavailable,
// mutations fall back to the company aggregate so nothing is lost for
// the lifetime of the process.
//
// Refreshes are tagged with a generation counter: a response that
// arrives after a newer refresh was issued is discarded, so a slow
// response can never overwrite fresher state.
type Repository struct {
	mu         sync.Mutex
	gw         Gateway
	company    *company.Company
	log        *zap.Logger
	phase      Phase
	clients    []*client.Client
	errMsg     string
	everReady  bool
	generation uint64
}

// NewRepository creates an idle repository
func NewRepository(gw Gateway, co *company.Company, log *zap.Logger) *Repository {
	return &Repository{
		gw:      gw,
		company: co,
		log:     log,
		phase:   PhaseIdle,
	}
}

// State returns the current phase, a copy of the held list and the
// error message.
func (r *Repository) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	clients := make([]*client.Client, len(r.clients))
	for i, held := range r.clients {
		cp := *held
		clients[i] = &cp
	}
	return State{
		Phase:   r.phase,
		Clients: clients,
		Error:   r.errMsg,
	}
}

// Refresh reloads the held list from the remote service. On success
// the list is replaced wholesale, never spliced. A refresh that was
// superseded by a newer one discards its response and reports nothing.
func (r *Repository) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.phase = PhaseLoading
	r.generation++
	gen := r.generation
	r.mu.Unlock()

	clients, err := r.gw.List(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.generation {
		r.log.Debug("discarding superseded refresh response",
			zap.Uint64("generation", gen),
			zap.Uint64("latest", r.generation))
		return nil
	}

	if err != nil {
		r.phase = PhaseError
		r.errMsg = "Could not load clients from the remote service"
		r.log.Warn("client list refresh failed", zap.Error(err))
		return err
	}

	r.clients = clients
	r.phase = PhaseReady
	r.errMsg = ""
	r.everReady = true
	return nil
}

// Create persists a new client, preferring the remote service. When
// the remote write fails the client is added to the company aggregate
// instead and the outcome reports SavedLocal: a degraded success, not
// an error. The outcome always carries a private copy.
func (r *Repository) Create(ctx context.Context, c *client.Client) (SaveOutcome, error) {
	created, err := r.gw.Create(ctx, c)
	if err != nil {
		r.log.Warn("remote create failed, saving client locally",
			zap.String("client", c.Name),
			zap.Error(err))
		local := *c
		r.company.AddClient(&local)
		out := local
		return SaveOutcome{Mode: SavedLocal, Client: &out}, nil
	}

	if created.RemoteID != nil {
		c.SetRemoteID(*created.RemoteID)
	}

	r.mu.Lock()
	// Merge into the held list only once a refresh has populated it.
	// Before the first successful refresh the held list must stay
	// empty so the reported phase and list agree; the client already
	// lives remotely and surfaces on the next refresh.
	if r.everReady {
		held := *c
		r.clients = append(r.clients, &held)
	}
	r.mu.Unlock()

	out := *c
	return SaveOutcome{Mode: SavedRemote, Client: &out}, nil
}

// UpdateProfile edits the identified client's profile under the owning
// lock, then persists the result. Clients known to the remote service
// are updated there, addressed by their remote id; on failure the
// edited copy is reconciled into the company aggregate and the outcome
// reports SavedLocal. Local-only clients are already persisted by the
// locked mutation itself.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, name, socialName string, gender client.Gender, cpf valueobject.CPF) (SaveOutcome, error) {
	updated, err := r.MutateClient(id, func(c *client.Client) error {
		return c.UpdateProfile(name, socialName, gender, cpf)
	})
	if err != nil {
		return SaveOutcome{}, err
	}

	if !updated.HasRemoteID() {
		return SaveOutcome{Mode: SavedLocal, Client: &updated}, nil
	}

	if _, err := r.gw.Update(ctx, *updated.RemoteID, &updated); err != nil {
		r.log.Warn("remote update failed, saving client locally",
			zap.Int64("remote_id", *updated.RemoteID),
			zap.Error(err))
		fallback := updated
		r.company.ReplaceClient(&fallback)
		return SaveOutcome{Mode: SavedLocal, Client: &updated}, nil
	}

	return SaveOutcome{Mode: SavedRemote, Client: &updated}, nil
}

// Delete removes the identified client. For clients known to the
// remote service a remote failure is a hard failure: no local fallback
// is performed, so the remote store never silently diverges on
// deletes. Local-only clients are removed from the company aggregate
// directly.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	target, err := r.Get(id)
	if err != nil {
		return err
	}

	if !target.HasRemoteID() {
		return r.company.RemoveClient(id)
	}

	if err := r.gw.Delete(ctx, *target.RemoteID); err != nil {
		r.log.Warn("remote delete failed",
			zap.Int64("remote_id", *target.RemoteID),
			zap.Error(err))
		return shared.NewDomainError("REMOTE_UNAVAILABLE", "Could not delete client on the remote service")
	}

	r.mu.Lock()
	for i, held := range r.clients {
		if held.ID == id {
			r.clients = append(r.clients[:i], r.clients[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	// purge any fallback copy reconciled while the remote was down
	_ = r.company.RemoveClient(id)

	return nil
}

// Get returns a copy of the client with the given stable ID, looking
// at the held list first and the company aggregate after.
func (r *Repository) Get(id uuid.UUID) (client.Client, error) {
	r.mu.Lock()
	for _, held := range r.clients {
		if held.ID == id {
			cp := *held
			r.mu.Unlock()
			return cp, nil
		}
	}
	r.mu.Unlock()
	return r.company.GetClient(id)
}

// MutateClient applies fn to the identified client under the lock that
// owns it: the repository lock for held clients, the company
// aggregate's lock for locally saved ones. It returns a copy of the
// mutated client; the live pointer never escapes either lock.
func (r *Repository) MutateClient(id uuid.UUID, fn func(*client.Client) error) (client.Client, error) {
	r.mu.Lock()
	for _, held := range r.clients {
		if held.ID == id {
			if err := fn(held); err != nil {
				r.mu.Unlock()
				return client.Client{}, err
			}
			cp := *held
			r.mu.Unlock()
			return cp, nil
		}
	}
	r.mu.Unlock()
	return r.company.MutateClient(id, fn)
}

// AllClients returns the union of the held remote list and the locally
// saved clients, held list first. A client present in both, edited
// locally while the remote service was down, appears once. Every
// element is a private copy, safe to read without any lock.
func (r *Repository) AllClients() []*client.Client {
	r.mu.Lock()
	seen := make(map[uuid.UUID]struct{}, len(r.clients))
	all := make([]*client.Client, 0, len(r.clients))
	for _, held := range r.clients {
		seen[held.ID] = struct{}{}
		cp := *held
		all = append(all, &cp)
	}
	r.mu.Unlock()

	snap := r.company.Snapshot()
	for i := range snap.Clients {
		if _, ok := seen[snap.Clients[i].ID]; ok {
			continue
		}
		all = append(all, &snap.Clients[i])
	}
	return all
}

// ClearError transitions an error state back to the last known ready
// state without re-fetching. A repository that never reached ready
// falls back to idle.
func (r *Repository) ClearError() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseError {
		return
	}
	r.errMsg = ""
	if r.everReady {
		r.phase = PhaseReady
	} else {
		r.phase = PhaseIdle
	}
}
