package faculty

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"rpsadmin/internal/listctl"
	"rpsadmin/internal/querycache"
	"rpsadmin/internal/rest"
)

const (
	// Endpoint is the resource path under the API base URL.
	Endpoint = "faculties"
	// Tag files every cached faculty read for invalidation.
	Tag = "faculties"
)

// Service reads and mutates faculties. Reads go through the cache;
// successful mutations invalidate Tag.
type Service struct {
	client *rest.Client
	cache  *querycache.Cache
	log    *zap.Logger
}

// NewService wires a Service. A nil logger is replaced with a no-op one.
func NewService(client *rest.Client, cache *querycache.Cache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{client: client, cache: cache, log: log}
}

// Cache returns the cache the service reads through.
func (s *Service) Cache() *querycache.Cache { return s.cache }

// Watch calls fn after every mutation that invalidated cached reads.
func (s *Service) Watch(fn func()) (unsubscribe func()) {
	return s.cache.Subscribe(Tag, fn)
}

func listParams(q listctl.Query) url.Values {
	v := url.Values{}
	v.Set("search", q.Search)
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	return v
}

// List reads one page. It satisfies listctl.Loader[Faculty].
func (s *Service) List(ctx context.Context, q listctl.Query) (listctl.Page[Faculty], error) {
	params := listParams(q)
	key := querycache.NewKey(Endpoint, params)
	return querycache.Fetch(ctx, s.cache, key, []string{Tag}, func(ctx context.Context) (listctl.Page[Faculty], error) {
		env, err := s.client.Get(ctx, params, Endpoint)
		if err != nil {
			return listctl.Page[Faculty]{}, fmt.Errorf("list faculties: %w", err)
		}
		var items []Faculty
		if err := env.DecodeData(&items); err != nil {
			return listctl.Page[Faculty]{}, fmt.Errorf("list faculties: %w", err)
		}
		return listctl.Page[Faculty]{
			Items:    items,
			Total:    env.Total,
			Page:     env.Page,
			Limit:    env.Limit,
			LastPage: env.LastPage,
		}, nil
	})
}

// Load implements listctl.Loader.
func (s *Service) Load(ctx context.Context, q listctl.Query) (listctl.Page[Faculty], error) {
	return s.List(ctx, q)
}

// Create posts a new faculty and returns the server's message.
// in is normalized and validated first; a *validate.Error means no request
// was made.
func (s *Service) Create(ctx context.Context, in Input) (string, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return "", err
	}
	env, err := s.client.Post(ctx, in, Endpoint)
	if err != nil {
		return "", fmt.Errorf("create faculty: %w", err)
	}
	s.log.Info("faculty created", zap.String("name", in.Name))
	s.cache.Invalidate(Tag)
	return env.Message, nil
}

// Update patches faculty id.
func (s *Service) Update(ctx context.Context, id ID, in Input) (string, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return "", err
	}
	env, err := s.client.Patch(ctx, in, Endpoint, id.String())
	if err != nil {
		return "", fmt.Errorf("update faculty %s: %w", id, err)
	}
	s.log.Info("faculty updated", zap.Stringer("id", id))
	s.cache.Invalidate(Tag)
	return env.Message, nil
}

// Delete removes faculty id. The server may refuse (for example while
// departments still reference it); its message is carried by the error.
func (s *Service) Delete(ctx context.Context, id ID) (string, error) {
	env, err := s.client.Delete(ctx, Endpoint, id.String())
	if err != nil {
		return "", fmt.Errorf("delete faculty %s: %w", id, err)
	}
	s.log.Info("faculty deleted", zap.Stringer("id", id))
	s.cache.Invalidate(Tag)
	return env.Message, nil
}
