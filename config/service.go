package config

import (
	"github.com/Station-Manager/errors"
	"github.com/google/go-cmp/cmp"

	"github.com/Station-Manager/root/logging"
	"github.com/Station-Manager/root/stream"
)

// Service wraps the incoming snapshot stream and hands out schema-typed
// projections of it. The stream itself stays owned by the caller; the
// service only derives from it.
type Service struct {
	updates stream.Stream[Snapshot]
	env     Env
	log     logging.Logger
}

// New wraps updates. The factory names the service's own logger; the
// returned Service never mutates the upstream.
func New(updates stream.Stream[Snapshot], env Env, factory logging.Factory) *Service {
	return &Service{
		updates: updates,
		env:     env,
		log:     factory.Get("config"),
	}
}

// Env returns the environment descriptor the service was constructed with.
func (s *Service) Env() Env { return s.env }

// At projects the snapshot stream at a dot-separated path, decoded into
// the schema struct T. The result is cold per-subscription but draws from
// the shared upstream: each subscriber gets its own decode and
// distinct-until-changed state. Decoding failures terminate the derived
// stream with an error carrying the offending path.
func At[T any](s *Service, path string) stream.Stream[T] {
	const op errors.Op = "config.At"

	decoded := stream.MapErr(s.updates, func(snap Snapshot) (T, error) {
		v, err := decode[T](snap.At(path))
		if err != nil {
			return v, errors.New(op).Err(err).Msg("Configuration at path \"" + path + "\" cannot be applied.")
		}
		s.log.DebugWith().Str("path", path).Msg("config path decoded")
		return v, nil
	})

	return stream.Distinct(decoded, func(a, b T) bool { return cmp.Equal(a, b) })
}
