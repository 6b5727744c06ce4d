package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/omarluq/authgate/internal/users"
)

// lookupUser returns the first principal matching criteria that passes
// accept. Store errors and panics are logged and yield None.
func lookupUser(
	ctx context.Context,
	store users.Store,
	criteria users.Criteria,
	accept func(users.Principal) bool,
	log *zerolog.Logger,
) (result mo.Option[users.Principal]) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Str("panic", fmt.Sprint(rec)).
				Msg("user lookup panicked")
			result = mo.None[users.Principal]()
		}
	}()

	if store == nil {
		return mo.None[users.Principal]()
	}

	found, err := store.Search(ctx, criteria)
	if err != nil {
		log.Warn().Err(err).Msg("user lookup failed")
		return mo.None[users.Principal]()
	}

	first, ok := lo.First(found)
	if !ok || first == nil || !accept(first) {
		return mo.None[users.Principal]()
	}
	return mo.Some(first)
}
