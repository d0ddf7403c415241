package sites

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/soldbyofficial/backend/internal/domain"
	"github.com/soldbyofficial/backend/internal/logging"
	"github.com/soldbyofficial/backend/internal/urlparam"
)

// Activate returns rawURL with the site's seller filter applied. ok is false
// when the URL cannot be parsed; the failure is logged and not returned.
func Activate(ctx context.Context, site domain.Site, rawURL string) (string, bool) {
	var (
		out string
		err error
	)

	switch site.Policy {
	case domain.MergeDelimited:
		out, err = urlparam.AddDelimited(rawURL, site.Param.Key, site.Param.Value, site.Delimiter)
	default:
		out, err = urlparam.Add(rawURL, site.Param.Key, site.Param.Value)
	}

	if err != nil {
		transformLogger(ctx).Error().Err(err).Str("site_id", site.ID).Msg("activating transform failed")
		return "", false
	}
	return out, true
}

// Deactivate returns rawURL with the site's filter parameter removed.
func Deactivate(ctx context.Context, site domain.Site, rawURL string) (string, bool) {
	out, err := urlparam.Remove(rawURL, site.Param.Key)
	if err != nil {
		transformLogger(ctx).Error().Err(err).Str("site_id", site.ID).Msg("disabling transform failed")
		return "", false
	}
	return out, true
}

func transformLogger(ctx context.Context) *zerolog.Logger {
	return logging.FromContext(logging.WithComponent(ctx, "sites"))
}
