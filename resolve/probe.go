package resolve

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/jfk9w-go/flu/httpf"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"
)

// Prober reads intrinsic image dimensions from the encoded header.
// It is an opt-in helper for layout-stability hints when neither the caller
// nor the descriptor declares dimensions; the resolver itself never guesses.
type Prober struct {
	Client httpf.Client
}

// Probe fetches a rendition and decodes its dimensions.
func (p Prober) Probe(ctx context.Context, url string) (width, height int64, err error) {
	err = httpf.GET(url).
		Exchange(ctx, p.Client).
		CheckStatus(http.StatusOK).
		HandleFunc(func(resp *http.Response) error {
			config, _, err := image.DecodeConfig(resp.Body)
			if err != nil {
				return errors.Wrap(err, "decode image config")
			}

			width, height = int64(config.Width), int64(config.Height)
			return nil
		}).
		Error()

	return
}
